package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/host"
)

var defaultBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// surface is the canvas object standing in for one content view: the
// view's background with its title, address and load state on top.
type surface struct {
	view     *content.View
	bg       *canvas.Rectangle
	title    *widget.Label
	address  *widget.Label
	progress *widget.ProgressBarInfinite
	box      *fyne.Container
	offs     []func()
}

// newSurface builds the surface for v. onGeometry runs when the view's
// bounds change so the window can lay it out again.
func newSurface(v *content.View, onGeometry func()) *surface {
	s := &surface{
		view:     v,
		bg:       canvas.NewRectangle(defaultBackground),
		title:    widget.NewLabel(""),
		address:  widget.NewLabel(""),
		progress: widget.NewProgressBarInfinite(),
	}
	s.title.TextStyle = fyne.TextStyle{Bold: true}
	s.title.Truncation = fyne.TextTruncateEllipsis
	s.address.Truncation = fyne.TextTruncateEllipsis
	s.box = container.NewStack(s.bg, container.NewPadded(container.NewVBox(s.title, s.address, s.progress)))

	s.offs = append(s.offs,
		v.Subscribe(func(host.ContentEvent) { s.update() }),
		v.OnChanged(func() {
			s.update()
			onGeometry()
		}),
	)
	s.update()
	return s
}

func (s *surface) update() {
	s.bg.FillColor = colorOr(s.view.BackgroundColor(), defaultBackground)
	s.bg.Refresh()
	s.title.SetText(s.view.Title())
	s.address.SetText(s.view.URL())
	if s.view.IsLoading() {
		s.progress.Show()
		s.progress.Start()
	} else {
		s.progress.Stop()
		s.progress.Hide()
	}
}

// place moves the surface to the view's bounds.
func (s *surface) place() {
	b := s.view.Bounds()
	s.box.Move(fyne.NewPos(float32(b.X), float32(b.Y)))
	s.box.Resize(fyne.NewSize(float32(b.Width), float32(b.Height)))
}

func (s *surface) release() {
	for _, off := range s.offs {
		off()
	}
	s.offs = nil
}
