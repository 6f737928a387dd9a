package ui

import (
	"fyne.io/fyne/v2"

	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
)

// Window implements host.NativeWindow over a fyne window. fyne does not
// expose window positions, so X and Y of the bounds are only remembered.
type Window struct {
	host.WindowBase

	host *Host
	id   int
	fw   fyne.Window
	root *fyne.Container

	bounds  geometry.Rect
	visible bool

	contents    *content.View
	contentsOff func()
	chrome      *surface
	surfaces    map[host.ContentView]*surface
}

// shellLayout places every surface at its view's bounds and notices when
// the user resizes the window.
type shellLayout struct {
	w *Window
}

func (l *shellLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	w := l.w
	if w.IsDestroyed() {
		return
	}
	width, height := int(size.Width), int(size.Height)
	if width != w.bounds.Width || height != w.bounds.Height {
		r := geometry.Rect{X: w.bounds.X, Y: w.bounds.Y, Width: width, Height: height}
		// Listeners move views, which lays the window out again.
		fyne.Do(func() { w.handleSize(r) })
	}

	w.chrome.box.Move(fyne.NewPos(0, 0))
	w.chrome.box.Resize(size)
	if s := w.surfaces[w.PrimaryView()]; s != nil {
		s.place()
	}
	for _, v := range w.Views() {
		if s := w.surfaces[v]; s != nil {
			s.place()
		}
	}
}

func (l *shellLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, 0)
}

func (w *Window) handleSize(r geometry.Rect) {
	if w.IsDestroyed() || r == w.bounds {
		return
	}
	w.bounds = r
	w.contents.SetBounds(geometry.Rect{Width: r.Width, Height: r.Height})
	w.EmitResized(r)
}

func (w *Window) relayout() {
	if !w.IsDestroyed() {
		w.root.Refresh()
	}
}

// restack rebuilds the canvas: own page at the bottom, then the primary
// view, then the floating views bottom first.
func (w *Window) restack() {
	objects := []fyne.CanvasObject{w.chrome.box}
	if s := w.surfaces[w.PrimaryView()]; s != nil {
		objects = append(objects, s.box)
	}
	for _, v := range w.Views() {
		if s := w.surfaces[v]; s != nil {
			objects = append(objects, s.box)
		}
	}
	w.root.Objects = objects
	w.relayout()
}

// attach returns the surface of v, creating it on first use. Views from
// another content host cannot be drawn and get none.
func (w *Window) attach(v host.ContentView) *surface {
	if s, ok := w.surfaces[v]; ok {
		return s
	}
	cv, ok := v.(*content.View)
	if !ok {
		w.host.log.Warn("view from another content host", "window", w.id, "view", v.ID())
		return nil
	}
	s := newSurface(cv, w.relayout)
	w.surfaces[v] = s
	return s
}

// detach drops the surface of v unless the window still shows it.
func (w *Window) detach(v host.ContentView) {
	if v == nil || w.HasView(v) {
		return
	}
	if s, ok := w.surfaces[v]; ok {
		s.release()
		delete(w.surfaces, v)
	}
}

// handleStack keeps the canvas in step with the view stack.
func (w *Window) handleStack(added, removed host.ContentView) {
	if added != nil {
		w.attach(added)
	}
	w.detach(removed)
	w.restack()
}

func (w *Window) ID() int { return w.id }
func (w *Window) Bounds() geometry.Rect { return w.bounds }

// SetBounds resizes the fyne window. The resized signal follows from the
// next layout pass.
func (w *Window) SetBounds(r geometry.Rect) {
	if w.IsDestroyed() {
		return
	}
	w.bounds.X, w.bounds.Y = r.X, r.Y
	w.fw.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
}

// Show shows the window. fyne focuses a window when it is shown.
func (w *Window) Show() {
	if w.IsDestroyed() {
		return
	}
	w.fw.Show()
	w.visible = true
	w.host.setFocused(w)
}

func (w *Window) Hide() {
	if w.IsDestroyed() {
		return
	}
	w.fw.Hide()
	w.visible = false
}

func (w *Window) IsVisible() bool { return w.visible }

func (w *Window) Focus() {
	if w.IsDestroyed() {
		return
	}
	w.fw.RequestFocus()
	w.host.setFocused(w)
}

func (w *Window) Contents() host.ContentView { return w.contents }
func (w *Window) LoadURL(url string) error { return w.contents.LoadURL(url) }
func (w *Window) LoadFile(path string) error { return w.contents.LoadFile(path) }

// RequestClose runs the close-requested handlers and destroys the window
// unless one of them prevented it. fyne calls it for the window's close
// button.
func (w *Window) RequestClose() bool {
	return w.ConfirmClose(w.Destroy)
}

// Destroy closes the fyne window and the window's own page, then fires
// closed.
func (w *Window) Destroy() {
	if !w.BeginDestroy() {
		return
	}
	w.visible = false
	for v, s := range w.surfaces {
		s.release()
		delete(w.surfaces, v)
	}
	w.chrome.release()
	w.contentsOff()
	w.contents.Destroy()
	w.host.remove(w)
	w.fw.Close()
	w.host.log.Debug("window destroyed", "window", w.id)
	w.FinishDestroy()
}
