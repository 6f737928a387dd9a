package engine

import (
	"github.com/google/uuid"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
)

// OverlayOptions configures a floating view such as a menu or picker.
type OverlayOptions struct {
	URL             string
	File            string
	BackgroundColor string
	Bounds          geometry.Rect
	AutoResize      host.AutoResize
	Session         *Session
}

func (o OverlayOptions) validate() error {
	if o.URL != "" && o.File != "" {
		return newError(ErrInvalidOptions, "overlay URL and File are mutually exclusive")
	}
	return nil
}

// Overlay is a floating view layered above a window's tabs.
type Overlay struct {
	id   string
	view host.ContentView

	backgroundColor string
	bounds          geometry.Rect
	autoResize      host.AutoResize
	topMost         bool
	// applied is false while the requested bounds wait for the first load.
	applied bool

	subs      event.Subscriptions
	destroyed bool
}

func newOverlay(ch host.ContentHost, opts OverlayOptions) (*Overlay, error) {
	bg := opts.BackgroundColor
	if bg == "" {
		bg = DefaultBackgroundColor
	}
	view, err := ch.CreateView(host.ViewOptions{
		BackgroundColor: bg,
		Partition:       opts.Session.hostPartition(),
	})
	if err != nil {
		return nil, err
	}

	o := &Overlay{
		id:              uuid.NewString(),
		view:            view,
		backgroundColor: bg,
		bounds:          opts.Bounds,
		autoResize:      opts.AutoResize,
	}
	view.SetBackgroundColor(bg)
	view.SetAutoResize(opts.AutoResize)
	return o, nil
}

// load starts loading the overlay content. The requested bounds are only
// applied once the first load finishes so an empty view never flashes;
// overlays with nothing to load are placed immediately.
func (o *Overlay) load(opts OverlayOptions) error {
	if opts.URL == "" && opts.File == "" {
		o.applyBounds()
		return nil
	}

	var off func()
	off = o.view.Subscribe(func(ev host.ContentEvent) {
		if ev.Kind != host.LoadFinish {
			return
		}
		off()
		o.applyBounds()
	})
	o.subs.Add(off)

	if opts.URL != "" {
		return o.view.LoadURL(opts.URL)
	}
	return o.view.LoadFile(opts.File)
}

func (o *Overlay) applyBounds() {
	if o.destroyed {
		return
	}
	o.applied = true
	o.view.SetBounds(o.bounds)
}

// resize follows a window resize from prev to next according to the
// overlay's auto-resize flags.
func (o *Overlay) resize(prev, next geometry.Rect) {
	ar := o.autoResize
	if !(ar.Width || ar.Height || ar.Horizontal || ar.Vertical) {
		return
	}
	b := o.bounds
	switch {
	case ar.Horizontal && prev.Width > 0:
		b.X = b.X * next.Width / prev.Width
		b.Width = b.Width * next.Width / prev.Width
	case ar.Width:
		b.Width += next.Width - prev.Width
	}
	switch {
	case ar.Vertical && prev.Height > 0:
		b.Y = b.Y * next.Height / prev.Height
		b.Height = b.Height * next.Height / prev.Height
	case ar.Height:
		b.Height += next.Height - prev.Height
	}
	o.bounds = b
	if o.applied {
		o.view.SetBounds(b)
	}
}

func (o *Overlay) detach() {
	o.subs.Release()
}

func (o *Overlay) destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.detach()
	o.topMost = false
	o.view.Destroy()
}

// ID returns the overlay's stable id.
func (o *Overlay) ID() string { return o.id }

// View returns the host view backing the overlay.
func (o *Overlay) View() host.ContentView { return o.view }

// Bounds returns the requested rectangle, applied or not.
func (o *Overlay) Bounds() geometry.Rect { return o.bounds }

// SetBounds moves the overlay immediately.
func (o *Overlay) SetBounds(r geometry.Rect) {
	if o.destroyed {
		return
	}
	o.bounds = r
	o.applyBounds()
}

// BackgroundColor returns the color shown behind the overlay content.
func (o *Overlay) BackgroundColor() string { return o.backgroundColor }

// SetBackgroundColor changes the color shown behind the overlay content.
func (o *Overlay) SetBackgroundColor(color string) {
	if o.destroyed {
		return
	}
	o.backgroundColor = color
	o.view.SetBackgroundColor(color)
}

// TopMost reports whether the overlay is currently raised above all views.
func (o *Overlay) TopMost() bool { return o.topMost }

// IsDestroyed reports whether the overlay has been torn down.
func (o *Overlay) IsDestroyed() bool { return o.destroyed }
