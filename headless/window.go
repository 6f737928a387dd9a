package headless

import (
	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
)

// Window implements host.NativeWindow in memory. The view stack and the
// window signals come from the embedded host.WindowBase.
type Window struct {
	host.WindowBase

	host  *Host
	id    int
	title string

	bounds  geometry.Rect
	visible bool

	contents    *content.View
	contentsOff func()
}

func (w *Window) ID() int { return w.id }
func (w *Window) Title() string { return w.title }
func (w *Window) Bounds() geometry.Rect { return w.bounds }

// SetBounds moves or resizes the window. A change of size or position
// fires the resized signal.
func (w *Window) SetBounds(r geometry.Rect) {
	if w.IsDestroyed() || r == w.bounds {
		return
	}
	w.bounds = r
	w.contents.SetBounds(geometry.Rect{Width: r.Width, Height: r.Height})
	w.EmitResized(r)
}

// Resize is SetBounds keeping the position, as a user drag would.
func (w *Window) Resize(width, height int) {
	w.SetBounds(geometry.Rect{X: w.bounds.X, Y: w.bounds.Y, Width: width, Height: height})
}

func (w *Window) Show() {
	if !w.IsDestroyed() {
		w.visible = true
	}
}

func (w *Window) Hide() { w.visible = false }
func (w *Window) IsVisible() bool { return w.visible }

// Focus makes w the focused window of its host.
func (w *Window) Focus() {
	if !w.IsDestroyed() {
		w.host.setFocused(w)
	}
}

// Contents returns the window's own page.
func (w *Window) Contents() host.ContentView { return w.contents }
func (w *Window) LoadURL(url string) error { return w.contents.LoadURL(url) }
func (w *Window) LoadFile(path string) error { return w.contents.LoadFile(path) }

// RequestClose simulates the user closing the window. It reports whether
// the window was destroyed.
func (w *Window) RequestClose() bool {
	return w.ConfirmClose(w.Destroy)
}

// Destroy releases the window and its own page, then fires closed.
func (w *Window) Destroy() {
	if !w.BeginDestroy() {
		return
	}
	w.visible = false
	w.contentsOff()
	w.contents.Destroy()
	w.host.remove(w)
	w.host.log.Debug("window destroyed", "window", w.id)
	w.FinishDestroy()
}
