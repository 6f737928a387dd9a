package engine

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
)

// WindowOptions configures a window. URL and File load the window's own
// chrome content and are mutually exclusive.
type WindowOptions struct {
	Title           string
	Width           int
	Height          int
	BackgroundColor string
	Offset          geometry.Offset
	URL             string
	File            string
	// WaitForLoad keeps the native window hidden until its chrome content
	// signals it is ready to show.
	WaitForLoad bool
	Session     *Session
}

func (o WindowOptions) validate() error {
	if o.URL != "" && o.File != "" {
		return newError(ErrInvalidOptions, "window URL and File are mutually exclusive")
	}
	return nil
}

// OffsetEvent is emitted after a window's offset changes.
type OffsetEvent struct {
	Window *Window
	Offset geometry.Offset
}

// ResizeEvent is emitted after the native window is resized.
type ResizeEvent struct {
	Window *Window
	Bounds geometry.Rect
}

// OverlayEvent carries the overlay affected by a window event. Overlay is
// nil in a TopOverlayChanged event when no overlay is on top any more.
type OverlayEvent struct {
	Window  *Window
	Overlay *Overlay
}

// Window owns one native window, its TabManager and its overlays.
type Window struct {
	id      string
	native  host.NativeWindow
	content host.ContentHost
	session *Session
	tabs    *TabManager

	overlays []*Overlay
	top      *Overlay

	offset geometry.Offset
	bounds geometry.Rect // last outer rect seen, for overlay auto-resize
	state  State
	subs   event.Subscriptions
	log    *slog.Logger

	offsetChanged     event.Emitter[OffsetEvent]
	resized           event.Emitter[ResizeEvent]
	overlayAdded      event.Emitter[OverlayEvent]
	overlayRemoved    event.Emitter[OverlayEvent]
	topOverlayChanged event.Emitter[OverlayEvent]
}

func newWindow(wh host.WindowHost, ch host.ContentHost, opts WindowOptions, log *slog.Logger) (*Window, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	bg := opts.BackgroundColor
	if bg == "" {
		bg = DefaultBackgroundColor
	}
	native, err := wh.CreateWindow(host.NativeWindowOptions{
		Title:           opts.Title,
		Width:           opts.Width,
		Height:          opts.Height,
		BackgroundColor: bg,
		Partition:       opts.Session.hostPartition(),
	})
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	w := &Window{
		id:      id,
		native:  native,
		content: ch,
		session: opts.Session,
		offset:  opts.Offset,
		bounds:  native.Bounds(),
		log:     log.With("window", id),
	}
	w.tabs = newTabManager(w, ch)
	w.subs.Add(native.OnResized(w.handleResize))
	w.subs.Add(native.OnClosed(w.handleNativeClosed))

	hasChrome := opts.URL != "" || opts.File != ""
	if opts.WaitForLoad && hasChrome {
		var off func()
		off = native.OnReadyToShow(func() {
			off()
			if w.state == StateOpen {
				w.log.Debug("ready to show")
				native.Show()
			}
		})
		w.subs.Add(off)
	}

	switch {
	case opts.URL != "":
		err = native.LoadURL(opts.URL)
	case opts.File != "":
		err = native.LoadFile(opts.File)
	}
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	if !opts.WaitForLoad || !hasChrome {
		native.Show()
	}
	return w, nil
}

func (w *Window) handleResize(r geometry.Rect) {
	if w.state != StateOpen {
		return
	}
	prev := w.bounds
	w.bounds = r
	for _, o := range w.overlays {
		o.resize(prev, r)
	}
	w.resized.Emit(ResizeEvent{Window: w, Bounds: r})
}

// handleNativeClosed tears the window down when the host destroyed the
// native window without going through Close.
func (w *Window) handleNativeClosed() {
	if w.state == StateOpen {
		w.log.Debug("native window closed by host")
		_ = w.Close()
	}
}

// ID returns the window's stable id.
func (w *Window) ID() string { return w.id }

// Native returns the native window handle.
func (w *Window) Native() host.NativeWindow { return w.native }

// Tabs returns the window's tab manager.
func (w *Window) Tabs() *TabManager { return w.tabs }

// Session returns the session the window was created with, or nil.
func (w *Window) Session() *Session { return w.session }

// State returns the lifecycle state.
func (w *Window) State() State { return w.state }

// OnOffsetChanged registers fn for offset changes.
func (w *Window) OnOffsetChanged(fn func(OffsetEvent)) func() {
	return w.offsetChanged.On(fn)
}

// OnResized registers fn for native resizes.
func (w *Window) OnResized(fn func(ResizeEvent)) func() {
	return w.resized.On(fn)
}

// OnOverlayAdded registers fn for new overlays.
func (w *Window) OnOverlayAdded(fn func(OverlayEvent)) func() {
	return w.overlayAdded.On(fn)
}

// OnOverlayRemoved registers fn for removed overlays.
func (w *Window) OnOverlayRemoved(fn func(OverlayEvent)) func() {
	return w.overlayRemoved.On(fn)
}

// OnTopOverlayChanged registers fn for changes of the top overlay.
func (w *Window) OnTopOverlayChanged(fn func(OverlayEvent)) func() {
	return w.topOverlayChanged.On(fn)
}

// Offset returns the chrome insets.
func (w *Window) Offset() geometry.Offset { return w.offset }

// SetOffset stores new chrome insets and notifies listeners, the tab
// manager included, before returning.
func (w *Window) SetOffset(offset geometry.Offset) error {
	if err := checkOpen(w.state, "window"); err != nil {
		return err
	}
	w.offset = offset
	w.offsetChanged.Emit(OffsetEvent{Window: w, Offset: offset})
	return nil
}

// Bounds returns the outer rectangle of the native window.
func (w *Window) Bounds() geometry.Rect {
	return w.native.Bounds()
}

// SetBounds resizes the native window.
func (w *Window) SetBounds(r geometry.Rect) error {
	if err := checkOpen(w.state, "window"); err != nil {
		return err
	}
	w.native.SetBounds(r)
	return nil
}

// ContentBounds returns the rectangle tabs occupy.
func (w *Window) ContentBounds() geometry.Rect {
	return geometry.CalculateBounds(w.native.Bounds(), w.offset)
}

func (w *Window) Show() {
	if w.state == StateOpen {
		w.native.Show()
	}
}

func (w *Window) Hide() {
	if w.state == StateOpen {
		w.native.Hide()
	}
}

func (w *Window) Focus() {
	if w.state == StateOpen {
		w.native.Focus()
	}
}

func (w *Window) setPrimaryView(v host.ContentView) {
	if w.native.IsDestroyed() {
		return
	}
	w.native.SetPrimaryView(v)
}

// hasView reports whether v belongs to the window's chrome, tabs or overlays.
func (w *Window) hasView(v host.ContentView) bool {
	if v == nil {
		return false
	}
	if c := w.native.Contents(); c != nil && c.ID() == v.ID() {
		return true
	}
	for _, t := range w.tabs.tabs {
		if t.view.ID() == v.ID() {
			return true
		}
	}
	for _, o := range w.overlays {
		if o.view.ID() == v.ID() {
			return true
		}
	}
	return false
}

func (w *Window) resolveOverlay(sel OverlaySelector) (int, *Overlay, bool) {
	for i, o := range w.overlays {
		if sel.match(o, o.id) {
			return i, o, true
		}
	}
	return -1, nil, false
}

// CreateOverlay creates a floating view above the window's tabs.
func (w *Window) CreateOverlay(opts OverlayOptions) (*Overlay, error) {
	if err := checkOpen(w.state, "window"); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Session == nil {
		opts.Session = w.session
	}

	o, err := newOverlay(w.content, opts)
	if err != nil {
		return nil, err
	}
	w.native.AddView(o.view)
	w.overlays = append(w.overlays, o)

	if err := o.load(opts); err != nil {
		w.overlays = slices.DeleteFunc(w.overlays, func(cur *Overlay) bool { return cur == o })
		w.native.RemoveView(o.view)
		o.destroy()
		return nil, err
	}

	w.log.Debug("overlay added", "overlay", o.id)
	w.overlayAdded.Emit(OverlayEvent{Window: w, Overlay: o})
	return o, nil
}

// DeleteOverlay destroys the selected overlay. Unknown overlays are
// ignored so a double dismiss is harmless; the result reports whether an
// overlay was removed.
func (w *Window) DeleteOverlay(sel OverlaySelector) bool {
	if w.state != StateOpen {
		return false
	}
	i, o, ok := w.resolveOverlay(sel)
	if !ok {
		return false
	}

	o.detach()
	w.overlays = slices.Delete(w.overlays, i, i+1)
	wasTop := w.top == o
	if wasTop {
		w.top = nil
		w.native.SetTopView(nil)
	}
	w.native.RemoveView(o.view)
	o.destroy()

	w.log.Debug("overlay removed", "overlay", o.id, "top", wasTop)
	w.overlayRemoved.Emit(OverlayEvent{Window: w, Overlay: o})
	if wasTop {
		w.topOverlayChanged.Emit(OverlayEvent{Window: w})
	}
	return true
}

// SetTopOverlay raises the selected overlay above every other view.
// Unknown overlays are ignored.
func (w *Window) SetTopOverlay(sel OverlaySelector) bool {
	if w.state != StateOpen {
		return false
	}
	_, o, ok := w.resolveOverlay(sel)
	if !ok {
		return false
	}

	if w.top != nil && w.top != o {
		w.top.topMost = false
	}
	w.top = o
	o.topMost = true
	w.native.SetTopView(o.view)

	w.topOverlayChanged.Emit(OverlayEvent{Window: w, Overlay: o})
	return true
}

// Overlay returns the overlay with id, or nil.
func (w *Window) Overlay(id string) *Overlay {
	if _, o, ok := w.resolveOverlay(OverlayByID(id)); ok {
		return o
	}
	return nil
}

// Overlays returns the overlays in creation order.
func (w *Window) Overlays() []*Overlay {
	return slices.Clone(w.overlays)
}

// TopOverlay returns the overlay raised by SetTopOverlay, or nil.
func (w *Window) TopOverlay() *Overlay {
	return w.top
}

// Close tears the window down: the tab manager first, then the overlays,
// then the native window. Calls made while a close is in flight return
// nil; calls after it has finished return ErrClosed.
func (w *Window) Close() error {
	if done, err := beginClose(&w.state, "window"); done {
		return err
	}
	w.log.Debug("closing window")

	if err := w.tabs.Close(); err != nil && !errors.Is(err, ErrClosed) {
		w.log.Warn("close tab manager", "error", err)
	}

	overlays := w.overlays
	w.overlays = nil
	w.top = nil
	for _, o := range overlays {
		o.detach()
		if !w.native.IsDestroyed() {
			w.native.RemoveView(o.view)
		}
		o.destroy()
	}

	w.subs.Release()
	if !w.native.IsDestroyed() {
		w.native.Destroy()
	}

	w.state = StateClosed
	w.offsetChanged.Clear()
	w.resized.Clear()
	w.overlayAdded.Clear()
	w.overlayRemoved.Clear()
	w.topOverlayChanged.Clear()
	return nil
}
