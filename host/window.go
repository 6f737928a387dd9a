package host

import (
	"slices"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
)

// WindowBase holds the toolkit-independent part of a NativeWindow: the
// primary view, the floating view stack, ready-to-show tracking and the
// window signals. Window hosts embed it and add drawing on top.
//
// The zero value is ready to use.
type WindowBase struct {
	primary ContentView
	// views is the floating stack, bottom first.
	views     []ContentView
	ready     bool
	destroyed bool

	stackChanged   func(added, removed ContentView)
	closeRequested event.Emitter[*CloseEvent]
	closed         event.Emitter[struct{}]
	readyToShow    event.Emitter[struct{}]
	resized        event.Emitter[geometry.Rect]
}

// OnStackChanged sets fn to run after the primary view or the floating
// stack changes. added is the view that became visible or was raised,
// removed the one that left; either may be nil.
func (b *WindowBase) OnStackChanged(fn func(added, removed ContentView)) {
	b.stackChanged = fn
}

func (b *WindowBase) notifyStack(added, removed ContentView) {
	if b.stackChanged != nil {
		b.stackChanged(added, removed)
	}
}

// HandleContents fires ready-to-show once the first load of the window's
// own page completes, whether or not it succeeded.
func (b *WindowBase) HandleContents(e ContentEvent) {
	if b.ready || (e.Kind != LoadFinish && e.Kind != LoadFail) {
		return
	}
	b.ready = true
	b.readyToShow.Emit(struct{}{})
}

// SetPrimaryView replaces the view shown under the floating stack.
func (b *WindowBase) SetPrimaryView(v ContentView) {
	if v == b.primary {
		return
	}
	prev := b.primary
	b.primary = v
	b.notifyStack(v, prev)
}

func (b *WindowBase) PrimaryView() ContentView { return b.primary }

// AddView puts v on top of the floating stack. Adding a view twice
// keeps its position.
func (b *WindowBase) AddView(v ContentView) {
	if v == nil || slices.Contains(b.views, v) {
		return
	}
	b.views = append(b.views, v)
	b.notifyStack(v, nil)
}

func (b *WindowBase) RemoveView(v ContentView) {
	if v == nil || !slices.Contains(b.views, v) {
		return
	}
	b.views = slices.DeleteFunc(b.views, func(cur ContentView) bool { return cur == v })
	b.notifyStack(nil, v)
}

// SetTopView raises v above every other floating view, adding it when
// needed.
func (b *WindowBase) SetTopView(v ContentView) {
	if v == nil {
		return
	}
	b.views = slices.DeleteFunc(b.views, func(cur ContentView) bool { return cur == v })
	b.views = append(b.views, v)
	b.notifyStack(v, nil)
}

// TopView returns the topmost floating view, or nil.
func (b *WindowBase) TopView() ContentView {
	if len(b.views) == 0 {
		return nil
	}
	return b.views[len(b.views)-1]
}

// Views returns the floating stack, bottom first.
func (b *WindowBase) Views() []ContentView {
	return slices.Clone(b.views)
}

// HasView reports whether v is the primary view or on the floating stack.
func (b *WindowBase) HasView(v ContentView) bool {
	return v != nil && (v == b.primary || slices.Contains(b.views, v))
}

// ConfirmClose runs the close-requested handlers and calls destroy unless
// one of them prevented it or already destroyed the window. It reports
// whether the window is gone.
func (b *WindowBase) ConfirmClose(destroy func()) bool {
	if b.destroyed {
		return false
	}
	ev := &CloseEvent{}
	b.closeRequested.Emit(ev)
	if ev.DefaultPrevented() {
		return b.destroyed
	}
	if !b.destroyed {
		destroy()
	}
	return true
}

// BeginDestroy marks the window destroyed. It returns false when it
// already was, and the caller must skip its teardown.
func (b *WindowBase) BeginDestroy() bool {
	if b.destroyed {
		return false
	}
	b.destroyed = true
	return true
}

// FinishDestroy forgets every view, fires closed and drops all listeners.
// Views placed into the window belong to their owners and are left alone.
func (b *WindowBase) FinishDestroy() {
	b.primary = nil
	b.views = nil
	b.stackChanged = nil

	b.closed.Emit(struct{}{})
	b.closeRequested.Clear()
	b.closed.Clear()
	b.readyToShow.Clear()
	b.resized.Clear()
}

func (b *WindowBase) IsDestroyed() bool { return b.destroyed }

// EmitResized fires the resized signal with the new outer rectangle.
func (b *WindowBase) EmitResized(r geometry.Rect) {
	b.resized.Emit(r)
}

func (b *WindowBase) OnCloseRequested(fn func(*CloseEvent)) func() {
	return b.closeRequested.On(fn)
}

func (b *WindowBase) OnClosed(fn func()) func() {
	return b.closed.On(func(struct{}) { fn() })
}

func (b *WindowBase) OnReadyToShow(fn func()) func() {
	return b.readyToShow.On(func(struct{}) { fn() })
}

func (b *WindowBase) OnResized(fn func(geometry.Rect)) func() {
	return b.resized.On(fn)
}
