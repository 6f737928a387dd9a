// Package engine is the layout and lifecycle core of the shell: it keeps
// the set of windows, each window's ordered tabs and floating overlays,
// their geometry, which view is on top, and the order in which they are
// torn down.
//
// All types are used from a single control thread. Host callbacks are
// expected on that thread too; reentrancy is handled by the Open/Closing/
// Closed lifecycle rather than by locks.
package engine

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
)

// CloseHandler is consulted when the user asks to close a window. Calling
// ev.PreventDefault keeps the window open.
type CloseHandler func(ev *host.CloseEvent, w *Window)

// ManagerOption configures a WindowManager.
type ManagerOption func(*WindowManager)

// WithLogger sets the logger windows and tab managers derive from.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *WindowManager) {
		m.log = log
	}
}

// WithDefaultSession sets the session used by windows created without one.
func WithDefaultSession(s *Session) ManagerOption {
	return func(m *WindowManager) {
		m.session = s
	}
}

// WindowManager owns every live window of the process.
type WindowManager struct {
	windowHost  host.WindowHost
	contentHost host.ContentHost
	session     *Session

	windows      []*Window
	nativeSubs   map[*Window]*event.Subscriptions
	closeHandler CloseHandler
	focusOff     func()
	state        State
	log          *slog.Logger

	windowAdded   event.Emitter[*Window]
	windowRemoved event.Emitter[*Window]
	windowFocused event.Emitter[*Window]
}

// NewWindowManager creates a manager and subscribes to the host's global
// focus signal.
func NewWindowManager(wh host.WindowHost, ch host.ContentHost, opts ...ManagerOption) *WindowManager {
	m := &WindowManager{
		windowHost:  wh,
		contentHost: ch,
		nativeSubs:  make(map[*Window]*event.Subscriptions),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.New("engine")
	}
	m.focusOff = wh.OnFocus(m.handleFocus)
	return m
}

func (m *WindowManager) handleFocus(nw host.NativeWindow) {
	if w := m.FromNative(nw); w != nil {
		m.windowFocused.Emit(w)
	}
}

// OnWindowAdded registers fn for new windows.
func (m *WindowManager) OnWindowAdded(fn func(*Window)) func() {
	return m.windowAdded.On(fn)
}

// OnWindowRemoved registers fn for windows leaving the manager.
func (m *WindowManager) OnWindowRemoved(fn func(*Window)) func() {
	return m.windowRemoved.On(fn)
}

// OnWindowFocused registers fn for native focus changes to managed windows.
func (m *WindowManager) OnWindowFocused(fn func(*Window)) func() {
	return m.windowFocused.On(fn)
}

// SetWindowCloseHandler installs h, or removes it when h is nil.
func (m *WindowManager) SetWindowCloseHandler(h CloseHandler) {
	m.closeHandler = h
}

// CreateWindow creates and registers a window.
func (m *WindowManager) CreateWindow(opts WindowOptions) (*Window, error) {
	if err := checkOpen(m.state, "window manager"); err != nil {
		return nil, err
	}
	if opts.Session == nil {
		opts.Session = m.session
	}

	w, err := newWindow(m.windowHost, m.contentHost, opts, m.log)
	if err != nil {
		return nil, err
	}
	m.windows = append(m.windows, w)

	subs := &event.Subscriptions{}
	subs.Add(w.native.OnCloseRequested(func(ev *host.CloseEvent) { m.handleCloseRequested(ev, w) }))
	subs.Add(w.native.OnClosed(func() { m.handleClosed(w) }))
	m.nativeSubs[w] = subs

	m.log.Debug("window added", "window", w.id, "native", w.native.ID())
	m.windowAdded.Emit(w)
	return w, nil
}

func (m *WindowManager) handleCloseRequested(ev *host.CloseEvent, w *Window) {
	if m.closeHandler != nil {
		m.closeHandler(ev, w)
	}
	if ev.DefaultPrevented() || !m.has(w) {
		return
	}
	if err := m.DestroyWindow(w); err != nil && !errors.Is(err, ErrNotManaged) {
		m.log.Warn("destroy window on close request", "window", w.id, "error", err)
	}
}

// handleClosed deregisters a window whose native handle went away without
// DestroyWindow, e.g. when its last tab was removed.
func (m *WindowManager) handleClosed(w *Window) {
	if !m.has(w) {
		return
	}
	m.forget(w)
	if w.state == StateOpen {
		_ = w.Close()
	}
	m.log.Debug("window removed", "window", w.id)
	m.windowRemoved.Emit(w)
}

func (m *WindowManager) has(w *Window) bool {
	return slices.Contains(m.windows, w)
}

// forget drops w from the set and detaches the manager's native
// subscriptions, so the auto-deregistration path cannot fire for it again.
func (m *WindowManager) forget(w *Window) {
	m.windows = slices.DeleteFunc(m.windows, func(cur *Window) bool { return cur == w })
	if subs, ok := m.nativeSubs[w]; ok {
		subs.Release()
		delete(m.nativeSubs, w)
	}
}

// DestroyWindow removes w from the manager and closes it.
func (m *WindowManager) DestroyWindow(w *Window) error {
	if w == nil || !m.has(w) {
		return newError(ErrNotManaged, "window not managed")
	}
	m.forget(w)

	err := w.Close()
	if errors.Is(err, ErrClosed) {
		err = nil
	}
	m.log.Debug("window removed", "window", w.id)
	m.windowRemoved.Emit(w)
	return err
}

// Window returns the managed window with id, or nil.
func (m *WindowManager) Window(id string) *Window {
	for _, w := range m.windows {
		if w.id == id {
			return w
		}
	}
	return nil
}

// FromNative returns the managed window wrapping nw, or nil.
func (m *WindowManager) FromNative(nw host.NativeWindow) *Window {
	if nw == nil {
		return nil
	}
	for _, w := range m.windows {
		if w.native.ID() == nw.ID() {
			return w
		}
	}
	return nil
}

// FromContentView returns the managed window hosting v as its chrome,
// one of its tabs or one of its overlays.
func (m *WindowManager) FromContentView(v host.ContentView) *Window {
	for _, w := range m.windows {
		if w.hasView(v) {
			return w
		}
	}
	return nil
}

// Focused returns the managed window with native focus, or nil.
func (m *WindowManager) Focused() *Window {
	return m.FromNative(m.windowHost.FocusedWindow())
}

// Windows returns the managed windows in creation order.
func (m *WindowManager) Windows() []*Window {
	return slices.Clone(m.windows)
}

// Len returns the number of managed windows.
func (m *WindowManager) Len() int {
	return len(m.windows)
}

// State returns the lifecycle state.
func (m *WindowManager) State() State {
	return m.state
}

// Close stops focus tracking and closes every managed window. No
// window-removed events are emitted.
func (m *WindowManager) Close() error {
	if done, err := beginClose(&m.state, "window manager"); done {
		return err
	}
	if m.focusOff != nil {
		m.focusOff()
		m.focusOff = nil
	}

	for _, w := range slices.Clone(m.windows) {
		m.forget(w)
		if err := w.Close(); err != nil && !errors.Is(err, ErrClosed) {
			m.log.Warn("close window", "window", w.id, "error", err)
		}
	}

	m.windowAdded.Clear()
	m.windowRemoved.Clear()
	m.windowFocused.Clear()
	m.state = StateClosed
	return nil
}
