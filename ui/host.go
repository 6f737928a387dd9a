// Package ui is the fyne window host. Each native window is a fyne window
// whose canvas stacks the window's own page, the primary tab view and the
// floating views at the positions the engine assigns them.
package ui

import (
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
)

var (
	_ host.WindowHost   = (*Host)(nil)
	_ host.NativeWindow = (*Window)(nil)
)

// Host implements host.WindowHost over a fyne app.
type Host struct {
	app     fyne.App
	content *content.Host
	log     *slog.Logger

	windows []*Window
	nextID  int
	focused *Window
	focus   event.Emitter[host.NativeWindow]
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host's logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Host) {
		h.log = log
	}
}

// NewHost creates a window host on app. ch must deliver its signals
// through a Dispatcher.
func NewHost(app fyne.App, ch *content.Host, opts ...Option) *Host {
	h := &Host{app: app, content: ch}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logging.New("ui")
	}
	return h
}

// Run runs the fyne event loop until the app quits.
func (h *Host) Run() {
	h.app.Run()
}

// Quit stops the event loop.
func (h *Host) Quit() {
	h.app.Quit()
}

// CreateWindow implements host.WindowHost. The fyne window stays hidden
// until Show.
func (h *Host) CreateWindow(opts host.NativeWindowOptions) (host.NativeWindow, error) {
	contents, err := h.content.NewView(host.ViewOptions{
		BackgroundColor: opts.BackgroundColor,
		Partition:       opts.Partition,
	})
	if err != nil {
		return nil, err
	}

	h.nextID++
	w := &Window{
		host:     h,
		id:       h.nextID,
		fw:       h.app.NewWindow(opts.Title),
		bounds:   geometry.Rect{Width: opts.Width, Height: opts.Height},
		contents: contents,
		surfaces: make(map[host.ContentView]*surface),
	}
	contents.SetBounds(geometry.Rect{Width: opts.Width, Height: opts.Height})
	w.chrome = newSurface(contents, w.relayout)
	w.OnStackChanged(w.handleStack)
	w.contentsOff = contents.Subscribe(w.HandleContents)

	w.root = container.New(&shellLayout{w: w}, w.chrome.box)
	w.fw.SetPadded(false)
	w.fw.SetContent(w.root)
	w.fw.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)))
	w.fw.SetCloseIntercept(func() { w.RequestClose() })

	h.windows = append(h.windows, w)
	h.log.Debug("window created", "window", w.id, "title", opts.Title)
	return w, nil
}

// FocusedWindow implements host.WindowHost.
func (h *Host) FocusedWindow() host.NativeWindow {
	if h.focused == nil {
		return nil
	}
	return h.focused
}

// OnFocus implements host.WindowHost.
func (h *Host) OnFocus(fn func(host.NativeWindow)) func() {
	return h.focus.On(fn)
}

func (h *Host) setFocused(w *Window) {
	if h.focused == w {
		return
	}
	h.focused = w
	if w != nil {
		h.focus.Emit(w)
	}
}

func (h *Host) remove(w *Window) {
	h.windows = slices.DeleteFunc(h.windows, func(cur *Window) bool { return cur == w })
	if h.focused == w {
		h.focused = nil
	}
}
