// Package headless is an in-memory window host. Windows have geometry,
// a view stack and focus but nothing is drawn, which makes it the host for
// scripted sessions and integration tests. Window contents are real pages
// loaded through a content host.
package headless

import (
	"log/slog"
	"slices"

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

// Host implements host.WindowHost.
type Host struct {
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

// NewHost creates a window host whose windows load their own contents
// through ch.
func NewHost(ch *content.Host, opts ...Option) *Host {
	h := &Host{content: ch}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logging.New("headless")
	}
	return h
}

// CreateWindow implements host.WindowHost. Windows start hidden at the
// origin.
func (h *Host) CreateWindow(opts host.NativeWindowOptions) (host.NativeWindow, error) {
	w, err := h.NewWindow(opts)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// NewWindow is CreateWindow returning the concrete window.
func (h *Host) NewWindow(opts host.NativeWindowOptions) (*Window, error) {
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
		title:    opts.Title,
		bounds:   geometry.Rect{Width: opts.Width, Height: opts.Height},
		contents: contents,
	}
	contents.SetBounds(geometry.Rect{Width: opts.Width, Height: opts.Height})
	w.contentsOff = contents.Subscribe(w.HandleContents)
	h.windows = append(h.windows, w)
	h.log.Debug("window created", "window", w.id, "title", opts.Title)
	return w, nil
}

// Windows returns the live windows in creation order.
func (h *Host) Windows() []*Window {
	return slices.Clone(h.windows)
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
