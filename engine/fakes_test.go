package engine

import (
	"errors"
	"fmt"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
)

// recorder collects an ordered trace of host calls shared by all fakes.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	if r != nil {
		r.calls = append(r.calls, fmt.Sprintf(format, args...))
	}
}

type fakeView struct {
	id        int
	rec       *recorder
	bounds    geometry.Rect
	bg        string
	resize    host.AutoResize
	partition host.Partition
	url       string
	title     string
	loading   bool
	focused   bool
	destroyed bool
	back      bool
	forward   bool

	setBoundsCalls int
	focusCalls     int
	loads          []string
	loadErr        error
	events         event.Emitter[host.ContentEvent]
}

func (v *fakeView) ID() int { return v.id }
func (v *fakeView) Bounds() geometry.Rect { return v.bounds }
func (v *fakeView) SetBackgroundColor(c string) { v.bg = c }
func (v *fakeView) SetAutoResize(o host.AutoResize) { v.resize = o }
func (v *fakeView) IsFocused() bool { return v.focused }
func (v *fakeView) URL() string { return v.url }
func (v *fakeView) Title() string { return v.title }
func (v *fakeView) IsLoading() bool { return v.loading }
func (v *fakeView) CanGoBack() bool { return v.back }
func (v *fakeView) CanGoForward() bool { return v.forward }
func (v *fakeView) GoBack() error { return nil }
func (v *fakeView) GoForward() error { return nil }
func (v *fakeView) Reload() error { return nil }
func (v *fakeView) Stop() {}
func (v *fakeView) IsDestroyed() bool { return v.destroyed }

func (v *fakeView) SetBounds(r geometry.Rect) {
	v.setBoundsCalls++
	v.bounds = r
}

func (v *fakeView) Focus() {
	v.focusCalls++
	v.focused = true
}

func (v *fakeView) LoadURL(url string) error {
	if v.loadErr != nil {
		return v.loadErr
	}
	v.loads = append(v.loads, url)
	v.url = url
	return nil
}

func (v *fakeView) LoadFile(path string) error {
	return v.LoadURL("file://" + path)
}

func (v *fakeView) ExecuteJavaScript(code string) (string, error) {
	return "ran:" + code, nil
}

func (v *fakeView) Subscribe(fn func(host.ContentEvent)) func() {
	return v.events.On(fn)
}

func (v *fakeView) Destroy() {
	v.rec.add("view %d destroy", v.id)
	v.destroyed = true
}

// fire simulates a host-originated signal.
func (v *fakeView) fire(ev host.ContentEvent) {
	v.events.Emit(ev)
}

type fakeContentHost struct {
	rec       *recorder
	views     []*fakeView
	nextID    int
	createErr error
	loadErr   error
}

func (h *fakeContentHost) CreateView(opts host.ViewOptions) (host.ContentView, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	h.nextID++
	v := &fakeView{id: h.nextID, rec: h.rec, bg: opts.BackgroundColor, partition: opts.Partition, loadErr: h.loadErr}
	h.views = append(h.views, v)
	return v, nil
}

func (h *fakeContentHost) last() *fakeView {
	return h.views[len(h.views)-1]
}

type fakeNative struct {
	id        int
	rec       *recorder
	bounds    geometry.Rect
	visible   bool
	destroyed bool
	contents  *fakeView
	primary   host.ContentView
	views     []host.ContentView
	top       host.ContentView

	showCalls    int
	destroyCalls int
	focusCalls   int

	closeRequested event.Emitter[*host.CloseEvent]
	closed         event.Emitter[struct{}]
	ready          event.Emitter[struct{}]
	resized        event.Emitter[geometry.Rect]
}

func (w *fakeNative) ID() int { return w.id }
func (w *fakeNative) Bounds() geometry.Rect { return w.bounds }
func (w *fakeNative) IsVisible() bool { return w.visible }
func (w *fakeNative) Hide() { w.visible = false }
func (w *fakeNative) Focus() { w.focusCalls++ }
func (w *fakeNative) Contents() host.ContentView { return w.contents }
func (w *fakeNative) PrimaryView() host.ContentView { return w.primary }
func (w *fakeNative) TopView() host.ContentView { return w.top }
func (w *fakeNative) IsDestroyed() bool { return w.destroyed }

func (w *fakeNative) SetBounds(r geometry.Rect) {
	w.bounds = r
	w.resized.Emit(r)
}

func (w *fakeNative) Show() {
	w.showCalls++
	w.visible = true
}

func (w *fakeNative) LoadURL(url string) error { return w.contents.LoadURL(url) }
func (w *fakeNative) LoadFile(path string) error { return w.contents.LoadFile(path) }

func (w *fakeNative) SetPrimaryView(v host.ContentView) {
	if v == nil {
		w.rec.add("window %d primary nil", w.id)
	} else {
		w.rec.add("window %d primary %d", w.id, v.ID())
	}
	w.primary = v
}

func (w *fakeNative) AddView(v host.ContentView) {
	w.views = append(w.views, v)
}

func (w *fakeNative) RemoveView(v host.ContentView) {
	for i, cur := range w.views {
		if cur.ID() == v.ID() {
			w.views = append(w.views[:i], w.views[i+1:]...)
			return
		}
	}
}

func (w *fakeNative) SetTopView(v host.ContentView) { w.top = v }

func (w *fakeNative) Destroy() {
	if w.destroyed {
		return
	}
	w.rec.add("window %d destroy", w.id)
	w.destroyed = true
	w.destroyCalls++
	w.visible = false
	w.closed.Emit(struct{}{})
}

// requestClose simulates the user pressing the window's close button.
func (w *fakeNative) requestClose() {
	ev := &host.CloseEvent{}
	w.closeRequested.Emit(ev)
	if !ev.DefaultPrevented() {
		w.Destroy()
	}
}

func (w *fakeNative) OnCloseRequested(fn func(*host.CloseEvent)) func() {
	return w.closeRequested.On(fn)
}

func (w *fakeNative) OnClosed(fn func()) func() {
	return w.closed.On(func(struct{}) { fn() })
}

func (w *fakeNative) OnReadyToShow(fn func()) func() {
	return w.ready.On(func(struct{}) { fn() })
}

func (w *fakeNative) OnResized(fn func(geometry.Rect)) func() {
	return w.resized.On(fn)
}

type fakeWindowHost struct {
	rec       *recorder
	content   *fakeContentHost
	windows   []*fakeNative
	focused   *fakeNative
	focus     event.Emitter[host.NativeWindow]
	createErr error
}

func (h *fakeWindowHost) CreateWindow(opts host.NativeWindowOptions) (host.NativeWindow, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	view, err := h.content.CreateView(host.ViewOptions{BackgroundColor: opts.BackgroundColor})
	if err != nil {
		return nil, err
	}
	w := &fakeNative{
		id:       len(h.windows) + 1,
		rec:      h.rec,
		bounds:   geometry.Rect{Width: opts.Width, Height: opts.Height},
		contents: view.(*fakeView),
	}
	h.windows = append(h.windows, w)
	return w, nil
}

func (h *fakeWindowHost) FocusedWindow() host.NativeWindow {
	if h.focused == nil {
		return nil
	}
	return h.focused
}

func (h *fakeWindowHost) OnFocus(fn func(host.NativeWindow)) func() {
	return h.focus.On(fn)
}

func (h *fakeWindowHost) focusWindow(w *fakeNative) {
	h.focused = w
	h.focus.Emit(w)
}

type fakePartition struct {
	name    string
	persist bool
}

func (p *fakePartition) Name() string { return p.name }
func (p *fakePartition) Persistent() bool { return p.persist }

type fakeSessionHost struct {
	partitions map[string]*fakePartition
}

func (h *fakeSessionHost) FromPartition(name string, opts host.PartitionOptions) (host.Partition, error) {
	if name == "" {
		return nil, errors.New("empty partition name")
	}
	if h.partitions == nil {
		h.partitions = make(map[string]*fakePartition)
	}
	if p, ok := h.partitions[name]; ok {
		return p, nil
	}
	p := &fakePartition{name: name, persist: opts.Persist}
	h.partitions[name] = p
	return p, nil
}

type fixture struct {
	rec     *recorder
	content *fakeContentHost
	hosts   *fakeWindowHost
	manager *WindowManager
}

func newFixture() *fixture {
	rec := &recorder{}
	content := &fakeContentHost{rec: rec}
	hosts := &fakeWindowHost{rec: rec, content: content}
	return &fixture{
		rec:     rec,
		content: content,
		hosts:   hosts,
		manager: NewWindowManager(hosts, content, WithLogger(logging.Discard())),
	}
}

// window creates an 800x600 window and returns it with its fake native handle.
func (f *fixture) window(opts WindowOptions) (*Window, *fakeNative) {
	if opts.Width == 0 {
		opts.Width, opts.Height = 800, 600
	}
	w, err := f.manager.CreateWindow(opts)
	if err != nil {
		panic(err)
	}
	return w, w.Native().(*fakeNative)
}

func viewOf(t *Tab) *fakeView {
	return t.View().(*fakeView)
}
