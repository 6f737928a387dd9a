package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/network"
)

var (
	// ErrViewDestroyed is returned by views used after Destroy.
	ErrViewDestroyed = errors.New("content: view destroyed")
	// ErrNoHistory is returned when there is no entry to navigate to.
	ErrNoHistory = errors.New("content: no history entry")
)

// View is one embedded page. It implements host.ContentView.
type View struct {
	host      *Host
	id        int
	partition *Partition
	log       *slog.Logger

	bounds     geometry.Rect
	background string
	autoResize host.AutoResize

	history []string
	index   int

	url        string
	title      string
	themeColor string
	loading    bool
	runner     *scriptRunner

	// gen is bumped by every navigation, Stop and Destroy. Load results
	// carrying an older generation are dropped.
	gen    uint64
	cancel context.CancelFunc

	events    event.Emitter[host.ContentEvent]
	changed   event.Emitter[struct{}]
	destroyed bool
}

func newView(h *Host, id int, p *Partition, background string) *View {
	return &View{
		host:       h,
		id:         id,
		partition:  p,
		log:        h.log.With("view", id),
		background: background,
		index:      -1,
	}
}

func (v *View) ID() int { return v.id }
func (v *View) Partition() *Partition { return v.partition }

func (v *View) Bounds() geometry.Rect { return v.bounds }

func (v *View) SetBounds(r geometry.Rect) {
	if r == v.bounds {
		return
	}
	v.bounds = r
	v.changed.Emit(struct{}{})
}

// BackgroundColor returns the color shown behind the page.
func (v *View) BackgroundColor() string { return v.background }

func (v *View) SetBackgroundColor(color string) {
	if color == v.background {
		return
	}
	v.background = color
	v.changed.Emit(struct{}{})
}

// OnChanged registers fn for changes of the view's bounds or background,
// which a toolkit host uses to redraw the view.
func (v *View) OnChanged(fn func()) func() {
	return v.changed.On(func(struct{}) { fn() })
}

// AutoResize returns the resize flags last set on the view.
func (v *View) AutoResize() host.AutoResize { return v.autoResize }
func (v *View) SetAutoResize(opts host.AutoResize) { v.autoResize = opts }

// URL returns the address of the current page, or "" before the first load.
func (v *View) URL() string { return v.url }

// Title returns the page title, falling back to the address for pages
// without one.
func (v *View) Title() string {
	if v.title == "" {
		return v.url
	}
	return v.title
}

// ThemeColor returns the page's theme-color meta value.
func (v *View) ThemeColor() string { return v.themeColor }

func (v *View) IsLoading() bool { return v.loading }
func (v *View) CanGoBack() bool { return v.index > 0 }
func (v *View) CanGoForward() bool { return v.index < len(v.history)-1 }

// Subscribe implements host.ContentView.
func (v *View) Subscribe(fn func(host.ContentEvent)) func() {
	return v.events.On(fn)
}

// LoadURL navigates to addr. Input without a scheme is treated as a host
// name. Forward history is discarded.
func (v *View) LoadURL(addr string) error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	target := network.NormalizeAddress(addr)
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("load %s: %w", addr, err)
	}
	switch u.Scheme {
	case "about", "data", "file", "http", "https":
	default:
		return fmt.Errorf("load %s: %w", addr, network.ErrUnsupportedScheme)
	}

	v.history = append(v.history[:v.index+1], target)
	v.index = len(v.history) - 1
	v.navigate(target)
	return nil
}

// LoadFile navigates to the local file at path.
func (v *View) LoadFile(path string) error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	addr, err := network.FileURL(path)
	if err != nil {
		return err
	}
	return v.LoadURL(addr)
}

func (v *View) GoBack() error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	if !v.CanGoBack() {
		return ErrNoHistory
	}
	v.index--
	v.navigate(v.history[v.index])
	return nil
}

func (v *View) GoForward() error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	if !v.CanGoForward() {
		return ErrNoHistory
	}
	v.index++
	v.navigate(v.history[v.index])
	return nil
}

// Reload loads the current entry again.
func (v *View) Reload() error {
	if v.destroyed {
		return ErrViewDestroyed
	}
	if v.index < 0 {
		return ErrNoHistory
	}
	v.navigate(v.history[v.index])
	return nil
}

// Stop abandons the load in progress. Its results are never applied.
func (v *View) Stop() {
	if v.destroyed || !v.loading {
		return
	}
	v.abort()
	v.loading = false
	v.events.Emit(host.ContentEvent{Kind: host.LoadStop, URL: v.url})
}

func (v *View) abort() {
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// loaded is the outcome of one navigation, built off the control thread.
type loaded struct {
	res     *network.Resource
	page    *Page
	scripts []Script
}

func (v *View) navigate(addr string) {
	v.abort()
	gen := v.gen
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel

	v.url = addr
	v.title = ""
	v.themeColor = ""
	v.runner = nil
	v.loading = true
	v.log.Debug("navigating", "url", addr)

	v.host.dispatch.Post(func() {
		if v.destroyed || v.gen != gen {
			return
		}
		v.events.Emit(host.ContentEvent{Kind: host.NavigationStarted, URL: addr})
		v.events.Emit(host.ContentEvent{Kind: host.LoadStart, URL: addr})
	})

	loader := v.partition.loader
	log := v.log
	v.host.dispatch.Go(func() func() {
		out, err := fetchPage(ctx, loader, addr, log)
		return func() {
			if v.destroyed || v.gen != gen {
				return
			}
			cancel()
			v.cancel = nil
			if err != nil {
				v.fail(addr, err)
				return
			}
			v.finish(out)
		}
	})
}

func fetchPage(ctx context.Context, loader *network.Loader, addr string, log *slog.Logger) (*loaded, error) {
	res, err := loader.Load(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("load %s: status %d", addr, res.StatusCode)
	}
	out := &loaded{res: res}
	if !res.IsHTML() {
		return out, nil
	}

	if out.page, err = ParsePage(res.Content); err != nil {
		return nil, fmt.Errorf("parse %s: %w", res.URL, err)
	}
	for _, s := range out.page.Scripts {
		if s.Src == "" {
			out.scripts = append(out.scripts, s)
			continue
		}
		src, err := network.ResolveURL(res.URL, s.Src)
		if err != nil {
			log.Debug("bad script address", "src", s.Src, "err", err)
			continue
		}
		script, err := loader.Load(ctx, src)
		if err != nil || !script.IsSuccess() {
			log.Debug("script not loaded", "src", src, "err", err)
			continue
		}
		out.scripts = append(out.scripts, Script{Src: src, Code: string(script.Content)})
	}
	return out, nil
}

func (v *View) fail(addr string, err error) {
	gen := v.gen
	v.loading = false
	v.log.Debug("load failed", "url", addr, "err", err)
	v.events.Emit(host.ContentEvent{Kind: host.LoadFail, URL: addr, Err: err})
	if !v.destroyed && v.gen == gen {
		v.events.Emit(host.ContentEvent{Kind: host.LoadStop, URL: addr})
	}
}

func (v *View) finish(out *loaded) {
	gen := v.gen
	if out.res.URL != "" && out.res.URL != v.url {
		v.url = out.res.URL
		v.history[v.index] = out.res.URL
	}

	if p := out.page; p != nil {
		if p.HasTitle {
			v.setPageTitle(p.Title)
		}
		if p.ThemeColor != "" && v.gen == gen {
			v.themeColor = p.ThemeColor
			v.events.Emit(host.ContentEvent{Kind: host.ThemeColorChanged, URL: v.url, Color: p.ThemeColor})
		}
		for i, s := range out.scripts {
			if v.destroyed || v.gen != gen {
				return
			}
			name := s.Src
			if name == "" {
				name = fmt.Sprintf("%s#script%d", v.url, i)
			}
			if _, err := v.scriptRunner().run(name, s.Code); err != nil {
				v.log.Warn("page script failed", "script", name, "err", err)
			}
		}
	}

	// A listener may have navigated or destroyed the view.
	if v.destroyed || v.gen != gen {
		return
	}
	v.loading = false
	v.events.Emit(host.ContentEvent{Kind: host.LoadFinish, URL: v.url})
	if !v.destroyed && v.gen == gen {
		v.events.Emit(host.ContentEvent{Kind: host.LoadStop, URL: v.url})
	}
}

func (v *View) scriptRunner() *scriptRunner {
	if v.runner == nil {
		v.runner = newScriptRunner(v, v.partition.store, v.host.scriptTimeout, v.log)
	}
	return v.runner
}

func (v *View) pageURL() string { return v.url }
func (v *View) pageTitle() string { return v.title }

func (v *View) setPageTitle(title string) {
	if v.destroyed || title == v.title {
		return
	}
	v.title = title
	v.events.Emit(host.ContentEvent{Kind: host.TitleUpdated, URL: v.url, Title: title})
}

// ExecuteJavaScript evaluates code in the current page.
func (v *View) ExecuteJavaScript(code string) (string, error) {
	if v.destroyed {
		return "", ErrViewDestroyed
	}
	result, err := v.scriptRunner().run("execute", code)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.String(), nil
}

// Focus gives the view input focus.
func (v *View) Focus() {
	if v.destroyed {
		return
	}
	v.host.focus(v)
}

func (v *View) IsFocused() bool { return v.host.focused == v }

// Destroy releases the view. Pending loads are dropped and no further
// signals are delivered.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.abort()
	v.loading = false
	v.runner = nil
	v.events.Clear()
	v.changed.Clear()
	v.host.forget(v)
}

func (v *View) IsDestroyed() bool { return v.destroyed }
