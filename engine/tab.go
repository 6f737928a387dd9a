package engine

import (
	"github.com/google/uuid"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
)

// DefaultBackgroundColor is used for views created without a color.
const DefaultBackgroundColor = "#FFFFFF"

// TabOptions configures a new tab. URL and File are mutually exclusive;
// with neither set the tab starts blank.
type TabOptions struct {
	URL             string
	File            string
	BackgroundColor string
	// Session selects the storage partition. nil uses the window's session.
	Session *Session
}

func (o TabOptions) validate() error {
	if o.URL != "" && o.File != "" {
		return newError(ErrInvalidOptions, "tab URL and File are mutually exclusive")
	}
	return nil
}

// TabField names the tab attribute a TabUpdate reports.
type TabField int

const (
	FieldLoading TabField = iota
	FieldURL
	FieldTitle
	FieldThemeColor
	FieldNavigation
)

// TabUpdate is emitted after a tab's metadata changes.
type TabUpdate struct {
	Tab   *Tab
	Field TabField
}

// Tab is one embedded content view owned by a TabManager.
type Tab struct {
	id   string
	view host.ContentView

	backgroundColor string
	title           string
	hasTitle        bool
	themeColor      string
	loading         bool
	url             string
	canGoBack       bool
	canGoForward    bool

	subs      event.Subscriptions
	updated   event.Emitter[TabUpdate]
	destroyed bool
}

func newTab(ch host.ContentHost, opts TabOptions, bounds geometry.Rect) (*Tab, error) {
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

	t := &Tab{
		id:              uuid.NewString(),
		view:            view,
		backgroundColor: bg,
	}
	view.SetBackgroundColor(bg)
	view.SetBounds(bounds)
	t.subs.Add(view.Subscribe(t.handleEvent))
	return t, nil
}

func (t *Tab) load(opts TabOptions) error {
	switch {
	case opts.URL != "":
		return t.view.LoadURL(opts.URL)
	case opts.File != "":
		return t.view.LoadFile(opts.File)
	}
	return nil
}

func (t *Tab) handleEvent(ev host.ContentEvent) {
	var field TabField
	switch ev.Kind {
	case host.LoadStart:
		t.setLoading(true)
		return
	case host.LoadStop, host.LoadFail:
		t.setLoading(false)
		return
	case host.LoadFinish:
		t.setLoading(false)
		if t.destroyed {
			return
		}
		t.url = t.view.URL()
		t.refreshNavigation()
		field = FieldNavigation
	case host.NavigationStarted:
		t.url = ev.URL
		t.refreshNavigation()
		field = FieldURL
	case host.TitleUpdated:
		t.title = ev.Title
		t.hasTitle = true
		field = FieldTitle
	case host.ThemeColorChanged:
		t.themeColor = ev.Color
		field = FieldThemeColor
	default:
		return
	}
	t.updated.Emit(TabUpdate{Tab: t, Field: field})
}

// setLoading emits FieldLoading only when the flag changes.
func (t *Tab) setLoading(loading bool) {
	if t.loading == loading {
		return
	}
	t.loading = loading
	t.updated.Emit(TabUpdate{Tab: t, Field: FieldLoading})
}

func (t *Tab) refreshNavigation() {
	t.canGoBack = t.view.CanGoBack()
	t.canGoForward = t.view.CanGoForward()
}

// detach removes every host subscription. It is always the first step of
// a teardown so no host signal reaches a half-destroyed tab.
func (t *Tab) detach() {
	t.subs.Release()
	t.updated.Clear()
}

// destroy detaches the tab and then releases its view. Later calls are no-ops.
func (t *Tab) destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.detach()
	t.view.Destroy()
}

func (t *Tab) setBounds(r geometry.Rect) {
	if t.destroyed {
		return
	}
	t.view.SetBounds(r)
}

// ID returns the tab's stable id.
func (t *Tab) ID() string { return t.id }

// View returns the host view backing the tab.
func (t *Tab) View() host.ContentView { return t.view }

// OnUpdated registers fn for metadata changes.
func (t *Tab) OnUpdated(fn func(TabUpdate)) func() {
	return t.updated.On(fn)
}

// BackgroundColor returns the color shown behind the page.
func (t *Tab) BackgroundColor() string { return t.backgroundColor }

// SetBackgroundColor changes the color shown behind the page.
func (t *Tab) SetBackgroundColor(color string) {
	if t.destroyed {
		return
	}
	t.backgroundColor = color
	t.view.SetBackgroundColor(color)
}

// Bounds returns the rectangle the view occupies inside its window.
func (t *Tab) Bounds() geometry.Rect { return t.view.Bounds() }

// Title returns the page title. ok is false until a title has been
// reported by the page or set explicitly.
func (t *Tab) Title() (title string, ok bool) { return t.title, t.hasTitle }

// SetTitle overrides the title until the page reports a new one.
func (t *Tab) SetTitle(title string) {
	if t.destroyed {
		return
	}
	t.title = title
	t.hasTitle = true
	t.updated.Emit(TabUpdate{Tab: t, Field: FieldTitle})
}

// ThemeColor returns the page's theme color. ok is false when the page
// declares none.
func (t *Tab) ThemeColor() (color string, ok bool) { return t.themeColor, t.themeColor != "" }

// IsLoading reports whether a load is in progress.
func (t *Tab) IsLoading() bool { return t.loading }

// URL returns the address of the current or pending page.
func (t *Tab) URL() string { return t.url }

// CanGoBack reports whether history has an entry before the current one.
func (t *Tab) CanGoBack() bool { return t.canGoBack }

// CanGoForward reports whether history has an entry after the current one.
func (t *Tab) CanGoForward() bool { return t.canGoForward }

// IsDestroyed reports whether the tab has been torn down.
func (t *Tab) IsDestroyed() bool { return t.destroyed }

func (t *Tab) checkAlive() error {
	if t.destroyed {
		return newError(ErrClosed, "tab %s destroyed", t.id)
	}
	return nil
}

// LoadURL navigates the tab to url.
func (t *Tab) LoadURL(url string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	return t.view.LoadURL(url)
}

// LoadFile navigates the tab to a local file.
func (t *Tab) LoadFile(path string) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	return t.view.LoadFile(path)
}

// GoBack navigates to the previous history entry.
func (t *Tab) GoBack() error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	return t.view.GoBack()
}

// GoForward navigates to the next history entry.
func (t *Tab) GoForward() error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	return t.view.GoForward()
}

// Reload loads the current page again.
func (t *Tab) Reload() error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	return t.view.Reload()
}

// Stop cancels the load in progress, if any.
func (t *Tab) Stop() {
	if t.destroyed {
		return
	}
	t.view.Stop()
}

// ExecuteJavaScript evaluates code in the tab's page.
func (t *Tab) ExecuteJavaScript(code string) (string, error) {
	if err := t.checkAlive(); err != nil {
		return "", err
	}
	return t.view.ExecuteJavaScript(code)
}
