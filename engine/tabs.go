package engine

import (
	"log/slog"
	"slices"

	"github.com/chrisuehlinger/vibeshell/event"
	"github.com/chrisuehlinger/vibeshell/host"
)

// Append inserts a new tab after all existing ones.
const Append = -1

// TabEvent carries the tab affected by a TabManager event and the index
// it held when the event fired.
type TabEvent struct {
	Tab   *Tab
	Index int
}

// TabManager owns the ordered tabs of one window and decides which of
// them is presented as the window's visible surface.
type TabManager struct {
	window  *Window // not owned
	content host.ContentHost
	tabs    []*Tab
	active  *Tab
	state   State
	subs    event.Subscriptions
	log     *slog.Logger

	tabAdded         event.Emitter[TabEvent]
	tabRemoved       event.Emitter[TabEvent]
	activeTabChanged event.Emitter[TabEvent]
}

func newTabManager(w *Window, ch host.ContentHost) *TabManager {
	m := &TabManager{
		window:  w,
		content: ch,
		log:     w.log.With("component", "tabs"),
	}
	m.subs.Add(w.OnOffsetChanged(func(OffsetEvent) { m.reflow() }))
	m.subs.Add(w.OnResized(func(ResizeEvent) { m.reflow() }))
	return m
}

// OnTabAdded registers fn for tab insertions.
func (m *TabManager) OnTabAdded(fn func(TabEvent)) func() {
	return m.tabAdded.On(fn)
}

// OnTabRemoved registers fn for tab removals.
func (m *TabManager) OnTabRemoved(fn func(TabEvent)) func() {
	return m.tabRemoved.On(fn)
}

// OnActiveTabChanged registers fn for activations.
func (m *TabManager) OnActiveTabChanged(fn func(TabEvent)) func() {
	return m.activeTabChanged.On(fn)
}

// resolve is the single lookup behind every selector-taking operation.
func (m *TabManager) resolve(sel TabSelector) (int, *Tab, bool) {
	for i, t := range m.tabs {
		if sel.match(t, t.id) {
			return i, t, true
		}
	}
	return -1, nil, false
}

// CreateTab creates a tab sized to the window's content area and inserts
// it at index at, or after all tabs when at is Append. Loading starts
// immediately. When active is set the new tab is activated after the
// tab-added event. Activation only fails when a tab-added listener removed
// the tab or closed the manager, so the tab is no longer in the strip and
// CreateTab returns -1, nil and the error.
func (m *TabManager) CreateTab(opts TabOptions, at int, active bool) (int, *Tab, error) {
	if err := checkOpen(m.state, "tab manager"); err != nil {
		return -1, nil, err
	}
	if err := opts.validate(); err != nil {
		return -1, nil, err
	}
	if at != Append && (at < 0 || at > len(m.tabs)) {
		return -1, nil, newError(ErrInvalidIndex, "insert position %d outside [0, %d]", at, len(m.tabs))
	}
	if opts.Session == nil {
		opts.Session = m.window.session
	}

	tab, err := newTab(m.content, opts, m.window.ContentBounds())
	if err != nil {
		return -1, nil, err
	}

	index := at
	if at == Append {
		index = len(m.tabs)
	}
	m.tabs = slices.Insert(m.tabs, index, tab)

	if err := tab.load(opts); err != nil {
		m.tabs = slices.Delete(m.tabs, index, index+1)
		tab.destroy()
		return -1, nil, err
	}

	m.log.Debug("tab added", "tab", tab.id, "index", index)
	m.tabAdded.Emit(TabEvent{Tab: tab, Index: index})

	if active {
		if err := m.SetActiveTab(TabRef(tab)); err != nil {
			return -1, nil, err
		}
	}
	return index, tab, nil
}

// SetActiveTab presents the selected tab as the window's visible surface
// and gives it input focus. Activating the active tab again re-emits the
// event.
func (m *TabManager) SetActiveTab(sel TabSelector) error {
	if err := checkOpen(m.state, "tab manager"); err != nil {
		return err
	}
	index, tab, ok := m.resolve(sel)
	if !ok {
		return newError(ErrNotFound, "tab %s not in tab manager", sel)
	}

	m.active = tab
	m.window.setPrimaryView(tab.view)
	tab.view.Focus()

	m.activeTabChanged.Emit(TabEvent{Tab: tab, Index: index})
	return nil
}

// DeleteTab destroys the selected tab and removes it from the strip.
//
// When the active tab is removed its successor at the same index becomes
// active, else its predecessor. Removing the last tab, active or not,
// closes the owning window.
func (m *TabManager) DeleteTab(sel TabSelector) error {
	if err := checkOpen(m.state, "tab manager"); err != nil {
		return err
	}
	index, tab, ok := m.resolve(sel)
	if !ok {
		return newError(ErrNotFound, "tab %s not in tab manager", sel)
	}

	wasActive := m.active == tab
	tab.detach()
	m.tabs = slices.Delete(m.tabs, index, index+1)
	if wasActive {
		m.active = nil
		m.window.setPrimaryView(nil)
	}
	tab.destroy()

	m.log.Debug("tab removed", "tab", tab.id, "index", index, "active", wasActive)
	m.tabRemoved.Emit(TabEvent{Tab: tab, Index: index})

	// A tab-removed listener may have closed us or picked a tab itself.
	if m.state != StateOpen {
		return nil
	}
	if len(m.tabs) == 0 {
		m.log.Debug("last tab removed, closing window")
		return m.window.Close()
	}
	if !wasActive || m.active != nil {
		return nil
	}

	next := index
	if next >= len(m.tabs) {
		next = len(m.tabs) - 1
	}
	return m.SetActiveTab(TabRef(m.tabs[next]))
}

// reflow applies the window's current content rectangle to every tab.
func (m *TabManager) reflow() {
	if m.state != StateOpen {
		return
	}
	bounds := m.window.ContentBounds()
	for _, t := range m.tabs {
		t.setBounds(bounds)
	}
}

// Close detaches the manager from its window and destroys the remaining
// tabs without per-tab events. It must run while the native window still
// exists. A closed manager refuses all further operations.
func (m *TabManager) Close() error {
	if done, err := beginClose(&m.state, "tab manager"); done {
		return err
	}

	m.subs.Release()
	tabs := m.tabs
	m.tabs = nil
	if m.active != nil {
		m.active = nil
		m.window.setPrimaryView(nil)
	}
	for _, t := range tabs {
		t.destroy()
	}

	m.tabAdded.Clear()
	m.tabRemoved.Clear()
	m.activeTabChanged.Clear()
	m.state = StateClosed
	m.log.Debug("tab manager closed", "destroyed", len(tabs))
	return nil
}

// Tab returns the tab with id, or nil.
func (m *TabManager) Tab(id string) *Tab {
	if _, t, ok := m.resolve(TabByID(id)); ok {
		return t
	}
	return nil
}

// TabIndex returns the index of the tab with id, or -1.
func (m *TabManager) TabIndex(id string) int {
	i, _, _ := m.resolve(TabByID(id))
	return i
}

// HasTab reports whether the selected tab belongs to this manager.
func (m *TabManager) HasTab(sel TabSelector) bool {
	_, _, ok := m.resolve(sel)
	return ok
}

// TabAt returns the tab at index, or nil when index is out of range.
func (m *TabManager) TabAt(index int) *Tab {
	if index < 0 || index >= len(m.tabs) {
		return nil
	}
	return m.tabs[index]
}

// Tabs returns the tabs in strip order.
func (m *TabManager) Tabs() []*Tab {
	return slices.Clone(m.tabs)
}

// Len returns the number of tabs.
func (m *TabManager) Len() int {
	return len(m.tabs)
}

// ActiveTab returns the active tab, or nil.
func (m *TabManager) ActiveTab() *Tab {
	return m.active
}

// ActiveIndex returns the index of the active tab, or -1.
func (m *TabManager) ActiveIndex() int {
	if m.active == nil {
		return -1
	}
	return slices.Index(m.tabs, m.active)
}

// Window returns the owning window.
func (m *TabManager) Window() *Window {
	return m.window
}

// State returns the lifecycle state.
func (m *TabManager) State() State {
	return m.state
}
