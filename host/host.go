// Package host declares the capabilities the shell core consumes from its
// external collaborators: the native windowing host, the embedded-content
// host and the session/partition provider. Implementations live in the
// headless, ui and content packages.
//
// Every On*/Subscribe method returns an unsubscribe function. Hosts must
// make it safe to call more than once, and a handler must not run after its
// unsubscribe function has returned.
package host

import "github.com/chrisuehlinger/vibeshell/geometry"

// WindowHost creates native windows and reports process-wide focus changes.
type WindowHost interface {
	CreateWindow(opts NativeWindowOptions) (NativeWindow, error)
	// FocusedWindow returns the window that currently has native focus, or nil.
	FocusedWindow() NativeWindow
	// OnFocus registers fn for global focus changes and returns its
	// unsubscribe function.
	OnFocus(fn func(NativeWindow)) func()
}

// NativeWindowOptions configures a native window. Windows are always
// created hidden.
type NativeWindowOptions struct {
	Title           string
	Width           int
	Height          int
	BackgroundColor string
	Partition       Partition
}

// CloseEvent is delivered before a native window closes. Calling
// PreventDefault keeps the window open.
type CloseEvent struct {
	prevented bool
}

// PreventDefault cancels the pending close.
func (e *CloseEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *CloseEvent) DefaultPrevented() bool {
	return e.prevented
}

// NativeWindow is one native top-level window.
type NativeWindow interface {
	ID() int

	// Bounds returns the outer rectangle of the window.
	Bounds() geometry.Rect
	SetBounds(r geometry.Rect)

	Show()
	Hide()
	IsVisible() bool
	Focus()

	// Contents is the window's own view, used for the browser chrome.
	Contents() ContentView
	LoadURL(url string) error
	LoadFile(path string) error

	// SetPrimaryView presents v as the visible tab surface. nil clears it.
	SetPrimaryView(v ContentView)
	PrimaryView() ContentView

	// AddView, RemoveView and SetTopView manage floating views stacked
	// above the primary view.
	AddView(v ContentView)
	RemoveView(v ContentView)
	SetTopView(v ContentView)
	TopView() ContentView

	// Destroy releases the native window and fires the closed signal.
	Destroy()
	IsDestroyed() bool

	OnCloseRequested(fn func(*CloseEvent)) func()
	OnClosed(fn func()) func()
	// OnReadyToShow fires once the chrome content can be presented
	// without a blank flash.
	OnReadyToShow(fn func()) func()
	OnResized(fn func(geometry.Rect)) func()
}

// AutoResize selects which dimensions of a floating view follow the
// window when it is resized.
type AutoResize struct {
	Width      bool
	Height     bool
	Horizontal bool
	Vertical   bool
}

// ViewOptions configures a content view.
type ViewOptions struct {
	BackgroundColor string
	Partition       Partition
}

// ContentHost creates embedded content views.
type ContentHost interface {
	CreateView(opts ViewOptions) (ContentView, error)
}

// ContentView is one embedded page.
type ContentView interface {
	ID() int

	Bounds() geometry.Rect
	SetBounds(r geometry.Rect)
	SetBackgroundColor(color string)
	SetAutoResize(opts AutoResize)

	LoadURL(url string) error
	LoadFile(path string) error

	Focus()
	IsFocused() bool

	URL() string
	Title() string
	IsLoading() bool
	CanGoBack() bool
	CanGoForward() bool
	GoBack() error
	GoForward() error
	Reload() error
	Stop()

	// ExecuteJavaScript evaluates code in the page and returns the result
	// converted to a string.
	ExecuteJavaScript(code string) (string, error)

	// Subscribe registers fn for every event of the view and returns its
	// unsubscribe function.
	Subscribe(fn func(ContentEvent)) func()

	Destroy()
	IsDestroyed() bool
}

// ContentEventKind identifies a content view signal.
type ContentEventKind int

const (
	LoadStart ContentEventKind = iota
	LoadStop
	LoadFinish
	LoadFail
	TitleUpdated
	ThemeColorChanged
	NavigationStarted
)

func (k ContentEventKind) String() string {
	switch k {
	case LoadStart:
		return "load-start"
	case LoadStop:
		return "load-stop"
	case LoadFinish:
		return "load-finish"
	case LoadFail:
		return "load-fail"
	case TitleUpdated:
		return "title-updated"
	case ThemeColorChanged:
		return "theme-color-changed"
	case NavigationStarted:
		return "navigation-started"
	default:
		return "unknown"
	}
}

// ContentEvent is a signal from a content view. Only the fields relevant
// to Kind are set.
type ContentEvent struct {
	Kind  ContentEventKind
	URL   string
	Title string
	Color string
	Err   error
}

// Partition is an opaque storage/session partition.
type Partition interface {
	Name() string
	Persistent() bool
}

// PartitionOptions configures a partition the first time it is resolved.
type PartitionOptions struct {
	Persist bool
	Cache   bool
}

// SessionHost resolves partitions by name, creating them on first use and
// returning the same partition for later lookups of that name.
type SessionHost interface {
	FromPartition(name string, opts PartitionOptions) (Partition, error)
}
