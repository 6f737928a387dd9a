package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/geometry"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
)

func newTestWindow(t *testing.T) (*Host, *Window, *content.Host) {
	t.Helper()
	ch := content.NewHost(content.NewLoop(), content.WithLogger(logging.Discard()))
	h := NewHost(test.NewTempApp(t), ch, WithLogger(logging.Discard()))
	nw, err := h.CreateWindow(host.NativeWindowOptions{Title: "test", Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("CreateWindow() error = %v", err)
	}
	return h, nw.(*Window), ch
}

func newView(t *testing.T, ch *content.Host) *content.View {
	t.Helper()
	v, err := ch.NewView(host.ViewOptions{})
	if err != nil {
		t.Fatalf("NewView() error = %v", err)
	}
	return v
}

func TestWindowStacksSurfaces(t *testing.T) {
	_, w, ch := newTestWindow(t)
	if len(w.root.Objects) != 1 || w.IsVisible() {
		t.Fatalf("new window: %d objects, visible %v", len(w.root.Objects), w.IsVisible())
	}

	tab := newView(t, ch)
	a := newView(t, ch)
	b := newView(t, ch)
	w.SetPrimaryView(tab)
	w.AddView(a)
	w.AddView(b)
	w.AddView(a)

	want := []fyne.CanvasObject{w.chrome.box, w.surfaces[tab].box, w.surfaces[a].box, w.surfaces[b].box}
	if len(w.root.Objects) != len(want) {
		t.Fatalf("objects = %d, want %d", len(w.root.Objects), len(want))
	}
	for i := range want {
		if w.root.Objects[i] != want[i] {
			t.Errorf("object %d out of order", i)
		}
	}
	if w.TopView() != b {
		t.Errorf("TopView() = %v, want b", w.TopView())
	}

	w.SetTopView(a)
	if w.TopView() != a || w.root.Objects[3] != w.surfaces[a].box {
		t.Error("SetTopView(a) did not raise a")
	}

	w.RemoveView(a)
	if _, ok := w.surfaces[a]; ok || len(w.root.Objects) != 3 {
		t.Errorf("RemoveView kept a: %d objects", len(w.root.Objects))
	}
	w.SetPrimaryView(nil)
	if _, ok := w.surfaces[tab]; ok || w.PrimaryView() != nil {
		t.Error("cleared primary view still attached")
	}
}

func TestWindowPlacesViews(t *testing.T) {
	_, w, ch := newTestWindow(t)
	tab := newView(t, ch)
	w.SetPrimaryView(tab)

	tab.SetBounds(geometry.Rect{X: 10, Y: 80, Width: 300, Height: 200})
	box := w.surfaces[tab].box
	if box.Position() != fyne.NewPos(10, 80) || box.Size() != fyne.NewSize(300, 200) {
		t.Errorf("surface at %v size %v", box.Position(), box.Size())
	}

	tab.SetBackgroundColor("#336699")
	if got := w.surfaces[tab].bg.FillColor; got != colorOr("#336699", defaultBackground) {
		t.Errorf("background = %v", got)
	}
}

func TestWindowLifecycle(t *testing.T) {
	h, w, ch := newTestWindow(t)
	ready := 0
	w.OnReadyToShow(func() { ready++ })

	w.Show()
	if !w.IsVisible() || h.FocusedWindow() != w {
		t.Errorf("after Show: visible %v focused %v", w.IsVisible(), h.FocusedWindow())
	}
	w.Hide()
	if w.IsVisible() {
		t.Error("visible after Hide")
	}

	prevented := true
	w.OnCloseRequested(func(ev *host.CloseEvent) {
		if prevented {
			ev.PreventDefault()
		}
	})
	closed := 0
	w.OnClosed(func() { closed++ })

	if w.RequestClose() || w.IsDestroyed() {
		t.Fatal("prevented close destroyed the window")
	}
	prevented = false
	if !w.RequestClose() || !w.IsDestroyed() {
		t.Fatal("close request did not destroy the window")
	}
	w.Destroy()
	if closed != 1 {
		t.Errorf("closed fired %d times, want 1", closed)
	}
	if !w.contents.IsDestroyed() || ch.Len() != 0 || len(h.windows) != 0 || h.FocusedWindow() != nil {
		t.Errorf("teardown left views %d windows %d", ch.Len(), len(h.windows))
	}
	if ready != 0 {
		t.Errorf("ready-to-show fired without a load")
	}
}
