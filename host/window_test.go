package host

import (
	"reflect"
	"testing"

	"github.com/chrisuehlinger/vibeshell/geometry"
)

// stubView stands in for a content view; only its identity matters here.
type stubView struct {
	ContentView
	name string
}

func TestWindowBaseStack(t *testing.T) {
	var b WindowBase
	a, c, d := &stubView{name: "a"}, &stubView{name: "c"}, &stubView{name: "d"}

	type change struct{ added, removed ContentView }
	var changes []change
	b.OnStackChanged(func(added, removed ContentView) {
		changes = append(changes, change{added, removed})
	})

	b.AddView(a)
	b.AddView(c)
	b.AddView(a)
	if got := b.Views(); !reflect.DeepEqual(got, []ContentView{a, c}) {
		t.Errorf("Views() = %v, want [a c]", got)
	}
	b.SetTopView(a)
	if b.TopView() != a {
		t.Errorf("TopView() = %v, want a", b.TopView())
	}
	b.RemoveView(d)
	b.RemoveView(c)
	b.SetPrimaryView(d)
	b.SetPrimaryView(d)
	if !b.HasView(d) || b.HasView(c) {
		t.Error("HasView does not follow the stack")
	}

	want := []change{{a, nil}, {c, nil}, {a, nil}, {nil, c}, {d, nil}}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("stack changes = %v, want %v", changes, want)
	}
}

func TestWindowBaseReadyToShowOnce(t *testing.T) {
	var b WindowBase
	fired := 0
	b.OnReadyToShow(func() { fired++ })

	b.HandleContents(ContentEvent{Kind: LoadStart})
	b.HandleContents(ContentEvent{Kind: LoadFail})
	b.HandleContents(ContentEvent{Kind: LoadFinish})
	if fired != 1 {
		t.Errorf("ready-to-show fired %d times, want 1", fired)
	}
}

func TestWindowBaseConfirmClose(t *testing.T) {
	var b WindowBase
	destroys := 0
	destroy := func() {
		destroys++
		if b.BeginDestroy() {
			b.FinishDestroy()
		}
	}

	prevent := b.OnCloseRequested(func(ev *CloseEvent) { ev.PreventDefault() })
	if b.ConfirmClose(destroy) || destroys != 0 {
		t.Fatal("prevented close destroyed the window")
	}
	prevent()

	// A handler that tears the window down itself is not followed by a
	// second destroy.
	b.OnCloseRequested(func(*CloseEvent) { destroy() })
	closed := 0
	b.OnClosed(func() { closed++ })
	if !b.ConfirmClose(destroy) {
		t.Error("ConfirmClose() = false, want true")
	}
	if destroys != 1 || closed != 1 || !b.IsDestroyed() {
		t.Errorf("destroys %d closed %d destroyed %v", destroys, closed, b.IsDestroyed())
	}
	if b.ConfirmClose(destroy) {
		t.Error("ConfirmClose() on a destroyed window")
	}
}

func TestWindowBaseFinishDestroyDropsListeners(t *testing.T) {
	var b WindowBase
	b.AddView(&stubView{name: "a"})
	resized := 0
	b.OnResized(func(geometry.Rect) { resized++ })

	b.BeginDestroy()
	b.FinishDestroy()
	b.EmitResized(geometry.Rect{Width: 10})
	if resized != 0 || len(b.Views()) != 0 || b.TopView() != nil {
		t.Errorf("resized %d views %d after destroy", resized, len(b.Views()))
	}
	if b.BeginDestroy() {
		t.Error("BeginDestroy() succeeded twice")
	}
}
