package bramble

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestInjectClick(t *testing.T) {
	e := newTestEngine(t)
	s, _ := e.NewScene("main")
	f := NewFrame(0, 0, 100, 100)
	var states []ButtonState
	f.OnClick = func(ev ClickEvent) {
		if ev.Target != f {
			t.Error("expected frame target")
		}
		states = append(states, ev.State)
	}
	s.Children().Append(f)

	e.InjectClick(50, 50)
	if e.PendingInjections() != 3 {
		t.Fatalf("expected 3 queued events, got %d", e.PendingInjections())
	}

	// One injected event per frame: move, press, release.
	e.Step(0)
	if len(states) != 0 {
		t.Error("click should not fire on the move frame")
	}
	e.Step(0)
	e.Step(0)
	if e.PendingInjections() != 0 {
		t.Fatalf("expected queue drained, got %d", e.PendingInjections())
	}
	if len(states) != 2 || states[0] != StatePressed || states[1] != StateReleased {
		t.Errorf("states = %v, want [pressed released]", states)
	}
}

func TestInjectDrag(t *testing.T) {
	e := newTestEngine(t)
	e.InjectDrag(10, 10, 200, 200, 5)
	if len(e.injected) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(e.injected))
	}
	if e.injected[0].State != StatePressed || e.injected[4].State != StateReleased {
		t.Error("drag should start with press and end with release")
	}
	mid := e.injected[2]
	if mid.Kind != EventMouseMove || mid.Pos != (Vec2{105, 105}) {
		t.Errorf("middle event = %+v, want move to (105,105)", mid)
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	e := newTestEngine(t)
	e.InjectDrag(0, 0, 100, 100, 1)
	if len(e.injected) != 2 {
		t.Fatalf("expected 2 queued events (clamped), got %d", len(e.injected))
	}
}

func TestInjectQueueOrder(t *testing.T) {
	e := newTestEngine(t)
	e.InjectPress(10, 20)
	e.InjectMove(30, 40)
	e.InjectRelease(50, 60)

	if len(e.injected) != 3 {
		t.Fatalf("expected 3 events, got %d", len(e.injected))
	}
	if e.injected[0].State != StatePressed || e.injected[0].Pos.X != 10 {
		t.Error("first event should be press at (10,20)")
	}
	if e.injected[1].Kind != EventMouseMove || e.injected[1].Pos.X != 30 {
		t.Error("second event should be move at (30,40)")
	}
	if e.injected[2].State != StateReleased || e.injected[2].Pos.X != 50 {
		t.Error("third event should be release at (50,60)")
	}
}

func TestInjectKey(t *testing.T) {
	e := newTestEngine(t)
	s, _ := e.NewScene("main")
	var got []KeyEvent
	s.OnKey = func(k KeyEvent) { got = append(got, k) }

	e.InjectKey(ebiten.KeyEnter)
	e.Step(0)
	e.Step(0)
	if len(got) != 2 || got[0].Key != ebiten.KeyEnter || got[0].State != StatePressed || got[1].State != StateReleased {
		t.Errorf("key events = %+v", got)
	}
}

func TestInjectedAfterQueuedEvents(t *testing.T) {
	e := newTestEngine(t)
	s, _ := e.NewScene("main")
	var order []ebiten.Key
	s.OnKey = func(k KeyEvent) {
		if k.State == StatePressed {
			order = append(order, k.Key)
		}
	}
	e.InjectKey(ebiten.KeyB)
	e.PushEvent(Event{Kind: EventKey, Key: ebiten.KeyA, State: StatePressed})
	e.Step(0)
	if len(order) != 2 || order[0] != ebiten.KeyA || order[1] != ebiten.KeyB {
		t.Errorf("order = %v, want [A B]", order)
	}
}
