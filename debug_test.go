package bramble

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugLog_FrameTiming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.Debug = true
	e, _ := NewEngine(cfg)
	var buf bytes.Buffer
	e.SetLogger(newLogger(&buf))
	e.NewScene("main")

	e.PushEvent(Event{Kind: EventMouseMove, Pos: Vec2{1, 1}})
	e.Step(1.0 / 60)
	if e.stats.events != 1 {
		t.Errorf("stats.events = %d, want 1", e.stats.events)
	}
	e.Draw(e.RenderFrame())

	out := buf.String()
	for _, want := range []string{"[bramble]", "input:", "render:", "events: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}

func TestDebugLog_OffByDefault(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	e.SetLogger(newLogger(&buf))
	e.NewScene("main")
	e.Step(1.0 / 60)
	e.Draw(e.RenderFrame())
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}

func TestFPSCounter(t *testing.T) {
	c := NewFPSCounter(4, 4)
	sp := c.Sprite()
	if sp.Name() != "fps" || sp.Position() != (Vec2{4, 4}) {
		t.Errorf("sprite = %q at %v", sp.Name(), sp.Position())
	}
	if sp.Size() != (Vec2{100, 32}) {
		t.Errorf("size = %v, want 100x32", sp.Size())
	}
	c.Tick(0.2)
	if c.since != 0.2 {
		t.Errorf("since = %v", c.since)
	}
	c.Tick(0.4)
	if c.since != 0 {
		t.Errorf("timer should reset after refresh, got %v", c.since)
	}
}
