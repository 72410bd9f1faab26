package bramble

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func newTestManager(t *testing.T) (*AnimationManager, *bytes.Buffer) {
	t.Helper()
	m := NewAnimationManager()
	var buf bytes.Buffer
	m.guard.logger = newLogger(&buf)
	return m, &buf
}

func TestAnimateLinear(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	calls := 0
	var final Value
	_, err := m.Animate(f, "x", Float(100), 1.0, AnimOptions{
		OnComplete: func(_ Animatable, prop string, v Value) {
			calls++
			final = v
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	m.Tick(0.5)
	if !approx(f.Position().X, 50) {
		t.Errorf("x after 0.5s = %v, want 50", f.Position().X)
	}
	if calls != 0 {
		t.Error("callback fired early")
	}
	m.Tick(0.5)
	if f.Position().X != 100 {
		t.Errorf("x after 1s = %v, want 100", f.Position().X)
	}
	if calls != 1 || !final.Equal(Float(100)) {
		t.Errorf("callback calls = %d final = %v", calls, final)
	}
	m.Tick(0.5)
	if calls != 1 || m.Len() != 0 {
		t.Error("finished animation should be retired")
	}
}

func TestAnimateReplace(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	aDone := false
	a, _ := m.Animate(f, "x", Float(100), 1.0, AnimOptions{
		OnComplete: func(Animatable, string, Value) { aDone = true },
	})
	m.Tick(0.5)

	b, err := m.Animate(f, "x", Float(0), 1.0, AnimOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !a.Complete() {
		t.Error("replaced animation should be stopped")
	}
	if !b.StartValue().Equal(Float(50)) {
		t.Errorf("start = %v, want 50", b.StartValue())
	}
	m.Tick(0.5)
	if !approx(f.Position().X, 25) {
		t.Errorf("x = %v, want 25", f.Position().X)
	}
	m.Tick(1)
	if aDone {
		t.Error("replaced animation must not fire its callback")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestAnimateQueue(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	var order []string
	done := func(name string) func(Animatable, string, Value) {
		return func(Animatable, string, Value) { order = append(order, name) }
	}
	m.Animate(f, "x", Float(100), 1.0, AnimOptions{OnComplete: done("a")})
	b, err := m.Animate(f, "x", Float(200), 1.0, AnimOptions{Conflict: ConflictQueue, OnComplete: done("b")})
	if err != nil {
		t.Fatal(err)
	}
	if b.Started() {
		t.Error("queued animation should wait")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, queued ones are not counted", m.Len())
	}

	m.Tick(1.0)
	if f.Position().X != 100 {
		t.Errorf("x = %v, want 100", f.Position().X)
	}
	m.Tick(0.5)
	if !b.StartValue().Equal(Float(100)) {
		t.Errorf("queued start = %v, want 100", b.StartValue())
	}
	if !approx(f.Position().X, 150) {
		t.Errorf("x = %v, want 150", f.Position().X)
	}
	m.Tick(0.5)
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("completion order = %v", order)
	}
}

func TestAnimateQueueStop(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	a, _ := m.Animate(f, "x", Float(100), 1.0, AnimOptions{})
	b, _ := m.Animate(f, "x", Float(200), 1.0, AnimOptions{Conflict: ConflictQueue})
	a.Stop()
	if !b.Complete() {
		t.Error("stopping the head should cancel the queue")
	}
	m.Tick(2)
	if f.Position().X != 0 {
		t.Errorf("x = %v, want 0", f.Position().X)
	}
}

func TestAnimateErrorMode(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	m.Animate(f, "x", Float(100), 1.0, AnimOptions{})
	if _, err := m.Animate(f, "x", Float(5), 1.0, AnimOptions{Conflict: ConflictError}); !errors.Is(err, ErrValue) {
		t.Errorf("err = %v, want ErrValue", err)
	}
	if _, err := m.Animate(f, "y", Float(5), 1.0, AnimOptions{Conflict: ConflictError}); err != nil {
		t.Errorf("other property should be free: %v", err)
	}
}

func TestAnimateValidation(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	gone := NewFrame(0, 0, 1, 1)
	gone.Dispose()

	tests := []struct {
		name   string
		target Animatable
		prop   string
		to     Value
		dur    float64
		want   error
	}{
		{"nil target", nil, "x", Float(1), 1, ErrType},
		{"disposed", gone, "x", Float(1), 1, ErrRuntime},
		{"unknown property", f, "nope", Float(1), 1, ErrValue},
		{"wrong kind", f, "x", String("a"), 1, ErrType},
		{"color into float", f, "x", ColorValue(ColorWhite), 1, ErrType},
		{"empty frames", NewSprite(0, 0, nil, 0), "sprite_index", Frames(), 1, ErrValue},
		{"negative duration", f, "x", Float(1), -1, ErrValue},
	}
	for _, tt := range tests {
		_, err := m.Animate(tt.target, tt.prop, tt.to, tt.dur, AnimOptions{})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
	if m.Len() != 0 {
		t.Error("failed Animate must not register anything")
	}
}

func TestAnimateDelta(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(10, 0, 10, 10)
	m.Animate(f, "x", Float(5), 1.0, AnimOptions{Delta: true})
	m.Tick(0.5)
	if !approx(f.Position().X, 12.5) {
		t.Errorf("x = %v, want 12.5", f.Position().X)
	}
	m.Tick(0.5)
	if f.Position().X != 15 {
		t.Errorf("x = %v, want 15", f.Position().X)
	}
}

func TestAnimateLoop(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	called := false
	m.Animate(f, "x", Float(100), 1.0, AnimOptions{
		Loop:       true,
		OnComplete: func(Animatable, string, Value) { called = true },
	})
	m.Tick(1.0)
	if f.Position().X != 100 {
		t.Errorf("x = %v, want 100", f.Position().X)
	}
	m.Tick(0.25)
	if !approx(f.Position().X, 25) {
		t.Errorf("x after restart = %v, want 25", f.Position().X)
	}
	if called || m.Len() != 1 {
		t.Error("looping animation should never complete")
	}
}

func TestAnimateZeroDuration(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	done := false
	m.Animate(f, "y", Float(42), 0, AnimOptions{OnComplete: func(Animatable, string, Value) { done = true }})
	m.Tick(0.016)
	if f.Position().Y != 42 || !done {
		t.Errorf("y = %v done = %v, want 42 true", f.Position().Y, done)
	}
}

func TestAnimateKinds(t *testing.T) {
	m, _ := newTestManager(t)

	f := NewFrame(0, 0, 10, 10)
	m.Animate(f, "fill_color", ColorValue(Color{200, 100, 0, 255}), 1.0, AnimOptions{})
	m.Animate(f, "pos", Vec(20, 40), 1.0, AnimOptions{})

	sp := NewSprite(0, 0, nil, 0)
	m.Animate(sp, "sprite_index", Frames(3, 4, 5, 6), 1.0, AnimOptions{})

	c := NewCaption("abcd", 0, 0, nil)
	m.Animate(c, "text", String("xy"), 1.0, AnimOptions{})

	m.Tick(0.25)
	if got := c.Text(); got != "ab" {
		t.Errorf("text at 0.25 = %q, want ab", got)
	}
	m.Tick(0.25)
	if got := f.FillColor(); got != (Color{100, 50, 0, 128}) {
		t.Errorf("fill at 0.5 = %v", got)
	}
	if f.Position() != (Vec2{10, 20}) {
		t.Errorf("pos at 0.5 = %v, want (10,20)", f.Position())
	}
	if sp.SpriteIndex() != 4 {
		t.Errorf("sprite_index at 0.5 = %d, want 4", sp.SpriteIndex())
	}
	m.Tick(0.25)
	if got := c.Text(); got != "x" {
		t.Errorf("text at 0.75 = %q, want x", got)
	}
	m.Tick(0.25)
	if c.Text() != "xy" || sp.SpriteIndex() != 6 {
		t.Errorf("final text %q index %d", c.Text(), sp.SpriteIndex())
	}
}

func TestAnimateIntProperty(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	m.Animate(f, "z_index", Float(10), 1.0, AnimOptions{})
	m.Tick(0.46)
	if f.ZIndex() != 5 {
		t.Errorf("z_index = %d, want 5 (rounded)", f.ZIndex())
	}
}

func TestAnimateEasing(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	m.Animate(f, "x", Float(100), 1.0, AnimOptions{Easing: EaseInQuad.Func()})
	m.Tick(0.5)
	if !approx(f.Position().X, 25) {
		t.Errorf("x = %v, want 25", f.Position().X)
	}
}

func TestAnimateDisposedTarget(t *testing.T) {
	m, _ := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	called := false
	a, _ := m.Animate(f, "x", Float(100), 1.0, AnimOptions{
		OnComplete: func(Animatable, string, Value) { called = true },
	})
	m.Tick(0.5)
	f.Dispose()
	m.Tick(1)
	if !a.Complete() || called || m.Len() != 0 {
		t.Error("animation on a disposed target should stop silently")
	}
}

func TestAnimateEntity(t *testing.T) {
	m, _ := newTestManager(t)
	g := openGrid(t, 10, 10)
	e := NewEntity(0, 0, nil, 0)
	g.Entities().Append(e)
	m.Animate(e, "pos", Vec(4, 0), 1.0, AnimOptions{})
	m.Tick(0.5)
	if e.Cell() != (Point{2, 0}) || len(g.EntitiesAt(2, 0)) != 1 {
		t.Errorf("entity cell = %v, want (2,0) and indexed", e.Cell())
	}
}

func TestAnimateCallbackPanic(t *testing.T) {
	m, buf := newTestManager(t)
	f := NewFrame(0, 0, 10, 10)
	m.Animate(f, "x", Float(1), 0.1, AnimOptions{
		OnComplete: func(Animatable, string, Value) { panic("kaboom") },
	})
	m.Tick(0.1)
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("log = %q, want panic message", buf.String())
	}
	if m.Len() != 0 {
		t.Error("animation should complete despite the panic")
	}
}

func TestStopAllAndClear(t *testing.T) {
	m, _ := newTestManager(t)
	a := NewFrame(0, 0, 10, 10)
	b := NewFrame(0, 0, 10, 10)
	m.Animate(a, "x", Float(10), 1, AnimOptions{})
	m.Animate(a, "y", Float(10), 1, AnimOptions{})
	m.Animate(b, "x", Float(10), 1, AnimOptions{})

	m.StopAll(a)
	m.Tick(0.5)
	if m.Len() != 1 || a.Position() != (Vec2{}) {
		t.Errorf("Len = %d pos = %v", m.Len(), a.Position())
	}
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len after Clear = %d", m.Len())
	}
}

func TestClearFromOnComplete(t *testing.T) {
	m, _ := newTestManager(t)
	a := NewFrame(0, 0, 10, 10)
	b := NewFrame(0, 0, 10, 10)
	c := NewFrame(0, 0, 10, 10)
	m.Animate(a, "x", Float(10), 0.5, AnimOptions{
		OnComplete: func(Animatable, string, Value) {
			m.Clear()
			m.Animate(c, "x", Float(10), 1, AnimOptions{})
		},
	})
	m.Animate(b, "x", Float(10), 1, AnimOptions{})
	queued, _ := m.Animate(b, "x", Float(20), 1, AnimOptions{Conflict: ConflictQueue})

	m.Tick(0.5)
	if b.Position().X != 0 {
		t.Errorf("cleared animation moved b to %v", b.Position().X)
	}
	if !queued.complete {
		t.Error("Clear should stop queued successors")
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want only the animation started after Clear", m.Len())
	}
	m.Tick(0.5)
	if c.Position().X != 5 {
		t.Errorf("c.x = %v, want 5", c.Position().X)
	}
}

// --- Easing ---

func TestEasingEndpoints(t *testing.T) {
	for i, name := range EasingNames() {
		fn := Easing(i).Func()
		if !approx(fn(0), 0) || !approx(fn(1), 1) {
			t.Errorf("%s: f(0)=%v f(1)=%v", name, fn(0), fn(1))
		}
	}
}

func TestEasingByName(t *testing.T) {
	e, err := EasingByName("easeOutBounce")
	if err != nil || e != EaseOutBounce {
		t.Errorf("EasingByName = %v, %v", e, err)
	}
	if _, err := EasingByName("EASEOUTBOUNCE"); !errors.Is(err, ErrValue) {
		t.Errorf("err = %v, want ErrValue", err)
	}
	if Easing(200).String() != "unknown" {
		t.Error("out-of-range easing should name itself unknown")
	}
}
