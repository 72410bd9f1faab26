package bramble

import (
	"errors"
	"fmt"
	"math"
)

// Animatable is anything an animation can drive: every Drawable and
// Entity. A disposed target expires its animations.
type Animatable interface {
	SetProperty(name string, v Value) error
	Property(name string) (Value, bool)
	HasProperty(name string) bool
	PropertyNames() []string
	Disposed() bool
}

// ConflictMode decides what Animate does when the property already has a
// running animation.
type ConflictMode uint8

const (
	// ConflictReplace cancels the running animation without its completion
	// callback and starts the new one.
	ConflictReplace ConflictMode = iota
	// ConflictQueue starts the new animation on the frame after the running
	// one completes.
	ConflictQueue
	// ConflictError rejects the new animation with ErrValue.
	ConflictError
)

func (m ConflictMode) String() string {
	switch m {
	case ConflictReplace:
		return "replace"
	case ConflictQueue:
		return "queue"
	case ConflictError:
		return "error"
	}
	return "unknown"
}

// AnimOptions are the optional settings of Animate. The zero value is a
// linear, absolute, one-shot animation that replaces any running one.
type AnimOptions struct {
	Easing   EasingFunc // nil means linear
	Delta    bool       // target is relative to the start value
	Loop     bool       // restart instead of completing
	Conflict ConflictMode

	// OnComplete fires once when a non-looping animation reaches its end.
	OnComplete func(target Animatable, property string, final Value)
}

// Animation is one eased property change in flight.
type Animation struct {
	mgr      *AnimationManager
	target   Animatable
	property string
	to       Value
	start    Value
	duration float64
	elapsed  float64
	easing   EasingFunc
	delta    bool
	loop     bool
	conflict ConflictMode

	onComplete func(Animatable, string, Value)

	started  bool
	complete bool
	// next is the animation queued behind this one on the same property.
	next *Animation
}

func (a *Animation) Target() Animatable { return a.target }
func (a *Animation) Property() string   { return a.property }
func (a *Animation) StartValue() Value  { return a.start }
func (a *Animation) TargetValue() Value { return a.to }
func (a *Animation) Duration() float64  { return a.duration }
func (a *Animation) Elapsed() float64   { return a.elapsed }
func (a *Animation) Complete() bool     { return a.complete }
func (a *Animation) Started() bool      { return a.started }

// Stop cancels the animation and anything queued behind it. The property
// keeps its current value and no completion callback fires.
func (a *Animation) Stop() {
	for x := a; x != nil; x = x.next {
		x.complete = true
	}
	if a.mgr != nil {
		a.mgr.forget(a)
	}
}

type animKey struct {
	target   Animatable
	property string
}

// AnimationManager ticks animations once per frame. The engine owns one;
// tests may construct their own.
type AnimationManager struct {
	active []*Animation
	// heads maps a (target, property) pair to its running animation. Queued
	// successors hang off the head's next chain.
	heads map[animKey]*Animation
	// starting holds successors released last frame; they start at the
	// top of the next Tick.
	starting []*Animation
	guard    *guard
	// ticking is set while Tick steps animations; Clear then leaves
	// m.active to the compaction pass.
	ticking bool
}

// NewAnimationManager returns an empty manager that logs callback panics
// to stderr.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{heads: make(map[animKey]*Animation), guard: newGuard()}
}

// Len reports the number of running animations, queued ones excluded.
func (m *AnimationManager) Len() int { return len(m.active) }

// Animate starts animating target's property toward to over duration
// seconds. The start value is read from the target now, or when a queued
// animation begins. Unknown properties and mismatched value kinds fail
// before any state changes.
func (m *AnimationManager) Animate(target Animatable, property string, to Value, duration float64, opts AnimOptions) (*Animation, error) {
	if target == nil {
		return nil, typeErrorf("cannot animate nil target")
	}
	if target.Disposed() {
		return nil, runtimeErrorf("cannot animate disposed %T", target)
	}
	if !target.HasProperty(property) {
		return nil, unknownPropertyError(fmt.Sprintf("%T", target), property, target.PropertyNames())
	}
	cur, _ := target.Property(property)
	if !animatableKinds(cur.Kind(), to.Kind()) {
		return nil, typeErrorf("cannot animate %s property %q with %s value", cur.Kind(), property, to.Kind())
	}
	if seq, ok := to.AsFrames(); ok && len(seq) == 0 {
		return nil, valueErrorf("empty frame sequence for %q", property)
	}
	if duration < 0 || math.IsNaN(duration) {
		return nil, valueErrorf("negative animation duration %g", duration)
	}
	if opts.Conflict > ConflictError {
		return nil, valueErrorf("unknown conflict mode %d", opts.Conflict)
	}

	a := &Animation{
		mgr:        m,
		target:     target,
		property:   property,
		to:         to,
		duration:   duration,
		easing:     opts.Easing,
		delta:      opts.Delta,
		loop:       opts.Loop,
		conflict:   opts.Conflict,
		onComplete: opts.OnComplete,
	}
	if a.easing == nil {
		a.easing = EaseLinear.Func()
	}

	if head := m.running(animKey{target, property}); head != nil {
		switch opts.Conflict {
		case ConflictError:
			return nil, valueErrorf("property %q is already animating", property)
		case ConflictQueue:
			tail := head
			for tail.next != nil {
				tail = tail.next
			}
			tail.next = a
			return a, nil
		default:
			head.Stop()
		}
	}
	m.begin(a)
	return a, nil
}

// animatableKinds reports whether a property of kind prop can be driven by
// a value of kind to.
func animatableKinds(prop, to ValueKind) bool {
	switch prop {
	case KindFloat:
		return to == KindFloat || to == KindInt
	case KindInt:
		return to == KindInt || to == KindFloat || to == KindIntSeq
	default:
		return prop == to
	}
}

// begin captures the start value and makes a the running animation for its
// property.
func (m *AnimationManager) begin(a *Animation) {
	a.start, _ = a.target.Property(a.property)
	a.started = true
	m.heads[animKey{a.target, a.property}] = a
	m.active = append(m.active, a)
}

// running returns the animation that owns key, including one released from
// a queue that has not started yet.
func (m *AnimationManager) running(key animKey) *Animation {
	if a, ok := m.heads[key]; ok && !a.complete {
		return a
	}
	for _, a := range m.starting {
		if !a.complete && a.target == key.target && a.property == key.property {
			return a
		}
	}
	return nil
}

// forget drops a's bookkeeping once it has stopped.
func (m *AnimationManager) forget(a *Animation) {
	key := animKey{a.target, a.property}
	if m.heads[key] == a {
		delete(m.heads, key)
	}
}

// Tick advances every running animation by dt seconds in the order they
// started, writes the new values, and retires finished animations.
func (m *AnimationManager) Tick(dt float64) {
	if len(m.starting) > 0 {
		for _, a := range m.starting {
			if a.complete {
				continue
			}
			if a.target.Disposed() {
				a.Stop()
				continue
			}
			m.begin(a)
		}
		m.starting = m.starting[:0]
	}

	// Callbacks may Animate or Clear; step only what was running.
	m.ticking = true
	for _, a := range m.active[:len(m.active):len(m.active)] {
		m.step(a, dt)
	}
	m.ticking = false

	live := m.active[:0]
	for _, a := range m.active {
		if !a.complete {
			live = append(live, a)
		}
	}
	clear(m.active[len(live):])
	m.active = live
}

func (m *AnimationManager) step(a *Animation, dt float64) {
	if a.complete {
		return
	}
	if a.target.Disposed() {
		a.Stop()
		return
	}
	a.elapsed = math.Min(a.elapsed+dt, a.duration)
	t := 1.0
	if a.duration > 0 {
		t = a.elapsed / a.duration
	}
	v := interpolate(a.start, a.to, a.easing(t), t, a.delta)
	if err := a.target.SetProperty(a.property, v); err != nil {
		// Easings that overshoot (back, elastic) can step outside a
		// property's range mid-flight; skip those frames.
		if errors.Is(err, ErrValue) && a.elapsed < a.duration {
			return
		}
		m.guard.logf("animation of %q stopped: %v", a.property, err)
		a.Stop()
		return
	}
	if a.elapsed < a.duration {
		return
	}
	if a.loop {
		a.elapsed = 0
		return
	}
	a.complete = true
	m.forget(a)
	if a.next != nil {
		m.starting = append(m.starting, a.next)
		a.next = nil
	}
	if a.onComplete != nil {
		m.guard.call("on_complete", fmt.Sprintf("animation of %q", a.property), func() {
			a.onComplete(a.target, a.property, v)
		})
	}
}

// StopAll cancels every animation on target, queued ones included.
func (m *AnimationManager) StopAll(target Animatable) {
	for _, list := range [][]*Animation{m.active, m.starting} {
		for _, a := range list {
			if a.target == target && !a.complete {
				a.Stop()
			}
		}
	}
}

// Clear cancels everything.
func (m *AnimationManager) Clear() {
	for _, a := range m.active {
		a.Stop()
	}
	for _, a := range m.starting {
		a.Stop()
	}
	if !m.ticking {
		m.active = nil
	}
	m.starting = nil
	clear(m.heads)
}

// interpolate computes the value at progress eased. Frame sequences index
// by raw progress t so every frame gets an equal share of the duration.
func interpolate(start, to Value, eased, t float64, delta bool) Value {
	switch to.Kind() {
	case KindFloat, KindInt:
		s, _ := start.AsFloat()
		d, _ := to.AsFloat()
		var f float64
		if delta {
			f = s + d*eased
		} else {
			f = s + (d-s)*eased
		}
		if start.Kind() == KindInt {
			return Int(int(math.Round(f)))
		}
		return Float(f)

	case KindColor:
		s, _ := start.AsColor()
		d, _ := to.AsColor()
		ch := func(a, b uint8) uint8 {
			if delta {
				return clampByte(float64(a) + float64(b)*eased)
			}
			return clampByte(float64(a) + (float64(b)-float64(a))*eased)
		}
		return ColorValue(Color{ch(s.R, d.R), ch(s.G, d.G), ch(s.B, d.B), ch(s.A, d.A)})

	case KindVec2:
		s, _ := start.AsVec2()
		d, _ := to.AsVec2()
		if delta {
			return VecValue(s.Add(d.Scale(eased)))
		}
		return VecValue(s.Add(d.Sub(s).Scale(eased)))

	case KindString:
		s, _ := start.AsString()
		d, _ := to.AsString()
		return String(interpolateString(s, d, clamp01(eased), delta))

	case KindIntSeq:
		seq, _ := to.AsFrames()
		i := int(math.Floor(clamp01(t) * float64(len(seq)-1)))
		return Int(seq[i])
	}
	return to
}

// interpolateString erases start then types out target. In delta mode it
// types target after start.
func interpolateString(start, target string, t float64, delta bool) string {
	s, d := []rune(start), []rune(target)
	if delta {
		return start + string(d[:int(float64(len(d))*t)])
	}
	if t < 0.5 {
		return string(s[:int(float64(len(s))*(1-2*t))])
	}
	return string(d[:int(float64(len(d))*2*(t-0.5))])
}
