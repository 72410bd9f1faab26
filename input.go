package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputState remembers what the last poll saw so only changes become events.
type inputState struct {
	cursor      Vec2
	cursorKnown bool
	keys        []ebiten.Key
	touches     []ebiten.TouchID
	touch       ebiten.TouchID
	touching    bool
}

var pollButtons = [...]struct {
	eb ebiten.MouseButton
	mb MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// pollInput turns this tick's ebiten input state into queued events. While
// injected events are pending the real pointer is ignored, so scripted
// clicks are not disturbed by a resting mouse.
func (e *Engine) pollInput() {
	in := &e.input
	mods := readModifiers()

	if len(e.injected) == 0 {
		cx, cy := ebiten.CursorPosition()
		p := Vec2{float64(cx), float64(cy)}
		if !in.cursorKnown || p != in.cursor {
			in.cursor, in.cursorKnown = p, true
			e.PushEvent(Event{Kind: EventMouseMove, Pos: p, Modifiers: mods})
		}
		for _, b := range pollButtons {
			if inpututil.IsMouseButtonJustPressed(b.eb) {
				e.PushEvent(Event{Kind: EventMouseButton, Pos: p, Button: b.mb, State: StatePressed, Modifiers: mods})
			}
			if inpututil.IsMouseButtonJustReleased(b.eb) {
				e.PushEvent(Event{Kind: EventMouseButton, Pos: p, Button: b.mb, State: StateReleased, Modifiers: mods})
			}
		}
		e.pollTouch(mods)
	}

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		e.PushEvent(Event{Kind: EventKey, Key: k, State: StatePressed, Modifiers: mods})
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		e.PushEvent(Event{Kind: EventKey, Key: k, State: StateReleased, Modifiers: mods})
	}
}

// pollTouch maps the first active touch onto the left mouse button.
func (e *Engine) pollTouch(mods KeyModifiers) {
	in := &e.input
	if !in.touching {
		in.touches = inpututil.AppendJustPressedTouchIDs(in.touches[:0])
		if len(in.touches) == 0 {
			return
		}
		in.touch, in.touching = in.touches[0], true
		x, y := ebiten.TouchPosition(in.touch)
		p := Vec2{float64(x), float64(y)}
		e.PushEvent(Event{Kind: EventMouseMove, Pos: p, Modifiers: mods})
		e.PushEvent(Event{Kind: EventMouseButton, Pos: p, Button: MouseButtonLeft, State: StatePressed, Modifiers: mods})
		return
	}
	if inpututil.IsTouchJustReleased(in.touch) {
		x, y := inpututil.TouchPositionInPreviousTick(in.touch)
		in.touching = false
		e.PushEvent(Event{Kind: EventMouseButton, Pos: Vec2{float64(x), float64(y)}, Button: MouseButtonLeft, State: StateReleased, Modifiers: mods})
		return
	}
	x, y := ebiten.TouchPosition(in.touch)
	e.PushEvent(Event{Kind: EventMouseMove, Pos: Vec2{float64(x), float64(y)}, Modifiers: mods})
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}
