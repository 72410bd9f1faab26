package bramble

import "github.com/hajimehoshi/ebiten/v2"

// Injected events are consumed one per frame, after any real input queued
// for that frame. Coordinates are scene coordinates, which match window
// pixels.

func (e *Engine) inject(ev Event) { e.injected = append(e.injected, ev) }

// InjectMove queues a pointer move to (x, y).
func (e *Engine) InjectMove(x, y float64) {
	e.inject(Event{Kind: EventMouseMove, Pos: Vec2{x, y}})
}

// InjectPress queues a left button press at (x, y).
func (e *Engine) InjectPress(x, y float64) {
	e.inject(Event{Kind: EventMouseButton, Pos: Vec2{x, y}, Button: MouseButtonLeft, State: StatePressed})
}

// InjectRelease queues a left button release at (x, y).
func (e *Engine) InjectRelease(x, y float64) {
	e.inject(Event{Kind: EventMouseButton, Pos: Vec2{x, y}, Button: MouseButtonLeft, State: StateReleased})
}

// InjectClick queues a move, press and release at the same point. Consumes
// three frames.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectMove(x, y)
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves,
// and a release at (toX, toY). Minimum frames is 2.
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectKey queues a key press followed by its release.
func (e *Engine) InjectKey(k ebiten.Key) {
	e.inject(Event{Kind: EventKey, Key: k, State: StatePressed})
	e.inject(Event{Kind: EventKey, Key: k, State: StateReleased})
}

// PendingInjections reports how many injected events are still queued.
func (e *Engine) PendingInjections() int { return len(e.injected) }

func (e *Engine) popInjected() (Event, bool) {
	if len(e.injected) == 0 {
		return Event{}, false
	}
	ev := e.injected[0]
	copy(e.injected, e.injected[1:])
	e.injected = e.injected[:len(e.injected)-1]
	return ev, true
}
