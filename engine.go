package bramble

import (
	"errors"
	"log"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Engine owns the scene registry, the animation manager, the input queue,
// and the frame loop. It implements ebiten.Game; Run starts it in a window
// and Step drives it without one.
//
// Each frame runs, in order: input events, animation tick, scene update
// hooks, render. Scene switches requested during a frame take effect at
// the start of the next.
type Engine struct {
	cfg    Config
	guard  *guard
	anims  *AnimationManager
	sink   EventSink
	scenes map[string]*Scene

	active  *Scene
	pending *Scene

	queue    []Event
	injected []Event
	runner   *TestRunner
	input    inputState

	screenshots []string
	frame       uint64
	width       int
	height      int
	stopped     bool

	font    *Font
	texture *Texture
	stats   frameStats
}

// NewEngine validates cfg and returns an engine with no scenes.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		guard:  newGuard(),
		anims:  NewAnimationManager(),
		scenes: make(map[string]*Scene),
		width:  cfg.WindowSize.Width,
		height: cfg.WindowSize.Height,
	}
	e.guard.exitOnPanic = cfg.ExitOnException
	e.anims.guard = e.guard
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Animations returns the engine's animation manager.
func (e *Engine) Animations() *AnimationManager { return e.anims }

// Animate is shorthand for e.Animations().Animate.
func (e *Engine) Animate(target Animatable, property string, to Value, duration float64, opts AnimOptions) (*Animation, error) {
	return e.anims.Animate(target, property, to, duration, opts)
}

// SetLogger redirects engine diagnostics and callback failure reports.
func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = newLogger(log.Writer())
	}
	e.guard.logger = l
}

// SetEventSink forwards every routed interaction to sink. nil disables it.
func (e *Engine) SetEventSink(sink EventSink) { e.sink = sink }

// LastError returns the most recent callback failure, or nil.
func (e *Engine) LastError() error {
	if e.guard.lastErr == nil {
		return nil
	}
	return e.guard.lastErr
}

// ErrorCount returns how many callbacks have panicked.
func (e *Engine) ErrorCount() int { return e.guard.errCount }

// Frame returns the number of completed frames.
func (e *Engine) Frame() uint64 { return e.frame }

// NewScene creates and registers a scene sized to the window. The first
// scene registered becomes active immediately.
func (e *Engine) NewScene(name string) (*Scene, error) {
	s := NewScene(name, float64(e.width), float64(e.height))
	if err := e.AddScene(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddScene registers s under its name.
func (e *Engine) AddScene(s *Scene) error {
	if s == nil {
		return typeErrorf("nil scene")
	}
	if s.name == "" {
		return valueErrorf("scene name must not be empty")
	}
	if _, dup := e.scenes[s.name]; dup {
		return valueErrorf("scene %q already registered", s.name)
	}
	if s.engine != nil && s.engine != e {
		return runtimeErrorf("scene %q belongs to another engine", s.name)
	}
	s.engine = e
	e.scenes[s.name] = s
	s.resize(float64(e.width), float64(e.height))
	if e.active == nil {
		e.activate(s)
	}
	return nil
}

// Scene looks up a registered scene.
func (e *Engine) Scene(name string) (*Scene, bool) {
	s, ok := e.scenes[name]
	return s, ok
}

// SceneNames lists registered scenes alphabetically.
func (e *Engine) SceneNames() []string {
	out := make([]string, 0, len(e.scenes))
	for name := range e.scenes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RemoveScene unregisters a scene. The active scene, or one about to
// become active, cannot be removed.
func (e *Engine) RemoveScene(name string) error {
	s, ok := e.scenes[name]
	if !ok {
		return valueErrorf("no scene named %q", name)
	}
	if s == e.active || s == e.pending {
		return runtimeErrorf("scene %q is active", name)
	}
	delete(e.scenes, name)
	s.engine = nil
	return nil
}

// ActiveScene returns the scene being rendered, or nil before any scene is
// registered.
func (e *Engine) ActiveScene() *Scene { return e.active }

// SetScene requests a switch to the named scene. The switch happens at the
// next frame boundary; until then the current scene keeps running.
func (e *Engine) SetScene(name string) error {
	s, ok := e.scenes[name]
	if !ok {
		return valueErrorf("no scene named %q", name)
	}
	if s == e.active {
		e.pending = nil
		return nil
	}
	e.pending = s
	return nil
}

func (e *Engine) activate(s *Scene) {
	if old := e.active; old != nil {
		old.resetHover()
		if cb := old.OnDeactivate; cb != nil {
			e.guard.call("on_deactivate", "scene "+old.name, cb)
		}
	}
	e.active = s
	s.resize(float64(e.width), float64(e.height))
	if cb := s.OnActivate; cb != nil {
		e.guard.call("on_activate", "scene "+s.name, cb)
	}
}

// PushEvent queues ev for the next frame. Events are dispatched in arrival
// order.
func (e *Engine) PushEvent(ev Event) {
	e.queue = append(e.queue, ev)
}

// Stop asks the engine to end after the current frame.
func (e *Engine) Stop() { e.stopped = true }

// Done reports whether the engine has been asked to stop, either by Stop
// or by a callback panic with ExitOnException set.
func (e *Engine) Done() bool { return e.stopped || e.guard.exitRequested }

// Step runs one frame of logic: pending scene switch, test runner, input
// events, animations, update hooks. It does not render.
func (e *Engine) Step(dt float64) {
	if e.pending != nil {
		e.activate(e.pending)
		e.pending = nil
	}
	if e.runner != nil {
		e.runner.step(e)
	}

	var t0 time.Time
	if e.cfg.Debug {
		t0 = time.Now()
	}

	events := e.queue
	e.queue = nil
	if ev, ok := e.popInjected(); ok {
		events = append(events, ev)
	}
	e.stats.events = len(events)
	for _, ev := range events {
		if ev.Kind == EventResize {
			e.width, e.height = ev.Width, ev.Height
			for _, s := range e.scenes {
				if s != e.active {
					s.resize(float64(ev.Width), float64(ev.Height))
				}
			}
		}
		if e.active != nil {
			e.active.dispatch(ev)
		}
	}

	if e.cfg.Debug {
		e.stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	e.anims.Tick(dt)
	e.stats.animations = e.anims.Len()

	if e.cfg.Debug {
		e.stats.animTime = time.Since(t0)
		t0 = time.Now()
	}

	if e.active != nil {
		e.active.update(dt)
	}

	if e.cfg.Debug {
		e.stats.updateTime = time.Since(t0)
	}
	e.frame++
}

// Update implements ebiten.Game.
func (e *Engine) Update() error {
	if !e.cfg.Headless {
		e.pollInput()
	}
	e.Step(1 / float64(ebiten.TPS()))
	if e.Done() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if e.cfg.Debug {
		t0 = time.Now()
	}
	if e.active != nil {
		e.active.Render(screen)
	}
	if e.cfg.Debug {
		e.stats.renderTime = time.Since(t0)
		e.debugLog()
	}
	e.flushScreenshots(screen)
}

// Layout implements ebiten.Game. A change in the outside size queues a
// resize event.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != e.width || outsideHeight != e.height {
		e.PushEvent(Event{Kind: EventResize, Width: outsideWidth, Height: outsideHeight})
		e.width, e.height = outsideWidth, outsideHeight
	}
	return outsideWidth, outsideHeight
}

// RenderFrame draws the active scene into an offscreen image of the window
// size. Headless callers use it for snapshots.
func (e *Engine) RenderFrame() *ebiten.Image {
	img := ebiten.NewImage(e.width, e.height)
	if e.active != nil {
		e.active.Render(img)
	}
	e.flushScreenshots(img)
	return img
}

// DefaultFont returns the font named by Config.DefaultFontPath, or the
// built-in face when the path is empty or fails to load.
func (e *Engine) DefaultFont() *Font {
	if e.font != nil {
		return e.font
	}
	e.font = DefaultFont()
	if p := e.cfg.DefaultFontPath; p != "" {
		f, err := LoadFont(p)
		if err != nil {
			e.guard.logf("default font: %v", err)
		} else {
			e.font = f
		}
	}
	return e.font
}

// NewCaption creates a caption in the engine's default font at
// Config.DefaultFontSize.
func (e *Engine) NewCaption(s string, x, y float64) *Caption {
	c := NewCaption(s, x, y, e.DefaultFont())
	c.SetFontSize(e.cfg.DefaultFontSize)
	return c
}

// DefaultTexture returns the texture named by Config.DefaultTexturePath,
// or nil when none is configured or it fails to load.
func (e *Engine) DefaultTexture() *Texture {
	if e.texture != nil || e.cfg.DefaultTexturePath == "" {
		return e.texture
	}
	t, err := LoadTexture(e.cfg.DefaultTexturePath, e.cfg.DefaultSpriteSize.Width, e.cfg.DefaultSpriteSize.Height)
	if err != nil {
		e.guard.logf("default texture: %v", err)
		return nil
	}
	e.texture = t
	return t
}

// Run opens a window and runs the engine until it stops. A callback panic
// that ended the run is returned.
func Run(e *Engine) error {
	if e.cfg.Headless {
		return runtimeErrorf("Run needs a window; use Step in headless mode")
	}
	ebiten.SetWindowSize(e.cfg.WindowSize.Width, e.cfg.WindowSize.Height)
	ebiten.SetWindowTitle(e.cfg.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(e.cfg.TPS)
	err := ebiten.RunGame(e)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	if e.guard.exitRequested && e.guard.lastErr != nil {
		return e.guard.lastErr
	}
	return nil
}
