// Package bramble is a retained-mode 2D roguelike framework for [Ebitengine].
//
// Bramble provides a scene graph of drawables, a tile grid with layers,
// entities, field of view and pathfinding, property animations (via
// [gween] easing), and mouse/keyboard event routing with hover tracking.
//
// # Quick start
//
// Create an [Engine] from a [Config], register scenes, and call [Run]:
//
//	cfg, _ := bramble.LoadConfig("game.yaml") // or bramble.DefaultConfig()
//	engine, _ := bramble.NewEngine(cfg)
//	scene, _ := engine.NewScene("main")
//	// ... add drawables ...
//	if err := bramble.Run(engine); err != nil {
//		log.Fatal(err)
//	}
//
// [Engine] implements [ebiten.Game], so it can also be driven by your own
// loop. With Config.Headless set, call [Engine.Step] directly; tests do this.
//
// # Scene graph
//
// A [Scene] holds an ordered list of root drawables. [Frame] and [Grid]
// own child lists of their own. Every drawable embeds [Node], which
// carries position, z-index, visibility, opacity, alignment and the
// OnClick/OnEnter/OnExit/OnMove callbacks.
//
//	panel := bramble.NewFrame(0, 0, 200, 80)
//	panel.SetFillColor(bramble.Color{32, 32, 48, 255})
//	panel.SetAlign(bramble.AlignBottomCenter)
//	scene.Children().Append(panel)
//
//	label := engine.NewCaption("HP 10/10", 8, 8)
//	panel.Children().Append(label)
//
// Siblings draw in ascending z-index; equal z keeps insertion order. A
// click goes to the top-most visible drawable that has a handler.
//
// # Grids
//
// A [Grid] is a fixed array of cells, each walkable and/or transparent,
// drawn through a camera (center + zoom). Grids larger than the chunk
// threshold store cells in lazily allocated chunks. [ColorLayer] and
// [TileLayer] paint cells; entities live in the grid's [EntityCollection]
// and are indexed by a spatial hash.
//
//	grid, _ := bramble.NewGrid(80, 45, tiles, 0, 0, 0, 0)
//	hero := bramble.NewEntity(10, 10, tiles, 64)
//	grid.Entities().Append(hero)
//	hero.UpdateVisibility()
//	path := hero.PathTo(bramble.Point{X: 20, Y: 12})
//
// # Animation
//
// [AnimationManager] interpolates any named property of a drawable or
// entity. Values are tagged with [Value]; conflicts on the same property
// replace, queue, or fail depending on [ConflictMode].
//
//	engine.Animate(hero, "pos", bramble.Vec(12, 10), 0.25, bramble.AnimOptions{
//		Easing: bramble.EaseOutQuad.Func(),
//	})
//
// # Callbacks
//
// Panics in user callbacks are recovered, logged, and kept as
// [Engine.LastError]. With Config.ExitOnException the engine stops at the
// end of that frame. An [EventSink] receives every routed interaction;
// the ecs sub-package forwards them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package bramble
