// Package ecs provides ECS adapters for bramble's interaction events.
//
// [NewDonburiSink] bridges routed clicks, hovers, cell events and key
// presses into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	engine.SetEventSink(ecs.NewDonburiSink(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
