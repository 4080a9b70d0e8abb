// Package ecs provides ECS adapters for lattice's event system.
//
// The primary adapter is [NewDonburiSink], which bridges lattice events
// (node clicks, hover changes, mode and quality changes) into a [Donburi]
// world as typed events. Subscribe to [EventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	vis.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
