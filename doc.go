// Package gesture recognizes multi-pointer pen, touch, and mouse gestures on
// a tree of elements, disambiguating them in real time from concurrent
// pointer streams.
//
// # Quick start
//
// A [Surface] owns the element tree and an [Engine]. Define gestures with
// [New] and the chained setters, register them, and feed pointer events:
//
//	surface := gesture.NewSurface(640, 480, gesture.Options{})
//	card := gesture.NewElement("card", 200, 120)
//	surface.Root().AddChild(card)
//
//	tap := gesture.New("tap", card).
//		SetPointerType("touch|mouse").
//		SetCompletionTimeout(150 * time.Millisecond).
//		SetConditional(func(m gesture.Match) bool { return m.MaxDistance() <= 5 }).
//		OnEnded(func(g *gesture.Gesture) { fmt.Println("tapped") })
//	if err := surface.Engine().Add(tap); err != nil {
//		log.Fatal(err)
//	}
//
// Call [Surface.Update] once per frame. It polls the attached
// [PointerSource] (for example [EbitenSource]) and fires due timers; nothing
// runs on its own goroutine.
//
// # Pointer types
//
// A gesture's pointer type is an expression of AND-terms joined with '+',
// each a set of alternatives joined with '|', with an optional ":n" count:
// "touch:2", "pen+touch", "touch|pen:2+mouse". Recognition requires an exact
// count per kind. "hover" matches a pen or mouse in range without contact.
//
// # Recognition
//
// The first contact on a target opens an acquisition window as long as the
// longest recognition timeout among gestures the contacts could still grow
// into. When it closes, gestures are tried in registration order and the
// first that qualifies starts. Events arriving meanwhile are postponed; if
// nothing is recognized they are replayed to the parent element so ancestor
// gestures and user listeners still see them.
//
// Register repeating gestures (double tap) before the simple gestures they
// compete with: a repeat in progress halts the search.
//
// # Timing
//
// All timing uses the engine [Clock]. Tests and scripted playback use a
// [VirtualClock] and [ScriptRunner]; see also [Surface.InjectDrag].
//
// # Declarative definitions
//
// The config subpackage loads gesture definitions from TOML, YAML, or JSON,
// with expr predicates, and can hot-reload them. The ecs subpackage mirrors
// lifecycle events into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package gesture
