package gesture

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// PointerType identifies the kind of device behind a pointer.
type PointerType uint8

const (
	PointerUnknown PointerType = iota
	PointerMouse               // mouse cursor
	PointerPen                 // stylus in contact
	PointerTouch               // a single finger
	PointerHover               // pen or mouse in range without contact (pseudo-kind)
)

// numPointerKinds sizes per-kind count arrays.
const numPointerKinds = 5

var pointerTypeNames = [numPointerKinds]string{"unknown", "mouse", "pen", "touch", "hover"}

// String returns the lowercase name used in pointer-type specs.
func (t PointerType) String() string {
	if int(t) < len(pointerTypeNames) {
		return pointerTypeNames[t]
	}
	return "PointerType(" + strconv.Itoa(int(t)) + ")"
}

// parsePointerKind maps a pointer-type keyword to its PointerType.
func parsePointerKind(s string) (PointerType, bool) {
	switch s {
	case "mouse":
		return PointerMouse, true
	case "pen":
		return PointerPen, true
	case "touch":
		return PointerTouch, true
	case "hover":
		return PointerHover, true
	}
	return PointerUnknown, false
}

// PointerID is the stable identity of one physical contact stream. A pen's
// NativeID changes when it leaves the hover range, not when it lifts.
type PointerID struct {
	Type     PointerType
	NativeID int
}

// String renders the id as "type:native", e.g. "touch:3".
func (id PointerID) String() string {
	return id.Type.String() + ":" + strconv.Itoa(id.NativeID)
}

// ParsePointerID parses the "type:native" form produced by String.
func ParsePointerID(s string) (PointerID, error) {
	kind, num, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return PointerID{}, fmt.Errorf("gesture: pointer id %q: missing ':'", s)
	}
	t, ok := parsePointerKind(strings.ToLower(kind))
	if !ok || t == PointerHover {
		return PointerID{}, fmt.Errorf("gesture: pointer id %q: unknown pointer type", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return PointerID{}, fmt.Errorf("gesture: pointer id %q: %w", s, err)
	}
	return PointerID{Type: t, NativeID: n}, nil
}

// EventKind identifies a pointer notification.
type EventKind uint8

const (
	EventDown       EventKind = iota // contact started
	EventMove                        // position changed
	EventUp                          // contact ended
	EventEnter                       // pointer entered an element
	EventLeave                       // pointer left an element
	EventCancel                      // platform took the pointer away
	EventHoverStart                  // engine-internal: pen/mouse entered without contact
	numEventKinds
)

var eventKindNames = [numEventKinds]string{"down", "move", "up", "enter", "leave", "cancel", "hoverstart"}

func (k EventKind) String() string {
	if k < numEventKinds {
		return eventKindNames[k]
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// Button bits carried in PointerEvent.Buttons.
const (
	ButtonPrimary   uint16 = 1 << iota // left mouse, pen tip, touch contact
	ButtonSecondary                    // right mouse, pen barrel
	ButtonMiddle                       // middle mouse
)

// PointerEvent is a raw notification from the host pointer source.
// Timestamp is informational only; the engine stamps its own clock because
// host timestamps disagree across pointer types.
type PointerEvent struct {
	Kind      EventKind
	Pointer   PointerID
	Buttons   uint16
	X, Y      float64
	Timestamp time.Time
}

// Pos returns the event position.
func (e PointerEvent) Pos() Vec2 {
	return Vec2{e.X, e.Y}
}

// Redispatch describes an event the engine replayed to an ancestor after a
// failed recognition.
type Redispatch struct {
	Origin *Element // element whose engine listener postponed the event
	Seq    int      // position in the replayed batch
}

// envelope wraps a host event with engine-owned metadata so host objects are
// never mutated.
type envelope struct {
	event      PointerEvent
	target     *Element
	at         time.Time
	redispatch *Redispatch
}

func (env *envelope) kind() EventKind { return env.event.Kind }

func (env *envelope) pointer() PointerID { return env.event.Pointer }

// isRelease reports whether the envelope ends a contact (up or leave).
func (env *envelope) isRelease() bool {
	return env != nil && (env.event.Kind == EventUp || env.event.Kind == EventLeave)
}
