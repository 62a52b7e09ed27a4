package gesture

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSource polls ebiten's mouse and touch state each frame and turns the
// differences into pointer events. Ebiten does not report pens, so a stylus
// arrives as touch or mouse depending on the platform.
type EbitenSource struct {
	mouseIn      bool
	mouseButtons uint16
	mouseLast    Vec2

	touchIDs  []ebiten.TouchID
	touchLast map[ebiten.TouchID]Vec2
}

// NewEbitenSource returns a source ready for Surface.SetSource.
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{touchLast: make(map[ebiten.TouchID]Vec2)}
}

var mousePointer = PointerID{Type: PointerMouse}

// Poll implements PointerSource.
func (src *EbitenSource) Poll(s *Surface) {
	src.pollMouse(s)
	src.pollTouches(s)
}

func (src *EbitenSource) pollMouse(s *Surface) {
	mx, my := ebiten.CursorPosition()
	pos := Vec2{float64(mx), float64(my)}

	var buttons uint16
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= ButtonPrimary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= ButtonSecondary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= ButtonMiddle
	}

	w, h := s.root.Width, s.root.Height
	inside := pos.X >= 0 && pos.Y >= 0 && (w == 0 || pos.X <= w) && (h == 0 || pos.Y <= h)
	ev := PointerEvent{Pointer: mousePointer, Buttons: buttons, X: pos.X, Y: pos.Y}

	switch {
	case inside && !src.mouseIn:
		ev.Kind = EventEnter
		s.HandlePointer(ev)
	case !inside && src.mouseIn && src.mouseButtons == 0:
		ev.Kind = EventLeave
		s.HandlePointer(ev)
		src.mouseIn = false
		src.mouseLast = pos
		return
	}
	src.mouseIn = inside || src.mouseButtons != 0

	switch {
	case buttons != 0 && src.mouseButtons == 0:
		ev.Kind = EventDown
		s.HandlePointer(ev)
	case buttons == 0 && src.mouseButtons != 0:
		ev.Kind = EventUp
		s.HandlePointer(ev)
	case pos != src.mouseLast:
		ev.Kind = EventMove
		s.HandlePointer(ev)
	}
	src.mouseButtons = buttons
	src.mouseLast = pos
}

func (src *EbitenSource) pollTouches(s *Surface) {
	prev := make(map[ebiten.TouchID]bool, len(src.touchIDs))
	for _, id := range src.touchIDs {
		prev[id] = true
	}
	src.touchIDs = ebiten.AppendTouchIDs(src.touchIDs[:0])

	for _, tid := range src.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		pos := Vec2{float64(tx), float64(ty)}
		ev := PointerEvent{
			Pointer: PointerID{Type: PointerTouch, NativeID: int(tid)},
			Buttons: ButtonPrimary,
			X:       pos.X, Y: pos.Y,
		}
		if !prev[tid] {
			ev.Kind = EventDown
			s.HandlePointer(ev)
		} else if pos != src.touchLast[tid] {
			ev.Kind = EventMove
			s.HandlePointer(ev)
		}
		delete(prev, tid)
		src.touchLast[tid] = pos
	}

	// Touches that vanished this frame.
	for tid := range prev {
		last := src.touchLast[tid]
		s.HandlePointer(PointerEvent{
			Kind:    EventUp,
			Pointer: PointerID{Type: PointerTouch, NativeID: int(tid)},
			X:       last.X, Y: last.Y,
		})
		delete(src.touchLast, tid)
	}
}
