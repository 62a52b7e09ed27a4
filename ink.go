package gesture

// Ink is the inking collaborator attached to a gesture. The engine feeds it
// the gesture's pointer stream; stroke geometry is the collaborator's concern.
type Ink interface {
	Start(id PointerID)
	OnPointerMove(ev PointerEvent)
	OnPointerUp(ev PointerEvent)
	Cancel()
}

// Stroke is one recorded pointer path.
type Stroke struct {
	Pointer   PointerID
	Points    []Vec2
	Done      bool
	Cancelled bool
}

// StrokeRecorder is an Ink that keeps raw point lists, enough for a debug
// overlay or a test to inspect what a gesture drew.
type StrokeRecorder struct {
	strokes []Stroke
	current int
}

// NewStrokeRecorder returns an empty recorder.
func NewStrokeRecorder() *StrokeRecorder {
	return &StrokeRecorder{current: -1}
}

func (r *StrokeRecorder) Start(id PointerID) {
	r.strokes = append(r.strokes, Stroke{Pointer: id})
	r.current = len(r.strokes) - 1
}

func (r *StrokeRecorder) OnPointerMove(ev PointerEvent) {
	if s := r.active(); s != nil && s.Pointer == ev.Pointer {
		s.Points = append(s.Points, ev.Pos())
	}
}

func (r *StrokeRecorder) OnPointerUp(ev PointerEvent) {
	if s := r.active(); s != nil {
		if s.Pointer == ev.Pointer {
			s.Points = append(s.Points, ev.Pos())
		}
		s.Done = true
	}
	r.current = -1
}

func (r *StrokeRecorder) Cancel() {
	if s := r.active(); s != nil {
		s.Cancelled = true
	}
	r.current = -1
}

// Strokes returns the recorded strokes, oldest first.
func (r *StrokeRecorder) Strokes() []Stroke {
	return r.strokes
}

// Reset drops every recorded stroke.
func (r *StrokeRecorder) Reset() {
	r.strokes = nil
	r.current = -1
}

func (r *StrokeRecorder) active() *Stroke {
	if r.current < 0 || r.current >= len(r.strokes) {
		return nil
	}
	return &r.strokes[r.current]
}
