package board

// ScoreBar keeps the objects placed by one arm, in placement order
type ScoreBar struct {
	placed []Object
}

func NewScoreBar() *ScoreBar {
	return &ScoreBar{placed: make([]Object, 0)}
}

func (s *ScoreBar) Add(o *Object) {
	s.placed = append(s.placed, *o)
}

func (s *ScoreBar) Len() int {
	return len(s.placed)
}

// Count returns how many placed objects have the given color and shape
func (s *ScoreBar) Count(color Color, shape Shape) int {
	n := 0
	for _, o := range s.placed {
		if o.Color == color && o.Shape == shape {
			n++
		}
	}
	return n
}

func (s *ScoreBar) Placed() []Object {
	out := make([]Object, len(s.placed))
	copy(out, s.placed)
	return out
}
