package core

import "github.com/zeu5/collabsort/util"

// Color is an abstraction of a state, states with the same color are
// treated as the same when measuring coverage
type Color interface {
	Hash() string
	Copy() Color
}

// A painter that returns a color for the state
type Painter func(State) Color

// A painter that returns key value for the state
// Should be used with ComposedPainter
type KVPainter func(State) (string, interface{})

// ComposedPainter is a painter that is composed of multiple KVPainters
type ComposedPainter struct {
	SegPainters []KVPainter
}

// ComposedColor is a color that is composed of multiple colors
type ComposedColor struct {
	s map[string]interface{}
}

func (s *ComposedColor) Hash() string {
	return util.JsonHash(s.s)
}

func (s *ComposedColor) Copy() Color {
	newMap := make(map[string]interface{})
	for k, v := range s.s {
		newMap[k] = v
	}
	return &ComposedColor{s: newMap}
}

func (s *ComposedColor) Map() map[string]interface{} {
	return s.s
}

// NewComposedPainter returns a new ComposedPainter with the given KVPainters
func NewComposedPainter(sp ...KVPainter) *ComposedPainter {
	return &ComposedPainter{
		SegPainters: sp,
	}
}

// Painter returns a painter function that returns a ComposedColor
func (c *ComposedPainter) Painter() Painter {
	return func(s State) Color {
		m := make(map[string]interface{})
		for _, sp := range c.SegPainters {
			k, v := sp(s)
			m[k] = v
		}
		return &ComposedColor{s: m}
	}
}
