package board

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Color int

const (
	Red Color = iota
	Blue
	Yellow
)

var colorNames = []string{"red", "blue", "yellow"}

// Colors returns all the colors in declaration order
func Colors() []Color {
	return []Color{Red, Blue, Yellow}
}

func (c Color) String() string {
	if int(c) < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Color(i), nil
		}
	}
	return Red, fmt.Errorf("unknown color %q: %w", s, ErrInvalidConfig)
}

type Shape int

const (
	Square Shape = iota
	Circle
	Triangle
)

var shapeNames = []string{"square", "circle", "triangle"}

// Shapes returns all the shapes in declaration order
func Shapes() []Shape {
	return []Shape{Square, Circle, Triangle}
}

func (s Shape) String() string {
	if int(s) < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	parsed, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Shape(i), nil
		}
	}
	return Square, fmt.Errorf("unknown shape %q: %w", s, ErrInvalidConfig)
}

// Object is a pickable item riding on a treadmill.
// Seq is the spawn order within the episode.
type Object struct {
	ID       string   `json:"id"`
	Seq      int      `json:"seq"`
	Color    Color    `json:"color"`
	Shape    Shape    `json:"shape"`
	Location Location `json:"location"`
}

func newObject(seq int, loc Location, color Color, shape Shape) *Object {
	return &Object{
		ID:       uuid.NewString(),
		Seq:      seq,
		Color:    color,
		Shape:    shape,
		Location: loc,
	}
}

func (o *Object) Copy() *Object {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func (o *Object) view() ObjectView {
	return ObjectView{Location: o.Location, Color: o.Color, Shape: o.Shape}
}

func (o *Object) String() string {
	return fmt.Sprintf("%s %s at %s", o.Color, o.Shape, o.Location)
}
