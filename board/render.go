package board

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

var shapeGlyphs = map[Shape]string{
	Square:   "#",
	Circle:   "o",
	Triangle: "^",
}

// Render draws the snapshot as text, three characters per cell. Objects show their
// shape glyph, colored when colored is set and prefixed with the color initial otherwise.
// A gripper holding an object shows as <@>.
func (s *Snapshot) Render(colored bool) string {
	au := aurora.NewAurora(colored)
	glyph := func(o Object) string {
		g := shapeGlyphs[o.Shape]
		if !colored {
			return o.Color.String()[:1] + g
		}
		switch o.Color {
		case Red:
			return " " + au.Red(g).String()
		case Blue:
			return " " + au.Blue(g).String()
		}
		return " " + au.Yellow(g).String()
	}

	grid := make([][]string, s.Rows)
	for r := range grid {
		grid[r] = make([]string, s.Cols)
		for c := range grid[r] {
			grid[r][c] = " . "
		}
	}
	for _, row := range s.TreadmillRows {
		for c := range grid[row] {
			grid[row][c] = " - "
		}
	}
	stacked := make(map[Location]int)
	for _, o := range s.Objects {
		stacked[o.Location]++
		if stacked[o.Location] > 1 {
			grid[o.Location.Row][o.Location.Col] = " * "
			continue
		}
		grid[o.Location.Row][o.Location.Col] = " " + glyph(o)
	}
	drawArm := func(a ArmSnapshot, name string) {
		lo, hi := a.Base.Row, a.Gripper.Row
		if lo > hi {
			lo, hi = hi, lo
		}
		for r := lo; r <= hi; r++ {
			grid[r][a.Base.Col] = " | "
		}
		grid[a.Base.Row][a.Base.Col] = "[" + strings.ToUpper(name[:1]) + "]"
		marker := name[:1]
		if a.Penalized {
			marker = au.Magenta("x").String()
		}
		if a.Picked != nil {
			marker = "@"
		}
		if a.Gripper != a.Base {
			grid[a.Gripper.Row][a.Gripper.Col] = "<" + marker + ">"
		}
	}
	drawArm(s.Robot, "robot")
	drawArm(s.Agent, "agent")

	var sb strings.Builder
	fmt.Fprintf(&sb, "tick %d  robot: %d placed (%s)  agent: %d placed (%s)\n",
		s.Tick, len(s.Robot.Placed), s.Robot.State, len(s.Agent.Placed), s.Agent.State)
	for _, row := range grid {
		sb.WriteString(strings.Join(row, ""))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "added %d  fallen %d  lost %d", s.Stats.Added, s.Stats.Fallen, s.Stats.Lost)
	if s.Done {
		sb.WriteString("  done")
	}
	sb.WriteString("\n")
	return sb.String()
}
