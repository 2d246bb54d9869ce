package board

import "fmt"

// Location is a cell on the board, zero based
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// Bounds of the board grid
type Bounds struct {
	Rows int
	Cols int
}

func (b Bounds) Contains(l Location) bool {
	return l.Row >= 0 && l.Row < b.Rows && l.Col >= 0 && l.Col < b.Cols
}

// Move translates l by at most one cell along each axis in the direction of the offsets
// and clips the result to the board.
func (b Bounds) Move(l Location, dRow, dCol int) Location {
	return Location{
		Row: clip(l.Row+sign(dRow), 0, b.Rows-1),
		Col: clip(l.Col+sign(dCol), 0, b.Cols-1),
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clip(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
