package server

import (
	"github.com/zeu5/collabsort/board"
)

// Frame is one published view of the board
type Frame struct {
	Tick     int             `json:"tick"`
	Snapshot *board.Snapshot `json:"snapshot"`
	// Text is the uncolored ASCII rendering of the snapshot
	Text string `json:"text"`
}

func NewFrame(snap *board.Snapshot) Frame {
	return Frame{
		Tick:     snap.Tick,
		Snapshot: snap,
		Text:     snap.Render(false),
	}
}
