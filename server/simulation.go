package server

import (
	"context"
	"time"

	"github.com/zeu5/collabsort/board"
	channerics "github.com/niceyeti/channerics/channels"
)

// AgentFunc chooses the agent command from its observation
type AgentFunc func(board.Observation) board.Action

// Simulation owns a board and ticks it at a fixed rate. Snapshots are the only
// thing leaving the loop, so the board is never shared between goroutines.
type Simulation struct {
	board *board.Board
	agent AgentFunc
	rate  time.Duration
	// number of ticks to hold the final frame before starting a new episode
	pause int
}

func NewSimulation(b *board.Board, agent AgentFunc) *Simulation {
	fps := b.Config().RenderFPS
	if fps <= 0 {
		fps = 30
	}
	return &Simulation{
		board: b,
		agent: agent,
		rate:  time.Second / time.Duration(fps),
		pause: fps,
	}
}

// Run ticks the board until ctx is done and publishes a snapshot after every
// tick. The channel is closed when the loop exits.
func (s *Simulation) Run(ctx context.Context) <-chan *board.Snapshot {
	out := make(chan *board.Snapshot)
	go func() {
		defer close(out)
		s.board.Reset()
		if !s.send(ctx, out, s.board.Snapshot()) {
			return
		}

		held := 0
		for range channerics.NewTicker(ctx.Done(), s.rate) {
			if s.board.Done() {
				held++
				if held < s.pause {
					continue
				}
				held = 0
				s.board.Reset()
			} else {
				s.board.Tick(s.agent(s.board.Observation(board.Agent)))
			}
			if !s.send(ctx, out, s.board.Snapshot()) {
				return
			}
		}
	}()
	return out
}

func (s *Simulation) send(ctx context.Context, out chan<- *board.Snapshot, snap *board.Snapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

// Frames converts the snapshot stream into frames
func Frames(ctx context.Context, snapshots <-chan *board.Snapshot) <-chan Frame {
	return channerics.Convert(ctx.Done(), snapshots, NewFrame)
}
