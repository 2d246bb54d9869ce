package server

import (
	"context"
	"sync"

	channerics "github.com/niceyeti/channerics/channels"
)

// Hub fans frames out to any number of websocket clients. A slow client only
// ever sees the most recent frame, older ones are dropped.
type Hub struct {
	mtx         sync.Mutex
	last        *Frame
	subscribers map[chan Frame]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Frame]struct{}),
	}
}

// Run forwards frames to the subscribers until the source closes or ctx is done
func (h *Hub) Run(ctx context.Context, frames <-chan Frame) {
	for frame := range channerics.OrDone(ctx.Done(), frames) {
		h.publish(frame)
	}
}

func (h *Hub) publish(frame Frame) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.last = &frame
	for sub := range h.subscribers {
		select {
		case sub <- frame:
		default:
			// drop the stale frame and retry once
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- frame:
			default:
			}
		}
	}
}

// Subscribe returns a channel receiving frames, primed with the last one seen
func (h *Hub) Subscribe() chan Frame {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	sub := make(chan Frame, 1)
	if h.last != nil {
		sub <- *h.last
	}
	h.subscribers[sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub chan Frame) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	delete(h.subscribers, sub)
}

// Last returns the most recent frame, if any
func (h *Hub) Last() (Frame, bool) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.last == nil {
		return Frame{}, false
	}
	return *h.last, true
}
