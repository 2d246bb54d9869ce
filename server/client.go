package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 512

	pingResolution = time.Millisecond * 500
	// Number of pings to tolerate losing before concluding the peer is gone.
	pongWait = pingResolution * 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

// client publishes frames to one websocket peer. Frames are idempotent, a peer
// only needs the latest one to draw the board.
type client struct {
	frames <-chan Frame
	ws     *websocket.Conn
}

func newClient(frames <-chan Frame, w http.ResponseWriter, r *http.Request) (*client, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(maxMessageSize)
	return &client{
		frames: frames,
		ws:     ws,
	}, nil
}

// Sync runs the reader, the ping loop and the publisher until the peer goes
// away or ctx is done. Returns nil on a normal disconnect.
func (cli *client) Sync(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	pongs := make(chan struct{}, 1)
	cli.ws.SetPongHandler(func(_ string) error {
		select {
		case pongs <- struct{}{}:
		default:
		}
		return nil
	})

	// the first routine to finish stops the others, closing the socket unblocks the reader
	group.Go(func() error {
		<-groupCtx.Done()
		cli.close()
		return nil
	})
	group.Go(func() error {
		defer cancel()
		return cli.readMessages(groupCtx)
	})
	group.Go(func() error {
		defer cancel()
		return cli.pingPong(groupCtx, pongs)
	})
	group.Go(func() error {
		defer cancel()
		return cli.publish(groupCtx)
	})

	err := group.Wait()
	if isClosure(err) {
		return nil
	}
	return err
}

func (cli *client) pingPong(ctx context.Context, pongs <-chan struct{}) error {
	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pongs:
			lastPong = time.Now()
		case _, ok := <-pinger:
			if !ok {
				return nil
			}
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := cli.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		}
	}
}

// readMessages drains the peer. Errors returned by websocket reads are
// permanent, so any error tears the client down.
func (cli *client) readMessages(ctx context.Context) error {
	for {
		if _, _, err := cli.ws.ReadMessage(); err != nil {
			if ctx.Err() != nil || isClosure(err) {
				return nil
			}
			return err
		}
	}
}

func (cli *client) publish(ctx context.Context) error {
	for frame := range channerics.OrDone(ctx.Done(), cli.frames) {
		if err := cli.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("failed to set deadline: %w", err)
		}
		if err := cli.ws.WriteJSON(frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if isError(err) {
				return fmt.Errorf("publish failed: %w", err)
			}
			return err
		}
	}
	return nil
}

func (cli *client) close() {
	_ = cli.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	cli.ws.Close()
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
