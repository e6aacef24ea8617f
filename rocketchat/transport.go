// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// realtimePath is the well-known realtime endpoint on the server.
const realtimePath = "/websocket"

// dialTimeout bounds the websocket handshake, independent of the
// caller's context.
const dialTimeout = 15 * time.Second

// Wire is the duplex frame interface between the realtime client and
// the socket. [Transport] implements it over a websocket; tests
// substitute an in-memory implementation.
type Wire interface {
	// Send enqueues one outbound frame. It never blocks: the queue is
	// unbounded and drained onto the wire in strict FIFO order.
	Send(frame []byte)

	// Frames returns the inbound frame stream. The channel is closed
	// when the transport dies (read error or stream end), which is
	// fatal for the whole session.
	Frames() <-chan []byte

	// Close tears the transport down. Idempotent.
	Close() error
}

// RealtimeEndpoint derives the websocket endpoint from the configured
// host URL by swapping the scheme to its socket equivalent (https
// becomes wss, anything else ws) and fixing the path to the realtime
// endpoint.
func RealtimeEndpoint(host string) (string, error) {
	endpoint, err := url.Parse(host)
	if err != nil {
		return "", err
	}
	if endpoint.Scheme == "https" {
		endpoint.Scheme = "wss"
	} else {
		endpoint.Scheme = "ws"
	}
	endpoint.Path = realtimePath
	return endpoint.String(), nil
}

// Transport owns the socket. A writer goroutine drains the outbound
// queue onto the wire in enqueue order; a reader goroutine moves
// frames off the wire into the inbound channel and closes it on read
// error or stream end. Transport has no protocol knowledge.
type Transport struct {
	conn     *websocket.Conn
	logger   *slog.Logger
	outbound *frameQueue
	inbound  chan []byte

	closeOnce sync.Once
	closeErr  error
}

// Compile-time check: *Transport implements Wire.
var _ Wire = (*Transport)(nil)

// Dial opens the realtime socket for the given host URL. When
// insecureSkipVerify is set, TLS certificate and hostname verification
// are disabled — for self-signed test deployments only.
//
// On success the transport's writer and reader loops are running and
// the returned Transport is ready for the authentication handshake.
func Dial(ctx context.Context, host string, insecureSkipVerify bool, logger *slog.Logger) (*Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	endpoint, err := RealtimeEndpoint(host)
	if err != nil {
		return nil, &ConnectionError{Endpoint: host, Err: err}
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	if insecureSkipVerify {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	conn, response, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if response != nil {
			response.Body.Close()
		}
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}

	transport := &Transport{
		conn:     conn,
		logger:   logger,
		outbound: newFrameQueue(),
		inbound:  make(chan []byte),
	}
	go transport.writeLoop()
	go transport.readLoop()

	logger.Debug("realtime socket connected", "endpoint", endpoint)
	return transport, nil
}

// Send enqueues one frame for delivery. Never blocks.
func (t *Transport) Send(frame []byte) {
	t.outbound.push(frame)
}

// Frames returns the inbound frame channel.
func (t *Transport) Frames() <-chan []byte {
	return t.inbound
}

// Close shuts the transport down: the writer loop stops once the
// queue is closed, and closing the socket makes the reader loop fail
// and close the inbound channel.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.outbound.close()
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

// writeLoop moves frames from the outbound queue onto the wire in
// FIFO order. Outbound ordering is a hard contract: the handshake
// sequencing depends on it. A write failure kills the whole session
// via Close.
func (t *Transport) writeLoop() {
	for {
		frame, ok := t.outbound.pop()
		if !ok {
			return
		}
		if err := t.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			t.logger.Debug("realtime socket write failed", "error", err)
			t.Close()
			return
		}
	}
}

// readLoop moves frames off the wire into the inbound channel.
// Terminates — closing the channel — on read error or stream end.
func (t *Transport) readLoop() {
	defer close(t.inbound)
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.logger.Debug("realtime socket closed", "error", err)
			return
		}
		t.inbound <- data
	}
}

// frameQueue is an unbounded FIFO of wire frames. push never blocks;
// pop blocks until a frame is available or the queue is closed.
type frameQueue struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	// signal wakes a blocked pop. Buffered so push never blocks even
	// when no pop is waiting.
	signal chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{signal: make(chan struct{}, 1)}
}

func (q *frameQueue) push(frame []byte) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.frames = append(q.frames, frame)
	q.mu.Unlock()
	q.wake()
}

// pop returns the oldest frame. The second return is false when the
// queue is closed and drained.
func (q *frameQueue) pop() ([]byte, bool) {
	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			frame := q.frames[0]
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return frame, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.signal
	}
}

func (q *frameQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *frameQueue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
