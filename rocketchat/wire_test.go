// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"
)

// memoryWire is an in-memory Wire for tests: sent frames accumulate in
// a slice, inbound frames are injected through a plain channel.
type memoryWire struct {
	mu      sync.Mutex
	sent    [][]byte
	inbound chan []byte
	closed  bool
}

func newMemoryWire() *memoryWire {
	return &memoryWire{inbound: make(chan []byte, 16)}
}

func (w *memoryWire) Send(frame []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent = append(w.sent, frame)
}

func (w *memoryWire) Frames() <-chan []byte { return w.inbound }

func (w *memoryWire) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.inbound)
	}
	return nil
}

// sentFrames snapshots the outbound frames sent so far.
func (w *memoryWire) sentFrames() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]byte(nil), w.sent...)
}

// waitSent blocks until at least count frames have been sent.
func (w *memoryWire) waitSent(t *testing.T, count int) [][]byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frames := w.sentFrames()
		if len(frames) >= count {
			return frames
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d sent frames, have %d", count, len(w.sentFrames()))
	return nil
}

// assertFrameEqual compares a wire frame against expected JSON,
// ignoring formatting.
func assertFrameEqual(t *testing.T, frame []byte, wantJSON string) {
	t.Helper()
	var got, want any
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("sent frame is not valid JSON: %v\n%s", err, frame)
	}
	if err := json.Unmarshal([]byte(wantJSON), &want); err != nil {
		t.Fatalf("expected frame is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frame mismatch\ngot:  %s\nwant: %s", frame, wantJSON)
	}
}
