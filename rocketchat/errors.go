// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import "fmt"

// ConnectionError reports a failure to establish the realtime socket:
// a bad URL, a refused connection, or a failed TLS negotiation. It is
// returned before any session exists; the core does not retry.
type ConnectionError struct {
	// Endpoint is the websocket URL (or, if derivation itself failed,
	// the configured host) the client tried to reach.
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rocketchat: connecting to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthenticationError reports a failed connect/login handshake. The
// session never becomes usable; the caller decides whether to retry
// the whole connect sequence.
type AuthenticationError struct {
	// Stage names the handshake step that failed: "connect", "login",
	// or "session".
	Stage string
	// Payload is the offending frame, empty when the failure was not
	// frame-shaped (for example a closed transport).
	Payload string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("rocketchat: authentication failed at %s: %v (payload %q)", e.Stage, e.Err, e.Payload)
	}
	return fmt.Sprintf("rocketchat: authentication failed at %s: %v", e.Stage, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TransportError reports a mid-session read or write failure, or the
// stream being closed by the peer. It is fatal to the running session:
// the transport closes the inbound queue, which unwinds the dispatcher
// and the orchestrator.
type TransportError struct {
	// Op is "read" or "write".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rocketchat: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
