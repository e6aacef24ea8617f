// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// Package rocketchat implements the realtime session client for a
// RocketChat-compatible server: a persistent websocket carrying the
// authentication handshake, named remote operations, standing
// subscriptions, and the server's push events.
//
// The pieces layer bottom-up. [Transport] owns the socket and nothing
// else: a writer goroutine drains an unbounded outbound queue onto the
// wire in strict FIFO order, and a reader goroutine feeds inbound
// frames to a channel that closes when the stream dies. [Authenticate]
// drives the connect → login → ready handshake over a [Wire] and
// returns the session identity. [Caller] issues remote operations by
// enqueueing correlated request envelopes; it never waits for results.
// [Session] ties it together: its dispatcher loop classifies inbound
// frames (correlated results, unsolicited stream events, keepalive
// pings) and its command loop services the presentation layer, both
// running concurrently until either terminates — which ends the
// session as a unit.
//
// Frame classification is shape-based: the wire protocol does not tag
// every frame with a discriminant, so decodeFrame attempts a fixed
// priority order of shapes and drops whatever matches none. Dropped
// frames are not errors — the wire carries many operational messages
// the client does not act on.
//
// Errors follow a small taxonomy: [ConnectionError] and
// [AuthenticationError] occur before a session exists and are fatal to
// construction; [TransportError] kills a running session by closing
// the inbound queue, which unwinds the dispatcher and the orchestrator.
package rocketchat
