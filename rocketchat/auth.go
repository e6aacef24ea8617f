// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// Credentials hold the identity used to authenticate the realtime
// session. The password digest is computed once at construction and
// reused for every authentication attempt.
type Credentials struct {
	Username string
	digest   string
}

// NewCredentials derives session credentials from a plaintext
// password. The plaintext is not retained.
func NewCredentials(username, password string) Credentials {
	return Credentials{Username: username, digest: PasswordDigest(password)}
}

// Digest returns the password digest sent on the wire. The protocol
// transmits the digest itself, so exposing it here leaks nothing the
// server does not already see.
func (c Credentials) Digest() string { return c.digest }

// PasswordDigest returns the lowercase hexadecimal SHA-256 hash of the
// plaintext password, the form the login method expects.
func PasswordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

var (
	errTransportClosed = errors.New("transport closed during handshake")
	errNoSessionID     = errors.New("frame carries no session identifier")
)

// Authenticate drives the connect → login → ready handshake and
// returns the session's user identifier.
//
// The state machine is Disconnected → Connected → LoginSent →
// Authenticated: the server's greeting is awaited, a protocol-version
// connect frame is sent and any acknowledgement accepted, then a login
// frame carrying the username and password digest, and finally the
// session identifier is extracted from the server's reply. A malformed
// frame at any step fails the whole construction; there is no retry
// here — the caller decides whether to redo the entire connect
// sequence.
func Authenticate(ctx context.Context, wire Wire, credentials Credentials) (string, error) {
	// Server greeting.
	if _, err := nextFrame(ctx, wire); err != nil {
		return "", &AuthenticationError{Stage: "connect", Err: err}
	}

	connect, err := json.Marshal(connectFrame{Msg: "connect", Version: "1", Support: []string{"1"}})
	if err != nil {
		return "", &AuthenticationError{Stage: "connect", Err: err}
	}
	wire.Send(connect)

	// Any acknowledgement frame moves the machine to Connected.
	if _, err := nextFrame(ctx, wire); err != nil {
		return "", &AuthenticationError{Stage: "connect", Err: err}
	}

	login, err := json.Marshal(loginRequest(credentials))
	if err != nil {
		return "", &AuthenticationError{Stage: "login", Err: err}
	}
	wire.Send(login)

	reply, err := nextFrame(ctx, wire)
	if err != nil {
		return "", &AuthenticationError{Stage: "login", Err: err}
	}

	userID, err := sessionID(reply)
	if err != nil {
		return "", &AuthenticationError{Stage: "session", Payload: string(reply), Err: err}
	}
	return userID, nil
}

// loginRequest builds the login method frame for the given credentials.
func loginRequest(credentials Credentials) methodFrame {
	return methodFrame{
		Msg:    "method",
		Method: "login",
		ID:     loginID,
		Params: []any{loginParams{
			User:     loginUser{Username: credentials.Username},
			Password: loginPassword{Digest: credentials.digest, Algorithm: "sha-256"},
		}},
	}
}

// sessionID extracts the session user identifier from the login
// reply. The correlated result nests it under result.id; some server
// variants surface it at the top level, which is accepted as a
// fallback.
func sessionID(frame []byte) (string, error) {
	var reply struct {
		ID     string `json:"id"`
		Result struct {
			ID string `json:"id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(frame, &reply); err != nil {
		return "", err
	}
	if reply.Result.ID != "" {
		return reply.Result.ID, nil
	}
	if reply.ID != "" {
		return reply.ID, nil
	}
	return "", errNoSessionID
}

// nextFrame reads one inbound frame, honoring cancellation.
func nextFrame(ctx context.Context, wire Wire) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case frame, ok := <-wire.Frames():
		if !ok {
			return nil, errTransportClosed
		}
		return frame, nil
	}
}
