// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"encoding/json"
	"fmt"
)

// Caller issues named remote operations on the realtime session. Each
// call builds a correlated request envelope and enqueues it on the
// transport's outbound queue, then returns — response handling is
// entirely the dispatcher's job. This decouples request issuance from
// response consumption and lets the one socket carry many outstanding
// logical operations.
type Caller struct {
	wire        Wire
	credentials Credentials
	userID      string
	table       *correlationTable
}

// NewCaller creates a Caller bound to an authenticated wire. userID is
// the session identity returned by [Authenticate]; it parameterizes
// the user-event subscription stream.
func NewCaller(wire Wire, credentials Credentials, userID string, table *correlationTable) *Caller {
	return &Caller{wire: wire, credentials: credentials, userID: userID, table: table}
}

// UserID returns the session's user identifier.
func (c *Caller) UserID() string { return c.userID }

// Login re-sends the login method frame with the stored credentials.
func (c *Caller) Login() error {
	return c.send(loginRequest(c.credentials))
}

// Pong answers a server keepalive ping. The server disconnects
// sessions that do not answer within its tolerance, so the dispatcher
// calls this as soon as a ping is observed.
func (c *Caller) Pong() error {
	return c.send(pongFrame{Msg: "pong"})
}

// SendMessage posts text to a room.
func (c *Caller) SendMessage(roomID, text string) error {
	return c.send(methodFrame{
		Msg:    "method",
		Method: "sendMessage",
		ID:     sendMessageID,
		Params: []any{map[string]any{"rid": roomID, "msg": text}},
	})
}

// LoadHistory requests the most recent count messages of a room. The
// result arrives as a correlated history frame.
func (c *Caller) LoadHistory(roomID string, count int) error {
	c.table.expect(loadHistoryID, resultHistory)
	return c.send(methodFrame{
		Msg:    "method",
		Method: "loadHistory",
		ID:     loadHistoryID,
		Params: []any{roomID, nil, count, nil},
	})
}

// LoadRooms requests the full room listing.
func (c *Caller) LoadRooms() error {
	c.table.expect(loadRoomsID, resultRooms)
	return c.send(methodFrame{
		Msg:    "method",
		Method: "rooms/get",
		ID:     loadRoomsID,
		Params: []any{map[string]any{"$date": 0}},
	})
}

// CreateDirectChat opens (or re-opens) a direct chat with the given
// username. The server confirms with a joined-room result.
func (c *Caller) CreateDirectChat(username string) error {
	c.table.expect(createDirectChatID, resultJoinedRoom)
	return c.send(methodFrame{
		Msg:    "method",
		Method: "createDirectMessage",
		ID:     createDirectChatID,
		Params: []any{username},
	})
}

// SubscribeUserEvents opens the standing subscription for rooms-changed
// notifications on the session user. New-message events for every
// joined room arrive through this stream.
func (c *Caller) SubscribeUserEvents() error {
	return c.send(subscribeFrame{
		Msg:    "sub",
		ID:     subscribeUserID,
		Name:   "stream-notify-user",
		Params: []any{fmt.Sprintf("%s/rooms-changed", c.userID), false},
	})
}

// SubscribeMessageEvents opens the standing subscription for message
// events across all of the session user's rooms.
func (c *Caller) SubscribeMessageEvents() error {
	return c.send(subscribeFrame{
		Msg:    "sub",
		ID:     subscribeMessagesID,
		Name:   "stream-room-messages",
		Params: []any{"__my_messages__", false},
	})
}

// RoomMembers requests the membership listing of a room.
func (c *Caller) RoomMembers(roomID string) error {
	c.table.expect(roomMembersID, resultRoomMembers)
	return c.send(methodFrame{
		Msg:    "method",
		Method: "getUsersOfRoom",
		ID:     roomMembersID,
		Params: []any{roomID, true, map[string]any{"limit": 100, "skip": 0}, ""},
	})
}

func (c *Caller) send(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("rocketchat: encoding request frame: %w", err)
	}
	c.wire.Send(data)
	return nil
}
