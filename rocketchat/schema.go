// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/dominod-dev/talkoxid/chat"
)

// The realtime protocol assigns a constant correlation id per
// operation kind rather than generating unique ids per call. The
// dispatcher never matches these literals directly — every request
// registers its id in the correlation table, so switching to generated
// ids only requires changing the values the caller registers.
const (
	loginID             = "1"
	sendMessageID       = "2"
	loadHistoryID       = "3"
	loadRoomsID         = "4"
	createDirectChatID  = "5"
	subscribeUserID     = "6"
	subscribeMessagesID = "7"
	roomMembersID       = "8"
)

// Outbound envelope shapes.

type methodFrame struct {
	Msg    string `json:"msg"`
	Method string `json:"method"`
	ID     string `json:"id"`
	Params []any  `json:"params"`
}

type connectFrame struct {
	Msg     string   `json:"msg"`
	Version string   `json:"version"`
	Support []string `json:"support"`
}

type pongFrame struct {
	Msg string `json:"msg"`
}

type subscribeFrame struct {
	Msg    string `json:"msg"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Params []any  `json:"params"`
}

type loginUser struct {
	Username string `json:"username"`
}

type loginPassword struct {
	Digest    string `json:"digest"`
	Algorithm string `json:"algorithm"`
}

type loginParams struct {
	User     loginUser     `json:"user"`
	Password loginPassword `json:"password"`
}

// wireDate decodes the protocol's {"$date": <unix milliseconds>}
// timestamp object.
type wireDate struct {
	time.Time
}

func (d *wireDate) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Date int64 `json:"$date"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	d.Time = time.UnixMilli(envelope.Date).UTC()
	return nil
}

// Inbound payload shapes.

type wireAuthor struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type wireMessage struct {
	Author wireAuthor `json:"u"`
	RoomID string     `json:"rid"`
	Text   string     `json:"msg"`
	SentAt wireDate   `json:"ts"`
}

func (m wireMessage) message() chat.Message {
	return chat.Message{
		Author:  m.Author.Username,
		Content: m.Text,
		SentAt:  m.SentAt.Time,
	}
}

// roomChannel maps the protocol's room-type tag to a channel: "d" is a
// direct chat, "p" a private room, anything else a group.
func roomChannel(roomType, roomID string) chat.Channel {
	switch roomType {
	case "d":
		return chat.UserChannel(roomID)
	case "p":
		return chat.PrivateChannel(roomID)
	default:
		return chat.GroupChannel(roomID)
	}
}

// directChatLabel derives the display label of a direct chat from its
// full participant list: everyone except the session's own username,
// joined with commas. A self-chat (the list contains only the session
// user) keeps the session username as its label.
func directChatLabel(usernames []string, selfUsername string) string {
	var others []string
	for _, username := range usernames {
		if username != selfUsername || len(usernames) == 1 {
			others = append(others, username)
		}
	}
	return strings.Join(others, ",")
}

// resultKind identifies the semantic operation a correlated result
// resolves.
type resultKind int

const (
	resultHistory resultKind = iota
	resultRooms
	resultJoinedRoom
	resultRoomMembers
)

// correlationTable maps outstanding request ids to the semantic
// operation awaiting the result. Each outstanding id maps to exactly
// one in-flight operation; re-issuing an operation re-registers its
// id. Safe for concurrent use: requests register from the command
// loop while the dispatcher resolves from the read loop.
type correlationTable struct {
	mu      sync.Mutex
	pending map[string]resultKind
}

func newCorrelationTable() *correlationTable {
	return &correlationTable{pending: make(map[string]resultKind)}
}

// expect registers id as awaiting a result of the given kind.
func (t *correlationTable) expect(id string, kind resultKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[id] = kind
}

// resolve consumes the registration for id. The second return is
// false when no operation is awaiting this id.
func (t *correlationTable) resolve(id string) (resultKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kind, ok := t.pending[id]
	if ok {
		delete(t.pending, id)
	}
	return kind, ok
}

// Decoded inbound events. decodeFrame returns exactly one of these,
// or ok=false for frames the client does not act on.

type pingEvent struct{}

type messageEvent struct {
	Message chat.Message
	Channel chat.Channel
}

// historyEvent carries history messages in wire order: newest first.
type historyEvent struct {
	Messages []chat.Message
}

type roomsEvent struct {
	Channels []chat.ChannelEntry
}

type joinedRoomEvent struct {
	Channel chat.Channel
}

type membersEvent struct {
	Members []chat.RoomMember
}

// decodeFrame classifies one inbound frame. The wire is not
// self-describing by a single discriminant, so classification is
// shape-based, in priority order:
//
//  1. keepalive ping: msg == "ping"
//  2. unsolicited stream event: a populated fields.args structure
//  3. correlated result: msg == "result" with an id registered in the
//     correlation table, decoded per the registered kind
//
// Anything else — including frames that fail to decode against the
// matched shape — is reported as ok=false and dropped by the caller.
// The wire carries many operational frames the client does not need,
// so an unrecognized frame is not an error.
func decodeFrame(data []byte, table *correlationTable, selfUsername string) (event any, ok bool) {
	var probe struct {
		Msg    string          `json:"msg"`
		ID     string          `json:"id"`
		Fields json.RawMessage `json:"fields"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false
	}

	if probe.Msg == "ping" {
		return pingEvent{}, true
	}

	if len(probe.Fields) > 0 {
		return decodeStreamEvent(probe.Fields)
	}

	if probe.Msg == "result" && len(probe.Result) > 0 {
		kind, pending := table.resolve(probe.ID)
		if !pending {
			return nil, false
		}
		return decodeResult(kind, probe.Result, selfUsername)
	}

	return nil, false
}

// decodeStreamEvent decodes an unsolicited subscription event. The
// event args are a two-element tuple whose second element carries the
// last message and the room-type tag.
func decodeStreamEvent(fields json.RawMessage) (any, bool) {
	var envelope struct {
		Args []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(fields, &envelope); err != nil || len(envelope.Args) < 2 {
		return nil, false
	}
	var payload struct {
		LastMessage wireMessage `json:"lastMessage"`
		RoomType    string      `json:"t"`
	}
	if err := json.Unmarshal(envelope.Args[1], &payload); err != nil {
		return nil, false
	}
	if payload.LastMessage.RoomID == "" {
		return nil, false
	}
	return messageEvent{
		Message: payload.LastMessage.message(),
		Channel: roomChannel(payload.RoomType, payload.LastMessage.RoomID),
	}, true
}

func decodeResult(kind resultKind, result json.RawMessage, selfUsername string) (any, bool) {
	switch kind {
	case resultHistory:
		var payload struct {
			Messages []wireMessage `json:"messages"`
		}
		if err := json.Unmarshal(result, &payload); err != nil {
			return nil, false
		}
		messages := make([]chat.Message, len(payload.Messages))
		for index, wire := range payload.Messages {
			messages[index] = wire.message()
		}
		return historyEvent{Messages: messages}, true

	case resultRooms:
		return decodeRooms(result, selfUsername)

	case resultJoinedRoom:
		var payload struct {
			RoomID   string `json:"rid"`
			RoomType string `json:"t"`
		}
		if err := json.Unmarshal(result, &payload); err != nil || payload.RoomID == "" {
			return nil, false
		}
		return joinedRoomEvent{Channel: roomChannel(payload.RoomType, payload.RoomID)}, true

	case resultRoomMembers:
		var payload struct {
			Records []wireAuthor `json:"records"`
		}
		if err := json.Unmarshal(result, &payload); err != nil {
			return nil, false
		}
		members := make([]chat.RoomMember, len(payload.Records))
		for index, record := range payload.Records {
			members[index] = chat.RoomMember{Username: record.Username, UserID: record.ID}
		}
		return membersEvent{Members: members}, true
	}
	return nil, false
}

// decodeRooms maps each room-list entry to a labeled channel: direct
// chats get a participant-derived label, groups and private rooms use
// their stored display name.
func decodeRooms(result json.RawMessage, selfUsername string) (any, bool) {
	var payload struct {
		Update []struct {
			ID        string   `json:"_id"`
			RoomType  string   `json:"t"`
			Name      string   `json:"name"`
			Usernames []string `json:"usernames"`
		} `json:"update"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, false
	}
	channels := make([]chat.ChannelEntry, 0, len(payload.Update))
	for _, room := range payload.Update {
		switch room.RoomType {
		case "d":
			channels = append(channels, chat.ChannelEntry{
				Label:   directChatLabel(room.Usernames, selfUsername),
				Channel: chat.UserChannel(room.ID),
			})
		case "p":
			channels = append(channels, chat.ChannelEntry{
				Label:   room.Name,
				Channel: chat.PrivateChannel(room.ID),
			})
		case "c":
			channels = append(channels, chat.ChannelEntry{
				Label:   room.Name,
				Channel: chat.GroupChannel(room.ID),
			})
		}
	}
	return roomsEvent{Channels: channels}, true
}
