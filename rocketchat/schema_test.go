// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"testing"
	"time"

	"github.com/dominod-dev/talkoxid/chat"
)

func TestDecodePing(t *testing.T) {
	table := newCorrelationTable()
	event, ok := decodeFrame([]byte(`{"msg":"ping"}`), table, "me")
	if !ok {
		t.Fatal("ping frame not recognized")
	}
	if _, isPing := event.(pingEvent); !isPing {
		t.Fatalf("decoded %T, want pingEvent", event)
	}
}

func TestDecodeStreamMessage(t *testing.T) {
	frame := []byte(`{
		"msg": "changed",
		"collection": "stream-notify-user",
		"id": "id",
		"fields": {
			"eventName": "xyz/rooms-changed",
			"args": ["updated", {
				"_id": "room1",
				"t": "c",
				"lastMessage": {
					"rid": "room1",
					"msg": "testcontent",
					"u": {"_id": "u1", "username": "testauthor"},
					"ts": {"$date": 1593435867123}
				}
			}]
		}
	}`)
	event, ok := decodeFrame(frame, newCorrelationTable(), "me")
	if !ok {
		t.Fatal("stream message not recognized")
	}
	message, isMessage := event.(messageEvent)
	if !isMessage {
		t.Fatalf("decoded %T, want messageEvent", event)
	}
	if message.Channel != chat.GroupChannel("room1") {
		t.Errorf("channel = %v, want group room1", message.Channel)
	}
	if message.Message.Author != "testauthor" || message.Message.Content != "testcontent" {
		t.Errorf("unexpected message: %+v", message.Message)
	}
	if !message.Message.SentAt.Equal(time.UnixMilli(1593435867123)) {
		t.Errorf("unexpected timestamp: %v", message.Message.SentAt)
	}
}

func TestDecodeStreamMessageRoomTypes(t *testing.T) {
	tests := []struct {
		roomType string
		want     chat.Channel
	}{
		{"d", chat.UserChannel("r")},
		{"p", chat.PrivateChannel("r")},
		{"c", chat.GroupChannel("r")},
		{"weird", chat.GroupChannel("r")},
	}
	for _, test := range tests {
		t.Run(test.roomType, func(t *testing.T) {
			frame := []byte(`{
				"msg": "changed",
				"fields": {"args": ["updated", {
					"t": "` + test.roomType + `",
					"lastMessage": {"rid": "r", "msg": "x", "u": {"username": "a"}, "ts": {"$date": 0}}
				}]}
			}`)
			event, ok := decodeFrame(frame, newCorrelationTable(), "me")
			if !ok {
				t.Fatal("frame not recognized")
			}
			if got := event.(messageEvent).Channel; got != test.want {
				t.Errorf("channel = %v, want %v", got, test.want)
			}
		})
	}
}

func TestDecodeHistoryResult(t *testing.T) {
	table := newCorrelationTable()
	table.expect(loadHistoryID, resultHistory)
	frame := []byte(`{
		"msg": "result",
		"id": "3",
		"result": {"messages": [
			{"rid": "r", "msg": "c", "u": {"username": "a"}, "ts": {"$date": 3000}},
			{"rid": "r", "msg": "b", "u": {"username": "a"}, "ts": {"$date": 2000}},
			{"rid": "r", "msg": "a", "u": {"username": "a"}, "ts": {"$date": 1000}}
		]}
	}`)
	event, ok := decodeFrame(frame, table, "me")
	if !ok {
		t.Fatal("history result not recognized")
	}
	history := event.(historyEvent)
	if len(history.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(history.Messages))
	}
	// Wire order is preserved here (newest first); the dispatcher
	// reverses for display.
	if history.Messages[0].Content != "c" || history.Messages[2].Content != "a" {
		t.Errorf("unexpected order: %+v", history.Messages)
	}
}

func TestDecodeResultWithoutPendingRequest(t *testing.T) {
	// A result whose id is not registered must be dropped, not guessed.
	frame := []byte(`{"msg":"result","id":"3","result":{"messages":[]}}`)
	if _, ok := decodeFrame(frame, newCorrelationTable(), "me"); ok {
		t.Error("unregistered result should be dropped")
	}
}

func TestCorrelationResolveConsumes(t *testing.T) {
	table := newCorrelationTable()
	table.expect(loadRoomsID, resultRooms)
	if _, ok := table.resolve(loadRoomsID); !ok {
		t.Fatal("registered id did not resolve")
	}
	if _, ok := table.resolve(loadRoomsID); ok {
		t.Error("resolve should consume the registration")
	}
}

func TestDecodeRoomsResult(t *testing.T) {
	table := newCorrelationTable()
	table.expect(loadRoomsID, resultRooms)
	frame := []byte(`{
		"msg": "result",
		"id": "4",
		"result": {"update": [
			{"_id": "d1", "t": "d", "usernames": ["me", "bob"]},
			{"_id": "g1", "t": "c", "name": "general"},
			{"_id": "p1", "t": "p", "name": "ops"}
		], "remove": []}
	}`)
	event, ok := decodeFrame(frame, table, "me")
	if !ok {
		t.Fatal("rooms result not recognized")
	}
	rooms := event.(roomsEvent)
	want := []chat.ChannelEntry{
		{Label: "bob", Channel: chat.UserChannel("d1")},
		{Label: "general", Channel: chat.GroupChannel("g1")},
		{Label: "ops", Channel: chat.PrivateChannel("p1")},
	}
	if len(rooms.Channels) != len(want) {
		t.Fatalf("got %d channels, want %d", len(rooms.Channels), len(want))
	}
	for index, entry := range want {
		if rooms.Channels[index] != entry {
			t.Errorf("channel %d = %+v, want %+v", index, rooms.Channels[index], entry)
		}
	}
}

func TestDirectChatLabel(t *testing.T) {
	tests := []struct {
		name      string
		usernames []string
		want      string
	}{
		{"two participants", []string{"me", "bob"}, "bob"},
		{"several participants", []string{"me", "bob", "carol"}, "bob,carol"},
		{"self chat", []string{"me"}, "me"},
		{"not a participant", []string{"bob", "carol"}, "bob,carol"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := directChatLabel(test.usernames, "me"); got != test.want {
				t.Errorf("directChatLabel(%v) = %q, want %q", test.usernames, got, test.want)
			}
		})
	}
}

func TestDecodeJoinedRoomResult(t *testing.T) {
	table := newCorrelationTable()
	table.expect(createDirectChatID, resultJoinedRoom)
	frame := []byte(`{"msg":"result","id":"5","result":{"t":"d","rid":"d42"}}`)
	event, ok := decodeFrame(frame, table, "me")
	if !ok {
		t.Fatal("joined-room result not recognized")
	}
	if got := event.(joinedRoomEvent).Channel; got != chat.UserChannel("d42") {
		t.Errorf("channel = %v, want user d42", got)
	}
}

func TestDecodeRoomMembersResult(t *testing.T) {
	table := newCorrelationTable()
	table.expect(roomMembersID, resultRoomMembers)
	frame := []byte(`{
		"msg": "result",
		"id": "8",
		"result": {"total": 2, "records": [
			{"_id": "u1", "username": "alice"},
			{"_id": "u2", "username": "bob"}
		]}
	}`)
	event, ok := decodeFrame(frame, table, "me")
	if !ok {
		t.Fatal("room-members result not recognized")
	}
	members := event.(membersEvent).Members
	want := []chat.RoomMember{
		{Username: "alice", UserID: "u1"},
		{Username: "bob", UserID: "u2"},
	}
	for index, member := range want {
		if members[index] != member {
			t.Errorf("member %d = %+v, want %+v", index, members[index], member)
		}
	}
}

func TestDecodeUnrecognizedFramesDropped(t *testing.T) {
	frames := []string{
		`{"msg":"updated","methods":["3"]}`,
		`{"msg":"ready","subs":["6"]}`,
		`{"server_id":"0"}`,
		`not json at all`,
		`{"msg":"changed","fields":{"args":[]}}`,
	}
	table := newCorrelationTable()
	for _, frame := range frames {
		if _, ok := decodeFrame([]byte(frame), table, "me"); ok {
			t.Errorf("frame %q should be dropped", frame)
		}
	}
}
