// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import "strings"

// ChannelKind discriminates the three destination kinds a message can
// be sent to.
type ChannelKind int

const (
	// KindGroup is a public group channel.
	KindGroup ChannelKind = iota
	// KindPrivate is an invite-only group channel.
	KindPrivate
	// KindUser is a direct chat with one or more users.
	KindUser
)

// String returns the lowercase kind name.
func (k ChannelKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPrivate:
		return "private"
	case KindUser:
		return "user"
	}
	return "unknown"
}

// Channel identifies a destination for messages. It is an immutable
// value type: two channels are the same destination iff both the kind
// and the room ID match.
//
// Channels are totally ordered for stable list rendering: groups sort
// above private rooms, private rooms above direct chats, and channels
// of the same kind sort by room ID.
type Channel struct {
	Kind ChannelKind
	ID   string
}

// GroupChannel returns a public group channel for the given room ID.
func GroupChannel(id string) Channel { return Channel{Kind: KindGroup, ID: id} }

// PrivateChannel returns a private group channel for the given room ID.
func PrivateChannel(id string) Channel { return Channel{Kind: KindPrivate, ID: id} }

// UserChannel returns a direct chat channel for the given room ID.
func UserChannel(id string) Channel { return Channel{Kind: KindUser, ID: id} }

// String returns the room ID, which is how channels are addressed on
// the wire.
func (c Channel) String() string { return c.ID }

// Compare orders channels for list rendering: group > private > user,
// ties broken by room ID. Returns -1, 0, or 1 like strings.Compare.
func (c Channel) Compare(other Channel) int {
	if c.Kind != other.Kind {
		// KindGroup < KindPrivate < KindUser numerically, but groups
		// rank highest, so the numeric order is inverted.
		if c.Kind < other.Kind {
			return 1
		}
		return -1
	}
	return strings.Compare(c.ID, other.ID)
}

// ChannelEntry pairs a channel with its display label, as produced
// from a server room listing.
type ChannelEntry struct {
	Label   string
	Channel Channel
}

// RoomMember is one member of a room, as produced from a server
// room-membership listing.
type RoomMember struct {
	Username string
	UserID   string
}
