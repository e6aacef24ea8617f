// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package chat

// Command is a user-initiated action sent from the presentation layer
// to the chat backend. The variants are SendMessage and Init.
type Command interface {
	isCommand()
}

// SendMessage asks the backend to deliver text to a channel. The text
// may carry a local command prefix (such as "/direct <username>")
// that the backend interprets instead of sending verbatim.
type SendMessage struct {
	Text    string
	Channel Channel
}

// Init asks the backend to make a channel the current view: load its
// history and membership, refresh the room list, and select it.
// Sent on startup and whenever the user switches channels.
type Init struct {
	Channel Channel
}

func (SendMessage) isCommand() {}
func (Init) isCommand()        {}

// UIEvent is a typed event sent from the chat backend to the
// presentation layer. Delivery is order-preserving per channel.
type UIEvent interface {
	isUIEvent()
}

// MessagesReplaced replaces the entire message view with pre-rendered
// content, one display line per message, oldest first.
type MessagesReplaced struct {
	Content string
}

// ChannelsUpdated replaces the channel list.
type ChannelsUpdated struct {
	Channels []ChannelEntry
}

// RoomMembersUpdated replaces the member list of the current channel.
type RoomMembersUpdated struct {
	Members []RoomMember
}

// MessageAppended appends one message to the current view. Only
// emitted for messages addressed to the channel the user is viewing.
type MessageAppended struct {
	Message Message
}

// ChannelSelected tells the presentation layer which channel the
// backend now considers current.
type ChannelSelected struct {
	Channel Channel
}

// FatalError reports an unrecoverable failure that the presentation
// layer must surface before shutting down.
type FatalError struct {
	Text string
}

func (MessagesReplaced) isUIEvent()   {}
func (ChannelsUpdated) isUIEvent()    {}
func (RoomMembersUpdated) isUIEvent() {}
func (MessageAppended) isUIEvent()    {}
func (ChannelSelected) isUIEvent()    {}
func (FatalError) isUIEvent()         {}
