// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat defines the domain model shared between chat backends
// and presentation layers: channels, messages, and the two event
// vocabularies that cross the boundary between them.
//
// Commands ([SendMessage], [Init]) travel from the presentation layer
// to the chat backend over a command channel. UI events
// ([MessagesReplaced], [ChannelsUpdated], [RoomMembersUpdated],
// [MessageAppended], [ChannelSelected], [FatalError]) travel the other
// way. Both are closed interface types: the full set of variants lives
// in this package, and consumers dispatch with a type switch.
//
// The package has no protocol or UI knowledge. Backends (such as
// package rocketchat) produce and consume these values; UIs (such as
// package tui) do the reverse.
package chat
