// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the chat client.
type KeyMap struct {
	Quit        key.Binding
	FocusNext   key.Binding
	ChannelUp   key.Binding
	ChannelDown key.Binding
	OpenChannel key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Send        key.Binding
}

// DefaultKeyMap is the built-in key binding set. The input field owns
// most printable keys, so navigation uses control keys and arrows.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("ctrl+c", "quit"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	ChannelUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "previous channel"),
	),
	ChannelDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "next channel"),
	),
	OpenChannel: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open channel"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "pgup", "k"),
		key.WithHelp("↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down", "pgdown", "j"),
		key.WithHelp("↓", "scroll down"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
}
