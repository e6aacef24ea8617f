// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui implements the terminal client interface: a channel list
// on the left, the message log in the middle, the room member list on
// the right, and a message input at the bottom.
//
// The model consumes chat.UIEvent values from the session (delivered
// through the bubbletea message loop) and emits chat.Command values on
// a channel the session drains. Command sends happen inside tea.Cmd
// functions so Update never blocks on the session.
package tui
