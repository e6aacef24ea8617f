// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"fmt"
	"time"
)

// Message is a single chat message. Produced by parsing inbound wire
// frames or by local composition on send.
type Message struct {
	// Author is the sender's username.
	Author string
	// Content is the message text.
	Content string
	// SentAt is when the server recorded the message.
	SentAt time.Time
}

// String renders the message as a display line: "[time][author]: text".
// Messages sent today use the short time form; older messages carry
// the full date. Times are rendered in the local timezone.
func (m Message) String() string {
	return m.render(time.Now())
}

// render is the testable core of String: now supplies "today".
func (m Message) render(now time.Time) string {
	local := m.SentAt.Local()
	layout := "15:04:05"
	if !sameDay(local, now.Local()) {
		layout = "2006-01-02 15:04:05"
	}
	return fmt.Sprintf("[%s][%s]: %s", local.Format(layout), m.Author, m.Content)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
