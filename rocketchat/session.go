// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rocketchat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dominod-dev/talkoxid/chat"
)

// historyCount is how many messages initView loads when entering a
// channel.
const historyCount = 100

// directCommandPrefix is the local command that creates a direct chat
// instead of sending a message: "/direct <username>".
const directCommandPrefix = "/direct"

// api is the slice of Caller the session drives. Narrowed to an
// interface so tests can record operations without a wire.
type api interface {
	Pong() error
	SendMessage(roomID, text string) error
	LoadHistory(roomID string, count int) error
	LoadRooms() error
	CreateDirectChat(username string) error
	SubscribeUserEvents() error
	RoomMembers(roomID string) error
}

var _ api = (*Caller)(nil)

// Config holds everything needed to open a realtime session.
type Config struct {
	// Host is the server base URL (http or https); the realtime
	// endpoint is derived from it.
	Host string
	// Username and Password authenticate the session.
	Username string
	Password string
	// InsecureSkipVerify disables TLS certificate and hostname
	// verification, for self-signed test deployments.
	InsecureSkipVerify bool

	// Events carries typed UI events to the presentation layer.
	Events chan<- chat.UIEvent
	// Commands carries user-initiated actions from the presentation
	// layer. Closing it ends the session cleanly.
	Commands <-chan chat.Command

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Session is one realtime connection for its full lifetime: it owns
// the event dispatcher loop and the command intake loop, and tears the
// whole connection down when either terminates.
type Session struct {
	wire     Wire
	caller   api
	table    *correlationTable
	username string
	events   chan<- chat.UIEvent
	commands <-chan chat.Command
	logger   *slog.Logger

	// mu guards current, the only mutable state shared between the
	// command-intake path and the message-routing step. Never held
	// across a channel operation.
	mu      sync.Mutex
	current *chat.Channel
}

// Connect dials the realtime socket, authenticates, and returns a
// ready session. Connection failures surface as *ConnectionError and
// handshake failures as *AuthenticationError, both before any session
// exists.
func Connect(ctx context.Context, config Config) (*Session, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport, err := Dial(ctx, config.Host, config.InsecureSkipVerify, logger)
	if err != nil {
		return nil, err
	}

	credentials := NewCredentials(config.Username, config.Password)
	userID, err := Authenticate(ctx, transport, credentials)
	if err != nil {
		transport.Close()
		return nil, err
	}
	logger.Info("realtime session authenticated", "username", config.Username, "user_id", userID)

	table := newCorrelationTable()
	return &Session{
		wire:     transport,
		caller:   NewCaller(transport, credentials, userID, table),
		table:    table,
		username: config.Username,
		events:   config.Events,
		commands: config.Commands,
		logger:   logger,
	}, nil
}

// Run executes the session: the event dispatcher loop and the command
// intake loop progress concurrently for the session's full lifetime.
// The first loop to terminate ends the session as a unit — its result
// becomes the session's result, the other loop is unwound rather than
// abandoned mid-flight, and the transport is closed. A peer disconnect
// surfaces as *TransportError; a closed command channel is a clean
// shutdown.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan error, 2)
	go func() { results <- s.dispatchLoop(ctx) }()
	go func() { results <- s.commandLoop(ctx) }()

	// First termination wins and becomes the session's result. The
	// other loop is then cancelled and awaited — its unwind error is a
	// teardown artifact, not the outcome.
	err := <-results
	cancel()
	s.wire.Close()
	<-results
	return err
}

// dispatchLoop consumes inbound frames in arrival order, classifies
// each, and routes it: keepalives are answered immediately, stream
// events go through the message-routing step, correlated results
// become UI events, and unrecognized frames are dropped silently.
func (s *Session) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-s.wire.Frames():
			if !ok {
				return &TransportError{Op: "read", Err: fmt.Errorf("stream closed by peer")}
			}
			if err := s.dispatch(ctx, frame); err != nil {
				return err
			}
		}
	}
}

func (s *Session) dispatch(ctx context.Context, frame []byte) error {
	decoded, ok := decodeFrame(frame, s.table, s.username)
	if !ok {
		return nil
	}

	switch event := decoded.(type) {
	case pingEvent:
		// Answered before the next frame is processed; the server
		// disconnects sessions that miss its tolerance window.
		if err := s.caller.Pong(); err != nil {
			return err
		}

	case messageEvent:
		return s.routeMessage(ctx, event.Message, event.Channel)

	case historyEvent:
		return s.emit(ctx, chat.MessagesReplaced{Content: renderHistory(event.Messages)})

	case roomsEvent:
		return s.emit(ctx, chat.ChannelsUpdated{Channels: event.Channels})

	case joinedRoomEvent:
		// Server confirmation of a created/joined room chains a fresh
		// init sequence for it. This is a feedback loop by design, not
		// recursion: it is driven by an inbound frame, not the
		// originating call stack.
		return s.initView(ctx, event.Channel)

	case membersEvent:
		return s.emit(ctx, chat.RoomMembersUpdated{Members: event.Members})
	}
	return nil
}

// commandLoop drains user-initiated actions from the presentation
// layer. Returns nil when the command channel closes (the UI exited).
func (s *Session) commandLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case command, ok := <-s.commands:
			if !ok {
				return nil
			}
			var err error
			switch command := command.(type) {
			case chat.SendMessage:
				err = s.handleSend(command.Text, command.Channel)
			case chat.Init:
				err = s.initView(ctx, command.Channel)
			}
			if err != nil {
				return err
			}
		}
	}
}

// handleSend routes outgoing text: a local "/direct <username>"
// command creates a direct chat, anything else goes to the channel as
// a plain message.
func (s *Session) handleSend(text string, channel chat.Channel) error {
	if strings.HasPrefix(text, directCommandPrefix) {
		if fields := strings.Fields(text); len(fields) > 1 {
			return s.caller.CreateDirectChat(fields[1])
		}
	}
	return s.caller.SendMessage(channel.ID, text)
}

// initView makes channel the current view: it loads history and the
// room list, opens the user-event subscription, fetches the room's
// members, notifies the presentation layer, and finally updates the
// current-channel cell.
func (s *Session) initView(ctx context.Context, channel chat.Channel) error {
	if err := s.caller.LoadHistory(channel.ID, historyCount); err != nil {
		return err
	}
	if err := s.caller.LoadRooms(); err != nil {
		return err
	}
	if err := s.caller.SubscribeUserEvents(); err != nil {
		return err
	}
	if err := s.caller.RoomMembers(channel.ID); err != nil {
		return err
	}
	if err := s.emit(ctx, chat.ChannelSelected{Channel: channel}); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = &channel
	s.mu.Unlock()
	return nil
}

// routeMessage forwards an inbound message to the presentation layer
// only when it is addressed to the channel the user is viewing, so
// background traffic never pollutes the current view.
func (s *Session) routeMessage(ctx context.Context, message chat.Message, channel chat.Channel) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil || *current != channel {
		s.logger.Debug("dropping message for background channel",
			"channel", channel.ID,
			"author", message.Author,
		)
		return nil
	}
	return s.emit(ctx, chat.MessageAppended{Message: message})
}

// emit delivers one UI event, suspending if the presentation channel
// is full. Cancellation unblocks it so a dying session never wedges
// on a stalled UI.
func (s *Session) emit(ctx context.Context, event chat.UIEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.events <- event:
		return nil
	}
}

// renderHistory renders a history result for display. The server
// returns newest-first; the view wants oldest-first, so the order is
// reversed while joining the display lines.
func renderHistory(messages []chat.Message) string {
	lines := make([]string, 0, len(messages))
	for index := len(messages) - 1; index >= 0; index-- {
		lines = append(lines, messages[index].String())
	}
	return strings.Join(lines, "\n")
}
