// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dominod-dev/talkoxid/chat"
)

// APIError is an error response from the HTTP API.
type APIError struct {
	StatusCode int
	ErrorType  string `json:"errorType"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.ErrorType != "" {
		return fmt.Sprintf("rest: server returned %d (%s): %s", e.StatusCode, e.ErrorType, e.Message)
	}
	return fmt.Sprintf("rest: server returned %d: %s", e.StatusCode, e.Message)
}

// Session is an authenticated API session. All requests carry the auth
// token and user id obtained at login.
type Session struct {
	client    *Client
	authToken string
	userID    string
}

// UserID returns the identifier of the logged-in user.
func (s *Session) UserID() string {
	return s.userID
}

// Room is a channel visible to the logged-in user.
type Room struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// User is a user account on the server.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Channels lists the public channels visible to the session user.
func (s *Session) Channels(ctx context.Context) ([]Room, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/channels.list", s, nil, nil)
	if err != nil {
		return nil, err
	}
	var listResponse struct {
		Channels []Room `json:"channels"`
	}
	if err := json.Unmarshal(body, &listResponse); err != nil {
		return nil, fmt.Errorf("rest: failed to parse channel list: %w", err)
	}
	return listResponse.Channels, nil
}

// Users lists the user accounts on the server.
func (s *Session) Users(ctx context.Context) ([]User, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/users.list", s, nil, nil)
	if err != nil {
		return nil, err
	}
	var listResponse struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(body, &listResponse); err != nil {
		return nil, fmt.Errorf("rest: failed to parse user list: %w", err)
	}
	return listResponse.Users, nil
}

// historyPaths orders the history endpoint variants to try for a
// channel. The variant matching the channel kind goes first; the
// others serve as fallbacks because the kind reported for a room can
// lag behind its actual type on the server.
func historyPaths(channel chat.Channel) []string {
	const (
		channelHistory = "/api/v1/channels.history"
		directHistory  = "/api/v1/im.history"
		privateHistory = "/api/v1/groups.history"
	)
	switch channel.Kind {
	case chat.KindUser:
		return []string{directHistory, channelHistory, privateHistory}
	case chat.KindPrivate:
		return []string{privateHistory, channelHistory, directHistory}
	default:
		return []string{channelHistory, directHistory, privateHistory}
	}
}

// History fetches the most recent messages of a channel, oldest first.
// It tries the endpoint variant matching the channel kind first and
// falls back to the other variants when the server rejects the room id.
func (s *Session) History(ctx context.Context, channel chat.Channel, count int) ([]chat.Message, error) {
	query := url.Values{}
	query.Set("roomId", channel.ID)
	query.Set("count", strconv.Itoa(count))

	var lastErr error
	for _, path := range historyPaths(channel) {
		body, err := s.client.doRequest(ctx, http.MethodGet, path, s, query, nil)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return parseHistory(body)
	}
	return nil, lastErr
}

func parseHistory(body []byte) ([]chat.Message, error) {
	var historyResponse struct {
		Messages []struct {
			Content string    `json:"msg"`
			SentAt  time.Time `json:"ts"`
			Author  struct {
				Username string `json:"username"`
			} `json:"u"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &historyResponse); err != nil {
		return nil, fmt.Errorf("rest: failed to parse history: %w", err)
	}

	// The server returns newest first; present oldest first.
	messages := make([]chat.Message, 0, len(historyResponse.Messages))
	for index := len(historyResponse.Messages) - 1; index >= 0; index-- {
		entry := historyResponse.Messages[index]
		messages = append(messages, chat.Message{
			Author:  entry.Author.Username,
			Content: entry.Content,
			SentAt:  entry.SentAt,
		})
	}
	return messages, nil
}

// PostMessage sends a message to a room.
func (s *Session) PostMessage(ctx context.Context, roomID, text string) error {
	payload := map[string]string{
		"roomId": roomID,
		"text":   text,
	}
	_, err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/chat.postMessage", s, nil, payload)
	return err
}
