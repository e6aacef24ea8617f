// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dominod-dev/talkoxid/chat"
)

// newTestServer starts an httptest server backed by the given mux and
// returns a Client pointed at it.
func newTestServer(t *testing.T, mux *http.ServeMux) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{HostURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return server, client
}

// login installs a login handler on the mux and returns an
// authenticated session against it.
func login(t *testing.T, mux *http.ServeMux, client *Client) *Session {
	t.Helper()
	mux.HandleFunc("POST /api/v1/login", func(writer http.ResponseWriter, request *http.Request) {
		if err := request.ParseForm(); err != nil {
			t.Errorf("login form parse: %v", err)
		}
		if got := request.PostForm.Get("username"); got != "usertest" {
			t.Errorf("login username = %q, want %q", got, "usertest")
		}
		if got := request.PostForm.Get("password"); got != "passtest" {
			t.Errorf("login password = %q, want %q", got, "passtest")
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"status":"success","data":{"authToken":"tok1","userId":"uid1"}}`))
	})

	session, err := client.Login(context.Background(), "usertest", "passtest")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return session
}

func TestLoginCarriesFormCredentials(t *testing.T) {
	mux := http.NewServeMux()
	_, client := newTestServer(t, mux)

	session := login(t, mux, client)
	if session.UserID() != "uid1" {
		t.Errorf("UserID = %q, want %q", session.UserID(), "uid1")
	}
}

func TestLoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		writer.Write([]byte(`{"status":"error","error":"Unauthorized","errorType":"unauthorized"}`))
	})
	_, client := newTestServer(t, mux)

	_, err := client.Login(context.Background(), "usertest", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusUnauthorized)
	}
	if apiErr.ErrorType != "unauthorized" {
		t.Errorf("ErrorType = %q, want %q", apiErr.ErrorType, "unauthorized")
	}
}

func TestSessionRequestsCarryAuthHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/channels.list", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("X-Auth-Token"); got != "tok1" {
			t.Errorf("X-Auth-Token = %q, want %q", got, "tok1")
		}
		if got := request.Header.Get("X-User-Id"); got != "uid1" {
			t.Errorf("X-User-Id = %q, want %q", got, "uid1")
		}
		writer.Write([]byte(`{"channels":[{"_id":"GENERAL","name":"general"},{"_id":"OPS","name":"ops"}]}`))
	})
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	rooms, err := session.Channels(context.Background())
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "general" || rooms[1].ID != "OPS" {
		t.Errorf("Channels = %+v", rooms)
	}
}

func TestUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users.list", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"users":[{"_id":"u1","username":"alice"},{"_id":"u2","username":"bob"}]}`))
	})
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	users, err := session.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].ID != "u2" {
		t.Errorf("Users = %+v", users)
	}
}

const historyBody = `{"messages":[
	{"msg":"newest","ts":"2026-01-02T15:04:06Z","u":{"username":"alice"}},
	{"msg":"oldest","ts":"2026-01-02T15:04:05Z","u":{"username":"bob"}}
]}`

func TestHistoryReversesToOldestFirst(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/channels.history", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.URL.Query().Get("roomId"); got != "GENERAL" {
			t.Errorf("roomId = %q, want %q", got, "GENERAL")
		}
		if got := request.URL.Query().Get("count"); got != "50" {
			t.Errorf("count = %q, want %q", got, "50")
		}
		writer.Write([]byte(historyBody))
	})
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	messages, err := session.History(context.Background(), chat.GroupChannel("GENERAL"), 50)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Content != "oldest" || messages[1].Content != "newest" {
		t.Errorf("messages out of order: %+v", messages)
	}
	if messages[0].Author != "bob" {
		t.Errorf("oldest author = %q, want %q", messages[0].Author, "bob")
	}
}

// A direct chat whose room id the im endpoint rejects should be
// retried against the other history variants.
func TestHistoryFallsBackAcrossVariants(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/im.history", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"success":false,"error":"not a direct room","errorType":"error-room-not-found"}`))
	})
	mux.HandleFunc("GET /api/v1/channels.history", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(historyBody))
	})
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	messages, err := session.History(context.Background(), chat.UserChannel("uid2"), 50)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("len(messages) = %d, want 2", len(messages))
	}
}

func TestHistoryAllVariantsRejected(t *testing.T) {
	mux := http.NewServeMux()
	reject := func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"success":false,"error":"no such room","errorType":"error-room-not-found"}`))
	}
	mux.HandleFunc("GET /api/v1/channels.history", reject)
	mux.HandleFunc("GET /api/v1/im.history", reject)
	mux.HandleFunc("GET /api/v1/groups.history", reject)
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	_, err := session.History(context.Background(), chat.PrivateChannel("SECRET"), 10)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("History error = %v, want *APIError", err)
	}
	if apiErr.ErrorType != "error-room-not-found" {
		t.Errorf("ErrorType = %q", apiErr.ErrorType)
	}
}

func TestPostMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/chat.postMessage", func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var payload map[string]string
		if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["roomId"] != "GENERAL" || payload["text"] != "hello" {
			t.Errorf("payload = %v", payload)
		}
		writer.Write([]byte(`{"success":true}`))
	})
	_, client := newTestServer(t, mux)
	session := login(t, mux, client)

	if err := session.PostMessage(context.Background(), "GENERAL", "hello"); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
}
