// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// Package rest wraps the server's HTTP API for one-shot lookups that
// do not belong on the realtime stream: the login token exchange,
// initial room and user listings, channel history, and message
// posting.
//
// [Client] is unauthenticated and holds the server URL and HTTP
// transport. [Client.Login] exchanges a username and password for an
// auth token and returns a [Session] carrying it; all authenticated
// calls live on Session.
//
// API errors are returned as [*APIError] with the server's error type
// and the HTTP status code; use errors.As to inspect them. History
// fetching falls back across the channel/direct/private endpoint
// variants because the caller does not always know which kind of room
// an ID names.
package rest
