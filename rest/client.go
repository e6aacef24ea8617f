// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HostURL is the base URL of the chat server (e.g., "https://chat.example.com").
	HostURL string
	// InsecureSkipVerify disables TLS certificate and hostname
	// verification, for self-signed test deployments. Ignored when
	// HTTPClient is set.
	InsecureSkipVerify bool
	// HTTPClient is used for all requests. If nil, a client honoring
	// InsecureSkipVerify is constructed.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated HTTP API client. It holds the server
// URL and HTTP transport, shared across Sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.HostURL == "" {
		return nil, fmt.Errorf("rest: HostURL is required")
	}
	if _, err := url.Parse(config.HostURL); err != nil {
		return nil, fmt.Errorf("rest: invalid HostURL %q: %w", config.HostURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		if config.InsecureSkipVerify {
			httpClient = &http.Client{Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}}
		} else {
			httpClient = http.DefaultClient
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.HostURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login exchanges a username and password for an auth token, returning
// an authenticated Session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("rest: failed to create login request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("rest: login request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to read login response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, decodeAPIError(response.StatusCode, body)
	}

	var loginResponse struct {
		Data struct {
			AuthToken string `json:"authToken"`
			UserID    string `json:"userId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &loginResponse); err != nil {
		return nil, fmt.Errorf("rest: failed to parse login response: %w", err)
	}
	if loginResponse.Data.AuthToken == "" {
		return nil, fmt.Errorf("rest: login response carries no auth token")
	}

	c.logger.Info("rest login succeeded", "username", username, "user_id", loginResponse.Data.UserID)
	return &Session{
		client:    c,
		authToken: loginResponse.Data.AuthToken,
		userID:    loginResponse.Data.UserID,
	}, nil
}

// doRequest performs an authenticated request and returns the response
// body. On 2xx, returns the body. On other statuses, returns *APIError.
// query and requestBody may be nil.
func (c *Client) doRequest(ctx context.Context, method, path string, session *Session, query url.Values, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("rest: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		request.Header.Set("X-Auth-Token", session.authToken)
		request.Header.Set("X-User-Id", session.userID)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("rest: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, decodeAPIError(response.StatusCode, responseBody)
}

func decodeAPIError(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || (apiErr.Message == "" && apiErr.ErrorType == "") {
		// Non-JSON error body. Should not happen with a conforming
		// server, but fail loud with the raw payload.
		return fmt.Errorf("rest: unexpected %d response: %s", statusCode, string(body))
	}
	apiErr.StatusCode = statusCode
	return &apiErr
}
