// Package api is the HTTP client for the Smart Expense Tracker backend.
// It owns token injection, 401 session invalidation, and error
// normalization; the packages above it only ever see typed results or a
// single *Error with a human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
)

const defaultTimeout = 30 * time.Second

// genericMessage is the fallback when the server gives no usable message.
const genericMessage = "Request failed"

// Session is the slice of the session store the client needs: read the
// token on every request, drop the session on a 401.
type Session interface {
	Token() string
	User() *session.Profile
	SetSession(token string, user *session.Profile)
	Clear()
}

// Error is the single normalized failure shape for any transport or
// non-success outcome. Message prefers the server-supplied message field.
type Error struct {
	Status  int // 0 when the request never reached the server
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the tracker backend. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	session Session
}

func NewClient(baseURL string, sess Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		session: sess,
	}
}

// do issues one JSON request. A non-2xx status or transport failure comes
// back as *Error; a 401 additionally clears the stored session.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
			// Token invalid or expired; drop it so the UI can redirect.
			c.session.Clear()
		}
		return &Error{Status: resp.StatusCode, Message: serverMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// serverMessage extracts the server's message field, falling back to the
// HTTP status text and finally a generic message.
func serverMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return genericMessage
}
