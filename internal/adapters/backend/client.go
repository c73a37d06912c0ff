package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Errors surfaced by the client. ErrNoSession and ErrNoRows are normal
// states for callers, a logged-out visitor and a not-yet-onboarded user
// respectively, and must be branched on rather than reported.
var (
	ErrNoRows    = errors.New("no matching row")
	ErrNoSession = errors.New("no active session")
)

// noRowCode is the wire code the row service returns when a single-object
// request matches zero rows.
const noRowCode = "PGRST116"

// Config holds the connection parameters for the hosted backend.
type Config struct {
	URL     string
	AnonKey string
}

// Session identifies the currently authenticated actor. The access token
// authorizes row operations on the user's behalf.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// Client talks to the hosted auth + row service. Construct exactly one
// per process and pass it by reference; it is never mutated after
// construction.
type Client struct {
	baseURL  string
	anonKey  string
	http     *http.Client
	notifier *Notifier
}

// New creates a Client from config. No connection is established here;
// every operation is a discrete HTTP request.
func New(cfg Config) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		anonKey:  cfg.AnonKey,
		http:     &http.Client{},
		notifier: NewNotifier(),
	}
}

// Notifier returns the session-event notifier. Subscribe once at startup.
func (c *Client) Notifier() *Notifier {
	return c.notifier
}

// apiError is the error body shape shared by the auth and row endpoints.
type apiError struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Message, e.Msg} {
		if s != "" {
			return s
		}
	}
	return "request failed"
}

// do issues one request with the service headers set. token may be empty
// for anonymous operations. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	return c.http.Do(req)
}

// decodeError turns a non-2xx response into an error, mapping the
// zero-row code to ErrNoRows.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil {
		if ae.Code == noRowCode {
			return ErrNoRows
		}
		return fmt.Errorf("backend: %s (status %d)", ae.text(), resp.StatusCode)
	}
	return fmt.Errorf("backend: status %d", resp.StatusCode)
}
