package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/convene-app/convene/pkg/domain"
)

// TokenSource supplies the current bearer token for authorized calls.
// The auth manager implements it, so the client always sees the token of
// the live session rather than a snapshot taken at construction.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is the convene API client. It is stateless per call: every request
// builds its headers from scratch and no response mutates the client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout overrides the default per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// authPayload is the success body of the login and signup endpoints.
type authPayload struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for an identity and a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login/", body, &out, false); err != nil {
		return nil, "", fmt.Errorf("client.Login: %w", err)
	}
	return &out.User, out.Token, nil
}

// RegisterRequest is the payload for creating a new account. The server
// requires the password to be repeated; the role is assigned server-side.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Register creates a new account and returns the identity and token for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	var out authPayload
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup/", req, &out, false); err != nil {
		return nil, "", fmt.Errorf("client.Register: %w", err)
	}
	return &out.User, out.Token, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout/", struct{}{}, nil, true); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// ListEvents fetches all listed events, newest first.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.doRequest(ctx, http.MethodGet, "/api/events", nil, &events, false); err != nil {
		return nil, fmt.Errorf("client.ListEvents: %w", err)
	}
	return events, nil
}

// GetEvent fetches a single event by ID.
func (c *Client) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.doRequest(ctx, http.MethodGet, "/api/events/"+strconv.FormatInt(id, 10), nil, &event, false); err != nil {
		return nil, fmt.Errorf("client.GetEvent: %w", err)
	}
	return &event, nil
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

// CreateEvent creates a new event owned by the authenticated user.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	var created domain.Event
	if err := c.doRequest(ctx, http.MethodPost, "/api/events", req, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateEvent: %w", err)
	}
	return &created, nil
}

// DeleteEvent deletes an event by ID.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/events/"+strconv.FormatInt(id, 10), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteEvent: %w", err)
	}
	return nil
}

// RSVP marks the authenticated user as attending an event.
func (c *Client) RSVP(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/events/"+strconv.FormatInt(id, 10)+"/rsvp", struct{}{}, nil, true); err != nil {
		return fmt.Errorf("client.RSVP: %w", err)
	}
	return nil
}

// ListAttendees returns the users who RSVP'd to an event.
func (c *Client) ListAttendees(ctx context.Context, id int64) ([]domain.Attendee, error) {
	var attendees []domain.Attendee
	if err := c.doRequest(ctx, http.MethodGet, "/api/events/"+strconv.FormatInt(id, 10)+"/attendees", nil, &attendees, true); err != nil {
		return nil, fmt.Errorf("client.ListAttendees: %w", err)
	}
	return attendees, nil
}

// SendReminder asks the server to email a reminder to an event's attendees.
func (c *Client) SendReminder(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/events/"+strconv.FormatInt(id, 10)+"/remind", struct{}{}, nil, true); err != nil {
		return fmt.Errorf("client.SendReminder: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any, authorized bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		// If no token is present the call goes out unauthenticated and the
		// server rejects it; the client does not pre-empt that decision.
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError maps a non-2xx response onto the error taxonomy.
func decodeError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}

	msg := errorMessage(respBody)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: msg}
	case resp.StatusCode == http.StatusBadRequest:
		if fields := fieldErrors(respBody); len(fields) > 0 {
			return &ValidationError{StatusCode: resp.StatusCode, Fields: fields}
		}
	}
	if msg == "" {
		msg = string(respBody)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// errorMessage extracts a single {"error": "..."} or {"detail": "..."} message.
func errorMessage(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Detail
}

// fieldErrors parses a field -> message(s) object. The server emits either a
// single string or a list of strings per field; both are accepted.
func fieldErrors(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil || len(raw) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for name, val := range raw {
		var single string
		if json.Unmarshal(val, &single) == nil {
			fields[name] = []string{single}
			continue
		}
		var many []string
		if json.Unmarshal(val, &many) == nil && len(many) > 0 {
			fields[name] = many
			continue
		}
		// Not a field error shape (nested object etc.), treat the whole
		// body as opaque.
		return nil
	}
	return fields
}
