package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/convene-app/convene/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["email"] != "ada@example.com" || body["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials."}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"user":  domain.User{ID: 7, Username: "ada", Email: "ada@example.com", Role: domain.RoleMember},
			"token": "fresh-token",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	user, token, err := c.Login(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("Username = %q, want %q", user.Username, "ada")
	}
	if user.Role != domain.RoleMember {
		t.Errorf("Role = %q, want %q", user.Role, domain.RoleMember)
	}
	if token != "fresh-token" {
		t.Errorf("token = %q, want %q", token, "fresh-token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials."}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, _, err := c.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsAuthError(err) {
		t.Errorf("expected AuthError, got %T: %v", err, err)
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signup/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"email":    []string{"user with this email already exists."},
			"password": "This password is too short.",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, _, err := c.Register(context.Background(), RegisterRequest{
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "x",
		Password2: "x",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	valErr := AsValidationError(err)
	if valErr == nil {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if got := valErr.Messages("email"); len(got) != 1 || got[0] != "user with this email already exists." {
		t.Errorf("email messages = %v", got)
	}
	// Single-string field values are normalized to one-element lists.
	if got := valErr.Messages("password"); len(got) != 1 || got[0] != "This password is too short." {
		t.Errorf("password messages = %v", got)
	}
	if got := valErr.Messages("username"); got != nil {
		t.Errorf("username messages = %v, want nil", got)
	}
}

func TestRegister_SendsPasswordConfirm(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received) //nolint:errcheck
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"user":  domain.User{ID: 1, Username: "ada", Email: "ada@example.com", Role: domain.RoleMember},
			"token": "tok",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, _, err := c.Register(context.Background(), RegisterRequest{
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "hunter2",
		Password2: "hunter2",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if received["password2"] != "hunter2" {
		t.Errorf("password2 = %q, want %q", received["password2"], "hunter2")
	}
}

func TestAuthorizedRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("session-token"))
	if err := c.RSVP(context.Background(), 42); err != nil {
		t.Fatalf("RSVP() error: %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestUnauthorizedCallOmitsEmptyToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Authentication credentials were not provided."}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken(""))
	err := c.DeleteEvent(context.Background(), 1)
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty header", gotAuth)
	}
	if !IsAuthError(err) {
		t.Errorf("expected AuthError, got %v", err)
	}
}

func TestListEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]domain.Event{ //nolint:errcheck
			{ID: 1, Title: "Go meetup", Location: "Berlin"},
			{ID: 2, Title: "Hack night", Location: "Remote"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	events, err := c.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Title != "Go meetup" {
		t.Errorf("Title = %q", events[0].Title)
	}
}

func TestGetEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/9" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.Event{ID: 9, Title: "Demo day"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	event, err := c.GetEvent(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetEvent() error: %v", err)
	}
	if event.Title != "Demo day" {
		t.Errorf("Title = %q", event.Title)
	}
}

func TestNetworkErrorOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // closed on purpose

	c := New(srv.URL, nil)
	_, err := c.ListEvents(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !IsNetworkError(err) {
		t.Errorf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, nil)
	_, err := c.ListEvents(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !IsNetworkError(err) {
		t.Errorf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "something broke"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListEvents(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 500") || !strings.Contains(got, "something broke") {
		t.Errorf("error = %q", got)
	}
}
