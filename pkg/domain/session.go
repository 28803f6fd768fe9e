package domain

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of the client-side session.
type Status int

const (
	// StatusInitializing is the state at process start, before the one-time
	// restore from the credential store has completed.
	StatusInitializing Status = iota
	StatusAnonymous
	StatusAuthenticating
	StatusAuthenticated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// transitions is the full set of legal status changes. Anything not listed
// here is rejected rather than silently applied.
var transitions = map[Status][]Status{
	StatusInitializing:   {StatusAnonymous, StatusAuthenticated},
	StatusAnonymous:      {StatusAuthenticating},
	StatusAuthenticating: {StatusAuthenticated, StatusAnonymous, StatusFailed},
	StatusAuthenticated:  {StatusAnonymous},
	StatusFailed:         {StatusAuthenticating, StatusAnonymous},
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ErrInvalidSession is returned by Session.Validate when the user/token/status
// combination is inconsistent.
var ErrInvalidSession = errors.New("invalid session state")

// Session is the client-side record of the current authentication context.
// It is exclusively owned and mutated by the auth manager; everything else
// reads copies.
type Session struct {
	Status Status
	User   *User
	Token  string
}

// Authenticated reports whether the session carries a verified identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Validate enforces the session invariant: User is non-nil if and only if
// the status is Authenticated, and Token is non-empty if and only if User
// is non-nil.
func (s Session) Validate() error {
	authed := s.Status == StatusAuthenticated
	if authed != (s.User != nil) {
		return fmt.Errorf("%w: status %s with user=%v", ErrInvalidSession, s.Status, s.User != nil)
	}
	if (s.User != nil) != (s.Token != "") {
		return fmt.Errorf("%w: user=%v with token=%v", ErrInvalidSession, s.User != nil, s.Token != "")
	}
	return nil
}

// Credentials is the durable projection of an authenticated session.
type Credentials struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
