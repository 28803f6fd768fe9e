package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"
)

var (
	// ErrAttemptInProgress is returned when a login or register call is made
	// while another attempt is still in flight.
	ErrAttemptInProgress = errors.New("authentication attempt already in progress")

	// ErrAttemptSuperseded is returned to an attempt whose response arrived
	// after a logout invalidated it.
	ErrAttemptSuperseded = errors.New("authentication attempt superseded")

	// ErrInvalidCredentials is the user-displayable login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidTransition is returned for a session status change the
	// transition table does not allow.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// Gateway is the slice of the API client the manager needs. pkg/client
// satisfies it; tests substitute stubs.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, req client.RegisterRequest) (*domain.User, string, error)
	Logout(ctx context.Context) error
}

// subscriberBuffer is the channel depth per subscriber. Slow consumers drop
// updates rather than block the manager.
const subscriberBuffer = 8

// Manager owns the session state machine. It is the only component that
// mutates the session; views and the route guard read snapshots.
//
// At most one login/register attempt is in flight at a time, and every
// attempt carries a sequence number. Logout bumps the sequence, so a late
// success response can never resurrect a session that was logged out while
// the response was on the wire.
type Manager struct {
	gw    Gateway
	store Store
	log   zerolog.Logger

	mu       sync.Mutex
	session  domain.Session
	seq      uint64
	inFlight bool
	subs     map[uuid.UUID]chan domain.Session
}

// New builds a manager and performs the one-time restore from the store
// before returning, so callers never observe StatusInitializing.
func New(gw Gateway, store Store, log zerolog.Logger) *Manager {
	m := &Manager{
		gw:      gw,
		store:   store,
		log:     log,
		session: domain.Session{Status: domain.StatusInitializing},
		subs:    make(map[uuid.UUID]chan domain.Session),
	}

	if creds, ok := store.Load(); ok {
		m.session = domain.Session{
			Status: domain.StatusAuthenticated,
			User:   &creds.User,
			Token:  creds.Token,
		}
		m.log.Info().Str("user", creds.User.Email).Msg("session restored")
	} else {
		m.session = domain.Session{Status: domain.StatusAnonymous}
		m.log.Debug().Msg("no stored session, starting anonymous")
	}
	return m
}

// Snapshot returns a copy of the current session. The returned value is
// detached: mutating it has no effect on the manager.
func (m *Manager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.Session {
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Token implements client.TokenSource with the live session token.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token
}

// Subscribe registers a session-change listener. Every committed transition
// delivers a fresh snapshot on the returned channel; sends never block, so
// a consumer that falls behind misses intermediate states, not the final one
// it reads next.
func (m *Manager) Subscribe() (uuid.UUID, <-chan domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	ch := make(chan domain.Session, subscriberBuffer)
	m.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (m *Manager) Unsubscribe(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.subs[id]; ok {
		delete(m.subs, id)
		close(ch)
	}
}

// Login authenticates with email and password. On success the session is
// Authenticated and the credential record persisted; on failure the session
// returns to Anonymous with no partial state, and the error is
// user-displayable. A transport failure leaves no session change either and
// is surfaced as-is so the caller can suggest a retry.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}
	user, token, err := m.gw.Login(ctx, email, password)
	return m.finish(seq, user, token, translateLoginErr(err))
}

// RegisterParams are the signup inputs. The role is assigned server-side.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account and, on success, behaves exactly like a
// successful login. Validation failures carry the server's field errors
// verbatim for the form to render.
func (m *Manager) Register(ctx context.Context, p RegisterParams) error {
	seq, err := m.begin()
	if err != nil {
		return err
	}
	user, token, err := m.gw.Register(ctx, client.RegisterRequest{
		Username:  p.Name,
		Email:     p.Email,
		Password:  p.Password,
		Password2: p.Password,
	})
	return m.finish(seq, user, token, err)
}

// Logout tears the session down: server-side revoke (best effort), then
// in-memory reset and store clear. Calling it while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.session.Status == domain.StatusAnonymous {
		m.mu.Unlock()
		return nil
	}
	hadToken := m.session.Token != ""
	m.mu.Unlock()

	// Revoke while the token is still attached. A failed or unreachable
	// revoke never blocks the local logout.
	if hadToken {
		if err := m.gw.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("server-side logout failed, clearing locally")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Invalidate any in-flight attempt so its late success is discarded.
	m.seq++

	if m.session.Status == domain.StatusAnonymous {
		return nil
	}
	if err := m.transitionLocked(domain.StatusAnonymous, nil, ""); err != nil {
		return err
	}
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clearing credential store failed")
	}
	m.log.Info().Msg("logged out")
	return nil
}

// begin claims the single in-flight attempt slot and moves the session to
// Authenticating. It returns the sequence number the attempt must present
// when it finishes.
func (m *Manager) begin() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return 0, ErrAttemptInProgress
	}
	if err := m.transitionLocked(domain.StatusAuthenticating, nil, ""); err != nil {
		return 0, err
	}
	m.inFlight = true
	m.seq++
	return m.seq, nil
}

// finish applies the outcome of an attempt, unless a logout has superseded it.
func (m *Manager) finish(seq uint64, user *domain.User, token string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if m.seq != seq {
		// A logout landed while the response was on the wire. The session
		// stays wherever the logout left it.
		m.log.Debug().Uint64("seq", seq).Msg("discarding superseded auth response")
		return ErrAttemptSuperseded
	}

	if err != nil {
		if terr := m.transitionLocked(domain.StatusAnonymous, nil, ""); terr != nil {
			return terr
		}
		m.log.Debug().Err(err).Msg("authentication attempt failed")
		return err
	}

	if user == nil || token == "" {
		if terr := m.transitionLocked(domain.StatusAnonymous, nil, ""); terr != nil {
			return terr
		}
		return fmt.Errorf("authentication succeeded without credentials")
	}

	// Persist first: if the session says Authenticated, the store agrees.
	if serr := m.store.Save(domain.Credentials{User: *user, Token: token}); serr != nil {
		m.log.Warn().Err(serr).Msg("persisting credentials failed, session will not survive restart")
	}
	if terr := m.transitionLocked(domain.StatusAuthenticated, user, token); terr != nil {
		return terr
	}
	m.log.Info().Str("user", user.Email).Str("role", string(user.Role)).Msg("authenticated")
	return nil
}

// transitionLocked validates the status change against the transition table,
// applies it, checks the session invariant, and notifies subscribers.
func (m *Manager) transitionLocked(to domain.Status, user *domain.User, token string) error {
	from := m.session.Status
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	next := domain.Session{Status: to, User: user, Token: token}
	if err := next.Validate(); err != nil {
		return err
	}
	m.session = next
	m.log.Debug().Stringer("from", from).Stringer("to", to).Msg("session transition")

	snapshot := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	return nil
}

// translateLoginErr maps a 401/403 on the login endpoint to the generic
// credentials message; every other error passes through unchanged.
func translateLoginErr(err error) error {
	if err == nil {
		return nil
	}
	if client.IsAuthError(err) {
		return ErrInvalidCredentials
	}
	return err
}
