package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/convene-app/convene/pkg/domain"
)

func sampleDetail(t *testing.T, user *domain.User) detailModel {
	t.Helper()
	m := newDetailModel(nil, testManager(t, user), "https://convene.events", domain.Event{
		ID:          9,
		Title:       "Demo day",
		Description: "Show what you built.",
		Date:        time.Now().Add(72 * time.Hour),
		Location:    "Berlin",
		CreatorName: "ada",
		IsApproved:  true,
	})
	m.width = 80
	m.height = 30
	return m
}

func TestDetailEscCloses(t *testing.T) {
	m := sampleDetail(t, nil)
	m, _ = m.Update(keyMsg("esc"))
	if !m.closed {
		t.Error("esc should mark the detail view closed")
	}
}

func TestDetailRSVPRequiresLogin(t *testing.T) {
	m := sampleDetail(t, nil)
	m, cmd := m.Update(keyMsg("v"))
	if cmd != nil {
		t.Error("anonymous rsvp must not fire a request")
	}
	if m.statusMsg != "sign in to rsvp" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestDetailAdminActionsGated(t *testing.T) {
	member := &domain.User{ID: 1, Username: "ada", Role: domain.RoleMember}
	for _, key := range []string{"m", "x"} {
		m := sampleDetail(t, member)
		m, cmd := m.Update(keyMsg(key))
		if cmd != nil {
			t.Errorf("member %q must not fire a request", key)
		}
		if m.statusMsg != "admin only" {
			t.Errorf("statusMsg = %q for key %q", m.statusMsg, key)
		}
	}
}

func TestDetailAdminActionsAllowed(t *testing.T) {
	admin := &domain.User{ID: 2, Username: "root", Role: domain.RoleAdmin}
	for _, key := range []string{"m", "x"} {
		m := sampleDetail(t, admin)
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Errorf("admin %q should fire a request command", key)
		}
	}
}

func TestDetailInitSkipsAttendeesWhenAnonymous(t *testing.T) {
	m := sampleDetail(t, nil)
	if m.Init() != nil {
		t.Error("anonymous detail must not request the attendee list")
	}

	authed := sampleDetail(t, &domain.User{ID: 1, Username: "ada", Role: domain.RoleMember})
	if authed.Init() == nil {
		t.Error("authenticated detail should load attendees")
	}
}

func TestDetailView(t *testing.T) {
	m := sampleDetail(t, nil)
	out := m.View()

	for _, want := range []string{"DEMO DAY", "Berlin", "ada", "Show what you built."} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(out, "sign in to see who's coming") {
		t.Error("anonymous attendee section not rendered")
	}
	if strings.Contains(out, "awaiting approval") {
		t.Error("approved events must not show the approval notice")
	}
}

func TestDetailViewAttendees(t *testing.T) {
	m := sampleDetail(t, &domain.User{ID: 1, Username: "ada", Role: domain.RoleMember})
	out := m.View()
	if !strings.Contains(out, "nobody yet") {
		t.Error("empty attendee list state not rendered")
	}

	m, _ = m.Update(attendeesLoadedMsg{attendees: []domain.Attendee{
		{ID: 1, Username: "grace", RSVPedAt: time.Now().Add(-time.Hour)},
	}})
	out = m.View()
	if !strings.Contains(out, "grace") {
		t.Error("attendee name not rendered")
	}
	if !strings.Contains(out, "1h ago") {
		t.Error("rsvp time not rendered")
	}
}

func TestDetailRSVPSuccessReloadsAttendees(t *testing.T) {
	m := sampleDetail(t, &domain.User{ID: 1, Username: "ada", Role: domain.RoleMember})
	m, cmd := m.Update(rsvpResultMsg{})
	if m.statusMsg != "you're in!" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if cmd == nil {
		t.Error("successful rsvp should refresh the attendee list")
	}
}
