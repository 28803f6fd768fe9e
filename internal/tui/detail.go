package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/convene-app/convene/internal/browser"
	"github.com/convene-app/convene/pkg/auth"
	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"
)

type detailModel struct {
	client     *client.Client
	mgr        *auth.Manager
	webBaseURL string
	event      domain.Event
	attendees  []domain.Attendee
	attendErr  error
	statusMsg  string
	closed     bool
	width      int
	height     int
}

type attendeesLoadedMsg struct {
	attendees []domain.Attendee
	err       error
}

type rsvpResultMsg struct{ err error }
type remindResultMsg struct{ err error }
type deleteResultMsg struct{ err error }
type copyResultMsg struct{ err error }

// eventDeletedMsg tells the app to drop back to the list and refresh it.
type eventDeletedMsg struct{}

func newDetailModel(c *client.Client, mgr *auth.Manager, webBaseURL string, event domain.Event) detailModel {
	return detailModel{client: c, mgr: mgr, webBaseURL: webBaseURL, event: event}
}

func (m detailModel) Init() tea.Cmd {
	// The attendee list is an authorized call; skip it entirely for
	// anonymous sessions instead of collecting a guaranteed 401.
	if !m.mgr.Snapshot().Authenticated() {
		return nil
	}
	return m.loadAttendees()
}

func (m detailModel) loadAttendees() tea.Cmd {
	c := m.client
	id := m.event.ID
	return func() tea.Msg {
		attendees, err := c.ListAttendees(context.Background(), id)
		return attendeesLoadedMsg{attendees: attendees, err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case attendeesLoadedMsg:
		m.attendees = msg.attendees
		m.attendErr = msg.err
		return m, expireCheck(m.mgr, msg.err)

	case rsvpResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("rsvp failed: %v", msg.err)
			return m, expireCheck(m.mgr, msg.err)
		}
		m.statusMsg = "you're in!"
		return m, m.loadAttendees()

	case remindResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("reminder failed: %v", msg.err)
			return m, expireCheck(m.mgr, msg.err)
		}
		m.statusMsg = "reminders sent"
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("delete failed: %v", msg.err)
			return m, expireCheck(m.mgr, msg.err)
		}
		return m, func() tea.Msg { return eventDeletedMsg{} }

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

// expireCheck turns a 401/403 on an already-authenticated call into a forced
// logout; the session-change notification then routes the app to login.
func expireCheck(mgr *auth.Manager, err error) tea.Cmd {
	if err == nil || !client.IsAuthError(err) {
		return nil
	}
	if !mgr.Snapshot().Authenticated() {
		return nil
	}
	return func() tea.Msg {
		_ = mgr.Logout(context.Background())
		return nil
	}
}

func (m detailModel) updateKeys(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "esc":
		m.closed = true
		return m, nil

	case "v":
		if d := auth.Decide(m.mgr.Snapshot()); !d.Allowed {
			m.statusMsg = "sign in to rsvp"
			return m, nil
		}
		c, id := m.client, m.event.ID
		return m, func() tea.Msg {
			return rsvpResultMsg{err: c.RSVP(context.Background(), id)}
		}

	case "m":
		if d := auth.Decide(m.mgr.Snapshot(), domain.RoleAdmin); !d.Allowed {
			m.statusMsg = "admin only"
			return m, nil
		}
		c, id := m.client, m.event.ID
		return m, func() tea.Msg {
			return remindResultMsg{err: c.SendReminder(context.Background(), id)}
		}

	case "x":
		if d := auth.Decide(m.mgr.Snapshot(), domain.RoleAdmin); !d.Allowed {
			m.statusMsg = "admin only"
			return m, nil
		}
		c, id := m.client, m.event.ID
		return m, func() tea.Msg {
			return deleteResultMsg{err: c.DeleteEvent(context.Background(), id)}
		}

	case "c":
		summary := fmt.Sprintf("%s\n%s\n%s", m.event.Title, formatEventDate(m.event.Date), m.event.Location)
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(summary)}
		}

	case "o":
		url := fmt.Sprintf("%s/events/%d", m.webBaseURL, m.event.ID)
		browser.Open(url) //nolint:errcheck // best-effort browser open
		return m, nil

	case "a":
		if !m.mgr.Snapshot().Authenticated() {
			m.statusMsg = "sign in to see attendees"
			return m, nil
		}
		return m, m.loadAttendees()
	}
	return m, nil
}

func (m detailModel) View() string {
	var b strings.Builder
	e := m.event

	b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(truncStr(e.Title, m.width-4))) + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	b.WriteString(" " + metaStyle.Render("when  ") + normalStyle.Render(formatEventDate(e.Date)) + "\n")
	b.WriteString(" " + metaStyle.Render("where ") + normalStyle.Render(e.Location) + "\n")
	host := e.CreatorName
	if host == "" {
		host = e.CreatorEmail
	}
	if host != "" {
		b.WriteString(" " + metaStyle.Render("host  ") + normalStyle.Render(host) + "\n")
	}
	if !e.IsApproved {
		b.WriteString(" " + pendingStyle.Render("awaiting approval") + "\n")
	}

	if e.Description != "" {
		b.WriteString("\n")
		for _, line := range wrapText(e.Description, m.width-2) {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("ATTENDEES") + "\n")
	switch {
	case !m.mgr.Snapshot().Authenticated():
		b.WriteString(" " + dimStyle.Render("sign in to see who's coming") + "\n")
	case m.attendErr != nil:
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.attendErr)) + "\n")
	case len(m.attendees) == 0:
		b.WriteString(" " + dimStyle.Render("nobody yet") + "\n")
	default:
		for _, a := range m.attendees {
			name := a.Username
			if name == "" {
				name = a.Email
			}
			b.WriteString(" " + okStyle.Render("●") + " " + normalStyle.Render(name) +
				"  " + metaStyle.Render(formatTime(a.RSVPedAt)) + "\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}

	return b.String()
}

// wrapText greedily wraps words to the given width.
func wrapText(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
