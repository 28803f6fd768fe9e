package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/convene-app/convene/pkg/auth"
	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"
)

type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldDate
	fieldLocation
	numCreateFields
)

// createFieldNames maps form fields to the server's field-error keys.
var createFieldNames = [numCreateFields]string{"title", "description", "date", "location"}

// dateLayouts are the accepted input formats for the date field.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

type createModel struct {
	client    *client.Client
	mgr       *auth.Manager
	fields    [numCreateFields]string
	focus     createField
	fieldErrs map[string][]string
	errMsg    string
	submitted bool
	width     int
	height    int
}

type eventCreatedMsg struct {
	event *domain.Event
	err   error
}

func newCreateModel(c *client.Client, mgr *auth.Manager) createModel {
	return createModel{client: c, mgr: mgr}
}

func (m createModel) Init() tea.Cmd {
	return nil
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			if valErr := client.AsValidationError(msg.err); valErr != nil {
				m.fieldErrs = valErr.Fields
			} else if client.IsNetworkError(msg.err) {
				m.errMsg = "could not reach the server — check your connection and retry"
			} else {
				m.errMsg = fmt.Sprintf("create failed: %v", msg.err)
			}
			// An auth failure here means the token died server-side while we
			// were signed in; treat it like the detail view does.
			return m, expireCheck(m.mgr, msg.err)
		}
		// Reset so the next visit starts clean; the app switches to the
		// detail view of the created event.
		m.fields = [numCreateFields]string{}
		m.focus = fieldTitle
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

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numCreateFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numCreateFields) % numCreateFields
	case "enter":
		if m.focus == fieldDescription {
			m.fields[fieldDescription] += "\n"
		} else {
			m.focus = (m.focus + 1) % numCreateFields
		}
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m createModel) submit() (createModel, tea.Cmd) {
	title := strings.TrimSpace(m.fields[fieldTitle])
	location := strings.TrimSpace(m.fields[fieldLocation])
	dateStr := strings.TrimSpace(m.fields[fieldDate])

	m.fieldErrs = nil
	if title == "" {
		m.errMsg = "title is required"
		return m, nil
	}
	if dateStr == "" {
		m.errMsg = "date is required (e.g. 2026-09-12 19:00)"
		return m, nil
	}
	date, err := parseEventDate(dateStr)
	if err != nil {
		m.fieldErrs = map[string][]string{"date": {"Unrecognized date. Use YYYY-MM-DD HH:MM."}}
		return m, nil
	}
	if location == "" {
		m.errMsg = "location is required"
		return m, nil
	}

	m.submitted = true
	req := client.CreateEventRequest{
		Title:       title,
		Description: strings.TrimSpace(m.fields[fieldDescription]),
		Date:        date,
		Location:    location,
	}

	c := m.client
	return m, func() tea.Msg {
		event, err := c.CreateEvent(context.Background(), req)
		return eventCreatedMsg{event: event, err: err}
	}
}

func parseEventDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (m createModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("NEW EVENT") + "  " + taglineStyle.Render("Bring people together.") + "\n\n")

	labels := [numCreateFields]string{"title", "description", "date", "location"}
	for f := createField(0); f < numCreateFields; f++ {
		val := m.fields[f]
		if f == fieldDescription {
			val = strings.ReplaceAll(val, "\n", " ⏎ ")
		}
		b.WriteString(renderFormField(labels[f], val, m.focus == f))
		for _, msg := range m.fieldErrs[createFieldNames[f]] {
			b.WriteString("    " + fieldErrStyle.Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(" " + pendingStyle.Render("creating...") + "\n")
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n " + dimStyle.Render("new events wait for admin approval before they're listed"))
	return b.String()
}
