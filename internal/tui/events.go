package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"
)

type eventsModel struct {
	client  *client.Client
	events  []domain.Event
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

type eventsLoadedMsg struct {
	events []domain.Event
	err    error
}

// openDetailMsg asks the app to switch to the detail view for an event.
type openDetailMsg struct {
	event domain.Event
}

func newEventsModel(c *client.Client) eventsModel {
	return eventsModel{client: c, loading: true}
}

func (m eventsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		events, err := c.ListEvents(context.Background())
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m eventsModel) Init() tea.Cmd {
	return m.load()
}

func (m eventsModel) Update(msg tea.Msg) (eventsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		m.loading = false
		m.events = msg.events
		m.err = msg.err
		if m.cursor >= len(m.events) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.events)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.events) {
				event := m.events[m.cursor]
				return m, func() tea.Msg {
					return openDetailMsg{event: event}
				}
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m eventsModel) View() string {
	var b strings.Builder

	if m.width >= 50 {
		b.WriteString(" " + sectionHeaderStyle.Render("EVENTS") + "  " + taglineStyle.Render("What's coming up.") + "\n")
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render("EVENTS") + "\n")
	}

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.events) == 0 {
		b.WriteString(" " + dimStyle.Render("no events yet"))
		return b.String()
	}

	maxVisible := m.height - 4
	if maxVisible < 3 {
		maxVisible = 3
	}
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.events) && i < start+maxVisible; i++ {
		event := m.events[i]

		cursor := "  "
		titleStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			titleStyle = normalStyle.Bold(true)
		}

		dateCol := metaStyle.Render(fmt.Sprintf("%-24s", formatEventDate(event.Date)))

		var marker string
		if !event.IsApproved {
			marker = " " + pendingStyle.Render("(pending)")
		}

		titleWidth := m.width - 30
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := titleStyle.Render(truncStr(event.Title, titleWidth))

		b.WriteString(cursor + dateCol + title + marker + "\n")
		if i == m.cursor && event.Location != "" {
			b.WriteString("    " + dimStyle.Render(truncStr(event.Location, m.width-6)) + "\n")
		}
	}

	return b.String()
}
