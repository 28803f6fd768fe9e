package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/convene-app/convene/pkg/auth"
	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"

	"github.com/google/uuid"
)

type view int

const (
	viewEvents view = iota
	viewDetail
	viewCreate
	viewLogin
	viewRegister
	viewUnauthorized
)

// sessionChangedMsg carries a fresh session snapshot from the auth manager.
type sessionChangedMsg struct {
	session domain.Session
}

// App is the root Bubbletea model.
type App struct {
	client     *client.Client
	mgr        *auth.Manager
	webBaseURL string
	view       view
	events     eventsModel
	detail     detailModel
	hasDetail  bool
	create     createModel
	login      loginModel
	register   registerModel
	session    domain.Session
	subID      uuid.UUID
	updates    <-chan domain.Session
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI application. The manager has already restored the
// session, so the first frame renders with the real authentication state —
// never a logged-out flash for a logged-in user.
func NewApp(c *client.Client, mgr *auth.Manager, webBaseURL string) App {
	subID, updates := mgr.Subscribe()
	return App{
		client:     c,
		mgr:        mgr,
		webBaseURL: webBaseURL,
		events:     newEventsModel(c),
		create:     newCreateModel(c, mgr),
		login:      newLoginModel(mgr),
		register:   newRegisterModel(mgr),
		session:    mgr.Snapshot(),
		subID:      subID,
		updates:    updates,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.events.Init(), shimmerTickCmd(), a.waitForSession())
}

// waitForSession blocks on the manager's subscription channel and resolves
// to a sessionChangedMsg; Update re-arms it after each delivery.
func (a App) waitForSession() tea.Cmd {
	ch := a.updates
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{session: s}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + blank(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.events, _ = a.events.Update(bodyMsg)
		a.create, _ = a.create.Update(bodyMsg)
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		if a.hasDetail {
			a.detail, _ = a.detail.Update(bodyMsg)
		}
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionChangedMsg:
		wasAuthed := a.session.Authenticated()
		a.session = msg.session
		cmds := []tea.Cmd{a.waitForSession()}

		switch {
		case msg.session.Authenticated() && (a.view == viewLogin || a.view == viewRegister):
			// Default landing view after login/register.
			a.view = viewEvents
			a.events.loading = true
			cmds = append(cmds, a.events.load())
		case wasAuthed && !msg.session.Authenticated():
			// Logout (explicit or forced): attendee data and protected views
			// do not survive the session.
			a.hasDetail = false
			a.view = viewLogin
			a.login = newLoginModel(a.mgr)
		}
		return a, tea.Batch(cmds...)

	// Result messages go to their owning model even if the user navigated
	// away while the request was in flight.
	case eventsLoadedMsg:
		var cmd tea.Cmd
		a.events, cmd = a.events.Update(msg)
		return a, cmd

	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case registerResultMsg:
		var cmd tea.Cmd
		a.register, cmd = a.register.Update(msg)
		return a, cmd

	case eventCreatedMsg:
		var cmd tea.Cmd
		a.create, cmd = a.create.Update(msg)
		if msg.err == nil && msg.event != nil {
			a = a.openDetail(*msg.event)
			return a, tea.Batch(cmd, a.detail.Init())
		}
		return a, cmd

	case openDetailMsg:
		a = a.openDetail(msg.event)
		return a, a.detail.Init()

	case eventDeletedMsg:
		a.hasDetail = false
		a.view = viewEvents
		a.events.loading = true
		return a, a.events.load()

	case attendeesLoadedMsg, rsvpResultMsg, remindResultMsg, deleteResultMsg, copyResultMsg:
		if !a.hasDetail {
			return a, nil
		}
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a, cmd, handled := a.updateGlobalKeys(msg); handled {
			return a, cmd
		}
	}

	return a.updateActiveView(msg)
}

// updateGlobalKeys handles navigation chords that work from any view.
// Plain letters only apply when no form is focused.
func (a App) updateGlobalKeys(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit, true
	case "ctrl+l":
		if !a.session.Authenticated() && a.view != viewLogin {
			a.view = viewLogin
			a.login = newLoginModel(a.mgr)
			return a, nil, true
		}
		return a, nil, false
	case "ctrl+r":
		if !a.session.Authenticated() && a.view != viewRegister {
			a.view = viewRegister
			a.register = newRegisterModel(a.mgr)
			return a, nil, true
		}
		return a, nil, false
	case "ctrl+d":
		if a.session.Authenticated() {
			mgr := a.mgr
			return a, func() tea.Msg {
				_ = mgr.Logout(context.Background())
				return nil
			}, true
		}
		return a, nil, false
	}

	if a.isEditing() {
		return a, nil, false
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit, true
	case "1":
		if a.view != viewEvents {
			a.view = viewEvents
			a.events.loading = true
			return a, a.events.load(), true
		}
		return a, nil, true
	case "n":
		return a.navigateCreate()
	case "esc":
		if a.view == viewUnauthorized {
			a.view = viewEvents
			return a, nil, true
		}
	}
	return a, nil, false
}

// openDetail builds the detail view for an event, carrying over the body
// size the app already knows. A fresh model must never render at zero width.
func (a App) openDetail(event domain.Event) App {
	a.detail = newDetailModel(a.client, a.mgr, a.webBaseURL, event)
	a.detail.width = a.width
	a.detail.height = a.height - 5
	a.hasDetail = true
	a.view = viewDetail
	return a
}

// navigateCreate runs the route guard for the protected create view and
// follows its decision.
func (a App) navigateCreate() (App, tea.Cmd, bool) {
	if a.view == viewCreate {
		return a, nil, true
	}
	switch d := auth.Decide(a.session, domain.RoleMember, domain.RoleAdmin); d.RedirectTo {
	case auth.LoginPath:
		a.view = viewLogin
		a.login = newLoginModel(a.mgr)
	case auth.UnauthorizedPath:
		a.view = viewUnauthorized
	default:
		a.view = viewCreate
		a.create = newCreateModel(a.client, a.mgr)
	}
	return a, nil, true
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister, viewCreate:
		return true
	}
	return false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewEvents:
		a.events, cmd = a.events.Update(msg)
	case viewDetail:
		if a.hasDetail {
			a.detail, cmd = a.detail.Update(msg)
			if a.detail.closed {
				a.hasDetail = false
				a.view = viewEvents
			}
		}
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.view = viewEvents
		}
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.view = viewEvents
		}
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.view = viewEvents
		}
	}
	return a, cmd
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line below the logo
	var identity string
	if u := a.session.User; u != nil {
		identity = dimStyle.Render("signed in as ") + selectedStyle.Render(u.DisplayName())
		if u.Role != "" {
			identity += " " + RoleBadge(u.Role)
		}
	} else {
		identity = dimStyle.Render("browsing as guest")
	}
	idWidth := lipgloss.Width(identity)
	idPad := (a.width - idWidth) / 2
	if idPad < 0 {
		idPad = 0
	}
	header += "\n" + strings.Repeat(" ", idPad) + identity

	// Tab bar
	tabs := []struct {
		key  string
		name string
		v    view
	}{
		{"1", "Events", viewEvents},
		{"n", "New Event", viewCreate},
	}
	var tabBar strings.Builder
	tabBar.WriteString(" ")
	for i, t := range tabs {
		if i > 0 {
			tabBar.WriteString("   ")
		}
		if t.v == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
	}

	// Body + contextual help
	var body, help string
	switch a.view {
	case viewEvents:
		body = a.events.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("r", "refresh") + "  " + a.accountHelp() + "  " + helpEntry("q", "quit")
	case viewDetail:
		if a.hasDetail {
			body = a.detail.View()
		}
		help = " " + helpEntry("v", "rsvp") + "  " + helpEntry("c", "copy") + "  " + helpEntry("o", "open") + "  " + helpEntry("m", "remind") + "  " + helpEntry("x", "delete") + "  " + helpEntry("esc", "back")
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+r", "register") + "  " + helpEntry("esc", "back")
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("ctrl+l", "sign in") + "  " + helpEntry("esc", "back")
	case viewUnauthorized:
		body = unauthorizedView(a.width)
		help = " " + helpEntry("1", "events") + "  " + helpEntry("q", "quit")
	}

	// Chrome budget: header(2) + tabs(1) + blank(1) + help(1) = 5 lines + body
	const chrome = 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return header + "\n" + tabBar.String() + "\n" + body + "\n\n" + help
}

// accountHelp is the session-dependent tail of the events help bar.
func (a App) accountHelp() string {
	if a.session.Authenticated() {
		return helpEntry("ctrl+d", "logout")
	}
	return helpEntry("ctrl+l", "sign in") + "  " + helpEntry("ctrl+r", "register")
}
