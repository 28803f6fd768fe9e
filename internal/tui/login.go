package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/convene-app/convene/pkg/auth"
	"github.com/convene-app/convene/pkg/client"
)

type loginField int

const (
	loginFieldEmail loginField = iota
	loginFieldPassword
	numLoginFields
)

type loginModel struct {
	mgr        *auth.Manager
	fields     [numLoginFields]string
	focus      loginField
	errMsg     string
	submitting bool
	width      int
	height     int
}

type loginResultMsg struct{ err error }

func newLoginModel(mgr *auth.Manager) loginModel {
	return loginModel{mgr: mgr}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = loginErrMessage(msg.err)
		}
		// Success needs no handling here: the session change notification
		// navigates the app away from this view.
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

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == loginFieldPassword {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[loginFieldEmail])
	password := m.fields[loginFieldPassword]

	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}

	m.submitting = true
	mgr := m.mgr
	return m, func() tea.Msg {
		return loginResultMsg{err: mgr.Login(context.Background(), email, password)}
	}
}

// loginErrMessage maps the error taxonomy onto the line under the form.
func loginErrMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return err.Error()
	case errors.Is(err, auth.ErrAttemptInProgress):
		return "sign-in already in progress"
	case client.IsNetworkError(err):
		return "could not reach the server — check your connection and retry"
	default:
		return fmt.Sprintf("sign-in failed: %v", err)
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("SIGN IN") + "  " + taglineStyle.Render("Welcome back.") + "\n\n")

	labels := [numLoginFields]string{"email", "password"}
	for f := loginField(0); f < numLoginFields; f++ {
		val := m.fields[f]
		if f == loginFieldPassword {
			val = maskString(val)
		}
		b.WriteString(renderFormField(labels[f], val, m.focus == f))
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + pendingStyle.Render("signing in...") + "\n")
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n " + dimStyle.Render("no account yet? press ") + helpKeyStyle.Render("ctrl+r") + dimStyle.Render(" to register"))
	return b.String()
}

// renderFormField renders one "label: value" form line with a focus cursor.
// Secret values are masked by the caller.
func renderFormField(label, value string, focused bool) string {
	prompt := "   "
	valStyle := dimStyle
	if focused {
		prompt = " " + inputPromptStyle.Render("> ")
		valStyle = normalStyle
	}
	line := prompt + metaStyle.Render(fmt.Sprintf("%-12s", label))
	if value == "" && !focused {
		line += inputPlaceholderStyle.Render("...")
	} else {
		line += valStyle.Render(value)
	}
	if focused {
		line += accentStyle.Render("█")
	}
	return line + "\n"
}
