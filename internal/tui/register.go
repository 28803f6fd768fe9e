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

type registerField int

const (
	regFieldName registerField = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	numRegisterFields
)

// regFieldNames maps form fields to the server's field-error keys.
var regFieldNames = [numRegisterFields]string{"username", "email", "password", "password2"}

type registerModel struct {
	mgr        *auth.Manager
	fields     [numRegisterFields]string
	focus      registerField
	errMsg     string
	fieldErrs  map[string][]string
	submitting bool
	width      int
	height     int
}

type registerResultMsg struct{ err error }

func newRegisterModel(mgr *auth.Manager) registerModel {
	return registerModel{mgr: mgr}
}

func (m registerModel) Init() tea.Cmd {
	return nil
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			if valErr := client.AsValidationError(msg.err); valErr != nil {
				// Render the server's field messages verbatim; no generic
				// message is guessed when structured errors are available.
				m.fieldErrs = valErr.Fields
			} else {
				m.errMsg = registerErrMessage(msg.err)
			}
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

func (m registerModel) updateKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numRegisterFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numRegisterFields) % numRegisterFields
	case "enter":
		if m.focus == regFieldConfirm {
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

func (m registerModel) submit() (registerModel, tea.Cmd) {
	name := strings.TrimSpace(m.fields[regFieldName])
	email := strings.TrimSpace(m.fields[regFieldEmail])
	password := m.fields[regFieldPassword]
	confirm := m.fields[regFieldConfirm]

	m.fieldErrs = nil
	if name == "" || email == "" || password == "" {
		m.errMsg = "name, email and password are required"
		return m, nil
	}
	if password != confirm {
		m.fieldErrs = map[string][]string{"password2": {"Password fields didn't match."}}
		return m, nil
	}

	m.submitting = true
	mgr := m.mgr
	return m, func() tea.Msg {
		return registerResultMsg{err: mgr.Register(context.Background(), auth.RegisterParams{
			Name:     name,
			Email:    email,
			Password: password,
		})}
	}
}

func registerErrMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrAttemptInProgress):
		return "registration already in progress"
	case client.IsNetworkError(err):
		return "could not reach the server — check your connection and retry"
	default:
		return fmt.Sprintf("registration failed: %v", err)
	}
}

func (m registerModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("REGISTER") + "  " + taglineStyle.Render("Join the gathering.") + "\n\n")

	labels := [numRegisterFields]string{"name", "email", "password", "confirm"}
	for f := registerField(0); f < numRegisterFields; f++ {
		val := m.fields[f]
		if f == regFieldPassword || f == regFieldConfirm {
			val = maskString(val)
		}
		b.WriteString(renderFormField(labels[f], val, m.focus == f))
		for _, msg := range m.fieldErrs[regFieldNames[f]] {
			b.WriteString("    " + fieldErrStyle.Render(msg) + "\n")
		}
	}

	// Field errors for keys the form has no field for (e.g. non_field_errors).
	for field, msgs := range m.fieldErrs {
		if knownRegField(field) {
			continue
		}
		for _, msg := range msgs {
			b.WriteString(" " + fieldErrStyle.Render(field+": "+msg) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + pendingStyle.Render("creating account...") + "\n")
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n " + dimStyle.Render("already registered? press ") + helpKeyStyle.Render("ctrl+l") + dimStyle.Render(" to sign in"))
	return b.String()
}

func knownRegField(name string) bool {
	for _, f := range regFieldNames {
		if f == name {
			return true
		}
	}
	return false
}
