package tui

import (
	"strings"
	"testing"

	"github.com/convene-app/convene/pkg/client"
)

func typeRegister(m registerModel, s string) registerModel {
	for _, r := range s {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func filledRegister(t *testing.T, password, confirm string) registerModel {
	t.Helper()
	m := newRegisterModel(testManager(t, nil))
	m = typeRegister(m, "ada")
	m, _ = m.Update(keyMsg("tab"))
	m = typeRegister(m, "ada@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeRegister(m, password)
	m, _ = m.Update(keyMsg("tab"))
	m = typeRegister(m, confirm)
	return m
}

func TestRegisterSubmit(t *testing.T) {
	m := filledRegister(t, "hunter2", "hunter2")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on the confirm field should submit")
	}
	if !m.submitting {
		t.Error("model should be in the submitting state")
	}
}

func TestRegisterPasswordMismatchIsLocal(t *testing.T) {
	m := filledRegister(t, "hunter2", "hunter3")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("a mismatch must be caught before hitting the network")
	}
	if !strings.Contains(m.View(), "Password fields didn't match.") {
		t.Error("mismatch message not rendered under the confirm field")
	}
}

func TestRegisterRequiredFields(t *testing.T) {
	m := newRegisterModel(testManager(t, nil))
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Error("empty form must not submit")
	}
	if !strings.Contains(m.View(), "name, email and password are required") {
		t.Error("required-fields message not rendered")
	}
}

func TestRegisterRendersServerFieldErrors(t *testing.T) {
	m := newRegisterModel(testManager(t, nil))
	m.submitting = true

	m, _ = m.Update(registerResultMsg{err: &client.ValidationError{
		StatusCode: 400,
		Fields: map[string][]string{
			"email":            {"user with this email already exists."},
			"password":         {"This password is too short.", "This password is too common."},
			"non_field_errors": {"Something else went wrong."},
		},
	}})

	out := m.View()
	for _, want := range []string{
		"user with this email already exists.",
		"This password is too short.",
		"This password is too common.",
		"non_field_errors: Something else went wrong.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing server message %q", want)
		}
	}
}

func TestRegisterFieldErrorsClearOnResubmit(t *testing.T) {
	m := filledRegister(t, "hunter2", "hunter3")
	m, _ = m.Update(keyMsg("enter"))
	if len(m.fieldErrs) == 0 {
		t.Fatal("expected a local field error")
	}

	// Fix the confirm field and resubmit.
	m, _ = m.Update(keyMsg("backspace"))
	m = typeRegister(m, "2")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("corrected form should submit")
	}
	if len(m.fieldErrs) != 0 {
		t.Error("stale field errors should be cleared on submit")
	}
}
