package tui

import (
	"strings"
	"testing"

	"github.com/convene-app/convene/pkg/domain"
)

func TestRoleStyleKnownRoles(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			rendered := RoleStyle(role).Render(string(role))
			if !strings.Contains(rendered, string(role)) {
				t.Errorf("RoleStyle(%q).Render = %q, want to contain the role", role, rendered)
			}
		})
	}
}

func TestRoleStyleUnknownRoleFallback(t *testing.T) {
	rendered := RoleStyle(domain.Role("mystery")).Render("mystery")
	if !strings.Contains(rendered, "mystery") {
		t.Errorf("RoleStyle fallback did not render text: %q", rendered)
	}
}

func TestRoleBadge(t *testing.T) {
	if got := RoleBadge(domain.RoleAdmin); !strings.Contains(got, "[admin]") {
		t.Errorf("RoleBadge = %q", got)
	}
}

func TestRenderShimmerLogoStable(t *testing.T) {
	for _, frame := range []int{0, 1, 50, 1000} {
		out := renderShimmerLogo(frame)
		for _, letter := range []string{"C", "O", "N", "V", "E"} {
			if !strings.Contains(out, letter) {
				t.Fatalf("frame %d missing letter %q: %q", frame, letter, out)
			}
		}
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{128.7, 128},
		{255, 255},
		{300, 255},
	}
	for _, tc := range tests {
		if got := clampByte(tc.in); got != tc.want {
			t.Errorf("clampByte(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
