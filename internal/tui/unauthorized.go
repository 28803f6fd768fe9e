package tui

import "strings"

// unauthorizedView is the dead-end shown when the route guard denies a view
// on role grounds. It is static: rendering it twice yields the same output.
func unauthorizedView(width int) string {
	var b strings.Builder
	b.WriteString(" " + errStyle.Render("NOT ALLOWED") + "\n")

	sepW := width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")
	b.WriteString(" " + dimStyle.Render("your account doesn't have access to this page") + "\n")
	b.WriteString("\n " + dimStyle.Render("press ") + helpKeyStyle.Render("1") + dimStyle.Render(" to go back to events"))
	return b.String()
}
