package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/convene-app/convene/internal/config"
	"github.com/convene-app/convene/internal/logging"
	"github.com/convene-app/convene/internal/tui"
	"github.com/convene-app/convene/pkg/auth"
	"github.com/convene-app/convene/pkg/client"
	"github.com/convene-app/convene/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// sessionTokens adapts the auth manager into the client's token source.
// CONVENE_TOKEN overrides the stored session, matching the usual
// env-over-file precedence for CLI credentials.
type sessionTokens struct {
	env string
	mgr *auth.Manager
}

func (s *sessionTokens) Token() string {
	if s.env != "" {
		return s.env
	}
	if s.mgr == nil {
		return ""
	}
	return s.mgr.Token()
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("convene " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog := logging.Open(cfg.LogPath(), cfg.LogLevel)
	defer closeLog() //nolint:errcheck
	log.Info().Str("version", version).Str("api", cfg.APIURL).Msg("starting")

	tokens := &sessionTokens{env: os.Getenv("CONVENE_TOKEN")}
	api := client.New(cfg.APIURL, tokens)
	api.SetTimeout(cfg.HTTPTimeout)

	store := auth.NewFileStore(cfg.StateDir)
	mgr := auth.New(api, store, log)
	tokens.mgr = mgr

	app := tui.NewApp(api, mgr, deriveWebURL(cfg.APIURL))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	log.Info().Msg("exiting")
	return nil
}

func runLogout() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, closeLog := logging.Open(cfg.LogPath(), cfg.LogLevel)
	defer closeLog() //nolint:errcheck

	tokens := &sessionTokens{}
	api := client.New(cfg.APIURL, tokens)
	store := auth.NewFileStore(cfg.StateDir)
	mgr := auth.New(api, store, log)
	tokens.mgr = mgr

	if mgr.Snapshot().Status == domain.StatusAnonymous {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := mgr.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

// deriveWebURL turns the API base URL into the web app URL by stripping a
// leading "api." host label. CONVENE_WEB_URL overrides the derivation.
func deriveWebURL(apiURL string) string {
	if w := os.Getenv("CONVENE_WEB_URL"); w != "" {
		return strings.TrimRight(w, "/")
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return strings.TrimRight(apiURL, "/")
	}
	host := u.Hostname()
	if strings.HasPrefix(host, "api.") {
		u.Host = strings.TrimPrefix(host, "api.")
		if u.Port() != "" {
			u.Host += ":" + u.Port()
		}
	}
	return strings.TrimRight(u.String(), "/")
}

func printHelp() {
	fmt.Println(`convene — terminal client for the Convene event service

Usage:
  convene            Browse events (interactive TUI)
  convene logout     Clear the stored session
  convene --version  Show version

Sign in and registration live inside the TUI (ctrl+l / ctrl+r).

Environment:
  CONVENE_API_URL       API base URL
  CONVENE_WEB_URL       Web app URL (for "open in browser")
  CONVENE_TOKEN         Bearer token override
  CONVENE_STATE_DIR     Session + log directory (default ~/.convene)
  CONVENE_LOG_LEVEL     trace|debug|info|warn|error (default info)
  CONVENE_HTTP_TIMEOUT  Per-request timeout (default 30s)`)
}
