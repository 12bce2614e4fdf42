// termfolio is an interactive terminal portfolio.
//
// It renders a personal portfolio — hero with a typewriter reveal, about,
// projects, skills, a live blog feed, and contact links — as a scrolling
// Bubbletea document with light/dark themes and Korean/English content.
//
// Usage:
//
//	termfolio [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/termfolio/config.toml)
//	-theme string   Startup theme (light|dark), overrides config
//	-lang string    Startup language code, overrides config
//	-print          Render the portfolio once to stdout and exit
//	-width int      Column width override for -print (0 = auto-detect)
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/termfolio/pkg/app"
	"gitlab.com/tinyland/lab/termfolio/pkg/blog"
	"gitlab.com/tinyland/lab/termfolio/pkg/bus"
	"gitlab.com/tinyland/lab/termfolio/pkg/config"
	"gitlab.com/tinyland/lab/termfolio/pkg/i18n"
	"gitlab.com/tinyland/lab/termfolio/pkg/nav"
	"gitlab.com/tinyland/lab/termfolio/pkg/state"
	"gitlab.com/tinyland/lab/termfolio/pkg/store"
	"gitlab.com/tinyland/lab/termfolio/pkg/theme"
	"gitlab.com/tinyland/lab/termfolio/pkg/tui"
	"gitlab.com/tinyland/lab/termfolio/pkg/typing"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// defaultPrintWidth is used in -print mode when the output is not a
// terminal and no override was given.
const defaultPrintWidth = 80

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		themeFlag   = flag.String("theme", "", "Startup theme (light|dark), overrides config")
		langFlag    = flag.String("lang", "", "Startup language code, overrides config")
		printMode   = flag.Bool("print", false, "Render the portfolio once to stdout and exit")
		widthFlag   = flag.Int("width", 0, "Column width override for -print (0 = auto-detect)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("termfolio %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *themeFlag != "" {
		cfg.General.Theme = *themeFlag
	}
	if *langFlag != "" {
		cfg.General.Language = *langFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := ensureLogDir(cfg.General.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	// The TUI owns the screen, so stderr only joins the log stream in
	// print mode.
	var logWriter io.Writer = logFile
	if *printMode {
		logWriter = io.MultiWriter(os.Stderr, logFile)
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	st, err := store.Open(cfg.General.StateDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open state store: %v\n", err)
		os.Exit(1)
	}
	seedFromConfig(st, cfg)

	b := bus.New(logger)
	stateMgr := state.New(st, b, logger)

	pauseTicks := 1
	if cfg.Typing.TickInterval.Duration > 0 {
		pauseTicks = int(cfg.Typing.LinePause.Duration / cfg.Typing.TickInterval.Duration)
		if pauseTicks < 1 {
			pauseTicks = 1
		}
	}

	deps := tui.Deps{
		Bus:    b,
		State:  stateMgr,
		Theme:  theme.NewManager(stateMgr, b, logger),
		Nav:    nav.NewManager(stateMgr, b, logger, cfg.General.CompactWidth),
		I18n:   i18n.NewManager(stateMgr, b, logger, cfg.General.BundleDir),
		Typing: typing.NewManager(stateMgr, b, logger, pauseTicks),
		Blog:   blog.NewManager(cfg.Blog, st, b, logger),
		Log:    logger,
	}
	deps.App = app.New(b, stateMgr, logger)
	deps.App.RegisterCore(deps.Theme, deps.Nav, deps.I18n)
	deps.App.RegisterEnhanced(deps.Typing, deps.Blog)

	if err := deps.App.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer deps.App.Stop()

	model := tui.NewModel(*cfg, deps)

	if *printMode {
		out := tui.Static(ctx, model, printWidth(*widthFlag))
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			out = ansi.Strip(out)
		}
		fmt.Print(out)
		return
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

// seedFromConfig writes the configured startup theme and language into the
// store, but only when no previous session persisted a choice.
func seedFromConfig(st *store.Store, cfg *config.Config) {
	if cfg.General.Theme != "" {
		if _, ok := st.GetString(state.KeyTheme); !ok {
			_ = st.PutString(state.KeyTheme, cfg.General.Theme)
		}
	}
	if cfg.General.Language != "" {
		if _, ok := st.GetString(state.KeyLanguage); !ok {
			_ = st.PutString(state.KeyLanguage, cfg.General.Language)
		}
	}
}

// printWidth resolves the column width for -print mode: explicit override,
// then the terminal width when stdout is a tty, then the default.
func printWidth(override int) int {
	if override > 0 {
		return override
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			return w
		}
	}
	return defaultPrintWidth
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	return os.MkdirAll(dir, 0755)
}
