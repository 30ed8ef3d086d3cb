package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/gossip-tui/internal/app"
	"github.com/atomicstack/gossip-tui/internal/config"
	"github.com/atomicstack/gossip-tui/internal/logging"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"golang.org/x/term"
)

const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
)

var errNoTerminal = errors.New("gossip-tui must run in a terminal (stdin and stdout)")

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stderr, systemTerminal{}))
}

func run(args, environ []string, stderr io.Writer, tty terminal) int {
	cfg, err := config.LoadArgs(args, environ)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitConfig
	}
	display, err := probeScreen(tty)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	defer logging.Close()
	events.App.Start(startupTracePayload(cfg, display))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// terminal answers questions about the process's standard descriptors.
type terminal interface {
	IsTerminal(fd int) bool
	GetSize(fd int) (width, height int, err error)
}

type systemTerminal struct{}

func (systemTerminal) IsTerminal(fd int) bool { return term.IsTerminal(fd) }

func (systemTerminal) GetSize(fd int) (int, int, error) { return term.GetSize(fd) }

// screen is what the UI will draw into.
type screen struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Error  string `json:"error,omitempty"`
}

// probeScreen refuses to start without an interactive terminal on both
// stdin and stdout, and reports the size of stdout.
func probeScreen(tty terminal) (screen, error) {
	in, out := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !tty.IsTerminal(in) || !tty.IsTerminal(out) {
		return screen{}, errNoTerminal
	}
	width, height, err := tty.GetSize(out)
	if err != nil {
		return screen{Error: err.Error()}, nil
	}
	return screen{Width: width, Height: height}, nil
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, s screen) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"screen": s,
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	return payload
}
