package main

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/gossip-tui/internal/app"
	"github.com/atomicstack/gossip-tui/internal/config"
)

type fakeTerminal struct {
	terminals map[int]bool
	width     int
	height    int
	sizeErr   error
}

func (f fakeTerminal) IsTerminal(fd int) bool { return f.terminals[fd] }

func (f fakeTerminal) GetSize(int) (int, int, error) {
	return f.width, f.height, f.sizeErr
}

func interactive(width, height int) fakeTerminal {
	return fakeTerminal{
		terminals: map[int]bool{int(os.Stdin.Fd()): true, int(os.Stdout.Fd()): true},
		width:     width,
		height:    height,
	}
}

func TestProbeScreenReportsStdoutSize(t *testing.T) {
	s, err := probeScreen(interactive(120, 40))
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if s.Width != 120 || s.Height != 40 || s.Error != "" {
		t.Fatalf("unexpected screen %+v", s)
	}
}

func TestProbeScreenRequiresTerminal(t *testing.T) {
	cases := map[string]map[int]bool{
		"none":        {},
		"stdin only":  {int(os.Stdin.Fd()): true},
		"stdout only": {int(os.Stdout.Fd()): true},
	}
	for name, terminals := range cases {
		if _, err := probeScreen(fakeTerminal{terminals: terminals}); !errors.Is(err, errNoTerminal) {
			t.Errorf("%s: expected errNoTerminal, got %v", name, err)
		}
	}
}

func TestProbeScreenKeepsSizeError(t *testing.T) {
	tty := interactive(0, 0)
	tty.sizeErr = errors.New("ioctl failed")
	s, err := probeScreen(tty)
	if err != nil {
		t.Fatalf("size errors must not stop startup: %v", err)
	}
	if s.Error != "ioctl failed" {
		t.Fatalf("expected size error recorded, got %+v", s)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	var stderr strings.Builder
	code := run([]string{"-poll", "0s"}, []string{"XDG_CONFIG_HOME=" + t.TempDir()}, &stderr, interactive(80, 24))
	if code != exitConfig {
		t.Fatalf("expected exit %d, got %d", exitConfig, code)
	}
	if !strings.Contains(stderr.String(), "Configuration error") {
		t.Fatalf("expected configuration error, got %q", stderr.String())
	}
}

func TestRunRequiresTerminal(t *testing.T) {
	var stderr strings.Builder
	env := []string{"XDG_CONFIG_HOME=" + t.TempDir(), "XDG_DATA_HOME=" + t.TempDir()}
	code := run(nil, env, &stderr, fakeTerminal{})
	if code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(stderr.String(), "terminal") {
		t.Fatalf("expected terminal error, got %q", stderr.String())
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			DataDir:      "/data/gossip-tui",
			PollInterval: 250 * time.Millisecond,
			ImportPath:   "items.jsonl",
			Width:        80,
			Height:       24,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		File: "/etc/gossip-tui.toml",
		Flags: map[string]string{
			"dataDir": "/data/gossip-tui",
			"poll":    "250ms",
			"import":  "items.jsonl",
		},
		Args: []string{"--data-dir", "/data/gossip-tui"},
	}

	payload := startupTracePayload(cfg, screen{Width: 100, Height: 30})

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["dataDir"] != "/data/gossip-tui" || flagsValue["poll"] != "250ms" {
		t.Fatalf("unexpected flags %v", flagsValue)
	}
	if flagsValue["trace"] != true || flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected logging flags, got %v", flagsValue)
	}
	if payload["configFile"] != "/etc/gossip-tui.toml" {
		t.Fatalf("expected config file, got %v", payload["configFile"])
	}
	if s, ok := payload["screen"].(screen); !ok || s.Width != 100 || s.Height != 30 {
		t.Fatalf("expected screen in payload, got %#v", payload["screen"])
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok || cfgValue.App != cfg.App {
		t.Fatalf("expected app config in payload, got %#v", payload["config"])
	}
}
