package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/gossip-tui/internal/backend"
	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/atomicstack/gossip-tui/internal/logging"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"github.com/atomicstack/gossip-tui/internal/mailbox"
	"github.com/atomicstack/gossip-tui/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const importTimeout = time.Minute

// Config describes user-provided application options.
type Config struct {
	DataDir      string
	PollInterval time.Duration
	ImportPath   string
	Width        int
	Height       int
}

// Run bootstraps and executes the Bubble Tea program alongside the worker.
func Run(cfg Config) error {
	s, err := newSession(cfg, tea.WithAltScreen())
	if err != nil {
		return err
	}
	return s.run()
}

// session owns everything one run of the application creates.
type session struct {
	cfg     Config
	local   *backend.Local
	app     *bridge.App
	model   *ui.Model
	toolkit *ui.Toolkit
	program *tea.Program
	fromUI  *mailbox.Receiver[bridge.ToWorker]
	toUI    *mailbox.Receiver[bridge.ToUi]
}

func newSession(cfg Config, opts ...tea.ProgramOption) (*session, error) {
	local, err := backend.OpenLocal(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	if cfg.ImportPath != "" {
		if err := importItems(local, cfg.ImportPath); err != nil {
			local.Close()
			return nil, err
		}
	}

	toWorker, fromUI := mailbox.New[bridge.ToWorker]()
	toUISender, toUI := mailbox.New[bridge.ToUi]()
	model := ui.NewModel(cfg.Width, cfg.Height)
	program := tea.NewProgram(model, opts...)
	toolkit := ui.NewToolkit()
	toolkit.Attach(program)

	return &session{
		cfg:     cfg,
		local:   local,
		app:     bridge.NewApp(toWorker, toUISender, bridge.DefaultPageEffects()),
		model:   model,
		toolkit: toolkit,
		program: program,
		fromUI:  fromUI,
		toUI:    toUI,
	}, nil
}

// run blocks until the UI exits, then stops the worker and releases the
// backend. A worker failure is logged but does not fail the run.
func (s *session) run() error {
	defer s.local.Close()

	facade := bridge.NewFacade(s.app, s.local, s.toolkit)
	facade.Init(s.model)
	worker := bridge.StartWorker(bridge.WorkerConfig{
		Facade:   facade,
		FromUI:   s.fromUI,
		ToUI:     s.toUI,
		Interval: s.cfg.PollInterval,
	})

	_, err := s.program.Run()
	s.toolkit.MarkDone()
	logging.Info("UI complete, waiting on worker", zap.String("worker", worker.ID()))
	events.App.UIComplete()

	joinErr := worker.Join()
	if joinErr != nil {
		logging.Error(fmt.Errorf("worker %s: %w", worker.ID(), joinErr))
	}
	events.App.End(joinErr)
	s.app.Close()
	logging.Info("end")

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func importItems(local *backend.Local, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import: %w", err)
	}
	defer f.Close()
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()
	count, err := local.Store().ImportJSONL(ctx, f)
	events.App.Import(path, count)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}
