package cmd

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Alia5/padnav/internal/configpaths"
	"github.com/Alia5/padnav/internal/sim"
	"github.com/Alia5/padnav/internal/ui"
	"github.com/Alia5/padnav/pkg/engine"
	"github.com/Alia5/padnav/pkg/session"
)

type Demo struct {
	Fixture   string `help:"Dashboard fixture YAML (default: built-in machine dashboard)" env:"PADNAV_FIXTURE"`
	Ephemeral bool   `help:"Skip persisting button state between runs" env:"PADNAV_EPHEMERAL"`
}

// Run is called by kong when the demo command is executed.
func (d *Demo) Run(logger *slog.Logger) error {
	fixture := sim.DefaultFixture()
	if d.Fixture != "" {
		var err error
		fixture, err = sim.LoadFixture(d.Fixture)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
	}
	dash := sim.New(fixture)
	pad := ui.NewKeyPad()

	store, err := d.store()
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{}, pad, dash, store, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Start(context.Background()); err != nil {
		return err
	}

	model := ui.NewModel(dash, eng, pad)
	defer model.Close()

	logger.Info("starting demo dashboard")
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func (d *Demo) store() (session.Store, error) {
	if d.Ephemeral {
		return session.NewMemStore(), nil
	}
	dir, err := configpaths.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	return session.NewFileStore(dir), nil
}
