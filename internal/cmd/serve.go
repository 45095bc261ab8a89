package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padnav/internal/bridge"
	"github.com/Alia5/padnav/pkg/engine"
)

type Serve struct {
	ListenAddr   string        `help:"Bridge listen address" default:":3460" env:"PADNAV_ADDR"`
	PollInterval time.Duration `help:"Controller poll interval" default:"100ms" env:"PADNAV_POLL_INTERVAL"`
}

// Run is called by kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := bridge.NewServer(s.ListenAddr, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Close()

	eng, err := engine.New(engine.Config{PollInterval: s.PollInterval}, srv.Sampler(), srv.Surface(), srv, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	srv.SetSessionHooks(eng.ReloadSession, eng.FlushSession)

	sub := srv.Forward(eng.Events())
	defer sub.Close()

	if err := eng.Start(ctx); err != nil {
		return err
	}

	logger.Info("bridge serving", "addr", srv.Addr())
	<-ctx.Done()
	logger.Info("shutting down")
	eng.Stop()
	return nil
}
