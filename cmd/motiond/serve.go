package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motiond/internal/config"
	"motiond/internal/httpapi"
	"motiond/internal/manager"
)

func runServe(cfg config.Config, cfgFile string) error {
	c, err := resolveConfig(cfg, cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(c.LogLevel)

	mgr := manager.New(c, log)
	defer mgr.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(c.MaxBodyBytes)
	httpapi.SetCORSOptions(c.CORSEnabled, c.CORSOrigins)

	// Best-effort warm start. Failure only means the first request pays
	// the initialization cost.
	go mgr.Preload(baseCtx)

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: c.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Addr).Str("model_dir", c.ModelDir).Msg("motiond listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
