// Package app wires configuration, storage, the usecase registry and the
// HTTP surfaces into one runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pirsvc/internal/retention"
	"pirsvc/pkg/api"
	"pirsvc/pkg/config"
	"pirsvc/pkg/keystore"
	"pirsvc/pkg/logger"
	"pirsvc/pkg/store"
	"pirsvc/pkg/usecase"
	"pirsvc/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	driver   store.Driver
	keys     *keystore.Store
	registry *usecase.Registry
	ctrl     *api.Controller

	srv *http.Server
}

// New initializes resources that do not require a running context: the
// persistence driver, the keystore and the usecase registry populated
// from config. It does not start listeners; call Run to start those and
// block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	driver, err := openDriver(eff)
	if err != nil {
		return nil, err
	}

	registry := usecase.NewRegistry()
	if err := registerConfiguredUsecases(registry, eff.Config.Usecases); err != nil {
		_ = driver.Close()
		return nil, err
	}

	keys := keystore.New(driver)
	limits := validation.Limits{
		MaxKeysPerUpload:      eff.Config.Limits.MaxKeysPerUpload,
		MaxKeyBytes:           eff.Config.Limits.MaxKeyBytes.Int64(),
		MaxUsecasesPerRequest: eff.Config.Limits.MaxUsecasesPerRequest,
	}
	ctrl := api.New(keys, registry, limits)
	ctrl.CompressEnabled = eff.Config.Compression.Enabled
	ctrl.CompressLevel = eff.Config.Compression.Level

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		driver:    driver,
		keys:      keys,
		registry:  registry,
		ctrl:      ctrl,
	}, nil
}

// Registry exposes the usecase registry so embedding programs can add
// real PIR backends before calling Run.
func (a *App) Registry() *usecase.Registry { return a.registry }

// Run starts the retention sweeper, the ops listener and the HTTP server,
// and blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopRetention, err := retention.Start(ctx, a.eff.Config.Retention, a.driver)
	if err != nil {
		return err
	}
	defer stopRetention()

	a.printBanner()

	opsErr, stopOps, err := a.startOps()
	if err != nil {
		return err
	}
	defer stopOps()

	srvErr := a.startHTTP()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown_requested")
	case runErr = <-srvErr:
	case runErr = <-opsErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.srv != nil {
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	if err := a.driver.Close(); err != nil {
		logger.Warn("store_close_error", "error", err)
	}
	return runErr
}

// openDriver opens the configured persistence driver. Pebble is the
// default; the memory driver exists for dev and tests.
func openDriver(eff config.EffectiveConfigResult) (store.Driver, error) {
	switch eff.Config.Server.Store {
	case "", "pebble":
		driver, err := store.OpenPebble(eff.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
		}
		return driver, nil
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", eff.Config.Server.Store)
	}
}

// registerConfiguredUsecases instantiates usecases declared in config.
func registerConfiguredUsecases(reg *usecase.Registry, decls []config.UsecaseConfig) error {
	for _, d := range decls {
		switch d.Mode {
		case "", "cleartext":
			rows := make([][]byte, d.Rows)
			for i := range rows {
				rows[i] = []byte(fmt.Sprintf("%s-row-%d", d.Name, i))
			}
			reg.Set(d.Name, usecase.NewCleartext(d.Name, rows, d.ShardSize))
			logger.Info("usecase_registered", "name", d.Name, "mode", "cleartext", "rows", d.Rows)
		default:
			return fmt.Errorf("usecase %q has unknown mode %q", d.Name, d.Mode)
		}
	}
	return nil
}
