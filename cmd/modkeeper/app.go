package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modkeeper/modkeeper/internal/adapter"
	"github.com/modkeeper/modkeeper/internal/backend"
	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/history"
	"github.com/modkeeper/modkeeper/internal/i18n"
	"github.com/modkeeper/modkeeper/internal/library"
	"github.com/modkeeper/modkeeper/internal/store"
)

// app holds everything a command needs, built once per process
type app struct {
	cfg       *adapter.Config
	logger    *slog.Logger
	tr        *i18n.Translator
	svc       *library.Service
	snapshots *store.SnapshotStore
	ledger    *history.Ledger // nil when history is disabled or unavailable

	closers []io.Closer
	cancel  func()
}

var current *app

var errNoActive = fmt.Errorf("%w (open one with: modkeeper library open <repo-root>)", domain.ErrNoActiveLibrary)

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*adapter.Config, error) {
	cfg, err := adapter.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
	}
	return cfg, nil
}

// getApp wires config, logging, backend, cache and history on first use
func getApp() (*app, error) {
	if current != nil {
		return current, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging, verbose)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, logFile)
	}
	slog.SetDefault(logger)
	a.logger = logger
	logger.Info("starting modkeeper", "version", Version, "backend", cfg.Backend.URL)

	a.tr = i18n.New(cfg.UI.Locale)
	logger.Debug("messages localized", "locale", a.tr.Language().String())
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, logger)

	a.snapshots, err = store.NewSnapshotStore(cfg.Cache.Dir, cfg.Backend.URL, logger)
	if err != nil {
		logger.Warn("snapshot cache unavailable, using memory only", "error", err)
		a.snapshots, _ = store.NewSnapshotStore("", cfg.Backend.URL, logger)
	}
	a.closers = append(a.closers, a.snapshots)

	var opts []library.Option
	if cfg.History.Enabled {
		ledger, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			logger.Warn("action history unavailable", "error", err)
		} else {
			a.ledger = ledger
			a.closers = append(a.closers, ledger)
			opts = append(opts, library.WithRecorder(ledger))
			a.pruneHistory()
		}
	}

	a.svc = library.NewService(client, a.tr, logger, opts...)
	a.cancel = a.svc.State().Subscribe(a.snapshots.Persist)

	current = a
	return a, nil
}

// pruneHistory drops ledger rows past the retention window
func (a *app) pruneHistory() {
	if a.cfg.History.RetentionDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	before := time.Now().AddDate(0, 0, -a.cfg.History.RetentionDays)
	if _, err := a.ledger.Prune(ctx, before); err != nil {
		a.logger.Warn("failed to prune history", "error", err)
	}
}

// closeApp releases the cache, ledger and log file
func closeApp() {
	if current == nil {
		return
	}
	if current.cancel != nil {
		current.cancel()
	}
	for i := len(current.closers) - 1; i >= 0; i-- {
		if err := current.closers[i].Close(); err != nil {
			current.logger.Warn("failed to close resource", "error", err)
		}
	}
	current = nil
}

// cachedLibrary reads a library from the snapshot cache. An empty id picks
// the library that was active when the cache was written.
func (a *app) cachedLibrary(id string) (domain.LibraryDTO, error) {
	if id == "" {
		sw, ok := a.snapshots.LoadSwitch()
		if !ok {
			return domain.LibraryDTO{}, fmt.Errorf("no cached snapshot for %s", a.cfg.Backend.URL)
		}
		if sw == nil || sw.Active == nil {
			return domain.LibraryDTO{}, errNoActive
		}
		id = sw.Active.ID
	}
	lib, ok := a.snapshots.GetLibrary(id)
	if !ok {
		return domain.LibraryDTO{}, fmt.Errorf("library %q is not cached", id)
	}
	return lib, nil
}

// loadActive loads the switch and fails when no library is active
func (a *app) loadActive(ctx context.Context) (*library.Service, error) {
	if _, err := a.svc.Init(ctx); err != nil {
		return nil, err
	}
	if a.svc.State().Active() == nil {
		return nil, errNoActive
	}
	return a.svc, nil
}
