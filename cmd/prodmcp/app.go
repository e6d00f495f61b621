package main

import (
	"context"
	"fmt"
	"io"

	"prodmcp/internal/config"
	"prodmcp/internal/hook"
	"prodmcp/internal/hook/handlers"
	"prodmcp/internal/logger"
	"prodmcp/internal/mcp"
	"prodmcp/internal/store"
	"prodmcp/internal/store/sqlstore"
	"prodmcp/internal/telemetry"
	"prodmcp/internal/tool"
	"prodmcp/internal/tool/builtin"
)

// app holds the wiring shared by every subcommand.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	store      store.Store
	dispatcher *tool.Dispatcher
	shutdown   telemetry.Shutdown
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadWithDefaults()
}

func newLogger(cfg *config.Config, w io.Writer) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logger.LevelDebug
	}
	l := logger.NewLogger(w, level)
	l.SetColorMode(cfg.Log.Color && !noColor)
	return l, nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	var seed []store.Product
	if cfg.Seed {
		seed = store.DefaultSeed
	}
	switch cfg.Driver {
	case "sqlite":
		s, err := sqlstore.Open(cfg.DSN, seed)
		if err != nil {
			return nil, fmt.Errorf("open product store: %w", err)
		}
		return s, nil
	default:
		return store.NewMemory(seed...), nil
	}
}

// newApp loads config and builds the dispatcher. Logs go to logOut.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, logOut)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Server.Name,
		ServiceVersion: cfg.Server.Version,
		UseStdout:      cfg.Telemetry.Stdout,
		Writer:         logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	s, err := openStore(cfg.Store)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	registry, err := builtin.NewRegistry(s)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	dispatcher := tool.NewDispatcher(registry)
	dispatcher.SetLogger(log)
	dispatcher.SetHookManager(newHookManager(cfg.Hooks, log))

	log.Debug("store: %s, tools: %d", cfg.Store.Driver, len(registry.List()))
	return &app{
		cfg:        cfg,
		log:        log,
		store:      s,
		dispatcher: dispatcher,
		shutdown:   shutdown,
	}, nil
}

func newHookManager(cfg config.HooksConfig, log *logger.Logger) *hook.Manager {
	m := hook.NewManager()
	if len(cfg.DenyTools) > 0 {
		m.Register(handlers.NewDenyHandler(cfg.DenyTools))
	}
	if cfg.Audit {
		m.Register(handlers.NewAuditHandler(log))
	}
	return m
}

func (a *app) serverInfo() mcp.ServerInfo {
	return mcp.ServerInfo{Name: a.cfg.Server.Name, Version: a.cfg.Server.Version}
}

func (a *app) Close() {
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("closing store: %v", err)
		}
	}
	if err := a.shutdown(context.Background()); err != nil {
		a.log.Warn("telemetry shutdown: %v", err)
	}
}
