package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"mailveil/internal/breach"
	"mailveil/internal/broker"
	"mailveil/internal/credential"
	"mailveil/internal/domain"
	"mailveil/internal/logging"
	aliasreg "mailveil/internal/registry/alias"
	sessionreg "mailveil/internal/registry/session"
	"mailveil/internal/store"
)

// App bundles the wired broker and its collaborators for the CLI and the
// daemon.
type App struct {
	Broker  *broker.Broker
	Config  Config
	Log     *slog.Logger
	Store   domain.StateStore
	Checker domain.BreachChecker
}

// New constructs the dependency graph from cfg.
func New(ctx context.Context, cfg Config) (*App, error) {
	log := logging.New(logging.ParseLevel(cfg.LogLevel))

	st, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	var checker domain.BreachChecker = breach.Disabled{}
	if cfg.Breach.URL != "" {
		checker = breach.NewHTTP(cfg.Breach.URL, http.DefaultClient)
	}

	gen := credential.New()
	b, err := broker.New(ctx, st, gen, checker,
		broker.WithLogger(log),
		broker.WithCheckTimeout(cfg.Breach.Timeout),
		broker.WithAliasRegistry(aliasreg.New(gen,
			aliasreg.WithPasswordLength(cfg.PasswordLength),
			aliasreg.WithIDLength(cfg.IDLength),
		)),
		broker.WithSessionRegistry(sessionreg.New(gen,
			sessionreg.WithIDLength(cfg.IDLength),
		)),
	)
	if err != nil {
		return nil, err
	}

	return &App{Broker: b, Config: cfg, Log: log, Store: st, Checker: checker}, nil
}

func newStore(cfg Config) (domain.StateStore, error) {
	switch cfg.Backend {
	case BackendMemory:
		return store.NewMemory(), nil
	case BackendRedis:
		return store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			store.WithPrefix(cfg.Redis.Prefix)), nil
	case BackendFileEncrypted:
		if cfg.Passphrase == "" {
			return nil, fmt.Errorf("backend %q requires a passphrase", cfg.Backend)
		}
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, err
		}
		return store.NewEncryptedFileStore(cfg.Home, cfg.Passphrase), nil
	case BackendFile:
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, err
		}
		return store.NewFileStore(cfg.Home), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
