package app

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/config"
	"bankoffice/internal/app/engine"
	"bankoffice/internal/app/ledger"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/service/notifier"
	"bankoffice/internal/app/session"
	"bankoffice/internal/app/storage"
	"bankoffice/internal/app/storage/postgres"
	"bankoffice/pkg/webhook"
)

type App struct {
	config   config.Config
	logger   logger.Logger
	db       *sql.DB
	users    storage.UserRepository
	ledger   *ledger.Service
	engine   *engine.Service
	session  session.Manager
	notifier *notifier.Service
	stopCh   chan struct{}
}

func New(cfg config.Config, logger logger.Logger, e embed.FS) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := applyMigrations(e, db); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	accounts, err := postgres.NewAccountRepository(db)
	if err != nil {
		return nil, fmt.Errorf("account repository init: %w", err)
	}

	transactions, err := postgres.NewTransactionRepository(db)
	if err != nil {
		return nil, fmt.Errorf("transaction repository init: %w", err)
	}

	users, err := postgres.NewUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repository init: %w", err)
	}

	store, err := postgres.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("store init: %w", err)
	}

	sessions, err := newSessionManager(cfg, users)
	if err != nil {
		return nil, fmt.Errorf("session manager init: %w", err)
	}

	whc, err := webhook.NewClient(cfg.Webhook.URL, webhook.WithLogger(logger.Logger))
	if err != nil {
		return nil, fmt.Errorf("webhook client init: %w", err)
	}

	nf, err := notifier.New(whc)
	if err != nil {
		return nil, fmt.Errorf("notifier init: %w", err)
	}

	a := &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		stopCh:   make(chan struct{}),
		users:    users,
		ledger:   ledger.New(accounts, store),
		engine:   engine.New(accounts, transactions, store, cfg.ApprovalThreshold()),
		session:  sessions,
		notifier: nf,
	}

	if err := a.ensureDefaultManager(context.Background()); err != nil {
		return nil, fmt.Errorf("bootstrap manager: %w", err)
	}

	go func() {
		<-a.stopCh
		a.logger.Info().Msg("Shutting down application")
	}()

	return a, nil
}

func (a *App) Stop() {
	a.notifier.Stop()
	_ = a.db.Close()
	close(a.stopCh)
}

func newSessionManager(cfg config.Config, users storage.UserRepository) (session.Manager, error) {
	switch cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return session.NewRedis(cfg.SecretKey, users, client), nil
	case "memory":
		return session.NewMemory(cfg.SecretKey, users), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// ensureDefaultManager creates the bootstrap MANAGER account on first
// start so the service is operable out of the box.
func (a *App) ensureDefaultManager(ctx context.Context) error {
	exists, err := a.users.Exists(ctx, a.config.Bootstrap.ManagerUsername)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = a.users.Create(ctx, &model.User{
		Name:     a.config.Bootstrap.ManagerUsername,
		Password: a.config.Bootstrap.ManagerPassword,
		Role:     model.RoleManager,
		Active:   true,
	})
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return err
	}

	a.logger.Info().Str("username", a.config.Bootstrap.ManagerUsername).Msg("Default manager ensured")

	return nil
}
