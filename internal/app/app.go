// Package app wires configuration into the running components. Both commands
// build their dependencies here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/access"
	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/Harshitk-cp/frontdesk/internal/intent"
	"github.com/Harshitk-cp/frontdesk/internal/notify"
	"github.com/Harshitk-cp/frontdesk/internal/registry"
	"github.com/Harshitk-cp/frontdesk/internal/service"
	"github.com/Harshitk-cp/frontdesk/internal/store"
)

const (
	AuditPostgres = "postgres"
	AuditMongo    = "mongo"
	AuditNone     = "none"
)

// App holds the wired components and the background sweeper.
type App struct {
	Settings   config.Settings
	Registry   *registry.Client
	Gate       *access.Gate
	Sweeper    *access.Sweeper
	Notifier   domain.Notifier
	Audit      domain.AuditStore
	Dispatcher *service.Dispatcher
	// Assistant is nil when the profile has the utterance path turned off.
	Assistant *service.Assistant
	Health    func(ctx context.Context) error

	closers []func(ctx context.Context) error
}

func New(ctx context.Context, s config.Settings, logger *zap.Logger) (*App, error) {
	a := &App{Settings: s}

	audit, err := a.openAudit(ctx, s, logger)
	if err != nil {
		return nil, err
	}
	a.Audit = audit

	verifier, err := access.NewVerifier(s.AdminPIN, s.AdminPINHash)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("admin PIN: %w", err)
	}
	if s.AdminPIN == "" && s.AdminPINHash == "" {
		logger.Warn("no admin PIN configured, privileged tools will deny every request")
	}

	policy := access.DefaultPolicy()
	if s.PINMaxAttempts > 0 {
		policy.MaxAttempts = s.PINMaxAttempts
	}
	if s.PINLockout > 0 {
		policy.Lockout = s.PINLockout
	}
	if s.PINAttemptRPS > 0 {
		policy.AttemptRPS = s.PINAttemptRPS
	}
	a.Gate = access.NewGate(verifier, policy, audit, logger)
	a.Sweeper = access.NewSweeper(a.Gate, logger)

	if s.APIBaseURL == "" {
		logger.Warn("API_BASE_URL is not set, registry calls will fail")
	}
	a.Registry = registry.NewClient(s.APIBaseURL, s.Profile.PayloadShape, s.HTTPTimeout)
	a.Notifier = NewNotifier(s, logger)
	a.Dispatcher = service.NewDispatcher(a.Registry, a.Gate, a.Notifier, audit, s.Profile, logger)

	if s.Profile.Utterances {
		classifier, err := intent.NewClassifier(ctx, s.IntentProvider, s.GeminiAPIKey, s.GeminiModel, logger)
		if err != nil {
			logger.Warn("intent classifier initialization failed, using rules",
				zap.String("provider", s.IntentProvider), zap.Error(err))
			classifier = intent.NewRules()
		} else {
			logger.Info("intent classifier initialized", zap.String("provider", s.IntentProvider))
		}
		a.Assistant = service.NewAssistant(classifier, a.Dispatcher, logger)
	}

	logger.Info("components initialized",
		zap.String("profile", s.Profile.Name),
		zap.String("audit_store", s.AuditStore),
		zap.Int("tools", len(a.Dispatcher.Tools())),
		zap.Bool("utterances", a.Assistant != nil),
	)
	return a, nil
}

// NewNotifier fans out to every configured webhook, Teams first. With none
// configured alerts are accepted and dropped.
func NewNotifier(s config.Settings, logger *zap.Logger) domain.Notifier {
	var channels []notify.Channel
	if s.TeamsWebhookURL != "" {
		channels = append(channels, notify.NewTeamsClient(s.TeamsWebhookURL, s.HTTPTimeout))
	}
	if s.SlackWebhookURL != "" {
		channels = append(channels, notify.NewSlackClient(s.SlackWebhookURL, s.HTTPTimeout))
	}
	if len(channels) == 0 {
		logger.Warn("no notification webhook configured, reception alerts are dropped")
		return notify.NoopNotifier{}
	}
	return notify.NewFanout(logger, channels...)
}

func (a *App) openAudit(ctx context.Context, s config.Settings, logger *zap.Logger) (domain.AuditStore, error) {
	switch s.AuditStore {
	case AuditNone, "":
		return store.NoopAuditStore{}, nil

	case AuditPostgres:
		if s.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for postgres audit store")
		}
		pool, err := pgxpool.New(ctx, s.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		st := store.NewAuditStore(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		a.Health = pool.Ping
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		logger.Info("connected to database")
		return st, nil

	case AuditMongo:
		if s.MongoURI == "" {
			return nil, errors.New("MONGODB_URI is required for mongo audit store")
		}
		st, err := store.ConnectMongo(ctx, s.MongoURI, s.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		a.Health = st.Ping
		a.closers = append(a.closers, st.Close)
		logger.Info("connected to mongo", zap.String("database", s.MongoDatabase))
		return st, nil

	default:
		return nil, fmt.Errorf("unknown audit store: %s (valid options: postgres, mongo, none)", s.AuditStore)
	}
}

// Close releases the audit backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
