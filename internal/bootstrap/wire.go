package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/config"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/account-service/internal/infrastructure/mail"
	"github.com/baechuer/account-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/account-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/account-service/internal/infrastructure/redis"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/migrations"
	http_handlers "github.com/baechuer/account-service/internal/transport/http/handlers"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
	"github.com/baechuer/account-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
// Nil fields fall back to the production defaults.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps.withDefaults())
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	// NewMailer returns the verification mailer and its cleanup (may be nil).
	NewMailer func(cfg *config.Config) (account.Mailer, func(), error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// userStore is what the service and /readyz handler need from persistence.
type userStore interface {
	account.UserRepo
	Ping(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) store
	store, closeStore, err := openStore(cfg, deps)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		cleanupFns = append(cleanupFns, closeStore)
	}

	// 2) redis read cache (best-effort)
	var users account.UserRepo = store
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; user cache disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connected; user cache enabled")
			users = redis.NewCachedUserRepo(store, c, cfg.UserCacheTTL)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) mailer
	mailer, closeMailer, err := deps.NewMailer(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	if closeMailer != nil {
		cleanupFns = append(cleanupFns, closeMailer)
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt issuer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens := security.NewJWTIssuer(cfg.JWTIssuer, map[domain.TokenPurpose]security.PurposeConfig{
		domain.PurposeAccess:       {Secret: cfg.AccessTokenSecret, TTL: cfg.AccessTokenTTL},
		domain.PurposeRefresh:      {Secret: cfg.RefreshTokenSecret, TTL: cfg.RefreshTokenTTL},
		domain.PurposeVerification: {Secret: cfg.VerificationTokenSecret, TTL: cfg.VerificationTokenTTL},
	})

	if a := cfg.SeedAdmin; a != nil {
		postgres.SeedUsers(context.Background(), users, hasher, []postgres.SeedAccount{{
			Username: a.Username,
			Email:    a.Email,
			Password: a.Password,
			Role:     domain.RoleAdmin,
		}})
	}

	// 5) service
	svc := account.NewService(users, hasher, tokens, mailer, account.Config{
		VerifyLinkBaseURL: cfg.VerifyLinkBaseURL,
	})

	// 6) handlers + middleware
	accountH := http_handlers.NewAccountHandler(svc, !cfg.IsDev())
	healthH := http_handlers.NewHealthHandler(store)

	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Account:     accountH,
		RequestIDMW: middleware.RequestID,
		AuthMW:      middleware.Auth(svc, response.WriteError),
		ActiveMW:    middleware.RequireActive(response.WriteError),
		AdminMW:     middleware.RequireRole(domain.RoleAdmin, response.WriteError),
		Middlewares: []func(http.Handler) http.Handler{
			middleware.AccessLog,
			middleware.Metrics,
			middleware.CORS(cfg.CORSOrigins),
		},
		Metrics: promhttp.Handler(),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
		cleanupFns = nil
	}
	return srv, cleanup, nil
}

// openStore connects to Postgres, or falls back to the in-memory store in dev
// when DB_ADDR is unset.
func openStore(cfg *config.Config, deps Deps) (userStore, func(), error) {
	if cfg.DBAddr == "" {
		if !cfg.IsDev() {
			return nil, nil, errors.New("bootstrap: DB_ADDR is required outside dev")
		}
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory user store")
		return memory.NewUserRepo(), nil, nil
	}

	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }

	if cfg.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := deps.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Logger.Info().Msg("migrations applied")
	}

	return postgres.NewUserRepo(db), closeDB, nil
}

// newMailer picks the delivery backend from MAIL_SENDER. A rabbit connection
// failure degrades to the log mailer in dev and is fatal elsewhere.
func newMailer(cfg *config.Config) (account.Mailer, func(), error) {
	switch cfg.MailSender {
	case config.MailSenderSMTP:
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
			SSL:      cfg.SMTP.SSL,
			Insecure: cfg.SMTP.Insecure,
		}, logger.Logger), nil, nil

	case config.MailSenderRabbit:
		pub, err := rabbitmq_pub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.IsDev() {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; logging verification emails")
				return mail.NewLogMailer(logger.Logger), nil, nil
			}
			return nil, nil, err
		}
		return pub, func() { _ = pub.Close() }, nil

	default:
		return mail.NewLogMailer(logger.Logger), nil, nil
	}
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewMailer:  newMailer,
		NewRouter:  router.New,
	}
}

func (d Deps) withDefaults() Deps {
	def := defaultDeps()
	if d.LoadConfig == nil {
		d.LoadConfig = def.LoadConfig
	}
	if d.NewDB == nil {
		d.NewDB = def.NewDB
	}
	if d.Migrate == nil {
		d.Migrate = def.Migrate
	}
	if d.NewRedis == nil {
		d.NewRedis = def.NewRedis
	}
	if d.NewMailer == nil {
		d.NewMailer = def.NewMailer
	}
	if d.NewRouter == nil {
		d.NewRouter = def.NewRouter
	}
	return d
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
