package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	MailSenderSMTP   = "smtp"
	MailSenderRabbit = "rabbit"
	MailSenderLog    = "log"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr    string
	CORSOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Tokens: one secret and lifetime per purpose
	AccessTokenSecret       string
	RefreshTokenSecret      string
	VerificationTokenSecret string
	AccessTokenTTL          time.Duration
	RefreshTokenTTL         time.Duration
	VerificationTokenTTL    time.Duration
	JWTIssuer               string

	BcryptCost int

	// Link mailed to new users; the verification token is appended.
	VerifyLinkBaseURL string

	// Infrastructure
	DBAddr         string // empty in dev = in-memory store
	DBDebug        bool
	MigrateOnStart bool

	RedisAddr     string // empty = no user cache
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	// Mail
	MailSender string // smtp | rabbit | log
	SMTP       SMTPConfig

	RabbitURL      string
	RabbitExchange string

	// Optional admin account created at startup.
	SeedAdmin *SeedAdmin
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	SSL      bool
	Insecure bool
}

type SeedAdmin struct {
	Username string
	Email    string
	Password string
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
	}
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))

	var err error

	// required values
	cfg.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	cfg.RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	cfg.VerificationTokenSecret = os.Getenv("VERIFICATION_TOKEN_SECRET")
	for k, v := range map[string]string{
		"ACCESS_TOKEN_SECRET":       cfg.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET":      cfg.RefreshTokenSecret,
		"VERIFICATION_TOKEN_SECRET": cfg.VerificationTokenSecret,
	} {
		if v == "" {
			return nil, fmt.Errorf("missing required env var: %s", k)
		}
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret ||
		cfg.AccessTokenSecret == cfg.VerificationTokenSecret ||
		cfg.RefreshTokenSecret == cfg.VerificationTokenSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET and VERIFICATION_TOKEN_SECRET must differ")
	}

	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.VerificationTokenTTL, err = getDuration("VERIFICATION_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	for k, d := range map[string]time.Duration{
		"ACCESS_TOKEN_TTL":       cfg.AccessTokenTTL,
		"REFRESH_TOKEN_TTL":      cfg.RefreshTokenTTL,
		"VERIFICATION_TOKEN_TTL": cfg.VerificationTokenTTL,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive", k)
		}
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "account-service")

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	cfg.VerifyLinkBaseURL = getEnv("VERIFY_LINK_BASE_URL", "http://localhost:8000/verify/")
	if !strings.HasSuffix(cfg.VerifyLinkBaseURL, "/") {
		return nil, fmt.Errorf("VERIFY_LINK_BASE_URL must end with `/`")
	}

	// Postgres is required outside dev; dev falls back to an in-memory store.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" && !cfg.IsDev() {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.UserCacheTTL, err = getDuration("USER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := loadMail(cfg); err != nil {
		return nil, err
	}

	if cfg.SeedAdmin, err = loadSeedAdmin(); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadMail(cfg *Config) error {
	def := MailSenderSMTP
	if cfg.IsDev() {
		def = MailSenderLog
	}
	cfg.MailSender = strings.ToLower(getEnv("MAIL_SENDER", def))

	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "account.events")

	var err error
	s := &cfg.SMTP
	s.Host = os.Getenv("SMTP_HOST")
	s.Username = os.Getenv("SMTP_USERNAME")
	s.Password = os.Getenv("SMTP_PASSWORD")
	s.From = getEnv("SMTP_FROM", s.Username)
	if s.Port, err = getInt("SMTP_PORT", 465); err != nil {
		return err
	}
	if s.Timeout, err = getDuration("SMTP_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if s.SSL, err = getBool("SMTP_SSL", s.Port == 465); err != nil {
		return err
	}
	if s.Insecure, err = getBool("SMTP_INSECURE", false); err != nil {
		return err
	}

	switch cfg.MailSender {
	case MailSenderSMTP:
		if s.Host == "" {
			return fmt.Errorf("missing required env var: SMTP_HOST (MAIL_SENDER=smtp)")
		}
		if s.From == "" {
			return fmt.Errorf("missing required env var: SMTP_FROM (MAIL_SENDER=smtp)")
		}
	case MailSenderRabbit:
		if cfg.RabbitURL == "" {
			return fmt.Errorf("missing required env var: RABBIT_URL (MAIL_SENDER=rabbit)")
		}
	case MailSenderLog:
	default:
		return fmt.Errorf("invalid MAIL_SENDER %q (want smtp, rabbit or log)", cfg.MailSender)
	}
	return nil
}

func loadSeedAdmin() (*SeedAdmin, error) {
	a := SeedAdmin{
		Username: os.Getenv("SEED_ADMIN_USERNAME"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	switch {
	case a.Username == "" && a.Email == "" && a.Password == "":
		return nil, nil
	case a.Username == "" || a.Email == "" || a.Password == "":
		return nil, fmt.Errorf("SEED_ADMIN_USERNAME, SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together")
	}
	return &a, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
