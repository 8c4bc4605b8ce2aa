package account

import (
	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/infrastructure/security"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
	maxIDAttempts    = 5
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
	mailer Mailer

	// Link sent by email; the verification token is appended.
	verifyLinkBaseURL string

	newID  func() string
	newPIN func() (string, error)
}

type Config struct {
	VerifyLinkBaseURL string // e.g. http://localhost:8000/verify/
}

func NewService(users UserRepo, hasher PasswordHasher, tokens TokenIssuer, mailer Mailer, cfg Config) *Service {
	base := cfg.VerifyLinkBaseURL
	if base == "" {
		base = "http://localhost:8000/verify/"
	}
	return &Service{
		users:             users,
		hasher:            hasher,
		tokens:            tokens,
		mailer:            mailer,
		verifyLinkBaseURL: base,
		newID:             uuid.NewString,
		newPIN:            security.NewPIN,
	}
}

// TokenPair is the result of login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "bearer"
}
