package account

import (
	"context"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Lookups return domain.ErrUserNotFound() on a miss. Create returns the
conflict errors (email/username/id) when a unique constraint is hit.
*/
type UserRepo interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	SetVerificationToken(ctx context.Context, userID string, token string) error
	Activate(ctx context.Context, userID string) error
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenIssuer
-----------
Mints and validates signed tokens for access, refresh and verification.
Decode never errors: any failure is reported as ok=false.
*/
type TokenIssuer interface {
	Create(subject domain.Subject, purpose domain.TokenPurpose) (string, error)
	Decode(token string, purpose domain.TokenPurpose) (domain.Subject, bool)
	TTL(purpose domain.TokenPurpose) time.Duration
}

/*
Mailer
------
Delivers the verification email (link + PIN). Implementations: SMTP,
RabbitMQ relay to an email service, or log-only.
*/
type Mailer interface {
	SendVerification(ctx context.Context, msg VerificationEmail) error
}

type VerificationEmail struct {
	To       string
	Username string
	Link     string
	PIN      string
}
