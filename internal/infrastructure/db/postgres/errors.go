package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/account-service/internal/domain"
)

const pgUniqueViolation = "23505"

// mapWriteError turns unique violations into the matching conflict error.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return domain.ErrEmailAlreadyExists()
		case "users_username_key":
			return domain.ErrUsernameAlreadyExists()
		case "users_pkey":
			return domain.ErrIDAlreadyExists()
		}
		return domain.Wrap(domain.KindConflict, "unique_violation", "duplicate value", err)
	}
	return domain.ErrDBUnavailable(err)
}
