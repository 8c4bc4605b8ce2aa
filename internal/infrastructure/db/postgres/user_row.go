package postgres

import (
	"database/sql"
	"time"
)

type userRow struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	Role              string
	IsActive          bool
	VerificationToken sql.NullString
	CreatedAt         time.Time
}

const userColumns = `id, username, email, hashed_password, role, is_active, verification_token, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Role,
		&ur.IsActive,
		&ur.VerificationToken,
		&ur.CreatedAt,
	)
	return ur, err
}
