package domain

import "fmt"

// TokenPurpose selects the secret, lifetime and carrier of a signed token.
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeRefresh      TokenPurpose = "refresh"
	PurposeVerification TokenPurpose = "verification"
)

// Subject is the key/value payload signed inside a token. Values are limited
// to strings and bools: those are the only types that decode back from the
// JSON payload unchanged (numbers come back as float64, slices as []any).
type Subject map[string]any

// CheckScalar returns an error naming a key whose value is not a
// string or bool.
func (s Subject) CheckScalar() error {
	for k, v := range s {
		switch v.(type) {
		case string, bool:
		default:
			return fmt.Errorf("subject %q: unsupported value type %T", k, v)
		}
	}
	return nil
}

// String returns the value under key when it is a string.
func (s Subject) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Bool returns the value under key when it is a bool.
func (s Subject) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

const (
	ClaimUsername = "username"
	ClaimRole     = "role"
	ClaimIsActive = "is_active"
	ClaimEmail    = "email"
	ClaimPIN      = "pin"
)

// Subject encodes the claims snapshot for access and refresh tokens.
func (c Claims) Subject() Subject {
	return Subject{
		ClaimUsername: c.Username,
		ClaimRole:     string(c.Role),
		ClaimIsActive: c.IsActive,
		ClaimEmail:    c.Email,
	}
}

// ClaimsFromSubject is the inverse of Claims.Subject.
func ClaimsFromSubject(s Subject) Claims {
	return Claims{
		Username: s.String(ClaimUsername),
		Role:     ParseRole(s.String(ClaimRole)),
		IsActive: s.Bool(ClaimIsActive),
		Email:    s.String(ClaimEmail),
	}
}
