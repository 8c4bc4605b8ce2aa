package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

// PurposeConfig holds the signing secret and lifetime of one token purpose.
type PurposeConfig struct {
	Secret string
	TTL    time.Duration
}

// JWTIssuer mints and validates HS256 tokens for access, refresh and
// verification. Each purpose is signed with its own secret, and the
// purpose is also embedded as the "type" claim so a token minted for one
// purpose never decodes as another even if secrets were shared.
type JWTIssuer struct {
	issuer   string
	purposes map[domain.TokenPurpose]PurposeConfig
	now      func() time.Time
}

func NewJWTIssuer(issuer string, purposes map[domain.TokenPurpose]PurposeConfig) *JWTIssuer {
	cp := make(map[domain.TokenPurpose]PurposeConfig, len(purposes))
	for k, v := range purposes {
		cp[k] = v
	}
	return &JWTIssuer{issuer: issuer, purposes: cp, now: time.Now}
}

type tokenClaims struct {
	Payload domain.Subject `json:"subject"`
	Type    string         `json:"type"`
	jwt.RegisteredClaims
}

// TTL returns the configured lifetime for purpose (0 when unknown).
func (i *JWTIssuer) TTL(purpose domain.TokenPurpose) time.Duration {
	return i.purposes[purpose].TTL
}

// Create signs subject for purpose. Non-scalar subject values are rejected
// so that Decode always returns exactly what was signed.
func (i *JWTIssuer) Create(subject domain.Subject, purpose domain.TokenPurpose) (string, error) {
	pc, ok := i.purposes[purpose]
	if !ok {
		return "", domain.ErrTokenSignFailed(errUnknownPurpose(purpose))
	}
	if err := subject.CheckScalar(); err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}

	now := i.now()
	claims := tokenClaims{
		Payload: subject,
		Type:    string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(pc.TTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(pc.Secret))
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Decode returns the signed subject when token is a live token of the given
// purpose. Every failure (bad signature, wrong algorithm or purpose, expiry,
// malformed input) yields false.
func (i *JWTIssuer) Decode(token string, purpose domain.TokenPurpose) (domain.Subject, bool) {
	pc, ok := i.purposes[purpose]
	if !ok || token == "" {
		return nil, false
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(pc.Secret), nil
	}, opts...)
	if err != nil {
		return nil, false
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, false
	}
	if claims.Type != string(purpose) {
		return nil, false
	}
	if claims.Payload == nil {
		claims.Payload = domain.Subject{}
	}
	return claims.Payload, true
}

type errUnknownPurpose domain.TokenPurpose

func (e errUnknownPurpose) Error() string {
	return "unknown token purpose: " + string(e)
}
