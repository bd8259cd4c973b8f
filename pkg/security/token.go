package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrMalformedToken means the token string couldn't be parsed or its
	// signature doesn't check out
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidToken means the token parsed fine but is not acceptable,
	// usually because it expired
	ErrInvalidToken = errors.New("invalid token")
)

// Tokens issues and verifies stateless HS256 JWTs. Nothing is stored
// server-side, so a token stays valid until its own expiry and there is
// no revocation.
type Tokens struct {
	secret []byte
	ttl    time.Duration

	// Overridable for tests
	now func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a new token for the given subject with a fresh expiry.
// Every token carries a random ID, so two tokens for the same subject
// are never byte-identical even when minted within the same second.
func (t *Tokens) Issue(subject string) (string, error) {
	now := t.now()

	jti, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate token ID, %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Subject extracts the subject claim after checking the signature. Expiry
// is deliberately not enforced here so callers can identify who an expired
// token belonged to.
func (t *Tokens) Subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return claims.Subject, nil
}

// Valid reports whether the signature checks out and the expiry is still
// in the future. Malformed input is just reported as invalid.
func (t *Tokens) Valid(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)

	return err == nil && parsed.Valid
}

// Refresh validates the old token and issues a new one for the same
// subject. The old token is not invalidated and stays usable until it
// expires on its own.
func (t *Tokens) Refresh(token string) (string, error) {
	if !t.Valid(token) {
		return "", ErrInvalidToken
	}

	subject, err := t.Subject(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	return t.Issue(subject)
}

func (t *Tokens) keyFunc(tok *jwt.Token) (any, error) {
	if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
	}

	return t.secret, nil
}
