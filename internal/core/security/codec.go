package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultIssuer   = "auth-service"
	defaultLifetime = 24 * time.Hour
)

// Verification failures. Callers at the HTTP boundary must treat all four
// uniformly as "not authenticated" and never reveal which one occurred.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenUnsupportedAlg   = errors.New("token uses an unsupported signing algorithm")
)

// Principal is the identity carried by a verified token. Roles are not
// embedded in the token; authorities are loaded fresh from the directory at
// authorization time.
type Principal struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256-signed bearer tokens. The codec is
// immutable after construction and safe for concurrent use.
type TokenCodec struct {
	key      []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenCodec builds a codec around a key from DeriveKey. Zero issuer and
// lifetime fall back to "auth-service" and 24h.
func NewTokenCodec(key []byte, issuer string, lifetime time.Duration) *TokenCodec {
	if issuer == "" {
		issuer = defaultIssuer
	}
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	return &TokenCodec{key: key, issuer: issuer, lifetime: lifetime}
}

// Issue signs a token for subject with iat = now and exp = now + lifetime.
func (c *TokenCodec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify checks the token's structure, signature and expiry, returning the
// embedded principal or one of the typed verification errors.
func (c *TokenCodec) Verify(token string) (*Principal, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenUnsupportedAlg
		}
		return c.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !parsed.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	p := &Principal{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Validate collapses every verification failure into a boolean, for callers
// that only need a yes/no answer.
func (c *TokenCodec) Validate(token string) bool {
	_, err := c.Verify(token)
	return err == nil
}

// Claim verifies the token and applies pick to the embedded principal.
// Failure modes are the same as Verify.
func (c *TokenCodec) Claim(token string, pick func(Principal) any) (any, error) {
	p, err := c.Verify(token)
	if err != nil {
		return nil, err
	}
	return pick(*p), nil
}

// Subject returns the token's sub claim after full verification.
func (c *TokenCodec) Subject(token string) (string, error) {
	p, err := c.Verify(token)
	if err != nil {
		return "", err
	}
	return p.Subject, nil
}

// ExpiresAt returns the token's exp claim after full verification.
func (c *TokenCodec) ExpiresAt(token string) (time.Time, error) {
	p, err := c.Verify(token)
	if err != nil {
		return time.Time{}, err
	}
	return p.ExpiresAt, nil
}

// classifyParseError maps golang-jwt's error chain onto the codec's typed
// failures. The unsupported-algorithm sentinel surfaces through the keyfunc,
// so it is checked before the broader categories.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupportedAlg):
		return ErrTokenUnsupportedAlg
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenMalformed
	}
}
