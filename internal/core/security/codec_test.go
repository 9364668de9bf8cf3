package security

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveKey(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	return key
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)

	token, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	p, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if p.Subject != "alice" {
		t.Fatalf("unexpected subject: %q", p.Subject)
	}
	if p.Issuer != "auth-service" {
		t.Fatalf("unexpected issuer: %q", p.Issuer)
	}
	if !p.ExpiresAt.After(p.IssuedAt) {
		t.Fatalf("expected exp after iat, got iat=%v exp=%v", p.IssuedAt, p.ExpiresAt)
	}
	if got := p.ExpiresAt.Sub(p.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestTokenCodec_WrongKey(t *testing.T) {
	issuer := NewTokenCodec(testKey(t), "auth-service", time.Hour)
	otherKey, _ := DeriveKey(base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff")))
	verifier := NewTokenCodec(otherKey, "auth-service", time.Hour)

	token, _ := issuer.Issue("alice")
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)

	// Hand-craft an already expired token signed with the right key: the
	// signature is valid but exp is in the past.
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "auth-service",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey(t))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_ShortLifetimeExpires(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Second)

	token, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("fresh token should verify, got %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after lifetime, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)

	for _, token := range []string{"", "abc.def", "not-a-token", "a.b.c.d"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Verify(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenCodec_UnsupportedAlgorithm(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey(t))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenUnsupportedAlg) {
		t.Fatalf("expected ErrTokenUnsupportedAlg, got %v", err)
	}
}

func TestTokenCodec_Validate(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)

	token, _ := codec.Issue("alice")
	if !codec.Validate(token) {
		t.Fatalf("expected valid token")
	}
	if codec.Validate("abc.def") {
		t.Fatalf("malformed token must not validate")
	}
}

func TestTokenCodec_ClaimAccessors(t *testing.T) {
	codec := NewTokenCodec(testKey(t), "auth-service", time.Hour)
	token, _ := codec.Issue("alice")

	sub, err := codec.Subject(token)
	if err != nil || sub != "alice" {
		t.Fatalf("Subject = %q, %v", sub, err)
	}

	exp, err := codec.ExpiresAt(token)
	if err != nil {
		t.Fatalf("ExpiresAt returned error: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", exp)
	}

	iss, err := codec.Claim(token, func(p Principal) any { return p.Issuer })
	if err != nil || iss != "auth-service" {
		t.Fatalf("Claim(issuer) = %v, %v", iss, err)
	}

	if _, err := codec.Claim("abc.def", func(p Principal) any { return p.Subject }); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed from Claim, got %v", err)
	}
}
