package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{domain.ErrAccountDisabled, http.StatusUnauthorized, "account is disabled"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
		{domain.ErrUsernameTaken, http.StatusConflict, "username is already taken"},
		{domain.ErrEmailTaken, http.StatusConflict, "email is already in use"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrRoleNotConfigured, http.StatusInternalServerError, "internal server error"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		code, msg := Classify(tc.err)
		if code != tc.code || msg != tc.message {
			t.Fatalf("Classify(%v) = (%d, %q), want (%d, %q)", tc.err, code, msg, tc.code, tc.message)
		}
	}
}

// Wrapped errors classify the same as their sentinels.
func TestClassify_WrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrUsernameTaken)
	code, _ := Classify(wrapped)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped ErrUsernameTaken, got %d", code)
	}
}
