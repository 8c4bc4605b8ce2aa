package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_ErrorString_NoCause(t *testing.T) {
	err := New(KindAuth, "invalid_credentials", "Login information not correct")
	got := err.Error()
	want := "auth (invalid_credentials): Login information not correct"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestError_ErrorString_WithCause(t *testing.T) {
	err := ErrDBUnavailable(errors.New("dial tcp"))
	if got := err.Error(); got != "infrastructure (db_unavailable): database unavailable: dial tcp" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindInternal, "internal_error", "internal error", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find cause")
	}
}

func TestWithMeta_AttachesMeta(t *testing.T) {
	err := ErrInvalidField("pin", "must be 4 digits")
	if err.Meta["field"] != "pin" || err.Meta["reason"] != "must be 4 digits" {
		t.Fatalf("unexpected meta: %#v", err.Meta)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := fmt.Errorf("register: %w", ErrEmailAlreadyExists())
	if !Is(err, "email_already_exists") {
		t.Fatalf("expected wrapped code to match")
	}
	if Is(err, "username_already_exists") {
		t.Fatalf("should not match other code")
	}
	if Is(errors.New("plain"), "email_already_exists") {
		t.Fatalf("plain errors never match")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(ErrUserNotFound()) != KindNotFound {
		t.Fatalf("expected not_found")
	}
	if KindOf(errors.New("x")) != "" {
		t.Fatalf("expected empty kind for non-domain error")
	}
}

func TestMessagesAreClientFacing(t *testing.T) {
	cases := []struct {
		err  *Error
		kind ErrKind
		msg  string
	}{
		{ErrEmailAlreadyExists(), KindConflict, "Email already registered"},
		{ErrUsernameAlreadyExists(), KindConflict, "Username already registered"},
		{ErrInvalidCredentials(), KindAuth, "Login information not correct"},
		{ErrTokenInvalid(), KindAuth, "Invalid token or token expired"},
		{ErrAlreadyActivated(), KindForbidden, "User already activated"},
		{ErrPinExpired(), KindForbidden, "Invalid pin or pin expired"},
		{ErrPinMismatch(), KindForbidden, "Invalid pin"},
		{ErrUserNotFound(), KindNotFound, "User not found"},
	}
	for _, c := range cases {
		if c.err.Kind != c.kind || c.err.Message != c.msg {
			t.Fatalf("%s: got kind=%s msg=%q", c.err.Code, c.err.Kind, c.err.Message)
		}
	}
}
