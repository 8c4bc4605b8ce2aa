package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
)

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)

	_, err := svc.Register(context.Background(), "", "alice", "pw")
	requireErrCode(t, err, "missing_field")
	_, err = svc.Register(context.Background(), "a@x.com", " ", "pw")
	requireErrCode(t, err, "missing_field")
	_, err = svc.Register(context.Background(), "a@x.com", "alice", "")
	requireErrCode(t, err, "missing_field")
}

func TestRegister_Success_PendingUserWithTokenAndMail(t *testing.T) {
	t.Parallel()

	svc, users, _, tokens, mailer := newSvcForTest(t)

	u, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.ID == "" || u.IsActive || u.Role != domain.RoleStandard {
		t.Fatalf("unexpected user: %+v", u)
	}

	stored := users.get(u.ID)
	if stored.PasswordHash != "hash:pw" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}
	if stored.VerificationToken == "" {
		t.Fatalf("expected verification token stored")
	}

	subject, ok := tokens.Decode(stored.VerificationToken, domain.PurposeVerification)
	if !ok {
		t.Fatalf("stored token should decode as verification")
	}
	if subject.String("username") != "alice" || subject.String("pin") != "1234" {
		t.Fatalf("unexpected verification subject: %v", subject)
	}

	msg := mailer.last(t)
	if msg.To != "a@x.com" || msg.Username != "alice" || msg.PIN != "1234" {
		t.Fatalf("unexpected mail: %+v", msg)
	}
	if msg.Link != "http://test/verify/"+stored.VerificationToken {
		t.Fatalf("unexpected link: %q", msg.Link)
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "alice", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "a@x.com", "bob", "pw2")
	requireErrCode(t, err, "email_already_exists")
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %v", domain.KindOf(err))
	}
}

func TestRegister_DuplicateUsername_Conflict(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)

	if _, err := svc.Register(context.Background(), "a@x.com", "alice", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "b@x.com", "alice", "pw2")
	requireErrCode(t, err, "username_already_exists")
}

func TestRegister_StoreConflictOnInsert_Propagates(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	users.createErrs = []error{domain.ErrEmailAlreadyExists()}

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	requireErrCode(t, err, "email_already_exists")
}

func TestRegister_IDCollision_RetriesWithFreshID(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	users.put(domain.User{ID: "id-1", Username: "old", Email: "old@x.com"})

	u, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.ID != "id-2" {
		t.Fatalf("expected id-2 after collision, got %q", u.ID)
	}
}

func TestRegister_IDCollisionAtInsert_Retries(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	users.createErrs = []error{domain.ErrIDAlreadyExists()}

	u, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.ID != "id-2" {
		t.Fatalf("expected id-2 after insert collision, got %q", u.ID)
	}
}

func TestRegister_IDSpaceExhausted(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t)
	svc.newID = func() string { return "same" }
	svc.users.(*fakeUserRepo).put(domain.User{ID: "same", Username: "x", Email: "x@x.com"})

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	requireErrCode(t, err, "id_already_exists")
}

func TestRegister_MailFailure_StillSucceeds(t *testing.T) {
	t.Parallel()

	svc, users, _, _, mailer := newSvcForTest(t)
	mailer.err = errors.New("smtp down")

	u, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	if err != nil {
		t.Fatalf("mail failure must not fail registration, got %v", err)
	}
	if _, err := users.GetByID(context.Background(), u.ID); err != nil {
		t.Fatalf("expected user persisted, got %v", err)
	}
}

func TestRegister_HashFail(t *testing.T) {
	t.Parallel()

	svc, _, hasher, _, _ := newSvcForTest(t)
	hasher.hashFn = func(string) (string, error) { return "", errors.New("boom") }

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	requireErrCode(t, err, "hash_failed")
}

func TestRegister_StoreDown(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	users.getByEmailErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	requireErrCode(t, err, "db_unavailable")
}

func TestResendVerification_OverwritesToken(t *testing.T) {
	t.Parallel()

	svc, users, _, tokens, mailer := newSvcForTest(t)
	u, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	first := users.get(u.ID).VerificationToken

	svc.newPIN = func() (string, error) { return "9876", nil }
	if err := svc.ResendVerification(context.Background(), "alice"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	second := users.get(u.ID).VerificationToken
	if second == "" || second == first {
		t.Fatalf("expected token to be replaced, first=%q second=%q", first, second)
	}
	subject, ok := tokens.Decode(second, domain.PurposeVerification)
	if !ok || subject.String("pin") != "9876" {
		t.Fatalf("unexpected new subject: %v ok=%v", subject, ok)
	}
	if got := mailer.last(t); got.PIN != "9876" || !strings.HasSuffix(got.Link, second) {
		t.Fatalf("unexpected resend mail: %+v", got)
	}
}

func TestResendVerification_AlreadyActive_Forbidden(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _ := newSvcForTest(t)
	users.put(domain.User{ID: "u1", Username: "alice", Email: "a@x.com", IsActive: true})

	err := svc.ResendVerification(context.Background(), "alice")
	requireErrCode(t, err, "already_activated")
}

func TestResendVerification_MailFailure_StillSucceeds(t *testing.T) {
	t.Parallel()

	svc, users, _, _, mailer := newSvcForTest(t)
	users.put(domain.User{ID: "u1", Username: "alice", Email: "a@x.com"})
	mailer.err = errors.New("down")

	if err := svc.ResendVerification(context.Background(), "alice"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
