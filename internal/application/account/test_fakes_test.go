package account

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr       error
	getByUsernameErr error
	getByEmailErr    error
	createErrs       []error // consumed one per Create call
	setTokenErr      error
	activateErr      error
	listErr          error

	activateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) get(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByUsernameErr != nil {
		return domain.User{}, f.getByUsernameErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return domain.User{}, err
		}
	}
	if _, ok := f.byID[u.ID]; ok {
		return domain.User{}, domain.ErrIDAlreadyExists()
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) SetVerificationToken(ctx context.Context, userID string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.VerificationToken = token
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) Activate(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.activateCalls++
	if f.activateErr != nil {
		return f.activateErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsActive = true
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	all := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return []domain.User{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

// fakeHasher "hashes" by prefixing.
type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	if hash != "hash:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens keeps issued subjects in memory; tokens can be expired on demand.
type fakeTokens struct {
	mu      sync.Mutex
	seq     int
	issued  map[string]fakeIssued
	createE error
}

type fakeIssued struct {
	subject domain.Subject
	purpose domain.TokenPurpose
	expired bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]fakeIssued{}}
}

func (f *fakeTokens) Create(subject domain.Subject, purpose domain.TokenPurpose) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createE != nil {
		return "", f.createE
	}
	f.seq++
	tok := fmt.Sprintf("%s-%d", purpose, f.seq)
	cp := domain.Subject{}
	for k, v := range subject {
		cp[k] = v
	}
	f.issued[tok] = fakeIssued{subject: cp, purpose: purpose}
	return tok, nil
}

func (f *fakeTokens) Decode(token string, purpose domain.TokenPurpose) (domain.Subject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	it, ok := f.issued[token]
	if !ok || it.expired || it.purpose != purpose {
		return nil, false
	}
	return it.subject, true
}

func (f *fakeTokens) TTL(domain.TokenPurpose) time.Duration { return time.Minute }

func (f *fakeTokens) expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.issued[token]
	it.expired = true
	f.issued[token] = it
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []VerificationEmail
	err  error
}

func (m *fakeMailer) SendVerification(ctx context.Context, msg VerificationEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) last(t *testing.T) VerificationEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("expected an email to be sent")
	}
	return m.sent[len(m.sent)-1]
}

/*
Service constructor for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeTokens, *fakeMailer) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	tokens := newFakeTokens()
	mailer := &fakeMailer{}

	svc := NewService(users, hasher, tokens, mailer, Config{VerifyLinkBaseURL: "http://test/verify/"})

	var n int
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	svc.newPIN = func() (string, error) { return "1234", nil }

	return svc, users, hasher, tokens, mailer
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
