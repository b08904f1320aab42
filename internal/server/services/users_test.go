package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/sessions"
)

func newUserService(t *testing.T) (*UserService, *fakeUsersRepo, sessions.Store) {
	t.Helper()

	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	repo := newFakeUsersRepo()
	store := sessions.NewMemoryStore()
	cfg := &config.Config{SessionTTL: time.Hour}

	svc := NewUserService(db, &fakeRepoManager{u: repo, f: newFakeFilesRepo()}, store, cfg, testLogger())
	return svc, repo, store
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret")
	if !errors.Is(err, common.ErrMissingEmail) {
		t.Fatalf("want ErrMissingEmail, got %v", err)
	}

	_, err = svc.Register(ctx, "alice@example.com", "")
	if !errors.Is(err, common.ErrMissingPassword) {
		t.Fatalf("want ErrMissingPassword, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == 0 || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// the stored digest verifies against the original password only
	stored := repo.byID[user.ID]
	if bcrypt.CompareHashAndPassword(stored.PasswordDigest, []byte("secret")) != nil {
		t.Fatal("digest does not match the password")
	}
	if bcrypt.CompareHashAndPassword(stored.PasswordDigest, []byte("other")) == nil {
		t.Fatal("digest matches a wrong password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := svc.Register(ctx, "alice@example.com", "another")
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("ErrAlreadyExists should be a validation error, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, store := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	token, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if len(token) != sessionTokenBytes*2 {
		t.Fatalf("unexpected token length: %d", len(token))
	}

	// the session key carries the auth_ prefix and points back at the user
	value, err := store.Get(ctx, common.SessionKeyPrefix+token)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if value != "1" {
		t.Fatalf("session value %q does not match user %d", value, user.ID)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordFailAlike(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "ghost@example.com", "secret")
	_, errWrong := svc.Login(ctx, "alice@example.com", "wrong")

	if !errors.Is(errUnknown, common.ErrorUnauthorized) {
		t.Fatalf("unknown email: want ErrorUnauthorized, got %v", errUnknown)
	}
	if !errors.Is(errWrong, common.ErrorUnauthorized) {
		t.Fatalf("wrong password: want ErrorUnauthorized, got %v", errWrong)
	}
}

func TestCurrentUser_ResolvesToken(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	token, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	user, err := svc.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("CurrentUser error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestCurrentUser_BadToken(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	for _, token := range []string{"", "deadbeef"} {
		_, err := svc.CurrentUser(ctx, token)
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("token %q: want ErrorUnauthorized, got %v", token, err)
		}
	}
}

func TestCurrentUser_StaleUserReference(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	token, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	// the session outlives the account
	delete(repo.byID, user.ID)

	_, err = svc.CurrentUser(ctx, token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogout_InvalidatesTokenAndIsIdempotent(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "secret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	token, err := svc.Login(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, err := svc.CurrentUser(ctx, token); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("token still resolves after logout: %v", err)
	}

	// a second logout with the same token is fine
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("repeated Logout error: %v", err)
	}
}

func TestUserCount(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Register(ctx, email, "secret"); err != nil {
			t.Fatalf("Register error: %v", err)
		}
	}

	n, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 2 {
		t.Fatalf("unexpected count: %d", n)
	}
}
