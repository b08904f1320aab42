// Package services implements the application core: account/session handling
// and the file entity manager. Services validate every request against the
// injected stores and are the only components that mutate them.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/sessions"
	"github.com/dmitrijs2005/filevault/internal/shared"
)

// sessionTokenBytes gives 128 bits of entropy per token.
const sessionTokenBytes = 16

// dummyDigest is compared against when the email is unknown so that login
// does the same amount of work on both failure paths.
var dummyDigest = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserService owns accounts and sessions: registration, login/logout and
// resolving a session token back to a user.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	sessionTTL  time.Duration
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, s sessions.Store, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    s,
		sessionTTL:  cfg.SessionTTL,
		logger:      logger,
	}
}

// Register creates an account with a one-way password digest. The email must
// not be taken yet.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {

	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordDigest: digest}

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and opens a session. Unknown email and wrong
// password fail identically with common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same digest work as the known-email path
			_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordDigest, []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := shared.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	value := strconv.FormatInt(int64(user.ID), 10)
	if err := s.sessions.Set(ctx, common.SessionKeyPrefix+token, value, s.sessionTTL); err != nil {
		return "", fmt.Errorf("error storing session: %w", err)
	}

	return token, nil
}

// Logout closes the session. Deleting an absent key is not an error, so
// Logout is idempotent.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, common.SessionKeyPrefix+token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// CurrentUser resolves a session token to the user it belongs to. Any
// failure along the way (missing token, expired session, stale user
// reference, store trouble) yields common.ErrorUnauthorized; store errors
// are logged but never surfaced.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {

	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	value, err := s.sessions.Get(ctx, common.SessionKeyPrefix+token)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "session store get failed", "error", err.Error())
		}
		return nil, common.ErrorUnauthorized
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, models.ID(id))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		}
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repomanager.Users(s.db).Count(ctx)
}
