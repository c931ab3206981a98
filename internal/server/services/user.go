// Package services contains server-side business logic. This file implements
// UserService: registration, credential verification, and issuing and
// reading stateless session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/logging"
	"github.com/dmitrijs2005/monyze/internal/server/auth"
	"github.com/dmitrijs2005/monyze/internal/server/config"
	"github.com/dmitrijs2005/monyze/internal/server/models"
	"github.com/dmitrijs2005/monyze/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/monyze/internal/server/repositories/users"
	"github.com/dmitrijs2005/monyze/internal/shared"
	"github.com/google/uuid"
)

// Errors returned to callers. Each wraps one of the common taxonomy errors,
// so callers can match either the specific value or its category.
var (
	ErrMissingFields      = fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most 72 bytes", common.ErrorValidation)
	ErrEmailTaken         = fmt.Errorf("%w: email is already in use", common.ErrorConflict)
	ErrMissingCredentials = fmt.Errorf("%w: email and password are required", common.ErrorUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
)

// RegisterRequest is the input of Register.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Credentials is a sign-in attempt. It is never persisted or logged.
type Credentials struct {
	Email    string
	Password string
}

// SessionUser is the part of the user carried inside a session token.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is an authenticated session reconstructed from a token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      SessionUser
}

// UserService provides authentication-related operations:
// - Register: create users
// - Authorize: verify credentials
// - SignIn: verify credentials and mint a session token
// - Session: read a session token back without touching storage
type UserService struct {
	repomanager   repomanager.RepositoryManager
	hasher        *auth.PasswordHasher
	secretKey     []byte
	sessionMaxAge time.Duration
	logger        logging.Logger

	// dummyHash is compared against when the account is unknown, so that
	// "no such user" costs the same bcrypt round as "wrong password".
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*UserService, error) {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	seed, err := shared.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}
	dummy, err := hasher.Hash(seed)
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}

	return &UserService{
		repomanager:   m,
		hasher:        hasher,
		secretKey:     []byte(cfg.SecretKey),
		sessionMaxAge: cfg.SessionMaxAge,
		logger:        logger,
		dummyHash:     dummy,
	}, nil
}

// Register creates a new credentials account. The email must not be taken;
// the lookup and the insert run in one unit of work and a unique violation
// at insert time is reported the same way as a failed lookup.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if isBlank(req.Name) || isBlank(req.Email) || isBlank(req.Password) {
		return nil, ErrMissingFields
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		s.logger.Error(ctx, "error hashing password", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hash,
	}

	var created *models.User
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.GetUserByEmail(ctx, req.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		u, err := repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Authorize checks credentials against the store. Unknown email, an account
// without a password, and a wrong password all yield ErrInvalidCredentials.
func (s *UserService) Authorize(ctx context.Context, creds Credentials) (*models.User, error) {
	if isBlank(creds.Email) || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.repomanager.Users().GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Compare(s.dummyHash, creds.Password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		return nil, common.ErrorInternal
	}

	if !user.HasPassword() {
		_, _ = s.hasher.Compare(s.dummyHash, creds.Password)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Compare(*user.PasswordHash, creds.Password)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// SignIn authorizes creds and mints a session token for the user.
func (s *UserService) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.Authorize(ctx, creds)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := auth.GenerateToken(user, s.secretKey, s.sessionMaxAge)
	if err != nil {
		s.logger.Error(ctx, "error signing session token", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Debug(ctx, "session issued", "user_id", user.ID)

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      SessionUser{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// Session validates token and rebuilds the session from its claims. The
// returned error matches common.ErrorUnauthorized and, for expired tokens,
// common.ErrTokenExpired as well.
func (s *UserService) Session(ctx context.Context, token string) (*Session, error) {
	claims, err := auth.ParseToken(token, s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      SessionUser{ID: claims.UserID, Name: claims.Name, Email: claims.Email},
	}, nil
}

// GetUser loads the stored record behind a session. A user that no longer
// exists is reported as common.ErrorUnauthorized.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading user", "user_id", id, "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// --- helpers below ---

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
