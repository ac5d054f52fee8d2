// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the current-user profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/penguindb/internal/auth"
	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/config"
	"github.com/dmitrijs2005/penguindb/internal/logging"
	"github.com/dmitrijs2005/penguindb/internal/models"
	"github.com/dmitrijs2005/penguindb/internal/repositories/repomanager"
	"github.com/dmitrijs2005/penguindb/internal/validation"
)

// AuthResult bundles a signed token with the public view of the user it
// belongs to.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Register: validate and create users, minting a token
// - Login: verify credentials and mint a token
// - CurrentUser: load the caller's profile with the owned-record count
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger,
	}
}

// Register creates a new user from the payload and returns a signed token for
// the new account. Field violations come back as *validation.ValidationError;
// username and email conflicts surface as the matching sentinel from common.
func (s *UserService) Register(ctx context.Context, in *validation.RegistrationInput) (*AuthResult, error) {
	if msgs := validation.ValidateRegistration(in); len(msgs) > 0 {
		return nil, &validation.ValidationError{Messages: msgs}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(u.ID, u.Username, u.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &AuthResult{Token: token, User: u.Public()}, nil
}

// Login verifies the credentials and returns a signed token. Unknown email
// and wrong password yield the same ErrorUnauthorized; the distinction is
// only logged server-side.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login failed: unknown email")
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Info(ctx, "login failed: wrong password", "userId", user.ID)
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// CurrentUser loads the caller's profile plus the number of records they own.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, int64, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repomanager.Penguins(s.db).CountByOwner(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return user.Public(), count, nil
}
