package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// Registration carries the fields accepted when a user signs up.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

// UserService provides user-related operations including registration and login
type UserService interface {
	// Register creates a new user. It returns ErrEmailTaken when the email is
	// already registered, case-insensitively.
	Register(ctx context.Context, reg Registration) (*domain.User, error)

	// Authenticate checks credentials and returns the matching user, or
	// ErrInvalidCredentials. Unknown emails and wrong passwords are not
	// distinguished.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns the public identity of every user, ordered by name.
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
	db        *sql.DB
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a new user inside a transaction.
func (s *UserServiceImpl) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(reg.Name, reg.Email, reg.Password)
	if err != nil {
		log.Debug("rejected registration", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Phone = trimmedOrNil(reg.Phone)
	user.Address = trimmedOrNil(reg.Address)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email", "email", user.Email)
			return nil, ErrEmailTaken
		}
		log.Error("failed to save user to database",
			"error", err,
			"email", user.Email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to retrieve user by email", "error", err)
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login attempt with wrong password", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to verify password", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
