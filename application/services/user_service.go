package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	"edutube/pkg/auth"
	pkgerrors "edutube/pkg/errors"
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(user auth.UserContext) (string, error)
}

// UserService handles registration, login and profile lookups.
type UserService struct {
	users  ports.UserRepository
	tokens TokenIssuer
	cost   int
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store ports.Store, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  store.Users(),
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

// CodeEmailInUse marks a registration rejected for a duplicate email.
const CodeEmailInUse = "EMAIL_IN_USE"

// Register creates an account and returns its id. Emails are unique.
func (s *UserService) Register(ctx context.Context, username, email, password string) (string, error) {
	email = entities.NormalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return "", pkgerrors.NewConflictError("Email already in use").WithCode(CodeEmailInUse)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.users.Insert(ctx, entities.NewUser(username, email, string(hash)))
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User registered", zap.String("user_id", id))
	return id, nil
}

// Login verifies credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	invalid := pkgerrors.NewValidationError("Invalid credentials")

	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return "", invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)); err != nil {
		return "", invalid
	}

	token, err := s.tokens.GenerateToken(auth.UserContext{ID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Profile returns the account with the given id.
func (s *UserService) Profile(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	return user, nil
}

// List returns every account. An empty listing is reported as not found.
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, pkgerrors.NewNotFoundMessage("Users not found")
	}
	return users, nil
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
