package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims represents the JWT claims
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningMethod string // only HS256 is supported
	SecretKey     string
	ExpiryTime    time.Duration
}

// TokenService mints and validates access tokens.
type TokenService struct {
	secretKey     []byte
	signingMethod jwt.SigningMethod
	expiryTime    time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(config JWTConfig) (*TokenService, error) {
	method := config.SigningMethod
	if method == "" {
		method = "HS256"
	}
	if method != "HS256" {
		return nil, fmt.Errorf("unsupported signing method: %s", method)
	}
	if config.SecretKey == "" {
		return nil, errors.New("secret key required for HS256")
	}
	if config.ExpiryTime <= 0 {
		config.ExpiryTime = 10 * time.Hour
	}

	return &TokenService{
		secretKey:     []byte(config.SecretKey),
		signingMethod: jwt.SigningMethodHS256,
		expiryTime:    config.ExpiryTime,
	}, nil
}

// GenerateToken issues a signed token carrying the user's identity.
func (s *TokenService) GenerateToken(user UserContext) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiryTime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates a JWT token and returns the claims
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != s.signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}

	return claims, nil
}

// UserContext represents user information from JWT
type UserContext struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts user from context
func GetUserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// SetUserInContext adds user to context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
