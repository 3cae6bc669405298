package services

import (
	"advisorchat-backend/internal/auth"
	"advisorchat-backend/internal/config"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Custom errors shared by the services
var (
	ErrValidation    = errors.New("input validation failed") // Generic validation error
	ErrCreatingToken = errors.New("failed to create access token")
	ErrAuthDisabled  = errors.New("token signing is disabled: JWT_SECRET is not set")
)

// AuthService mints advisor access tokens.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// IssueToken signs a token whose advisor_id claim is advisorID.
func (s *AuthService) IssueToken(advisorID string) (string, error) {
	advisorID = strings.TrimSpace(advisorID)
	if advisorID == "" {
		return "", fmt.Errorf("%w: advisor_id cannot be empty", ErrValidation)
	}
	if !s.cfg.AuthEnabled() {
		return "", ErrAuthDisabled
	}

	token, err := auth.NewAccessToken(advisorID, s.cfg.JWTSecret, s.cfg.TokenExpiration())
	if err != nil {
		log.Error().Err(err).Str("advisor_id", advisorID).Msg("Error creating access token")
		return "", ErrCreatingToken
	}
	return token, nil
}
