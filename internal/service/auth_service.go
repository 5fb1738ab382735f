package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/raffle-service/internal/auth"
	"github.com/spec-kit/raffle-service/internal/config"
	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/repository"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong
// passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates reviewing actors and issues access tokens.
type AuthService struct {
	actors     repository.ActorRepository
	tokens     *auth.TokenManager
	bcryptCost int
	seedUser   string
	seedPass   string
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, actors repository.ActorRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		actors:     actors,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		seedUser:   cfg.AdminUsername,
		seedPass:   cfg.AdminPassword,
		logger:     logger,
	}
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Actor, string, time.Time, error) {
	actor, err := s.actors.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(actor.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.GenerateToken(actor)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return actor, token, expiresAt, nil
}

// SeedAdmin creates the initial reviewing actor from configuration when
// the actor table is empty. A no-op otherwise.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	if s.seedUser == "" || s.seedPass == "" {
		return nil
	}
	count, err := s.actors.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(s.seedPass, s.bcryptCost)
	if err != nil {
		return err
	}
	actor := &domain.Actor{Username: s.seedUser, PasswordHash: hash}
	if err := s.actors.Create(ctx, actor); err != nil {
		return err
	}
	s.logger.Info("seeded initial actor", zap.String("username", actor.Username))
	return nil
}
