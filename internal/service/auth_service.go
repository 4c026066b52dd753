package service

import (
	"context"
	"crypto/subtle"

	"rocktalk-be/internal/config"
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/serverutils"

	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Enabled() bool
}

// authService guards a single-user deployment. Credentials come from the
// environment, there is no user table.
type authService struct {
	cfg    config.AuthConfig
	logger logger.ILogger
}

func NewAuthService(cfg config.AuthConfig, log logger.ILogger) IAuthService {
	return &authService{
		cfg:    cfg,
		logger: log,
	}
}

func (s *authService) Enabled() bool {
	return s.cfg.Enabled
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if !s.cfg.Enabled {
		return nil, ErrAuthDisabled
	}

	// 1. Username
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) != 1 {
		s.logger.Warn("AUTH", "Login rejected", map[string]interface{}{"username": req.Username})
		return nil, ErrInvalidCredentials
	}

	// 2. Password
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("AUTH", "Login rejected", map[string]interface{}{"username": req.Username})
		return nil, ErrInvalidCredentials
	}

	// 3. Token
	token, expiresAt, err := serverutils.GenerateToken(s.cfg.JwtSecret, s.cfg.Username, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User logged in", map[string]interface{}{"username": s.cfg.Username})
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
