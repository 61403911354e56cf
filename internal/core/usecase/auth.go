package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/repository"
	"github.com/jfcardenas/recargas/pkg/config"
)

type AuthUsecase interface {
	SignIn(ctx context.Context, username, password string) (string, error)
}

type authUsecase struct {
	users repository.UserRepository
	cfg   config.JWTConfig
	log   logger.Logger
}

func NewAuthUsecase(users repository.UserRepository, cfg config.JWTConfig, log logger.Logger) AuthUsecase {
	return &authUsecase{users: users, cfg: cfg, log: log}
}

// SignIn verifies the credentials against the user directory and issues
// a signed HS256 token with the caller identity as claims. Stateless:
// nothing is stored on success.
func (uc *authUsecase) SignIn(ctx context.Context, username, password string) (string, error) {
	user, err := uc.users.FindUser(ctx, username)
	if err != nil {
		uc.log.Error("User lookup failed",
			logger.ErrorField("error", err),
			logger.StringField("username", username))
		return "", fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		uc.log.Warn("Sign-in for unknown username",
			logger.StringField("username", username))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		uc.log.Warn("Sign-in with wrong password",
			logger.StringField("username", username))
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(uc.cfg.Expiry).Unix(),
	})

	signed, err := token.SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		uc.log.Error("Token signing failed", logger.ErrorField("error", err))
		return "", fmt.Errorf("sign token: %w", err)
	}

	uc.log.Info("Sign-in successful", logger.StringField("username", username))
	return signed, nil
}
