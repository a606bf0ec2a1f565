package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/jwt"
)

const bcryptCost = 10

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	jwtService *jwt.Service
	sessionTTL time.Duration
}

func NewAuthService(
	jwtService *jwt.Service,
	sessionTTL time.Duration,
) ports.Auth {
	return &AuthService{
		jwtService: jwtService,
		sessionTTL: sessionTTL,
	}
}

func (as *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (as *AuthService) GenerateToken(u *user.User, requestPassword string) (string, error) {
	if u == nil {
		return "", ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(requestPassword))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := as.jwtService.GenerateJWT(u.ID.String(), u.Email, as.sessionTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
