package services

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"file-uploader/internal/application/ports"
	domain "file-uploader/internal/domain/user"
)

type UserService struct {
	userRepository domain.Repository
	authService    ports.Auth
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	authService ports.Auth,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
		mCounter:       mCounter,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Signup fails with domain.ErrEmailAlreadyExists when the address is taken,
// including when a concurrent signup wins the race on the unique index.
func (us *UserService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)

	existing, err := us.userRepository.FetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := us.authService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := us.userRepository.CreateUser(ctx, email, hash)
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_signed_up_total").Inc()

	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
