package ports

import (
	"context"

	"file-uploader/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, id user.ID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Signup(ctx context.Context, email, password string) (*user.User, error)
}
