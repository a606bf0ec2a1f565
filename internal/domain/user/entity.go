package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type (
	ID   = uuid.UUID
	User struct {
		ID           ID
		Email        string
		PasswordHash string

		CreatedAt time.Time
	}
	Users []*User
)
