package ports

import (
	"file-uploader/internal/domain/user"
)

type Auth interface {
	HashPassword(password string) (string, error)
	// GenerateToken verifies the password and issues a session token.
	GenerateToken(u *user.User, requestPassword string) (string, error)
}
