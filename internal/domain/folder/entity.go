package folder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"file-uploader/internal/domain/user"
)

var ErrNotFound = errors.New("folder not found")

type (
	ID     = uuid.UUID
	Folder struct {
		ID        ID
		OwnerID   user.ID
		Name      string
		SizeBytes int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Folders []*Folder
)
