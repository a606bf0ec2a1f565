package folder

import (
	"time"

	"github.com/google/uuid"
)

type (
	Folder struct {
		ID        uuid.UUID
		OwnerID   uuid.UUID
		Name      string
		SizeBytes int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Folders []*Folder
)
