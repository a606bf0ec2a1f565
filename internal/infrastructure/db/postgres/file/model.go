package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID         uuid.UUID
		FolderID   uuid.UUID
		OwnerID    uuid.UUID
		Name       string
		StorageKey *string
		MimeType   string
		SizeBytes  int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Files []*File
)
