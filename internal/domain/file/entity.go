package file

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
)

var ErrNotFound = errors.New("file not found")

type (
	ID   = uuid.UUID
	File struct {
		ID       ID
		FolderID folder.ID
		OwnerID  user.ID

		Name string
		// StorageKey is nil for legacy rows whose bytes live under Name.
		StorageKey *string
		MimeType   string
		SizeBytes  int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Files []*File
)

// Key returns the handle the storage adapter knows the payload by.
func (f *File) Key() string {
	if f.StorageKey != nil && *f.StorageKey != "" {
		return *f.StorageKey
	}
	return f.Name
}
