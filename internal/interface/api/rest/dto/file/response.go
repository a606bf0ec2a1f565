package file

import (
	"github.com/google/uuid"
)

type (
	File struct {
		ID        uuid.UUID `json:"id"`
		FolderID  uuid.UUID `json:"folder_id"`
		Name      string    `json:"name"`
		MimeType  string    `json:"mime_type"`
		SizeBytes int64     `json:"size_bytes"`
		Size      string    `json:"-"`
		CreatedAt string    `json:"created_at"`
	}
	Files []File
)
