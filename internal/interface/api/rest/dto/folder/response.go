package folder

import (
	"github.com/google/uuid"
)

type (
	Folder struct {
		ID        uuid.UUID
		Name      string
		SizeBytes int64
		Size      string
		UpdatedAt string
	}
	Folders []Folder
)
