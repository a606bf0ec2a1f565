package file

import (
	"context"

	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
)

type Repository interface {
	// CreateFile inserts the row and adds its size to the folder in one transaction.
	CreateFile(ctx context.Context, req *File) (*File, error)
	FetchFiles(ctx context.Context, ownerID user.ID, folderID folder.ID) (Files, error)
	FetchFile(ctx context.Context, ownerID user.ID, id ID) (*File, error)
	// DeleteFile removes the row and subtracts its size from the folder.
	DeleteFile(ctx context.Context, ownerID user.ID, id ID) error
}
