package ports

import (
	"context"

	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
)

type FolderService interface {
	CreateFolder(ctx context.Context, ownerID user.ID, name string) (*folder.Folder, error)
	FindFolders(ctx context.Context, ownerID user.ID) (folder.Folders, error)
	FindFolder(ctx context.Context, ownerID user.ID, id folder.ID) (*folder.Folder, error)
	RenameFolder(ctx context.Context, ownerID user.ID, id folder.ID, name string) error
	DeleteFolder(ctx context.Context, ownerID user.ID, id folder.ID) error
}
