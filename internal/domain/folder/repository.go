package folder

import (
	"context"

	"file-uploader/internal/domain/user"
)

// Repository is owner-scoped: every method filters by ownerID, so rows of
// other users behave as if they did not exist.
type Repository interface {
	CreateFolder(ctx context.Context, ownerID user.ID, name string) (*Folder, error)
	FetchFolders(ctx context.Context, ownerID user.ID) (Folders, error)
	FetchFolder(ctx context.Context, ownerID user.ID, id ID) (*Folder, error)
	// RenameFolder reports false when no folder of ownerID matched.
	RenameFolder(ctx context.Context, ownerID user.ID, id ID, name string) (bool, error)
	// DeleteFolder removes the folder row together with its file rows.
	DeleteFolder(ctx context.Context, ownerID user.ID, id ID) error
}
