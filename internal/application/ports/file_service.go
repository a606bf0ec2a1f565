package ports

import (
	"context"
	"io"

	"file-uploader/internal/domain/blob"
	"file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
)

type (
	UploadInput struct {
		Name        string
		ContentType string
		Size        int64
		Body        io.Reader
	}

	// Download is either a redirect (RedirectURL set) or a stream (Object set).
	Download struct {
		File        *file.File
		RedirectURL string
		Object      *blob.Object
	}
)

type FileService interface {
	UploadFile(ctx context.Context, ownerID user.ID, folderID folder.ID, in UploadInput) (*file.File, error)
	FindFiles(ctx context.Context, ownerID user.ID, folderID folder.ID) (file.Files, error)
	DeleteFile(ctx context.Context, ownerID user.ID, id file.ID) (*file.File, error)
	DownloadFile(ctx context.Context, ownerID user.ID, id file.ID) (*Download, error)
	SignedURL(ctx context.Context, ownerID user.ID, id file.ID) (string, error)
}
