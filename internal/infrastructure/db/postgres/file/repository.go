package file

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*File, error) {
	f := new(File)
	err := row.Scan(
		&f.ID,
		&f.FolderID,
		&f.OwnerID,
		&f.Name,
		&f.StorageKey,
		&f.MimeType,
		&f.SizeBytes,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

// CreateFile fails with folder.ErrNotFound when the target folder is gone or
// belongs to someone else; nothing is written in that case.
func (r *Repository) CreateFile(ctx context.Context, req *file.File) (*file.File, error) {
	var out *File
	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = scanFile(tx.QueryRow(ctx, InsertFile,
			req.FolderID,
			req.OwnerID,
			req.Name,
			req.StorageKey,
			req.MimeType,
			req.SizeBytes,
		))
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, IncrementFolderSize, req.FolderID, req.OwnerID, req.SizeBytes)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return folder.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fromDBModel(out), nil
}

func (r *Repository) FetchFiles(ctx context.Context, ownerID user.ID, folderID folder.ID) (file.Files, error) {
	rows, err := r.db.Query(ctx, SelectFiles, folderID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs Files
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs), nil
}

func (r *Repository) FetchFile(ctx context.Context, ownerID user.ID, id file.ID) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(ctx, SelectFile, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, file.ErrNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) DeleteFile(ctx context.Context, ownerID user.ID, id file.ID) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			folderID folder.ID
			size     int64
		)
		if err := tx.QueryRow(ctx, DeleteFile, id, ownerID).Scan(&folderID, &size); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return file.ErrNotFound
			}
			return err
		}

		_, err := tx.Exec(ctx, DecrementFolderSize, folderID, ownerID, size)
		return err
	})
}
