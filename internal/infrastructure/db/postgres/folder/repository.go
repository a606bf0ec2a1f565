package folder

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) folder.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateFolder(ctx context.Context, ownerID user.ID, name string) (*folder.Folder, error) {
	f := new(Folder)
	err := r.db.QueryRow(ctx, InsertFolder, ownerID, name).Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.SizeBytes,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchFolders(ctx context.Context, ownerID user.ID) (folder.Folders, error) {
	rows, err := r.db.Query(ctx, SelectFolders, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs Folders
	for rows.Next() {
		f := new(Folder)

		if err = rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.Name,
			&f.SizeBytes,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, err
		}

		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs), nil
}

// FetchFolder returns folder.ErrNotFound for missing and foreign folders alike.
func (r *Repository) FetchFolder(ctx context.Context, ownerID user.ID, id folder.ID) (*folder.Folder, error) {
	f := new(Folder)
	err := r.db.QueryRow(ctx, SelectFolder, id, ownerID).Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.SizeBytes,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, folder.ErrNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) RenameFolder(ctx context.Context, ownerID user.ID, id folder.ID, name string) (bool, error) {
	tag, err := r.db.Exec(ctx, UpdateFolderName, id, ownerID, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) DeleteFolder(ctx context.Context, ownerID user.ID, id folder.ID) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, DeleteFolderFiles, id, ownerID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, DeleteFolder, id, ownerID)
		return err
	})
}
