package file

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
)

var fileColumns = []string{
	"id", "folder_id", "owner_id", "name", "storage_key", "mime_type", "size_bytes", "created_at", "updated_at",
}

func newMock(t *testing.T) (domain.Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func TestRepository_CreateFile(t *testing.T) {
	owner, folderID, id := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()
	key := strPtr("9b2e.pdf")
	req := &domain.File{
		FolderID:   folderID,
		OwnerID:    owner,
		Name:       "report.pdf",
		StorageKey: key,
		MimeType:   "application/pdf",
		SizeBytes:  2048,
	}

	t.Run("inserts and grows the folder", func(t *testing.T) {
		r, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(InsertFile)).
			WithArgs(folderID, owner, "report.pdf", key, "application/pdf", int64(2048)).
			WillReturnRows(pgxmock.NewRows(fileColumns).
				AddRow(id, folderID, owner, "report.pdf", key, "application/pdf", int64(2048), now, now))
		mock.ExpectExec(regexp.QuoteMeta(IncrementFolderSize)).
			WithArgs(folderID, owner, int64(2048)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		f, err := r.CreateFile(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, id, f.ID)
		assert.Equal(t, "9b2e.pdf", f.Key())
		assert.Equal(t, int64(2048), f.SizeBytes)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("folder missing rolls back", func(t *testing.T) {
		r, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(InsertFile)).
			WithArgs(folderID, owner, "report.pdf", key, "application/pdf", int64(2048)).
			WillReturnRows(pgxmock.NewRows(fileColumns).
				AddRow(id, folderID, owner, "report.pdf", key, "application/pdf", int64(2048), now, now))
		mock.ExpectExec(regexp.QuoteMeta(IncrementFolderSize)).
			WithArgs(folderID, owner, int64(2048)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		f, err := r.CreateFile(context.Background(), req)
		require.ErrorIs(t, err, folder.ErrNotFound)
		assert.Nil(t, f)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FetchFiles(t *testing.T) {
	r, mock := newMock(t)
	owner, folderID := uuid.New(), uuid.New()
	now := time.Now().UTC()
	legacy := strPtr("")

	mock.ExpectQuery(regexp.QuoteMeta(SelectFiles)).
		WithArgs(folderID, owner).
		WillReturnRows(pgxmock.NewRows(fileColumns).
			AddRow(uuid.New(), folderID, owner, "b.png", strPtr("k.png"), "image/png", int64(10), now, now).
			AddRow(uuid.New(), folderID, owner, "old.txt", legacy, "text/plain", int64(3), now, now))

	fs, err := r.FetchFiles(context.Background(), owner, folderID)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "k.png", fs[0].Key())
	assert.Equal(t, "old.txt", fs[1].Key())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchFile_NotFound(t *testing.T) {
	r, mock := newMock(t)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(SelectFile)).
		WithArgs(id, owner).
		WillReturnError(pgx.ErrNoRows)

	f, err := r.FetchFile(context.Background(), owner, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, f)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteFile(t *testing.T) {
	t.Run("shrinks the folder", func(t *testing.T) {
		r, mock := newMock(t)
		owner, id, folderID := uuid.New(), uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(DeleteFile)).
			WithArgs(id, owner).
			WillReturnRows(pgxmock.NewRows([]string{"folder_id", "size_bytes"}).AddRow(folderID, int64(512)))
		mock.ExpectExec(regexp.QuoteMeta(DecrementFolderSize)).
			WithArgs(folderID, owner, int64(512)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, r.DeleteFile(context.Background(), owner, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign or missing file", func(t *testing.T) {
		r, mock := newMock(t)
		owner, id := uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(DeleteFile)).
			WithArgs(id, owner).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		require.ErrorIs(t, r.DeleteFile(context.Background(), owner, id), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
