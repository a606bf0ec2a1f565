package local

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-uploader/internal/domain/blob"
	"file-uploader/internal/infrastructure/jwt"
)

func newStorage(t *testing.T, opts ...jwt.Option) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir, "http://files.test/", jwt.New("blob-secret", opts...), zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func TestPutOpenRemove(t *testing.T) {
	s, dir := newStorage(t)
	ctx := context.Background()

	key, err := s.Put(ctx, "Quarterly Report.PDF", strings.NewReader("%PDF-1.7"), 8, "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.FileExists(t, filepath.Join(dir, key))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	obj, err := s.Open(ctx, key, "Quarterly Report.PDF")
	require.NoError(t, err)
	b, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "%PDF-1.7", string(b))
	assert.Equal(t, int64(8), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Contains(t, obj.ContentDisposition, "attachment")

	require.NoError(t, s.Remove(ctx, key, "Quarterly Report.PDF"))
	require.NoError(t, s.Remove(ctx, key, "Quarterly Report.PDF"))

	_, err = s.Open(ctx, key, "Quarterly Report.PDF")
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestPut_ZeroBytes(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	key, err := s.Put(ctx, "empty.png", strings.NewReader(""), 0, "image/png")
	require.NoError(t, err)

	obj, err := s.Open(ctx, key, "empty.png")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Zero(t, obj.Size)
}

func TestPut_ShortBodyIsRejected(t *testing.T) {
	s, dir := newStorage(t)

	_, err := s.Put(context.Background(), "a.txt", strings.NewReader("abc"), 10, "text/plain")
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_LegacyKeyIsDisplayName(t *testing.T) {
	s, dir := newStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "holiday 2019.png"), []byte("old"), 0o600))

	obj, err := s.Open(context.Background(), "holiday 2019.png", "holiday 2019.png")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, int64(3), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestPath_RejectsTraversal(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../etc/passwd", `..\boot.ini`, "a/b"} {
		_, err := s.Open(ctx, key, "x")
		assert.ErrorIs(t, err, blob.ErrInvalidKey, key)
		assert.ErrorIs(t, s.Remove(ctx, key, "x"), blob.ErrInvalidKey, key)
		_, err = s.URLFor(ctx, key, "x", blob.URLOptions{Signed: true})
		assert.ErrorIs(t, err, blob.ErrInvalidKey, key)
	}
}

func TestSignedURL_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newStorage(t, jwt.WithClock(func() time.Time { return now }))

	raw, err := s.URLFor(context.Background(), "k.png", "photo.png", blob.URLOptions{Signed: true})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "files.test", u.Host)
	require.True(t, strings.HasPrefix(u.Path, BlobPath))
	token := strings.TrimPrefix(u.Path, BlobPath)

	now = now.Add(blob.DefaultSignedTTL - time.Second)
	key, name, err := s.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "k.png", key)
	assert.Equal(t, "photo.png", name)

	now = now.Add(2 * time.Second)
	_, _, err = s.Resolve(token)
	require.ErrorIs(t, err, blob.ErrURLExpired)
}

func TestUnsignedURL_DoesNotExpire(t *testing.T) {
	now := time.Now()
	s, _ := newStorage(t, jwt.WithClock(func() time.Time { return now }))

	raw, err := s.URLFor(context.Background(), "k.png", "photo.png", blob.URLOptions{})
	require.NoError(t, err)

	now = now.Add(48 * time.Hour)
	_, _, err = s.Resolve(strings.TrimPrefix(raw, "http://files.test"+BlobPath))
	require.NoError(t, err)
}

func TestResolve_Garbage(t *testing.T) {
	s, _ := newStorage(t)

	_, _, err := s.Resolve("not-a-token")
	require.ErrorIs(t, err, blob.ErrInvalidKey)
}
