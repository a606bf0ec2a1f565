// Package local keeps payloads in a directory on the application host and
// serves them through signed /blobs/ URLs.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"file-uploader/internal/domain/blob"
	"file-uploader/internal/infrastructure/jwt"
)

const (
	BlobPath        = "/blobs/"
	defaultMimeType = "application/octet-stream"
)

type Storage struct {
	dir     string
	baseURL string
	tokens  *jwt.Service
	log     *zap.Logger
}

// New creates dir when missing. publicURL is the absolute origin the
// signed URLs are built on.
func New(dir, publicURL string, tokens *jwt.Service, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &Storage{
		dir:     dir,
		baseURL: strings.TrimRight(publicURL, "/") + BlobPath,
		tokens:  tokens,
		log:     logger,
	}, nil
}

func (s *Storage) Put(_ context.Context, displayName string, r io.Reader, size int64, _ string) (string, error) {
	key := blob.NewKey(displayName)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	if size >= 0 && n != size {
		return "", fmt.Errorf("write payload: got %d bytes, want %d: %w", n, size, io.ErrUnexpectedEOF)
	}

	if err = os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("commit payload: %w", err)
	}
	s.log.Debug("payload stored", zap.String("key", key), zap.Int64("size", n))

	return key, nil
}

func (s *Storage) Open(_ context.Context, storageKey, displayName string) (*blob.Object, error) {
	p, err := s.path(storageKey)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, blob.ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &blob.Object{
		Body:               f,
		Size:               info.Size(),
		ContentType:        contentType(displayName),
		ContentDisposition: blob.ContentDisposition(displayName),
	}, nil
}

// URLFor returns <public url>/blobs/<token>. Unsigned URLs carry a token
// without expiry.
func (s *Storage) URLFor(_ context.Context, storageKey, displayName string, opts blob.URLOptions) (string, error) {
	if _, err := s.path(storageKey); err != nil {
		return "", err
	}

	var ttl time.Duration
	if opts.Signed {
		ttl = opts.EffectiveTTL()
	}
	token, err := s.tokens.GenerateBlobToken(storageKey, displayName, ttl)
	if err != nil {
		return "", err
	}

	return s.baseURL + url.PathEscape(token), nil
}

func (s *Storage) Remove(_ context.Context, storageKey, _ string) error {
	p, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Resolve checks a /blobs/ token and returns what it grants access to.
func (s *Storage) Resolve(token string) (string, string, error) {
	claims, err := s.tokens.ValidateBlobToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return "", "", blob.ErrURLExpired
		}
		return "", "", blob.ErrInvalidKey
	}
	return claims.Key, claims.Name, nil
}

// path rejects keys that would escape dir.
func (s *Storage) path(storageKey string) (string, error) {
	if storageKey == "" || storageKey == "." || storageKey == ".." ||
		strings.ContainsAny(storageKey, `/\`) || strings.ContainsRune(storageKey, 0) {
		return "", blob.ErrInvalidKey
	}
	return filepath.Join(s.dir, storageKey), nil
}

func contentType(displayName string) string {
	if ct := mime.TypeByExtension(blob.Ext(displayName)); ct != "" {
		return ct
	}
	return defaultMimeType
}
