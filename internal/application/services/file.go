package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"file-uploader/config"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/blob"
	domain "file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/mq"
)

const (
	MaxUploadSize   = 10 << 20
	maxFileNameLen  = 255
	defaultMimeType = "application/octet-stream"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNoBody       = errors.New("upload has no body")
)

type FileService struct {
	logger           *zap.Logger
	fileRepository   domain.Repository
	folderRepository folder.Repository
	storage          ports.Storage
	fetcher          ports.Fetcher
	events           ports.EventPublisher
	mCounter         *prometheus.CounterVec
	downloadMode     string
	signedURLTTL     time.Duration
}

func NewFileService(
	logger *zap.Logger,
	cfg config.Storage,
	fileRepository domain.Repository,
	folderRepository folder.Repository,
	storage ports.Storage,
	fetcher ports.Fetcher,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.FileService {
	return &FileService{
		logger:           logger,
		fileRepository:   fileRepository,
		folderRepository: folderRepository,
		storage:          storage,
		fetcher:          fetcher,
		events:           events,
		mCounter:         mCounter,
		downloadMode:     cfg.DownloadMode,
		signedURLTTL:     cfg.SignedURLTTL,
	}
}

// UploadFile stores the payload under a fresh key and records it. The folder
// is checked before anything is written; a payload whose row could not be
// inserted is removed again.
func (fs *FileService) UploadFile(
	ctx context.Context,
	ownerID user.ID,
	folderID folder.ID,
	in ports.UploadInput,
) (*domain.File, error) {
	if in.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if in.Body == nil {
		return nil, ErrNoBody
	}

	if _, err := fs.folderRepository.FetchFolder(ctx, ownerID, folderID); err != nil {
		return nil, err
	}

	name := sanitizeFileName(in.Name)
	mimeType := detectMimeType(name, in.ContentType)

	key, err := fs.storage.Put(ctx, name, in.Body, in.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}

	f, err := fs.fileRepository.CreateFile(ctx, &domain.File{
		FolderID:   folderID,
		OwnerID:    ownerID,
		Name:       name,
		StorageKey: &key,
		MimeType:   mimeType,
		SizeBytes:  in.Size,
	})
	if err != nil {
		if rmErr := fs.storage.Remove(ctx, key, name); rmErr != nil {
			fs.logger.Error("storage Remove() error", zap.Error(rmErr), zap.String("storage_key", key))
		}
		return nil, err
	}

	fs.events.Publish(mq.NewEvent(mq.ActionFileUploaded, ownerID, mq.Activity{
		FolderID:  folderID.String(),
		FileID:    f.ID.String(),
		Name:      f.Name,
		SizeBytes: f.SizeBytes,
	}))
	fs.mCounter.WithLabelValues("file_uploaded_total").Inc()

	return f, nil
}

func (fs *FileService) FindFiles(ctx context.Context, ownerID user.ID, folderID folder.ID) (domain.Files, error) {
	return fs.fileRepository.FetchFiles(ctx, ownerID, folderID)
}

// DeleteFile returns the deleted record. The payload is removed first and a
// failure to do so is only logged.
func (fs *FileService) DeleteFile(ctx context.Context, ownerID user.ID, id domain.ID) (*domain.File, error) {
	f, err := fs.fileRepository.FetchFile(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err = fs.storage.Remove(ctx, f.Key(), f.Name); err != nil {
		fs.logger.Error("storage Remove() error",
			zap.Error(err),
			zap.Stringer("file_id", f.ID),
			zap.String("storage_key", f.Key()),
		)
	}

	if err = fs.fileRepository.DeleteFile(ctx, ownerID, id); err != nil {
		return nil, err
	}

	fs.events.Publish(mq.NewEvent(mq.ActionFileDeleted, ownerID, mq.Activity{
		FolderID:  f.FolderID.String(),
		FileID:    f.ID.String(),
		Name:      f.Name,
		SizeBytes: f.SizeBytes,
	}))
	fs.mCounter.WithLabelValues("file_deleted_total").Inc()

	return f, nil
}

func (fs *FileService) DownloadFile(ctx context.Context, ownerID user.ID, id domain.ID) (*ports.Download, error) {
	f, err := fs.fileRepository.FetchFile(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	var d *ports.Download
	switch fs.downloadMode {
	case config.DownloadRedirect:
		u, err := fs.signedURL(ctx, f)
		if err != nil {
			return nil, err
		}
		d = &ports.Download{File: f, RedirectURL: u}

	case config.DownloadProxy:
		u, err := fs.signedURL(ctx, f)
		if err != nil {
			return nil, err
		}
		obj, err := fs.fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		d = &ports.Download{File: f, Object: withFileDefaults(obj, f)}

	default:
		obj, err := fs.storage.Open(ctx, f.Key(), f.Name)
		if err != nil {
			return nil, err
		}
		d = &ports.Download{File: f, Object: withFileDefaults(obj, f)}
	}

	fs.mCounter.WithLabelValues("file_downloaded_total").Inc()

	return d, nil
}

func (fs *FileService) SignedURL(ctx context.Context, ownerID user.ID, id domain.ID) (string, error) {
	f, err := fs.fileRepository.FetchFile(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	return fs.signedURL(ctx, f)
}

func (fs *FileService) signedURL(ctx context.Context, f *domain.File) (string, error) {
	return fs.storage.URLFor(ctx, f.Key(), f.Name, blob.URLOptions{
		Signed: true,
		TTL:    fs.signedURLTTL,
	})
}

func withFileDefaults(obj *blob.Object, f *domain.File) *blob.Object {
	if obj.ContentType == "" {
		obj.ContentType = f.MimeType
	}
	if obj.ContentDisposition == "" {
		obj.ContentDisposition = blob.ContentDisposition(f.Name)
	}
	return obj
}

func detectMimeType(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != defaultMimeType {
		return declared
	}
	if byExt := mime.TypeByExtension(blob.Ext(name)); byExt != "" {
		return byExt
	}
	return defaultMimeType
}

// sanitizeFileName keeps the name the user sees: directory parts, control
// characters and surrounding space are dropped, the rest is NFC-normalised
// and capped at maxFileNameLen bytes.
func sanitizeFileName(original string) string {
	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "/" || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFC, transform.RemoveFunc(isControl))
	s, _, _ = transform.String(t, s)
	s = strings.TrimSpace(s)
	if s == "" {
		return "file"
	}

	if len(s) <= maxFileNameLen {
		return s
	}

	ext := path.Ext(s)
	if len(ext) > maxFileNameLen/2 {
		ext = ""
	}
	base := strings.TrimSuffix(s, ext)
	for len(base)+len(ext) > maxFileNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isControl(r rune) bool { return unicode.IsControl(r) || r == utf8.RuneError }
