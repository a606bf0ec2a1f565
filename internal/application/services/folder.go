package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/file"
	domain "file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/infrastructure/mq"
)

type FolderService struct {
	logger           *zap.Logger
	folderRepository domain.Repository
	fileRepository   file.Repository
	storage          ports.Storage
	events           ports.EventPublisher
	mCounter         *prometheus.CounterVec
}

func NewFolderService(
	logger *zap.Logger,
	folderRepository domain.Repository,
	fileRepository file.Repository,
	storage ports.Storage,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.FolderService {
	return &FolderService{
		logger:           logger,
		folderRepository: folderRepository,
		fileRepository:   fileRepository,
		storage:          storage,
		events:           events,
		mCounter:         mCounter,
	}
}

func (fs *FolderService) CreateFolder(ctx context.Context, ownerID user.ID, name string) (*domain.Folder, error) {
	f, err := fs.folderRepository.CreateFolder(ctx, ownerID, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	fs.events.Publish(mq.NewEvent(mq.ActionFolderCreated, ownerID, mq.Activity{
		FolderID: f.ID.String(),
		Name:     f.Name,
	}))
	fs.mCounter.WithLabelValues("folder_created_total").Inc()

	return f, nil
}

func (fs *FolderService) FindFolders(ctx context.Context, ownerID user.ID) (domain.Folders, error) {
	return fs.folderRepository.FetchFolders(ctx, ownerID)
}

func (fs *FolderService) FindFolder(ctx context.Context, ownerID user.ID, id domain.ID) (*domain.Folder, error) {
	return fs.folderRepository.FetchFolder(ctx, ownerID, id)
}

// RenameFolder does nothing when the folder is missing or not owned by ownerID.
func (fs *FolderService) RenameFolder(ctx context.Context, ownerID user.ID, id domain.ID, name string) error {
	name = strings.TrimSpace(name)
	renamed, err := fs.folderRepository.RenameFolder(ctx, ownerID, id, name)
	if err != nil || !renamed {
		return err
	}

	fs.events.Publish(mq.NewEvent(mq.ActionFolderRenamed, ownerID, mq.Activity{
		FolderID: id.String(),
		Name:     name,
	}))
	fs.mCounter.WithLabelValues("folder_renamed_total").Inc()

	return nil
}

// DeleteFolder removes every payload in the folder, then the records. A
// payload that cannot be removed is logged and left behind. Deleting a
// folder that does not exist is not an error.
func (fs *FolderService) DeleteFolder(ctx context.Context, ownerID user.ID, id domain.ID) error {
	f, err := fs.folderRepository.FetchFolder(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	files, err := fs.fileRepository.FetchFiles(ctx, ownerID, id)
	if err != nil {
		return err
	}
	for _, fl := range files {
		if err = fs.storage.Remove(ctx, fl.Key(), fl.Name); err != nil {
			fs.logger.Error("storage Remove() error",
				zap.Error(err),
				zap.Stringer("file_id", fl.ID),
				zap.String("storage_key", fl.Key()),
			)
		}
	}

	if err = fs.folderRepository.DeleteFolder(ctx, ownerID, id); err != nil {
		return err
	}

	fs.events.Publish(mq.NewEvent(mq.ActionFolderDeleted, ownerID, mq.Activity{
		FolderID:  id.String(),
		Name:      f.Name,
		SizeBytes: f.SizeBytes,
	}))
	fs.mCounter.WithLabelValues("folder_deleted_total").Inc()

	return nil
}
