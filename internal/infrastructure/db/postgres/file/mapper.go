package file

import (
	domain "file-uploader/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	return &domain.File{
		ID:         model.ID,
		FolderID:   model.FolderID,
		OwnerID:    model.OwnerID,
		Name:       model.Name,
		StorageKey: model.StorageKey,
		MimeType:   model.MimeType,
		SizeBytes:  model.SizeBytes,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func fromDBModels(models Files) domain.Files {
	fs := make(domain.Files, len(models))
	for idx, f := range models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
