package folder

import (
	domain "file-uploader/internal/domain/folder"
)

func fromDBModel(model *Folder) *domain.Folder {
	return &domain.Folder{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		Name:      model.Name,
		SizeBytes: model.SizeBytes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDBModels(models Folders) domain.Folders {
	fs := make(domain.Folders, len(models))
	for idx, f := range models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
