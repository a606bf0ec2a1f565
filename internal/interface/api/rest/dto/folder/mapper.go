package folder

import (
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/interface/api/rest/dto"
)

func ToResponseFolder(fDomain folder.Folder) Folder {
	return Folder{
		ID:        fDomain.ID,
		Name:      fDomain.Name,
		SizeBytes: fDomain.SizeBytes,
		Size:      dto.HumanSize(fDomain.SizeBytes),
		UpdatedAt: dto.FormatTime(fDomain.UpdatedAt),
	}
}

func ToResponseFolders(fsDomain folder.Folders) Folders {
	fs := make(Folders, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFolder(*f)
	}

	return fs
}
