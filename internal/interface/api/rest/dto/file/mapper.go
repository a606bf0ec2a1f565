package file

import (
	"file-uploader/internal/domain/file"
	"file-uploader/internal/interface/api/rest/dto"
)

func ToResponseFile(fDomain file.File) File {
	return File{
		ID:        fDomain.ID,
		FolderID:  fDomain.FolderID,
		Name:      fDomain.Name,
		MimeType:  fDomain.MimeType,
		SizeBytes: fDomain.SizeBytes,
		Size:      dto.HumanSize(fDomain.SizeBytes),
		CreatedAt: dto.FormatTime(fDomain.CreatedAt),
	}
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}
