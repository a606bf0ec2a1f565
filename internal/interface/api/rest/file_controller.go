package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-uploader/internal/application/authctx"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/application/services"
	"file-uploader/internal/domain/blob"
	"file-uploader/internal/domain/file"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/infrastructure/storage/proxy"
	dtoFile "file-uploader/internal/interface/api/rest/dto/file"
	"file-uploader/internal/interface/api/rest/middleware"
	"file-uploader/internal/interface/api/rest/validator"
)

const (
	formFile    = "file"
	msgTooLarge = "File is larger than 10 MB."
	msgNoFile   = "Choose a file to upload."
	// multipart framing on top of the payload itself
	multipartOverhead = 1 << 20
)

type FileController struct {
	logger        *zap.Logger
	folderService ports.FolderService
	fileService   ports.FileService
}

func NewFileController(
	r *gin.Engine,
	logger *zap.Logger,
	folderService ports.FolderService,
	fileService ports.FileService,
) *FileController {
	fc := &FileController{
		logger:        logger,
		folderService: folderService,
		fileService:   fileService,
	}

	pages := r.Group("", middleware.RequireUser())
	pages.POST(RouteFolderFiles, fc.UploadFileHandler)
	pages.GET(RouteFileDownload, fc.DownloadFileHandler)
	pages.GET(RouteFileDownloadDirect, fc.DownloadDirectHandler)

	r.DELETE(RouteFile, middleware.RequireUserAPI(), fc.DeleteFileHandler)

	return fc
}

func (fc *FileController) UploadFileHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, folderID := validator.IsUUID(c.Param("id"))
	if !ok {
		renderError(c, http.StatusNotFound, "Folder not found.")
		return
	}

	uploadFailed := func(status int, msg string) {
		folderPage(c, fc.logger, fc.folderService, fc.fileService, status, p.UserID, folderID, msg)
	}

	limit := int64(services.MaxUploadSize + multipartOverhead)
	if c.Request.ContentLength > limit {
		uploadFailed(http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile(formFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			uploadFailed(http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		uploadFailed(http.StatusBadRequest, msgNoFile)
		return
	}

	src, err := fh.Open()
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to read upload.")
		fc.logger.Error("FormFile Open() error", zap.Error(err))
		return
	}
	defer src.Close()

	_, err = fc.fileService.UploadFile(c.Request.Context(), p.UserID, folderID, ports.UploadInput{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			uploadFailed(http.StatusRequestEntityTooLarge, msgTooLarge)
		case errors.Is(err, services.ErrNoBody):
			uploadFailed(http.StatusBadRequest, msgNoFile)
		case errors.Is(err, folder.ErrNotFound):
			renderError(c, http.StatusNotFound, "Folder not found.")
		default:
			fc.logger.Error("UploadFile() error", zap.Error(err))
			uploadFailed(http.StatusInternalServerError, "Upload failed. Please try again.")
		}
		return
	}

	c.Redirect(http.StatusFound, RouteFolders+"/"+folderID.String())
}

func (fc *FileController) DownloadFileHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		renderError(c, http.StatusNotFound, "File not found.")
		return
	}

	d, err := fc.fileService.DownloadFile(c.Request.Context(), p.UserID, id)
	if err != nil {
		fc.downloadError(c, "DownloadFile", err)
		return
	}

	if d.RedirectURL != "" {
		c.Redirect(http.StatusFound, d.RedirectURL)
		return
	}

	serveObject(c, d.Object)
}

func (fc *FileController) DownloadDirectHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		renderError(c, http.StatusNotFound, "File not found.")
		return
	}

	u, err := fc.fileService.SignedURL(c.Request.Context(), p.UserID, id)
	if err != nil {
		fc.downloadError(c, "SignedURL", err)
		return
	}

	c.Redirect(http.StatusFound, u)
}

// DeleteFileHandler answers JSON unless the caller is a browser form, which
// is sent back to the folder page.
func (fc *FileController) DeleteFileHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())
	html := wantsHTML(c)

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	f, err := fc.fileService.DeleteFile(c.Request.Context(), p.UserID, id)
	if err != nil {
		if errors.Is(err, file.ErrNotFound) {
			if html {
				renderError(c, http.StatusNotFound, "File not found.")
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		fc.logger.Error("DeleteFile() error", zap.Error(err))
		return
	}

	if html {
		c.Redirect(http.StatusSeeOther, RouteFolders+"/"+f.FolderID.String())
		return
	}

	c.JSON(http.StatusOK, dtoFile.ToResponseFile(*f))
}

func (fc *FileController) downloadError(c *gin.Context, op string, err error) {
	var upstream *proxy.UpstreamError

	switch {
	case errors.Is(err, file.ErrNotFound):
		renderError(c, http.StatusNotFound, "File not found.")
		return
	case errors.Is(err, blob.ErrNotFound), errors.Is(err, blob.ErrInvalidKey):
		renderError(c, http.StatusNotFound, "File content is missing.")
	case errors.Is(err, proxy.ErrTimeout):
		renderError(c, http.StatusGatewayTimeout, "Storage did not respond in time.")
	case errors.Is(err, proxy.ErrTooManyRedirects), errors.As(err, &upstream):
		renderError(c, http.StatusBadGateway, "Storage is unavailable.")
	default:
		renderError(c, http.StatusInternalServerError, "Download failed. Please try again.")
	}

	fc.logger.Error(op+"() error", zap.Error(err))
}

// serveObject streams obj and closes it.
func serveObject(c *gin.Context, obj *blob.Object) {
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{}
	if obj.ContentDisposition != "" {
		extra["Content-Disposition"] = obj.ContentDisposition
	}
	if obj.ContentEncoding != "" {
		extra["Content-Encoding"] = obj.ContentEncoding
	}

	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, extra)
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
