package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-uploader/internal/application/authctx"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/folder"
	"file-uploader/internal/domain/user"
	dtoFile "file-uploader/internal/interface/api/rest/dto/file"
	dtoFolder "file-uploader/internal/interface/api/rest/dto/folder"
	"file-uploader/internal/interface/api/rest/middleware"
	"file-uploader/internal/interface/api/rest/validator"
)

type FolderController struct {
	logger        *zap.Logger
	folderService ports.FolderService
	fileService   ports.FileService
}

func NewFolderController(
	r *gin.Engine,
	logger *zap.Logger,
	folderService ports.FolderService,
	fileService ports.FileService,
) *FolderController {
	fc := &FolderController{
		logger:        logger,
		folderService: folderService,
		fileService:   fileService,
	}

	pages := r.Group("", middleware.RequireUser())
	pages.GET(RouteHome, fc.DashboardHandler)
	pages.POST(RouteFolders, fc.CreateFolderHandler)
	pages.GET(RouteFolder, fc.GetFolderHandler)
	pages.PUT(RouteFolder, fc.RenameFolderHandler)
	pages.DELETE(RouteFolder, fc.DeleteFolderHandler)

	return fc
}

func (fc *FolderController) DashboardHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	folders, err := fc.folderService.FindFolders(c.Request.Context(), p.UserID)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to load folders.")
		fc.logger.Error("FindFolders() error", zap.Error(err))
		return
	}

	render(c, http.StatusOK, viewDashboard, gin.H{
		"title":   "Dashboard",
		"folders": dtoFolder.ToResponseFolders(folders),
	})
}

func (fc *FolderController) CreateFolderHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	var req dtoFolder.Request
	if err := c.ShouldBind(&req); err != nil || validator.ValidateFolder(req) != nil {
		c.Redirect(http.StatusFound, RouteHome)
		return
	}

	if _, err := fc.folderService.CreateFolder(c.Request.Context(), p.UserID, req.Name); err != nil {
		fc.logger.Error("CreateFolder() error", zap.Error(err))
	}

	c.Redirect(http.StatusFound, RouteHome)
}

func (fc *FolderController) GetFolderHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		renderError(c, http.StatusNotFound, "Folder not found.")
		return
	}

	folderPage(c, fc.logger, fc.folderService, fc.fileService, http.StatusOK, p.UserID, id)
}

// folderPage renders the folder view with status; errs are listed above the
// upload form.
func folderPage(
	c *gin.Context,
	logger *zap.Logger,
	folderService ports.FolderService,
	fileService ports.FileService,
	status int,
	ownerID user.ID,
	id folder.ID,
	errs ...string,
) {
	f, err := folderService.FindFolder(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, folder.ErrNotFound) {
			renderError(c, http.StatusNotFound, "Folder not found.")
			return
		}
		renderError(c, http.StatusInternalServerError, "Failed to load folder.")
		logger.Error("FindFolder() error", zap.Error(err))
		return
	}

	files, err := fileService.FindFiles(c.Request.Context(), ownerID, id)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to load files.")
		logger.Error("FindFiles() error", zap.Error(err))
		return
	}

	render(c, status, viewFolder, gin.H{
		"title":  f.Name,
		"folder": dtoFolder.ToResponseFolder(*f),
		"files":  dtoFile.ToResponseFiles(files),
		"errors": errs,
	})
}

// RenameFolderHandler always returns to the dashboard; unknown folders are
// ignored.
func (fc *FolderController) RenameFolderHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusFound, RouteHome)
		return
	}

	var req dtoFolder.Request
	if err := c.ShouldBind(&req); err != nil || validator.ValidateFolder(req) != nil {
		c.Redirect(http.StatusFound, RouteHome)
		return
	}

	if err := fc.folderService.RenameFolder(c.Request.Context(), p.UserID, id, req.Name); err != nil {
		fc.logger.Error("RenameFolder() error", zap.Error(err))
	}

	c.Redirect(http.StatusFound, RouteHome)
}

func (fc *FolderController) DeleteFolderHandler(c *gin.Context) {
	p, _ := authctx.FromContext(c.Request.Context())

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusFound, RouteHome)
		return
	}

	if err := fc.folderService.DeleteFolder(c.Request.Context(), p.UserID, id); err != nil {
		fc.logger.Error("DeleteFolder() error", zap.Error(err))
	}

	c.Redirect(http.StatusFound, RouteHome)
}
