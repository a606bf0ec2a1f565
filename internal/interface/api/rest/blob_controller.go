package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-uploader/internal/application/ports"
	"file-uploader/internal/domain/blob"
)

// BlobController serves signed URLs minted by the local backend.
type BlobController struct {
	logger *zap.Logger
	blobs  ports.BlobServer
}

func NewBlobController(r *gin.Engine, logger *zap.Logger, blobs ports.BlobServer) *BlobController {
	bc := &BlobController{
		logger: logger,
		blobs:  blobs,
	}

	r.GET(RouteBlob, bc.GetBlobHandler)

	return bc
}

func (bc *BlobController) GetBlobHandler(c *gin.Context) {
	key, name, err := bc.blobs.Resolve(c.Param("token"))
	if err != nil {
		if errors.Is(err, blob.ErrURLExpired) {
			c.JSON(http.StatusGone, gin.H{"error": "link expired"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	obj, err := bc.blobs.Open(c.Request.Context(), key, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open blob"})
		bc.logger.Error("Open() error", zap.Error(err), zap.String("storage_key", key))
		return
	}

	if obj.ContentDisposition == "" {
		obj.ContentDisposition = blob.ContentDisposition(name)
	}
	serveObject(c, obj)
}
