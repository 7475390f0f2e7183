package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
	"github.com/smart-college/college-api/pkg/storage"
)

// UploadHandler stores assignment attachments and submission files. The
// returned path is what callers put in an assignment's attachment or a
// submission's file field.
type UploadHandler struct {
	store   *storage.LocalStorage
	maxSize int64
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(store *storage.LocalStorage, maxSize int64) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize}
}

// Upload godoc
// @Summary Upload a file
// @Tags Assignments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to store"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "missing file field"))
		return
	}
	if h.maxSize > 0 && header.Size > h.maxSize {
		response.Error(c, appErrors.New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the upload size limit"))
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "unreadable upload"))
		return
	}
	defer src.Close()

	name := filepath.Join("uploads", uuid.NewString()+filepath.Ext(header.Filename))
	stored, err := h.store.SaveStream(name, src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return
	}
	response.Created(c, gin.H{"path": stored, "filename": header.Filename, "size": header.Size})
}
