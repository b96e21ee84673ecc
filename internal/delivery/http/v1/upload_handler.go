package v1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/imaging"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadUC domain.UploadUsecase
}

func NewUploadHandler(r *gin.RouterGroup, uploadUC domain.UploadUsecase) {
	handler := &UploadHandler{uploadUC: uploadUC}

	docs := r.Group("/applications/:id/documents")
	{
		docs.POST("/:slot", handler.Upload)
		docs.GET("/:slot/progress", handler.Progress)
		docs.DELETE("/additional", handler.RemoveAdditional)
	}

	r.POST("/applications/:id/photo", handler.UploadPhoto)
}

// Upload godoc
// @Summary      Upload a document into a slot
// @Description  Multipart upload. Named slots replace in place; the additional slot appends up to its cap. Images are downscaled before storage.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int     true  "Application ID"
// @Param        slot  path      string  true  "Document slot"
// @Param        file  formData  file    true  "Document file"
// @Success      200   {object}  response.Response{data=domain.UploadResult}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /applications/{id}/documents/{slot} [post]
// @Security     BearerAuth
func (h *UploadHandler) Upload(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	slot := domain.DocumentSlot(c.Param("slot"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A file field is required"))
		return
	}
	if fileHeader.Size > domain.MaxUploadBytes {
		c.Error(apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", domain.MaxUploadBytes>>20)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	size := fileHeader.Size
	var body io.Reader = file

	// Camera photos of documents routinely arrive at full sensor resolution;
	// shrink them before they hit the size check and the bucket.
	if strings.HasPrefix(contentType, "image/") {
		data, err := io.ReadAll(io.LimitReader(file, domain.MaxUploadBytes+1))
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		if resized, err := imaging.Downscale(data, contentType, imaging.MaxDimension); err == nil {
			data = resized
		}
		size = int64(len(data))
		body = bytes.NewReader(data)
	}

	result, err := h.uploadUC.Upload(c.Request.Context(), &domain.UploadRequest{
		CandidateID:   userID,
		ApplicationID: appID,
		Slot:          slot,
		Filename:      fileHeader.Filename,
		ContentType:   contentType,
		Size:          size,
		Body:          body,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document uploaded", result)
}

// UploadPhoto godoc
// @Summary      Upload a profile photo
// @Description  JPEG/PNG only. The photo is downscaled before storage and its reference is written onto the personal profile.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Application ID"
// @Param        file  formData  file  true  "Photo file"
// @Success      200   {object}  response.Response{data=domain.UploadResult}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /applications/{id}/photo [post]
// @Security     BearerAuth
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A file field is required"))
		return
	}
	if fileHeader.Size > domain.MaxUploadBytes {
		c.Error(apperror.BadRequest(fmt.Sprintf("File exceeds the %d MB size limit", domain.MaxUploadBytes>>20)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.Error(apperror.BadRequest("Profile photo must be a JPEG or PNG image"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxUploadBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if resized, err := imaging.Downscale(data, contentType, imaging.MaxDimension); err == nil {
		data = resized
	}

	result, err := h.uploadUC.UploadPhoto(c.Request.Context(), &domain.UploadRequest{
		CandidateID:   userID,
		ApplicationID: appID,
		Slot:          domain.SlotPhoto,
		Filename:      fileHeader.Filename,
		ContentType:   contentType,
		Size:          int64(len(data)),
		Body:          bytes.NewReader(data),
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Photo uploaded", result)
}

// Progress godoc
// @Summary      Poll upload progress for a slot
// @Description  Percentages are monotonically non-decreasing per upload; a re-upload restarts the counter
// @Tags         documents
// @Produce      json
// @Param        id    path      int     true  "Application ID"
// @Param        slot  path      string  true  "Document slot"
// @Success      200   {object}  response.Response{data=domain.UploadProgress}
// @Failure      404   {object}  response.Response
// @Router       /applications/{id}/documents/{slot}/progress [get]
// @Security     BearerAuth
func (h *UploadHandler) Progress(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}
	slot := domain.DocumentSlot(c.Param("slot"))

	progress, ok := h.uploadUC.Progress(userID, appID, slot)
	if !ok {
		c.Error(apperror.NotFound("No upload in progress for this slot"))
		return
	}

	response.Success(c, http.StatusOK, "Upload progress", progress)
}

// RemoveAdditional godoc
// @Summary      Remove one additional file
// @Description  Requires confirm=true; removal is immediate and not undoable
// @Tags         documents
// @Produce      json
// @Param        id       path   int     true  "Application ID"
// @Param        name     query  string  true  "File name as uploaded"
// @Param        confirm  query  bool    true  "Confirmation"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/{id}/documents/additional [delete]
// @Security     BearerAuth
func (h *UploadHandler) RemoveAdditional(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	name := c.Query("name")
	if name == "" {
		c.Error(apperror.BadRequest("A file name is required"))
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.uploadUC.RemoveAdditionalFile(c.Request.Context(), userID, appID, name, confirmed); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "File removed", nil)
}
