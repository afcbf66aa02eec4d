package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"adframes/internal/csvexport"
	"adframes/internal/domain"
	"adframes/internal/middleware"
	"adframes/internal/service"
)

// UploadHandler handles the bulk inventory upload endpoints.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Create handles POST /api/v1/uploads
// @Summary Start an upload session
// @Description Upload a CSV, TSV or XLSX file. Headers are auto-mapped to the inventory schema.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Inventory file (csv, tsv, txt, xlsx)"
// @Param encoding formData string false "Text encoding to try first (e.g. windows-1252)"
// @Success 201 {object} Response{data=domain.UploadSession} "Session created"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "File unreadable"
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Create(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	sess, err := h.uploadService.Create(c.Request.Context(), service.CreateUploadInput{
		OwnerID:    ownerID,
		OwnerEmail: middleware.GetEmail(c),
		FileName:   header.Filename,
		Size:       header.Size,
		File:       file,
		Encoding:   c.PostForm("encoding"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, sess)
}

// Get handles GET /api/v1/uploads/:id
// @Summary Get upload session status
// @Description Returns the session state, mapping, last preview and commit progress.
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.UploadSession}
// @Failure 404 {object} ErrorResponseBody "Session not found or expired"
// @Security BearerAuth
// @Router /uploads/{id} [get]
func (h *UploadHandler) Get(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := h.uploadService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// UpdateMapping handles PUT /api/v1/uploads/:id/mapping
// @Summary Override column mapping
// @Description Assign file headers to canonical fields. An empty header unmaps the field.
// @Tags uploads
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body UpdateMappingRequest true "Field to header overrides"
// @Success 200 {object} Response{data=domain.UploadSession}
// @Failure 400 {object} ErrorResponseBody "Unknown field or header"
// @Failure 409 {object} ErrorResponseBody "Session is committing or finished"
// @Security BearerAuth
// @Router /uploads/{id}/mapping [put]
func (h *UploadHandler) UpdateMapping(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sess, err := h.uploadService.UpdateMapping(c.Request.Context(), ownerID, id, req.Mapping)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Preview handles POST /api/v1/uploads/:id/preview
// @Summary Validate and preview
// @Description Groups rows, validates every group, checks for existing identifiers and returns the first transformed records.
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.UploadSession}
// @Failure 422 {object} ErrorResponseBody "Required columns are not mapped"
// @Security BearerAuth
// @Router /uploads/{id}/preview [post]
func (h *UploadHandler) Preview(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := h.uploadService.Preview(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// Commit handles POST /api/v1/uploads/:id/commit
// @Summary Commit valid records
// @Description Inserts every valid record. Failed inserts are reported per record and do not undo the others.
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=domain.UploadSession}
// @Failure 409 {object} ErrorResponseBody "Duplicate identifiers or commit already running"
// @Failure 422 {object} ErrorResponseBody "Nothing to commit"
// @Security BearerAuth
// @Router /uploads/{id}/commit [post]
func (h *UploadHandler) Commit(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := h.uploadService.Commit(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// ErrorReport handles GET /api/v1/uploads/:id/errors.csv
// @Summary Download error report
// @Description CSV of validation and persistence errors (Row, Identifier, Field, Value, Error).
// @Tags uploads
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} ErrorResponseBody "Session not found or expired"
// @Security BearerAuth
// @Router /uploads/{id}/errors.csv [get]
func (h *UploadHandler) ErrorReport(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := h.uploadService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.uploadService.WriteErrorReport(c.Request.Context(), ownerID, id, &buf); err != nil {
		HandleError(c, err)
		return
	}

	base := strings.TrimSuffix(sess.FileName, filepath.Ext(sess.FileName))
	filename := csvexport.BuildFilename(base+"_errors", "csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Cancel handles DELETE /api/v1/uploads/:id
// @Summary Cancel an upload session
// @Description Discards the session. Records already inserted by a running commit stay.
// @Tags uploads
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Session not found or expired"
// @Security BearerAuth
// @Router /uploads/{id} [delete]
func (h *UploadHandler) Cancel(c *gin.Context) {
	ownerID, ok := extractOwner(c)
	if !ok {
		return
	}
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.uploadService.Cancel(c.Request.Context(), ownerID, id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "upload session discarded"})
}
