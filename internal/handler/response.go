package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adframes/internal/domain"
	"adframes/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, tsv, txt, xlsx"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrFileUnreadable):
		return http.StatusUnprocessableEntity, "FILE_UNREADABLE", "file could not be read; try saving it as UTF-8 CSV or XLSX"
	case errors.Is(err, domain.ErrMissingRequiredColumn):
		return http.StatusUnprocessableEntity, "MISSING_REQUIRED_COLUMN", "required columns are not mapped"
	case errors.Is(err, domain.ErrUnknownHeader):
		return http.StatusBadRequest, "UNKNOWN_HEADER", "mapping references a header that is not in the file"
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD", "mapping references an unknown field"
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return http.StatusConflict, "DUPLICATE_IDENTIFIER", "some identifiers already exist in your inventory"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "upload session not found or expired"
	case errors.Is(err, domain.ErrInvalidSessionState):
		return http.StatusConflict, "INVALID_SESSION_STATE", "operation not allowed in the current session state"
	case errors.Is(err, domain.ErrNothingToCommit):
		return http.StatusUnprocessableEntity, "NOTHING_TO_COMMIT", "upload has no valid records to commit"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorDetails exposes the payload of typed domain errors.
func errorDetails(err error) interface{} {
	var missing *domain.MissingColumnsError
	if errors.As(err, &missing) {
		return gin.H{"fields": missing.Fields}
	}
	var dup *domain.DuplicateIdentifiersError
	if errors.As(err, &dup) {
		return gin.H{"identifiers": dup.Identifiers}
	}
	return nil
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Printf("[%s] internal error: %v", c.GetString(middleware.ContextKeyRequestID), err)
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg, Details: errorDetails(err)},
	})
}

// extractOwner returns the authenticated owner. Returns false if the owner
// context is missing (error response already written).
func extractOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing owner context")
		return uuid.Nil, false
	}
	return ownerID, true
}

// parseSessionID reads the :id path parameter.
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid upload session ID")
		return uuid.Nil, false
	}
	return id, true
}
