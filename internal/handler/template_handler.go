package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"adframes/internal/csvexport"
	"adframes/internal/ingest/mapping"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SchemaHandler serves the canonical inventory schema and the upload template.
type SchemaHandler struct {
	fields []mapping.FieldSpec
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(fields []mapping.FieldSpec) *SchemaHandler {
	return &SchemaHandler{fields: fields}
}

// Schema handles GET /api/v1/schema
// @Summary Inventory schema
// @Description Canonical fields with their labels, aliases and whether they are required.
// @Tags schema
// @Produce json
// @Success 200 {object} Response{data=[]mapping.FieldSpec}
// @Router /schema [get]
func (h *SchemaHandler) Schema(c *gin.Context) {
	RespondOK(c, h.fields)
}

// Template handles GET /api/v1/templates/inventory
// @Summary Download upload template
// @Description Canonical headers and two example rows, as CSV (UTF-8 with BOM) or XLSX.
// @Tags schema
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Template file"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Router /templates/inventory [get]
func (h *SchemaHandler) Template(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case "csv":
		err = csvexport.WriteTemplateCSV(&buf, h.fields)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		err = csvexport.WriteTemplateXLSX(&buf, h.fields)
		contentType = xlsxContentType
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}
	if err != nil {
		HandleError(c, fmt.Errorf("rendering %s template: %w", format, err))
		return
	}

	filename := csvexport.BuildFilename("inventory_template", format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
