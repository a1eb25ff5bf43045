package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"adoptions/internal/csvexport"
	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/service"
)

const maxImportSize = 32 << 20

// RecordHandler handles persisted adoption record endpoints.
type RecordHandler struct {
	records service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// List handles GET /api/v1/records
// @Summary List adoption records
// @Tags records
// @Produce json
// @Param institution query string false "Institution"
// @Param degreeClass query string false "Degree class code"
// @Param degreeProgram query string false "Degree program"
// @Param subject query string false "Subject"
// @Param title query string false "Adopted text title"
// @Param q query string false "Free-text search"
// @Success 200 {object} Response{data=[]domain.AdoptionRecord,meta=Meta} "Records"
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	records, err := h.records.List(c.Request.Context(), f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, records, len(records))
}

// GetByID handles GET /api/v1/records/:id
// @Summary Get an adoption record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} Response{data=domain.AdoptionRecord} "Record"
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Router /records/{id} [get]
func (h *RecordHandler) GetByID(c *gin.Context) {
	record, err := h.records.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Delete handles DELETE /api/v1/records/:id
// @Summary Delete an adoption record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} Response "Deleted"
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": c.Param("id")})
}

// Clear handles DELETE /api/v1/records
// @Summary Delete all adoption records
// @Tags records
// @Produce json
// @Success 200 {object} Response "Cleared"
// @Router /records [delete]
func (h *RecordHandler) Clear(c *gin.Context) {
	if err := h.records.Clear(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"cleared": true})
}

// ExportJSON handles GET /api/v1/records/export.json
// @Summary Export records as JSON
// @Description Download every stored record as a JSON array suitable for import
// @Tags records
// @Produce json
// @Success 200 {array} domain.AdoptionRecord "JSON file"
// @Router /records/export.json [get]
func (h *RecordHandler) ExportJSON(c *gin.Context) {
	data, err := h.records.ExportJSON(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("adoptions", "json")+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ExportCSV handles GET /api/v1/records/export.csv
// @Summary Export records as CSV
// @Description One row per adopted text, UTF-8 with BOM. Accepts the list filters.
// @Tags records
// @Produce text/csv
// @Success 200 {file} file "CSV file"
// @Router /records/export.csv [get]
func (h *RecordHandler) ExportCSV(c *gin.Context) {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := h.records.ExportCSV(c.Request.Context(), f, &buf); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("adoptions", "csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/records/export.xlsx
// @Summary Export records as a spreadsheet
// @Description Workbook with one row per adopted text and a sheet of dashboard groups
// @Tags records
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param group_by query string false "Group sort: subject, institution, program, instructor"
// @Success 200 {file} file "XLSX file"
// @Router /records/export.xlsx [get]
func (h *RecordHandler) ExportXLSX(c *gin.Context) {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	data, err := h.records.ExportXLSX(c.Request.Context(), f, domain.ParseGroupBy(c.Query("group_by")))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("adoptions", "xlsx")+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Import handles POST /api/v1/records/import
// @Summary Import records
// @Description Import a JSON array of records, either appended (upsert by id) or replacing all stored records
// @Tags records
// @Accept json,multipart/form-data
// @Produce json
// @Param mode query string true "append or overwrite"
// @Param file formData file false "JSON export file"
// @Success 200 {object} Response{data=ImportResponse} "Import result"
// @Failure 400 {object} ErrorResponseBody "Invalid file or mode"
// @Router /records/import [post]
func (h *RecordHandler) Import(c *gin.Context) {
	mode := domain.ImportMode(c.DefaultQuery("mode", string(domain.ImportModeAppend)))

	var body io.Reader = c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read import file")
			return
		}
		defer func() { _ = f.Close() }()
		body = f
	}
	data, err := io.ReadAll(io.LimitReader(body, maxImportSize))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read import file")
		return
	}

	n, err := h.records.Import(c.Request.Context(), data, mode)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ImportResponse{Imported: n, Mode: mode})
}
