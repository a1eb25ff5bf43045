package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/handler"
	"adoptions/mocks"
)

func TestRecordHandler_ListBindsFilters(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	records.On("List", mock.Anything, dashboard.Filters{Institution: "Università di Milano", Search: "lehninger"}).
		Return([]domain.AdoptionRecord{{ID: "r1"}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/records?institution=Universit%C3%A0+di+Milano&q=lehninger", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	records.AssertExpectations(t)
}

func TestRecordHandler_GetByID_NotFound(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	records.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrRecordNotFound)

	c, w := newContext(http.MethodGet, "/api/v1/records/missing", nil)
	c.AddParam("id", "missing")
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", decode(t, w).Error.Code)
}

func TestRecordHandler_ExportCSV(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	records.On("ExportCSV", mock.Anything, dashboard.Filters{}, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(2).(io.Writer), "Record ID\nr1\n")
		}).Return(nil)

	c, w := newContext(http.MethodGet, "/api/v1/records/export.csv", nil)
	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="adoptions_`))
	assert.Equal(t, "Record ID\nr1\n", w.Body.String())
}

func TestRecordHandler_ExportXLSX_GroupBy(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	records.On("ExportXLSX", mock.Anything, dashboard.Filters{}, domain.GroupByInstructor).Return([]byte("PK"), nil)

	c, w := newContext(http.MethodGet, "/api/v1/records/export.xlsx?group_by=instructor", nil)
	h.ExportXLSX(c)

	assert.Equal(t, http.StatusOK, w.Code)
	records.AssertExpectations(t)
}

func TestRecordHandler_ImportRawBody(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	payload := []byte(`[{"id":"r1"}]`)
	records.On("Import", mock.Anything, payload, domain.ImportModeOverwrite).Return(1, nil)

	c, w := newContext(http.MethodPost, "/api/v1/records/import?mode=overwrite", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Import(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":1`)
}

func TestRecordHandler_ImportMultipart(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	payload := []byte(`[{"id":"r1"},{"id":"r2"}]`)
	records.On("Import", mock.Anything, payload, domain.ImportModeAppend).Return(2, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "adoptions.json")
	require.NoError(t, err)
	_, _ = fw.Write(payload)
	require.NoError(t, mw.Close())

	c, w := newContext(http.MethodPost, "/api/v1/records/import", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	h.Import(c)

	assert.Equal(t, http.StatusOK, w.Code)
	records.AssertExpectations(t)
}

func TestRecordHandler_ImportInvalid(t *testing.T) {
	records := new(mocks.MockRecordService)
	h := handler.NewRecordHandler(records)
	records.On("Import", mock.Anything, mock.Anything, domain.ImportMode("merge")).Return(0, domain.ErrInvalidImportMode)

	c, w := newContext(http.MethodPost, "/api/v1/records/import?mode=merge", strings.NewReader("[]"))
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
