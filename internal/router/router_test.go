package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adoptions/internal/config"
	"adoptions/internal/handler"
	"adoptions/internal/metrics"
	"adoptions/internal/repository"
	"adoptions/internal/repository/memory"
	"adoptions/internal/router"
	"adoptions/internal/service"
	"adoptions/mocks"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	kv := memory.NewKVStore()
	records := repository.NewRecordStore(kv, "", m)
	settings := service.NewSettingsService(kv, service.SettingsDefaults{Provider: "openai", Providers: []string{"openai"}}, false, nil)
	queue := service.NewProcessingQueue(new(mocks.MockTextExtractor), new(mocks.MockAnalyzer), settings,
		service.ProcessingQueueConfig{MaxFileSize: 1 << 20}, m, nil)
	t.Cleanup(queue.Close)

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Extractor: config.ExtractorConfig{MaxFileSizeMB: 1},
	}
	return router.Setup(cfg, router.Handlers{
		Queue:     handler.NewQueueHandler(queue, service.NewUploadService(queue, nil, &config.S3Config{}, 1<<20, nil), 1<<20, nil),
		Review:    handler.NewReviewHandler(service.NewReviewWorkflow(queue, records, nil, nil)),
		Records:   handler.NewRecordHandler(service.NewRecordService(records, nil)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(records, kv)),
		Settings:  handler.NewSettingsHandler(settings),
		Health:    handler.NewHealthHandler(kv),
	}, reg, zap.NewNop())
}

func serve(r *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Operational(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/readyz", nil).Code)

	w := serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "adoptions_records_stored")
}

func TestRouter_ImportThenExportAndDashboard(t *testing.T) {
	r := newTestRouter(t)
	payload := []byte(`[{"id":"r1","institution":"Università di Milano","subject":"Biochimica",
		"adoptedTexts":[{"id":"t1","title":"Principi di biochimica","authors":["Lehninger"],"publisher":"Zanichelli","isPrincipal":true,"category":"principal"}]}]`)

	w := serve(r, http.MethodPost, "/api/v1/records/import?mode=overwrite", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/records/export.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exported []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Len(t, exported, 1)

	w = serve(r, http.MethodGet, "/api/v1/records/r1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/dashboard/stats?highlight=Zanichelli", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"highlightTexts":1`)

	w = serve(r, http.MethodDelete, "/api/v1/records/r1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, http.MethodGet, "/api/v1/records/r1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_QueueAndReviewWithoutCredentials(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/v1/queue/text", []byte(`{"name":"corso","text":"Biochimica"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/queue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fileName":"corso.txt"`)

	w = serve(r, http.MethodGet, "/api/v1/review/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SettingsAndCatalog(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodPut, "/api/v1/settings", []byte(`{"apiKey":"sk-live-1234"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "sk-live")

	w = serve(r, http.MethodGet, "/api/v1/degree-classes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/records", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
