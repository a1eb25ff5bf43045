package handler_test

import (
	"bufio"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adoptions/internal/domain"
	"adoptions/internal/handler"
	"adoptions/internal/service"
	"adoptions/mocks"
)

func newIdleQueue(t *testing.T) *service.ProcessingQueue {
	t.Helper()
	q := service.NewProcessingQueue(new(mocks.MockTextExtractor), new(mocks.MockAnalyzer),
		new(mocks.MockCredentialsProvider), service.ProcessingQueueConfig{MaxFileSize: 1 << 10}, nil, nil)
	t.Cleanup(q.Close)
	return q
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestQueueHandler_UploadFiles(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewQueueHandler(newIdleQueue(t), uploads, 8, nil)

	uploads.On("EnqueueFiles", mock.Anything, mock.MatchedBy(func(files []service.UploadFile) bool {
		// The reader stops one byte past the limit.
		return len(files) == 1 && files[0].FileName == "big.txt" && len(files[0].Data) == 9
	})).Return([]domain.QueueItem{{ID: "q1", Status: domain.QueueStatusError, Error: "file exceeds maximum allowed size"}})

	body, contentType := multipartBody(t, map[string]string{"big.txt": strings.Repeat("x", 64)})
	c, w := newContext(http.MethodPost, "/api/v1/queue/files", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.UploadFiles(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	uploads.AssertExpectations(t)
}

func TestQueueHandler_UploadFiles_NoFiles(t *testing.T) {
	h := handler.NewQueueHandler(newIdleQueue(t), new(mocks.MockUploadService), 1<<10, nil)

	body, contentType := multipartBody(t, nil)
	c, w := newContext(http.MethodPost, "/api/v1/queue/files", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.UploadFiles(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
}

func TestQueueHandler_EnqueueText(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewQueueHandler(newIdleQueue(t), uploads, 1<<10, nil)
	uploads.On("EnqueueText", mock.Anything, "Biochimica", "Corso di Biochimica").
		Return(domain.QueueItem{ID: "q1", Status: domain.QueueStatusPending})

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/queue/text",
		handler.EnqueueTextRequest{Name: "Biochimica", Text: "Corso di Biochimica"})
	h.EnqueueText(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	uploads.AssertExpectations(t)
}

func TestQueueHandler_EnqueueText_Blank(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewQueueHandler(newIdleQueue(t), uploads, 1<<10, nil)
	uploads.On("EnqueueText", mock.Anything, "", "   ").
		Return(domain.QueueItem{ID: "q1", Status: domain.QueueStatusError, Error: "document is empty"})

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/queue/text", handler.EnqueueTextRequest{Text: "   "})
	h.EnqueueText(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueHandler_StopRetryClear(t *testing.T) {
	q := newIdleQueue(t)
	q.Enqueue([]domain.Source{{Kind: domain.SourceKindText, FileName: "a.txt", Text: "corso"}})
	h := handler.NewQueueHandler(q, new(mocks.MockUploadService), 1<<10, nil)

	c, w := newContext(http.MethodPost, "/api/v1/queue/stop", nil)
	h.Stop(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, q.Snapshot().Running)

	c, w = newContext(http.MethodPost, "/api/v1/queue/retry", nil)
	h.Retry(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	c, w = newContext(http.MethodDelete, "/api/v1/queue", nil)
	h.Clear(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, q.Snapshot().Items)
}

func TestQueueHandler_EventsStreamsSnapshots(t *testing.T) {
	q := newIdleQueue(t)
	h := handler.NewQueueHandler(q, new(mocks.MockUploadService), 1<<10, nil)
	r := gin.New()
	r.GET("/events", h.Events)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			if line == "" {
				return strings.Join(lines, "\n")
			}
			lines = append(lines, line)
		}
	}

	first := readEvent()
	assert.Contains(t, first, "event:snapshot")
	assert.Contains(t, first, `"items":[]`)

	q.Enqueue([]domain.Source{{Kind: domain.SourceKindText, FileName: "a.txt", Text: "corso"}})
	second := readEvent()
	assert.Contains(t, second, `"fileName":"a.txt"`)
}
