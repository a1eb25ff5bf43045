package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adoptions/internal/domain"
	"adoptions/internal/service"
)

// QueueController is the part of the processing queue exposed over HTTP.
type QueueController interface {
	Snapshot() service.QueueSnapshot
	Subscribe(fn func(service.QueueSnapshot)) (unsubscribe func())
	Run()
	Stop()
	RetryFailed() int
	RemoveCompleted() int
	Clear()
}

var _ QueueController = (*service.ProcessingQueue)(nil)

// QueueHandler handles upload and processing queue endpoints.
type QueueHandler struct {
	queue       QueueController
	uploads     service.UploadService
	maxFileSize int64
	heartbeat   time.Duration
	logger      *zap.Logger
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queue QueueController, uploads service.UploadService, maxFileSize int64, logger *zap.Logger) *QueueHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueHandler{
		queue:       queue,
		uploads:     uploads,
		maxFileSize: maxFileSize,
		heartbeat:   15 * time.Second,
		logger:      logger.Named("queue_handler"),
	}
}

// UploadFiles handles POST /api/v1/queue/files
// @Summary Upload syllabus files
// @Description Queue one or more PDF or TXT files for analysis. Files that fail the pre-check are queued in error state.
// @Tags queue
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Syllabus files (PDF or TXT)"
// @Success 201 {object} Response{data=[]domain.QueueItem} "Queued items"
// @Failure 400 {object} ErrorResponseBody "No files in request"
// @Router /queue/files [post]
func (h *QueueHandler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart form with files is required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "files field is required")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read "+fh.Filename)
			return
		}
		// One byte past the limit is enough for the pre-check to reject it.
		data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
		_ = f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read "+fh.Filename)
			return
		}
		files = append(files, service.UploadFile{FileName: fh.Filename, Data: data})
	}

	items := h.uploads.EnqueueFiles(c.Request.Context(), files)
	RespondCreated(c, items)
}

// EnqueueText handles POST /api/v1/queue/text
// @Summary Queue pasted text
// @Description Queue pasted syllabus text for analysis
// @Tags queue
// @Accept json
// @Produce json
// @Param request body EnqueueTextRequest true "Syllabus text"
// @Success 201 {object} Response{data=domain.QueueItem} "Queued item"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Router /queue/text [post]
func (h *QueueHandler) EnqueueText(c *gin.Context) {
	var req EnqueueTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	item := h.uploads.EnqueueText(c.Request.Context(), req.Name, req.Text)
	if item.Status == domain.QueueStatusError {
		RespondError(c, http.StatusBadRequest, "EMPTY_DOCUMENT", item.Error)
		return
	}
	RespondCreated(c, item)
}

// List handles GET /api/v1/queue
// @Summary Queue snapshot
// @Description Current items, per-status counts and whether the queue is running
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=service.QueueSnapshot} "Queue snapshot"
// @Router /queue [get]
func (h *QueueHandler) List(c *gin.Context) {
	RespondOK(c, h.queue.Snapshot())
}

// Events handles GET /api/v1/queue/events
// @Summary Stream queue snapshots
// @Description Server-sent events carrying a queue snapshot after every change
// @Tags queue
// @Produce text/event-stream
// @Success 200 {object} service.QueueSnapshot "Snapshot events"
// @Router /queue/events [get]
func (h *QueueHandler) Events(c *gin.Context) {
	snapshots := make(chan service.QueueSnapshot, 16)
	unsubscribe := h.queue.Subscribe(func(s service.QueueSnapshot) {
		select {
		case snapshots <- s:
		case <-c.Request.Context().Done():
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case s := <-snapshots:
			c.SSEvent("snapshot", s)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

// Run handles POST /api/v1/queue/run
// @Summary Start processing
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=service.QueueSnapshot} "Queue snapshot"
// @Router /queue/run [post]
func (h *QueueHandler) Run(c *gin.Context) {
	h.queue.Run()
	RespondOK(c, h.queue.Snapshot())
}

// Stop handles POST /api/v1/queue/stop
// @Summary Stop processing
// @Description Stop picking new items; the item being analyzed finishes
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=service.QueueSnapshot} "Queue snapshot"
// @Router /queue/stop [post]
func (h *QueueHandler) Stop(c *gin.Context) {
	h.queue.Stop()
	RespondOK(c, h.queue.Snapshot())
}

// Retry handles POST /api/v1/queue/retry
// @Summary Retry failed items
// @Description Reset failed items to pending and resume processing
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=CountResponse} "Number of items reset"
// @Router /queue/retry [post]
func (h *QueueHandler) Retry(c *gin.Context) {
	n := h.queue.RetryFailed()
	h.logger.Info("retry requested", zap.Int("count", n))
	RespondOK(c, CountResponse{Count: n})
}

// RemoveCompleted handles DELETE /api/v1/queue/completed
// @Summary Remove finished items
// @Description Remove completed and failed items from the queue
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=CountResponse} "Number of items removed"
// @Router /queue/completed [delete]
func (h *QueueHandler) RemoveCompleted(c *gin.Context) {
	RespondOK(c, CountResponse{Count: h.queue.RemoveCompleted()})
}

// Clear handles DELETE /api/v1/queue
// @Summary Clear the queue
// @Description Remove every item and stop processing
// @Tags queue
// @Produce json
// @Success 200 {object} Response{data=service.QueueSnapshot} "Queue snapshot"
// @Router /queue [delete]
func (h *QueueHandler) Clear(c *gin.Context) {
	h.queue.Clear()
	RespondOK(c, h.queue.Snapshot())
}
