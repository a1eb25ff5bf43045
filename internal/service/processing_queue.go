package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adoptions/internal/domain"
	"adoptions/internal/extract"
	"adoptions/internal/metrics"
	"adoptions/internal/port"
)

const pastedTextFileName = "pasted-text.txt"

// ProcessingQueueConfig holds settings for the processing queue.
type ProcessingQueueConfig struct {
	ItemDelay   time.Duration
	Concurrency int
	MaxFileSize int64
}

// QueueSnapshot is an immutable view of the queue published to subscribers.
type QueueSnapshot struct {
	Items   []domain.QueueItem `json:"items"`
	Counts  map[string]int     `json:"counts"`
	Running bool               `json:"running"`
}

// ProcessingQueue moves queue items through pending, analyzing and reviewing.
// A single scheduler goroutine decides what runs next; commands and worker
// completions only wake it.
type ProcessingQueue struct {
	extractor port.TextExtractor
	analyzer  port.Analyzer
	creds     port.CredentialsProvider
	cfg       ProcessingQueueConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu        sync.Mutex
	items     []*domain.QueueItem
	running   bool
	halted    bool
	inFlight  int
	reviewSeq uint64
	subs      map[uint64]*subscriber
	nextSubID uint64

	wake      chan struct{}
	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewProcessingQueue creates a ProcessingQueue. Call Start to run the scheduler.
func NewProcessingQueue(
	extractor port.TextExtractor,
	analyzer port.Analyzer,
	creds port.CredentialsProvider,
	cfg ProcessingQueueConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ProcessingQueue {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessingQueue{
		extractor: extractor,
		analyzer:  analyzer,
		creds:     creds,
		cfg:       cfg,
		metrics:   m,
		logger:    logger.Named("queue"),
		subs:      make(map[uint64]*subscriber),
		wake:      make(chan struct{}, 1),
		closing:   make(chan struct{}),
	}
}

// Start runs the scheduler until ctx is canceled. It blocks until all
// in-flight items have finished.
func (q *ProcessingQueue) Start(ctx context.Context) {
	q.logger.Info("scheduler started",
		zap.Duration("item_delay", q.cfg.ItemDelay),
		zap.Int("concurrency", q.cfg.Concurrency))

	workCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("shutting down, waiting for in-flight items")
			q.Close()
			q.logger.Info("shutdown complete")
			return
		case <-q.closing:
			q.wg.Wait()
			return
		case <-q.wake:
			q.dispatch(workCtx)
		}
	}
}

// Close stops pending pauses and waits for in-flight items. Subscribers are
// detached.
func (q *ProcessingQueue) Close() {
	q.closeOnce.Do(func() { close(q.closing) })
	q.wg.Wait()

	q.mu.Lock()
	subs := q.subs
	q.subs = make(map[uint64]*subscriber)
	q.mu.Unlock()
	for _, s := range subs {
		s.stop()
	}
}

func (q *ProcessingQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// dispatch claims the earliest pending items up to the concurrency limit.
func (q *ProcessingQueue) dispatch(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}
	changed := false
	for q.inFlight < q.cfg.Concurrency {
		item := q.nextPendingLocked()
		if item == nil {
			break
		}
		item.Status = domain.QueueStatusAnalyzing
		item.Progress = domain.ProgressStarted
		item.Attempts++
		q.metrics.QueueTransition(string(domain.QueueStatusAnalyzing))
		q.inFlight++
		changed = true

		claimed := item.Clone()
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.process(ctx, claimed)
		}()
	}
	if q.inFlight == 0 && q.nextPendingLocked() == nil {
		q.running = false
		changed = true
		q.logger.Debug("queue idle")
	}
	if changed {
		q.publishLocked()
	}
}

func (q *ProcessingQueue) nextPendingLocked() *domain.QueueItem {
	for _, item := range q.items {
		if item.Status == domain.QueueStatusPending {
			return item
		}
	}
	return nil
}

func (q *ProcessingQueue) process(ctx context.Context, item domain.QueueItem) {
	log := q.logger.With(zap.String("item_id", item.ID), zap.String("file_name", item.Source.FileName))
	log.Info("processing item", zap.Int("attempt", item.Attempts))

	start := time.Now()
	record, err := q.analyze(ctx, item)
	q.metrics.AnalysisDone(err == nil, time.Since(start))

	q.mu.Lock()
	if cur := q.findLocked(item.ID); cur == nil {
		log.Info("item removed while analyzing, dropping result")
	} else if err != nil {
		log.Warn("item failed", zap.Error(err))
		cur.Status = domain.QueueStatusError
		cur.Progress = 0
		cur.Error = err.Error()
		cur.Result = nil
		q.metrics.QueueTransition(string(domain.QueueStatusError))
	} else {
		log.Info("item ready for review", zap.Duration("elapsed", time.Since(start)))
		q.reviewSeq++
		cur.Status = domain.QueueStatusReviewing
		cur.Progress = domain.ProgressDone
		cur.Error = ""
		cur.Result = record
		cur.ReviewSeq = q.reviewSeq
		q.metrics.QueueTransition(string(domain.QueueStatusReviewing))
	}
	q.publishLocked()
	q.mu.Unlock()

	if q.cfg.ItemDelay > 0 {
		t := time.NewTimer(q.cfg.ItemDelay)
		select {
		case <-t.C:
		case <-q.closing:
			t.Stop()
		}
	}

	q.mu.Lock()
	q.inFlight--
	q.mu.Unlock()
	q.signal()
}

func (q *ProcessingQueue) analyze(ctx context.Context, item domain.QueueItem) (*domain.AdoptionRecord, error) {
	creds, err := q.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	text, err := q.extractor.Extract(ctx, port.ExtractInput{
		FileName:    item.Source.FileName,
		ContentType: item.Source.ContentType,
		Data:        item.Source.Data,
		Text:        item.Source.Text,
	})
	if err != nil {
		return nil, err
	}
	q.setProgress(item.ID, domain.ProgressExtracted)

	record, err := q.analyzer.Analyze(ctx, port.AnalyzeInput{
		Text:        text,
		FileName:    item.Source.FileName,
		Credentials: creds,
	})
	if err != nil {
		return nil, err
	}
	q.setProgress(item.ID, domain.ProgressAnalyzed)
	return record, nil
}

func (q *ProcessingQueue) setProgress(id string, progress int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if item := q.findLocked(id); item != nil && item.Status == domain.QueueStatusAnalyzing {
		item.Progress = progress
		q.publishLocked()
	}
}

// Enqueue appends one item per source in input order. Sources that fail the
// pre-check are appended in the error state. The run loop is started unless
// the queue was stopped explicitly.
func (q *ProcessingQueue) Enqueue(sources []domain.Source) []domain.QueueItem {
	added := make([]domain.QueueItem, 0, len(sources))

	q.mu.Lock()
	for _, src := range sources {
		item := &domain.QueueItem{
			ID:       uuid.New().String(),
			Source:   src,
			Status:   domain.QueueStatusPending,
			Progress: 0,
			AddedAt:  time.Now().UTC(),
		}
		if err := q.precheck(&item.Source); err != nil {
			item.Status = domain.QueueStatusError
			item.Error = err.Error()
			q.metrics.QueueTransition(string(domain.QueueStatusError))
		} else {
			q.metrics.QueueTransition(string(domain.QueueStatusPending))
		}
		q.items = append(q.items, item)
		added = append(added, item.Clone())
	}
	if !q.halted {
		q.running = true
	}
	q.publishLocked()
	q.mu.Unlock()

	q.logger.Info("items enqueued", zap.Int("count", len(added)))
	q.signal()
	return added
}

func (q *ProcessingQueue) precheck(src *domain.Source) error {
	if src.Kind == domain.SourceKindText {
		if src.FileName == "" {
			src.FileName = pastedTextFileName
		}
		if strings.TrimSpace(src.Text) == "" {
			return domain.ErrEmptyDocument
		}
		src.ContentType = "text/plain"
		src.Size = int64(len(src.Text))
		return nil
	}
	src.Kind = domain.SourceKindFile
	src.Size = int64(len(src.Data))
	contentType, err := extract.Precheck(src.FileName, src.Data, q.cfg.MaxFileSize)
	if err != nil {
		return err
	}
	src.ContentType = contentType
	return nil
}

// Run resumes advancement. Calling it while running has no effect.
func (q *ProcessingQueue) Run() {
	q.mu.Lock()
	q.halted = false
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.publishLocked()
	q.mu.Unlock()
	q.signal()
}

// Stop halts advancement once in-flight items finish. In-flight work is not
// canceled. Pending items, including ones enqueued later, wait for Run.
func (q *ProcessingQueue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.halted = true
	if !q.running {
		return
	}
	q.running = false
	q.publishLocked()
}

// RetryFailed resets every errored item to pending and starts the run loop.
// It returns the number of items reset.
func (q *ProcessingQueue) RetryFailed() int {
	q.mu.Lock()
	n := 0
	for _, item := range q.items {
		if item.Status != domain.QueueStatusError {
			continue
		}
		// Items rejected by the pre-check have nothing to retry with.
		if err := q.precheck(&item.Source); err != nil {
			continue
		}
		item.Status = domain.QueueStatusPending
		item.Progress = 0
		item.Error = ""
		item.Result = nil
		q.metrics.QueueTransition(string(domain.QueueStatusPending))
		n++
	}
	if n > 0 {
		q.halted = false
		q.running = true
		q.publishLocked()
	}
	q.mu.Unlock()

	if n > 0 {
		q.signal()
	}
	return n
}

// RemoveCompleted drops completed and errored items.
func (q *ProcessingQueue) RemoveCompleted() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	for _, item := range q.items {
		if !item.Status.Terminal() {
			kept = append(kept, item)
		}
	}
	removed := len(q.items) - len(kept)
	clear(q.items[len(kept):])
	q.items = kept
	if removed > 0 {
		q.publishLocked()
	}
	return removed
}

// Clear removes every item and stops the run loop. Results of in-flight items
// are discarded when they finish.
func (q *ProcessingQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.running = false
	q.halted = false
	q.publishLocked()
}

// NextForReview returns the reviewing item that entered review first.
func (q *ProcessingQueue) NextForReview() (domain.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var next *domain.QueueItem
	for _, item := range q.items {
		if item.Status != domain.QueueStatusReviewing {
			continue
		}
		if next == nil || item.ReviewSeq < next.ReviewSeq {
			next = item
		}
	}
	if next == nil {
		return domain.QueueItem{}, false
	}
	return next.Clone(), true
}

// Get returns a copy of the item with the given id.
func (q *ProcessingQueue) Get(id string) (domain.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item := q.findLocked(id)
	if item == nil {
		return domain.QueueItem{}, domain.ErrQueueItemNotFound
	}
	return item.Clone(), nil
}

// MarkCompleted moves a reviewing item to completed with the confirmed record.
func (q *ProcessingQueue) MarkCompleted(id string, record *domain.AdoptionRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := q.findLocked(id)
	if item == nil {
		return domain.ErrQueueItemNotFound
	}
	if item.Status != domain.QueueStatusReviewing {
		return domain.ErrItemNotReviewable
	}
	item.Status = domain.QueueStatusCompleted
	item.Progress = domain.ProgressDone
	item.Result = record.Clone()
	q.metrics.QueueTransition(string(domain.QueueStatusCompleted))
	q.publishLocked()
	return nil
}

// Remove deletes a single item.
func (q *ProcessingQueue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.publishLocked()
			return nil
		}
	}
	return domain.ErrQueueItemNotFound
}

// Snapshot returns the current state.
func (q *ProcessingQueue) Snapshot() QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

func (q *ProcessingQueue) findLocked(id string) *domain.QueueItem {
	for _, item := range q.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (q *ProcessingQueue) snapshotLocked() QueueSnapshot {
	snap := QueueSnapshot{
		Items:   make([]domain.QueueItem, len(q.items)),
		Counts:  make(map[string]int),
		Running: q.running,
	}
	for i, item := range q.items {
		snap.Items[i] = item.Clone()
		snap.Counts[string(item.Status)]++
	}
	return snap
}

// publishLocked queues a snapshot for every subscriber. Callbacks run on the
// subscribers' own goroutines, never under q.mu.
func (q *ProcessingQueue) publishLocked() {
	snap := q.snapshotLocked()
	q.metrics.QueueCounts(snap.Counts)
	for _, s := range q.subs {
		s.push(snap)
	}
}

// Subscribe registers fn to receive a snapshot after every state change,
// starting with the current state. Snapshots reach each subscriber in order.
func (q *ProcessingQueue) Subscribe(fn func(QueueSnapshot)) (unsubscribe func()) {
	s := newSubscriber(fn)

	q.mu.Lock()
	q.nextSubID++
	id := q.nextSubID
	q.subs[id] = s
	s.push(q.snapshotLocked())
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			delete(q.subs, id)
			q.mu.Unlock()
			s.stop()
		})
	}
}

// subscriber delivers snapshots to one callback through an unbounded mailbox.
type subscriber struct {
	fn      func(QueueSnapshot)
	mu      sync.Mutex
	pending []QueueSnapshot
	notify  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

func newSubscriber(fn func(QueueSnapshot)) *subscriber {
	s := &subscriber{
		fn:     fn,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *subscriber) push(snap QueueSnapshot) {
	s.mu.Lock()
	s.pending = append(s.pending, snap)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.stopped.Do(func() { close(s.done) })
}

func (s *subscriber) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()
		for _, snap := range batch {
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(snap)
		}
	}
}
