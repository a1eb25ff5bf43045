package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adoptions/internal/domain"
	"adoptions/internal/port"
	"adoptions/internal/validator"
)

// ReviewQueue is the part of the processing queue the review workflow drives.
type ReviewQueue interface {
	NextForReview() (domain.QueueItem, bool)
	Get(id string) (domain.QueueItem, error)
	MarkCompleted(id string, record *domain.AdoptionRecord) error
	Remove(id string) error
}

var _ ReviewQueue = (*ProcessingQueue)(nil)

// Draft is the reviewer's working copy of a candidate record.
type Draft struct {
	ItemID string                 `json:"itemId"`
	Record *domain.AdoptionRecord `json:"record"`
}

func (d *Draft) clone() *Draft {
	if d == nil {
		return nil
	}
	return &Draft{ItemID: d.ItemID, Record: d.Record.Clone()}
}

// Outcome reports the result of confirming or discarding a draft and the view
// the operator should move to.
type Outcome struct {
	Record *domain.AdoptionRecord `json:"record,omitempty"`
	Next   *Draft                 `json:"next,omitempty"`
	View   domain.View            `json:"view"`
}

// ReviewWorkflow presents reviewing items one at a time and persists the
// confirmed records. It holds at most one active draft.
type ReviewWorkflow struct {
	queue     ReviewQueue
	store     port.RecordStore
	validator *validator.Engine
	logger    *zap.Logger

	mu    sync.Mutex
	draft *Draft
}

// NewReviewWorkflow creates a ReviewWorkflow.
func NewReviewWorkflow(queue ReviewQueue, store port.RecordStore, engine *validator.Engine, logger *zap.Logger) *ReviewWorkflow {
	if engine == nil {
		engine = validator.NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewWorkflow{
		queue:     queue,
		store:     store,
		validator: engine,
		logger:    logger.Named("review"),
	}
}

// Present makes the given reviewing item the active draft.
func (w *ReviewWorkflow) Present(itemID string) (*Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	item, err := w.queue.Get(itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.QueueStatusReviewing || item.Result == nil {
		return nil, domain.ErrItemNotReviewable
	}
	w.draft = newDraft(item)
	return w.draft.clone(), nil
}

// Current returns the active draft, presenting the next reviewing item when
// none is active.
func (w *ReviewWorkflow) Current() (*Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil && !w.presentNextLocked() {
		return nil, domain.ErrNoActiveReview
	}
	return w.draft.clone(), nil
}

func (w *ReviewWorkflow) presentNextLocked() bool {
	item, ok := w.queue.NextForReview()
	if !ok || item.Result == nil {
		w.draft = nil
		return false
	}
	w.draft = newDraft(item)
	return true
}

func newDraft(item domain.QueueItem) *Draft {
	record := item.Result.Clone()
	for i := range record.AdoptedTexts {
		if len(record.AdoptedTexts[i].Authors) == 0 {
			record.AdoptedTexts[i].Authors = []string{""}
		}
	}
	record.EnsurePrincipal()
	return &Draft{ItemID: item.ID, Record: record}
}

// edit runs fn against the active draft. The draft is left unchanged when fn
// fails.
func (w *ReviewWorkflow) edit(fn func(r *domain.AdoptionRecord) error) (*Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return nil, domain.ErrNoActiveReview
	}
	record := w.draft.Record.Clone()
	if err := fn(record); err != nil {
		return nil, err
	}
	w.draft.Record = record
	return w.draft.clone(), nil
}

// UpdateField sets a single field, addressed by a path such as "subject" or
// "adoptedTexts[1].authors[0]".
func (w *ReviewWorkflow) UpdateField(path string, value any) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		return applyField(r, path, value)
	})
}

// AddText appends an empty text entry.
func (w *ReviewWorkflow) AddText() (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		r.AdoptedTexts = append(r.AdoptedTexts, domain.TextEntry{
			ID:       uuid.New().String(),
			Authors:  []string{""},
			Category: domain.TextCategoryRecommended,
		})
		r.EnsurePrincipal()
		return nil
	})
}

// RemoveText deletes a text entry. Removing the principal promotes the first
// remaining entry.
func (w *ReviewWorkflow) RemoveText(textID string) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		idx := r.TextIndex(textID)
		if idx < 0 {
			return domain.ErrTextEntryNotFound
		}
		r.AdoptedTexts = append(r.AdoptedTexts[:idx], r.AdoptedTexts[idx+1:]...)
		r.EnsurePrincipal()
		return nil
	})
}

// MoveText moves a text entry to position index.
func (w *ReviewWorkflow) MoveText(textID string, index int) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		idx := r.TextIndex(textID)
		if idx < 0 {
			return domain.ErrTextEntryNotFound
		}
		if index < 0 || index >= len(r.AdoptedTexts) {
			return fmt.Errorf("%w: position %d out of range", domain.ErrInvalidFieldValue, index)
		}
		t := r.AdoptedTexts[idx]
		rest := append(r.AdoptedTexts[:idx:idx], r.AdoptedTexts[idx+1:]...)
		moved := make([]domain.TextEntry, 0, len(r.AdoptedTexts))
		moved = append(moved, rest[:index]...)
		moved = append(moved, t)
		moved = append(moved, rest[index:]...)
		r.AdoptedTexts = moved
		return nil
	})
}

// AddAuthor appends an empty author slot to a text.
func (w *ReviewWorkflow) AddAuthor(textID string) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		idx := r.TextIndex(textID)
		if idx < 0 {
			return domain.ErrTextEntryNotFound
		}
		r.AdoptedTexts[idx].Authors = append(r.AdoptedTexts[idx].Authors, "")
		return nil
	})
}

// RemoveAuthor deletes an author slot. The last slot is cleared instead of
// removed.
func (w *ReviewWorkflow) RemoveAuthor(textID string, index int) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		idx := r.TextIndex(textID)
		if idx < 0 {
			return domain.ErrTextEntryNotFound
		}
		t := &r.AdoptedTexts[idx]
		if index < 0 || index >= len(t.Authors) {
			return fmt.Errorf("%w: no author at index %d", domain.ErrInvalidFieldPath, index)
		}
		t.Authors = append(t.Authors[:index], t.Authors[index+1:]...)
		if len(t.Authors) == 0 {
			t.Authors = []string{""}
		}
		return nil
	})
}

// SetPrincipal makes textID the only principal text.
func (w *ReviewWorkflow) SetPrincipal(textID string) (*Draft, error) {
	return w.edit(func(r *domain.AdoptionRecord) error {
		return r.SetPrincipal(textID)
	})
}

// Validate checks the active draft without changing it.
func (w *ReviewWorkflow) Validate(ctx context.Context) (validator.Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return validator.Report{}, domain.ErrNoActiveReview
	}
	return w.validator.Validate(ctx, w.draft.Record), nil
}

// Confirm validates and persists the active draft, completes its queue item
// and presents the next reviewing item. On a store failure the draft and the
// item are left as they were.
func (w *ReviewWorkflow) Confirm(ctx context.Context) (*Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return nil, domain.ErrNoActiveReview
	}
	record := w.draft.Record.Clone()
	if err := w.validator.Check(ctx, record); err != nil {
		return nil, err
	}

	record.EnsurePrincipal()
	record.ReviewState = domain.ReviewStateReviewed
	record.Timestamp = time.Now().UnixMilli()
	if err := w.store.Upsert(ctx, record); err != nil {
		var pe *domain.PersistenceError
		if !errors.As(err, &pe) {
			err = &domain.PersistenceError{Op: "upsert", Err: err}
		}
		w.logger.Error("failed to persist reviewed record",
			zap.String("item_id", w.draft.ItemID), zap.String("record_id", record.ID), zap.Error(err))
		return nil, err
	}

	if err := w.queue.MarkCompleted(w.draft.ItemID, record); err != nil {
		w.logger.Warn("record saved but queue item could not be completed",
			zap.String("item_id", w.draft.ItemID), zap.Error(err))
	}
	w.logger.Info("record confirmed", zap.String("item_id", w.draft.ItemID), zap.String("record_id", record.ID))
	return w.advanceLocked(record), nil
}

// Discard drops the active draft and removes its queue item.
func (w *ReviewWorkflow) Discard(_ context.Context) (*Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return nil, domain.ErrNoActiveReview
	}
	if err := w.queue.Remove(w.draft.ItemID); err != nil && !errors.Is(err, domain.ErrQueueItemNotFound) {
		return nil, err
	}
	w.logger.Info("draft discarded", zap.String("item_id", w.draft.ItemID))
	return w.advanceLocked(nil), nil
}

func (w *ReviewWorkflow) advanceLocked(saved *domain.AdoptionRecord) *Outcome {
	out := &Outcome{Record: saved, View: domain.ViewDashboard}
	if w.presentNextLocked() {
		out.Next = w.draft.clone()
		out.View = domain.ViewReview
	}
	return out
}
