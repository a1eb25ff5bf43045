package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"adoptions/internal/domain"
	"adoptions/internal/metrics"
	"adoptions/internal/port"
)

// DefaultRecordKey is the key holding the serialized record array.
const DefaultRecordKey = "adoption_records"

// RecordStore implements port.RecordStore as a single JSON array stored under
// one key of a KeyValueStore. The mutex serializes read-modify-write cycles
// within this process only.
type RecordStore struct {
	kv      port.KeyValueStore
	key     string
	metrics *metrics.Metrics
	mu      sync.Mutex
}

var _ port.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates a RecordStore. An empty key uses DefaultRecordKey.
func NewRecordStore(kv port.KeyValueStore, key string, m *metrics.Metrics) *RecordStore {
	if key == "" {
		key = DefaultRecordKey
	}
	return &RecordStore{kv: kv, key: key, metrics: m}
}

func (s *RecordStore) load(ctx context.Context) ([]domain.AdoptionRecord, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.AdoptionRecord{}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	var records []domain.AdoptionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: fmt.Errorf("decoding %s: %w", s.key, err)}
	}
	if records == nil {
		records = []domain.AdoptionRecord{}
	}
	return records, nil
}

func (s *RecordStore) save(ctx context.Context, op string, records []domain.AdoptionRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	err = s.kv.Set(ctx, s.key, raw)
	s.metrics.StoreOp(op, err)
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	s.metrics.RecordsStored(len(records))
	return nil
}

// Upsert replaces the record with the same id in place, or appends it.
func (s *RecordStore) Upsert(ctx context.Context, record *domain.AdoptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	records = upsert(records, *record.Clone())
	return s.save(ctx, "upsert", records)
}

func upsert(records []domain.AdoptionRecord, r domain.AdoptionRecord) []domain.AdoptionRecord {
	for i := range records {
		if records[i].ID == r.ID {
			records[i] = r
			return records
		}
	}
	return append(records, r)
}

func (s *RecordStore) GetAll(ctx context.Context) ([]domain.AdoptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *RecordStore) GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (s *RecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return domain.ErrRecordNotFound
	}
	return s.save(ctx, "delete", kept)
}

func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.kv.Delete(ctx, s.key)
	s.metrics.StoreOp("clear", err)
	if err != nil {
		return &domain.PersistenceError{Op: "clear", Err: err}
	}
	s.metrics.RecordsStored(0)
	return nil
}

// ExportJSON returns all records as an indented JSON array.
func (s *RecordStore) ExportJSON(ctx context.Context) ([]byte, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(records, "", "  ")
}

// ImportJSON parses a JSON array of records. Records without an id get a new
// one. Append upserts each record by id into the stored array; overwrite
// replaces it. Within one import the last record with a given id wins. It
// returns the number of records read.
func (s *RecordStore) ImportJSON(ctx context.Context, data []byte, mode domain.ImportMode) (int, error) {
	if mode != domain.ImportModeAppend && mode != domain.ImportModeOverwrite {
		return 0, domain.ErrInvalidImportMode
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return 0, domain.ErrInvalidImport
	}
	incoming := make([]domain.AdoptionRecord, 0, len(items))
	for i, item := range items {
		var r domain.AdoptionRecord
		if err := json.Unmarshal(item, &r); err != nil {
			return 0, fmt.Errorf("%w: record %d: %v", domain.ErrInvalidImport, i, err)
		}
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		incoming = append(incoming, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.AdoptionRecord, 0, len(incoming))
	if mode == domain.ImportModeAppend {
		existing, err := s.load(ctx)
		if err != nil {
			return 0, err
		}
		records = existing
	}
	for _, r := range incoming {
		records = upsert(records, r)
	}
	if err := s.save(ctx, "import", records); err != nil {
		return 0, err
	}
	return len(incoming), nil
}
