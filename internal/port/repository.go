package port

import (
	"context"

	"adoptions/internal/domain"
)

// KeyValueStore persists opaque values under string keys. Get returns
// domain.ErrNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RecordStore provides CRUD over adoption records keyed by id.
type RecordStore interface {
	Upsert(ctx context.Context, record *domain.AdoptionRecord) error
	GetAll(ctx context.Context) ([]domain.AdoptionRecord, error)
	GetByID(ctx context.Context, id string) (*domain.AdoptionRecord, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ExportJSON(ctx context.Context) ([]byte, error)
	ImportJSON(ctx context.Context, data []byte, mode domain.ImportMode) (int, error)
}
