package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adoptions/internal/domain"
	"adoptions/internal/repository"
	"adoptions/internal/repository/memory"
	"adoptions/mocks"
)

func sampleRecord(id, subject string) *domain.AdoptionRecord {
	year := 2021
	return &domain.AdoptionRecord{
		ID:            id,
		Timestamp:     1700000000000,
		FileName:      id + ".pdf",
		Institution:   "Università di Milano",
		DegreeProgram: "Biotecnologie",
		DegreeClass:   "L-2",
		Subject:       subject,
		Credits:       6,
		Instructor:    "Laura Verdi",
		AdoptedTexts: []domain.TextEntry{
			{ID: id + "-t1", Title: "Biochimica", Authors: []string{"Nelson", "Cox"}, Publisher: "Zanichelli", Year: &year, Category: domain.TextCategoryPrincipal, IsPrincipal: true},
		},
		PrincipalTextID: id + "-t1",
		ReviewState:     domain.ReviewStateReviewed,
	}
}

func TestRecordStore_UpsertGetDelete(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.Upsert(ctx, sampleRecord("a", "Biochimica")))
	require.NoError(t, store.Upsert(ctx, sampleRecord("b", "Genetica")))

	updated := sampleRecord("a", "Biochimica Clinica")
	require.NoError(t, store.Upsert(ctx, updated))

	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID, "upsert keeps position")
	assert.Equal(t, "Biochimica Clinica", all[0].Subject)

	got, err := store.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Genetica", got.Subject)

	_, err = store.GetByID(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), domain.ErrRecordNotFound)

	require.NoError(t, store.Clear(ctx))
	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordStore_SingleKeyLayout(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	store := repository.NewRecordStore(kv, "custom_key", nil)

	require.NoError(t, store.Upsert(ctx, sampleRecord("a", "X")))

	raw, err := kv.Get(ctx, "custom_key")
	require.NoError(t, err)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal(raw, &arr))
	require.Len(t, arr, 1)
	assert.Equal(t, "a", arr[0]["id"])
}

func TestRecordStore_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)
	require.NoError(t, store.Upsert(ctx, sampleRecord("a", "Biochimica")))
	require.NoError(t, store.Upsert(ctx, sampleRecord("b", "Genetica")))

	before, err := store.GetAll(ctx)
	require.NoError(t, err)

	exported, err := store.ExportJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "\n  {")

	require.NoError(t, store.Upsert(ctx, sampleRecord("c", "Noise")))

	n, err := store.ImportJSON(ctx, exported, domain.ImportModeOverwrite)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecordStore_ImportAppendMergesByID(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)
	require.NoError(t, store.Upsert(ctx, sampleRecord("a", "Old")))

	data, err := json.Marshal([]*domain.AdoptionRecord{sampleRecord("a", "New"), sampleRecord("b", "Other")})
	require.NoError(t, err)

	n, err := store.ImportJSON(ctx, data, domain.ImportModeAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "New", all[0].Subject)
	assert.Equal(t, "b", all[1].ID)
}

func TestRecordStore_ImportOverwriteKeepsOneRecordPerID(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)
	require.NoError(t, store.Upsert(ctx, sampleRecord("old", "Old")))

	data, err := json.Marshal([]*domain.AdoptionRecord{
		sampleRecord("a", "First"), sampleRecord("b", "Other"), sampleRecord("a", "Second"),
	})
	require.NoError(t, err)

	n, err := store.ImportJSON(ctx, data, domain.ImportModeOverwrite)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "Second", all[0].Subject)
	assert.Equal(t, "b", all[1].ID)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.GetByID(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestRecordStore_ImportAssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)

	n, err := store.ImportJSON(ctx, []byte(`[{"subject":"Fisica"},{"subject":"Chimica"}]`), domain.ImportModeAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEmpty(t, all[1].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.Equal(t, "Fisica", all[0].Subject)
}

func TestRecordStore_ImportRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store := repository.NewRecordStore(memory.NewKVStore(), "", nil)

	_, err := store.ImportJSON(ctx, []byte(`{"id":"a"}`), domain.ImportModeAppend)
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	_, err = store.ImportJSON(ctx, []byte(`null`), domain.ImportModeAppend)
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	_, err = store.ImportJSON(ctx, []byte(`[{"subject":"a","credits":"six"}]`), domain.ImportModeAppend)
	assert.ErrorIs(t, err, domain.ErrInvalidImport)

	_, err = store.ImportJSON(ctx, []byte(`[]`), domain.ImportMode("merge"))
	assert.ErrorIs(t, err, domain.ErrInvalidImportMode)

	n, err := store.ImportJSON(ctx, []byte(`[]`), domain.ImportModeOverwrite)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordStore_WriteFailureIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, repository.DefaultRecordKey).Return(nil, domain.ErrNotFound)
	kv.On("Set", mock.Anything, repository.DefaultRecordKey, mock.Anything).Return(errors.New("quota exceeded"))

	store := repository.NewRecordStore(kv, "", nil)

	err := store.Upsert(ctx, sampleRecord("a", "X"))

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "upsert", pe.Op)
}

func TestRecordStore_CorruptDataIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, repository.DefaultRecordKey, []byte("{not json")))

	store := repository.NewRecordStore(kv, "", nil)

	_, err := store.GetAll(ctx)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "read", pe.Op)
}
