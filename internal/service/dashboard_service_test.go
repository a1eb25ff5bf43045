package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/repository"
	"adoptions/internal/repository/memory"
	"adoptions/internal/service"
	"adoptions/mocks"
)

func newDashboardService(t *testing.T, records ...*domain.AdoptionRecord) service.DashboardService {
	t.Helper()
	kv := memory.NewKVStore()
	store := repository.NewRecordStore(kv, "", nil)
	for _, r := range records {
		require.NoError(t, store.Upsert(context.Background(), r))
	}
	return service.NewDashboardService(store, kv)
}

func TestDashboardService_PreferencesDefaultToSubject(t *testing.T) {
	svc := newDashboardService(t)

	prefs, err := svc.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.GroupBySubject, prefs.GroupBy)
}

func TestDashboardService_SavePreferences(t *testing.T) {
	svc := newDashboardService(t)
	ctx := context.Background()

	saved, err := svc.SavePreferences(ctx, domain.DashboardPreferences{GroupBy: domain.GroupByInstructor})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByInstructor, saved.GroupBy)

	prefs, err := svc.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByInstructor, prefs.GroupBy)

	saved, err = svc.SavePreferences(ctx, domain.DashboardPreferences{GroupBy: "colour"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupBySubject, saved.GroupBy)
}

func TestDashboardService_GroupsUseSavedPreference(t *testing.T) {
	a := fullRecord("r1")
	a.Instructor = "Zeno Verdi"
	a.Subject = "Anatomia"
	b := fullRecord("r2")
	b.Instructor = "Anna Bianchi"
	b.Subject = "Zoologia"
	svc := newDashboardService(t, a, b)
	ctx := context.Background()

	groups, err := svc.Groups(ctx, dashboard.Filters{}, "")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Anatomia", groups[0].Subject)

	_, err = svc.SavePreferences(ctx, domain.DashboardPreferences{GroupBy: domain.GroupByInstructor})
	require.NoError(t, err)
	groups, err = svc.Groups(ctx, dashboard.Filters{}, "")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Anna Bianchi", groups[0].Instructor)
}

func TestDashboardService_StatsAndOptions(t *testing.T) {
	b := fullRecord("r2")
	b.Institution = "Politecnico di Torino"
	svc := newDashboardService(t, fullRecord("r1"), b)
	ctx := context.Background()

	stats, err := svc.Stats(ctx, dashboard.Filters{}, "Zanichelli")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 2, stats.Institutions)
	assert.Equal(t, "Zanichelli", stats.Highlight)

	opts, err := svc.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Politecnico di Torino", "Università di Milano"}, opts.Institutions)
}

func TestDashboardService_PreferencesReadFailure(t *testing.T) {
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, "dashboard_prefs").Return(nil, errors.New("connection refused"))
	svc := service.NewDashboardService(repository.NewRecordStore(kv, "", nil), kv)

	_, err := svc.Preferences(context.Background())
	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
}
