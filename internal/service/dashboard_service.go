package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/port"
)

const dashboardPrefsKey = "dashboard_prefs"

// DashboardService aggregates stored records for the dashboard view.
type DashboardService interface {
	Groups(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]dashboard.Group, error)
	Stats(ctx context.Context, filters dashboard.Filters, highlight string) (dashboard.Stats, error)
	Options(ctx context.Context) (dashboard.Options, error)
	Preferences(ctx context.Context) (domain.DashboardPreferences, error)
	SavePreferences(ctx context.Context, prefs domain.DashboardPreferences) (domain.DashboardPreferences, error)
}

type dashboardService struct {
	store port.RecordStore
	kv    port.KeyValueStore
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(store port.RecordStore, kv port.KeyValueStore) DashboardService {
	return &dashboardService{store: store, kv: kv}
}

// Groups groups the filtered records. An empty groupBy uses the saved
// preference.
func (s *dashboardService) Groups(ctx context.Context, filters dashboard.Filters, groupBy domain.GroupBy) ([]dashboard.Group, error) {
	if groupBy == "" {
		prefs, err := s.Preferences(ctx)
		if err != nil {
			return nil, err
		}
		groupBy = prefs.GroupBy
	}
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.GroupRecords(dashboard.Filter(records, filters), groupBy), nil
}

func (s *dashboardService) Stats(ctx context.Context, filters dashboard.Filters, highlight string) (dashboard.Stats, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return dashboard.Stats{}, err
	}
	return dashboard.ComputeStats(dashboard.Filter(records, filters), highlight), nil
}

func (s *dashboardService) Options(ctx context.Context) (dashboard.Options, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return dashboard.Options{}, err
	}
	return dashboard.FilterOptions(records), nil
}

func (s *dashboardService) Preferences(ctx context.Context) (domain.DashboardPreferences, error) {
	prefs := domain.DashboardPreferences{GroupBy: domain.GroupBySubject}
	raw, err := s.kv.Get(ctx, dashboardPrefsKey)
	if errors.Is(err, domain.ErrNotFound) {
		return prefs, nil
	}
	if err != nil {
		return prefs, &domain.PersistenceError{Op: "read preferences", Err: err}
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		// Unreadable preferences are only a cache.
		return domain.DashboardPreferences{GroupBy: domain.GroupBySubject}, nil
	}
	prefs.GroupBy = domain.ParseGroupBy(string(prefs.GroupBy))
	return prefs, nil
}

func (s *dashboardService) SavePreferences(ctx context.Context, prefs domain.DashboardPreferences) (domain.DashboardPreferences, error) {
	prefs.GroupBy = domain.ParseGroupBy(string(prefs.GroupBy))
	raw, err := json.Marshal(prefs)
	if err != nil {
		return prefs, fmt.Errorf("encoding preferences: %w", err)
	}
	if err := s.kv.Set(ctx, dashboardPrefsKey, raw); err != nil {
		return prefs, &domain.PersistenceError{Op: "write preferences", Err: err}
	}
	return prefs, nil
}
