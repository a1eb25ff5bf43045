package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/handler"
	"adoptions/mocks"
)

func TestDashboardHandler_Groups_UsesPreferenceWhenUnset(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	h := handler.NewDashboardHandler(svc)
	svc.On("Groups", mock.Anything, dashboard.Filters{Subject: "Biochimica"}, domain.GroupBy("")).
		Return([]dashboard.Group{{Key: "g1", Subject: "Biochimica"}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/dashboard/groups?subject=Biochimica", nil)
	h.Groups(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_Groups_ExplicitGroupBy(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	h := handler.NewDashboardHandler(svc)
	svc.On("Groups", mock.Anything, dashboard.Filters{}, domain.GroupByProgram).Return([]dashboard.Group{}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/dashboard/groups?group_by=program", nil)
	h.Groups(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_Stats(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	h := handler.NewDashboardHandler(svc)
	svc.On("Stats", mock.Anything, dashboard.Filters{}, "Zanichelli").
		Return(dashboard.Stats{Records: 3, Highlight: "Zanichelli", HighlightTexts: 2}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/dashboard/stats?highlight=Zanichelli", nil)
	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"highlightTexts":2`)
}

func TestDashboardHandler_SavePreferences(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	h := handler.NewDashboardHandler(svc)
	prefs := domain.DashboardPreferences{GroupBy: domain.GroupByInstitution}
	svc.On("SavePreferences", mock.Anything, prefs).Return(prefs, nil)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/dashboard/preferences", prefs)
	h.SavePreferences(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"groupBy":"institution"`)
}
