package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
	"adoptions/internal/service"
)

// DashboardHandler handles dashboard aggregation endpoints.
type DashboardHandler struct {
	dashboard service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Groups handles GET /api/v1/dashboard/groups
// @Summary Grouped adoptions
// @Description Records grouped by institution, degree class, subject, program, instructor and year. Without group_by the saved preference applies.
// @Tags dashboard
// @Produce json
// @Param group_by query string false "subject, institution, program or instructor"
// @Param institution query string false "Institution"
// @Param degreeClass query string false "Degree class code"
// @Param degreeProgram query string false "Degree program"
// @Param subject query string false "Subject"
// @Param title query string false "Adopted text title"
// @Param q query string false "Free-text search"
// @Success 200 {object} Response{data=[]dashboard.Group,meta=Meta} "Groups"
// @Router /dashboard/groups [get]
func (h *DashboardHandler) Groups(c *gin.Context) {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	var groupBy domain.GroupBy
	if s := c.Query("group_by"); s != "" {
		groupBy = domain.ParseGroupBy(s)
	}
	groups, err := h.dashboard.Groups(c.Request.Context(), f, groupBy)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, groups, len(groups))
}

// Stats handles GET /api/v1/dashboard/stats
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Param highlight query string false "Publisher to count texts for"
// @Success 200 {object} Response{data=dashboard.Stats} "Statistics"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	var f dashboard.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	stats, err := h.dashboard.Stats(c.Request.Context(), f, c.Query("highlight"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// Options handles GET /api/v1/dashboard/options
// @Summary Filter options
// @Description Distinct values available for each dashboard filter
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=dashboard.Options} "Options"
// @Router /dashboard/options [get]
func (h *DashboardHandler) Options(c *gin.Context) {
	opts, err := h.dashboard.Options(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, opts)
}

// GetPreferences handles GET /api/v1/dashboard/preferences
// @Summary Dashboard preferences
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.DashboardPreferences} "Preferences"
// @Router /dashboard/preferences [get]
func (h *DashboardHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.dashboard.Preferences(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prefs)
}

// SavePreferences handles PUT /api/v1/dashboard/preferences
// @Summary Save dashboard preferences
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body domain.DashboardPreferences true "Preferences"
// @Success 200 {object} Response{data=domain.DashboardPreferences} "Saved preferences"
// @Router /dashboard/preferences [put]
func (h *DashboardHandler) SavePreferences(c *gin.Context) {
	var prefs domain.DashboardPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	saved, err := h.dashboard.SavePreferences(c.Request.Context(), prefs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, saved)
}
