package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adoptions/internal/domain"
	"adoptions/internal/service"
)

// SettingsHandler handles inference settings endpoints.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) view(s *domain.Settings) SettingsResponse {
	out := SettingsResponse{
		Provider:   s.Provider,
		Model:      s.Model,
		APIKey:     s.MaskedAPIKey(),
		Configured: s.APIKey != "",
		Providers:  h.settings.Providers(),
	}
	if !s.UpdatedAt.IsZero() {
		out.UpdatedAtUTC = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Get handles GET /api/v1/settings
// @Summary Inference settings
// @Description Current provider, model and masked API key
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=SettingsResponse} "Settings"
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

// Update handles PUT /api/v1/settings
// @Summary Update inference settings
// @Description Omitted fields are unchanged; an empty apiKey clears the key
// @Tags settings
// @Accept json
// @Produce json
// @Param request body service.UpdateSettingsInput true "Settings"
// @Success 200 {object} Response{data=SettingsResponse} "Saved settings"
// @Failure 422 {object} ErrorResponseBody "Unknown provider"
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var input service.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	s, err := h.settings.Update(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.view(s))
}

// DegreeClasses handles GET /api/v1/degree-classes
// @Summary Degree class catalog
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=[]domain.DegreeClass} "Catalog"
// @Router /degree-classes [get]
func (h *SettingsHandler) DegreeClasses(c *gin.Context) {
	RespondList(c, domain.DegreeClasses, len(domain.DegreeClasses))
}
