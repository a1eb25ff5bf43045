package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"adoptions/internal/domain"
	"adoptions/internal/handler"
	"adoptions/internal/service"
	"adoptions/mocks"
)

func TestSettingsHandler_GetMasksKey(t *testing.T) {
	svc := new(mocks.MockSettingsService)
	h := handler.NewSettingsHandler(svc)
	svc.On("Get", mock.Anything).Return(&domain.Settings{Provider: "openai", APIKey: "sk-secret-abcd", Model: "gpt-4o-mini"}, nil)
	svc.On("Providers").Return([]string{"claude", "gemini", "openai"})

	c, w := newContext(http.MethodGet, "/api/v1/settings", nil)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "sk-secret")
	assert.Contains(t, body, `"apiKey":"********abcd"`)
	assert.Contains(t, body, `"configured":true`)
}

func TestSettingsHandler_UpdateUnknownProvider(t *testing.T) {
	svc := new(mocks.MockSettingsService)
	h := handler.NewSettingsHandler(svc)
	svc.On("Update", mock.Anything, mock.MatchedBy(func(in service.UpdateSettingsInput) bool {
		return in.Provider != nil && *in.Provider == "acme"
	})).Return(nil, &domain.ValidationError{Fields: []domain.FieldError{{Path: "provider", Message: "unknown provider"}}})

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/settings", map[string]string{"provider": "acme"})
	h.Update(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSettingsHandler_DegreeClasses(t *testing.T) {
	h := handler.NewSettingsHandler(new(mocks.MockSettingsService))

	c, w := newContext(http.MethodGet, "/api/v1/degree-classes", nil)
	h.DegreeClasses(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"L-13"`)
}
