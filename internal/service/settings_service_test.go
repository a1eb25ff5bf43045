package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adoptions/internal/domain"
	"adoptions/internal/repository/memory"
	"adoptions/internal/service"
	"adoptions/mocks"
)

var testSettingsDefaults = service.SettingsDefaults{
	Provider:  "openai",
	Model:     "gpt-4o-mini",
	Providers: []string{"claude", "gemini", "openai"},
}

func strPtr(s string) *string { return &s }

func TestSettingsService_DefaultsWhenUnset(t *testing.T) {
	svc := service.NewSettingsService(memory.NewKVStore(), testSettingsDefaults, false, nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", settings.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.Model)
	assert.Empty(t, settings.APIKey)
	assert.Equal(t, []string{"claude", "gemini", "openai"}, svc.Providers())
}

func TestSettingsService_UpdateAndCredentials(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSettingsService(memory.NewKVStore(), testSettingsDefaults, false, nil)

	_, err := svc.Credentials(ctx)
	assert.True(t, domain.IsInferenceKind(err, domain.InferenceNotConfigured))

	settings, err := svc.Update(ctx, service.UpdateSettingsInput{Provider: strPtr("Claude"), APIKey: strPtr(" sk-ant-123456 ")})
	require.NoError(t, err)
	assert.Equal(t, "claude", settings.Provider)
	assert.Empty(t, settings.Model, "switching provider drops the old model")
	assert.Equal(t, "********3456", settings.MaskedAPIKey())
	assert.False(t, settings.UpdatedAt.IsZero())

	creds, err := svc.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{Provider: "claude", APIKey: "sk-ant-123456"}, creds)

	_, err = svc.Update(ctx, service.UpdateSettingsInput{APIKey: strPtr("")})
	require.NoError(t, err)
	_, err = svc.Credentials(ctx)
	assert.True(t, domain.IsInferenceKind(err, domain.InferenceNotConfigured))
}

func TestSettingsService_FallbackAllowsMissingKey(t *testing.T) {
	svc := service.NewSettingsService(memory.NewKVStore(), testSettingsDefaults, true, nil)

	creds, err := svc.Credentials(context.Background())
	require.NoError(t, err)
	assert.False(t, creds.Configured())
}

func TestSettingsService_RejectsUnknownProvider(t *testing.T) {
	svc := service.NewSettingsService(memory.NewKVStore(), testSettingsDefaults, false, nil)

	_, err := svc.Update(context.Background(), service.UpdateSettingsInput{Provider: strPtr("mistral")})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "provider", ve.Fields[0].Path)
}

func TestSettingsService_StoreFailure(t *testing.T) {
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, "settings").Return(nil, errors.New("connection refused"))
	svc := service.NewSettingsService(kv, testSettingsDefaults, true, nil)

	_, err := svc.Credentials(context.Background())

	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
}
