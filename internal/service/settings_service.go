package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"adoptions/internal/domain"
	"adoptions/internal/port"
)

const settingsKey = "settings"

// UpdateSettingsInput is the DTO for changing inference settings. Nil fields
// are left unchanged; an empty APIKey clears the key.
type UpdateSettingsInput struct {
	Provider *string `json:"provider"`
	APIKey   *string `json:"apiKey"`
	Model    *string `json:"model"`
}

// SettingsDefaults seeds settings that were never saved.
type SettingsDefaults struct {
	Provider  string
	Model     string
	Providers []string
}

// SettingsService manages the operator's inference settings and resolves the
// credentials used by the processing queue.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error)
	Providers() []string
	Credentials(ctx context.Context) (domain.Credentials, error)
}

type settingsService struct {
	kv                port.KeyValueStore
	defaults          SettingsDefaults
	fallbackAvailable bool
	logger            *zap.Logger
}

var _ port.CredentialsProvider = (SettingsService)(nil)

// NewSettingsService creates a SettingsService. When fallbackAvailable is true
// a missing API key defers to the server-configured parsers instead of
// failing.
func NewSettingsService(kv port.KeyValueStore, defaults SettingsDefaults, fallbackAvailable bool, logger *zap.Logger) SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &settingsService{
		kv:                kv,
		defaults:          defaults,
		fallbackAvailable: fallbackAvailable,
		logger:            logger.Named("settings"),
	}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	raw, err := s.kv.Get(ctx, settingsKey)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Settings{Provider: s.defaults.Provider, Model: s.defaults.Model}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read settings", Err: err}
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, &domain.PersistenceError{Op: "read settings", Err: err}
	}
	if settings.Provider == "" {
		settings.Provider = s.defaults.Provider
	}
	if settings.Model == "" && settings.Provider == s.defaults.Provider {
		settings.Model = s.defaults.Model
	}
	return &settings, nil
}

func (s *settingsService) Update(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.Provider != nil {
		provider := strings.ToLower(strings.TrimSpace(*input.Provider))
		if len(s.defaults.Providers) > 0 && !slices.Contains(s.defaults.Providers, provider) {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{{
				Path:    "provider",
				Message: fmt.Sprintf("unknown provider %q, expected one of %s", provider, strings.Join(s.defaults.Providers, ", ")),
			}}}
		}
		if provider != settings.Provider && input.Model == nil {
			settings.Model = ""
		}
		settings.Provider = provider
	}
	if input.APIKey != nil {
		settings.APIKey = strings.TrimSpace(*input.APIKey)
	}
	if input.Model != nil {
		settings.Model = strings.TrimSpace(*input.Model)
	}
	settings.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.kv.Set(ctx, settingsKey, raw); err != nil {
		return nil, &domain.PersistenceError{Op: "write settings", Err: err}
	}
	s.logger.Info("settings updated",
		zap.String("provider", settings.Provider),
		zap.String("model", settings.Model),
		zap.Bool("api_key_set", settings.APIKey != ""))
	return settings, nil
}

func (s *settingsService) Providers() []string {
	return slices.Clone(s.defaults.Providers)
}

// Credentials returns the saved credentials. Without a saved key it returns
// empty credentials when a fallback exists, or a not-configured error.
func (s *settingsService) Credentials(ctx context.Context) (domain.Credentials, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	creds := settings.Credentials()
	if creds.Configured() {
		return creds, nil
	}
	if s.fallbackAvailable {
		return domain.Credentials{}, nil
	}
	return domain.Credentials{}, &domain.InferenceError{Kind: domain.InferenceNotConfigured, Err: domain.ErrNotConfigured}
}
