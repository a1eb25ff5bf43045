package handler

import (
	"adoptions/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// EnqueueTextRequest represents pasted syllabus text.
type EnqueueTextRequest struct {
	Name string `json:"name" example:"Biochimica 2025"`
	Text string `json:"text" binding:"required" example:"Corso di Biochimica - Prof. Anna Bianchi..."`
}

// UpdateFieldRequest sets one field of the draft being reviewed.
type UpdateFieldRequest struct {
	Path  string      `json:"path" binding:"required" example:"adoptedTexts[0].authors[1]"`
	Value interface{} `json:"value" swaggertype:"string" example:"Nelson"`
}

// MoveTextRequest moves a text entry to a new position.
type MoveTextRequest struct {
	Index *int `json:"index" binding:"required" example:"0"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// CountResponse reports how many items an operation touched.
type CountResponse struct {
	Count int `json:"count" example:"3"`
}

// SettingsResponse is the settings view with the API key masked.
type SettingsResponse struct {
	Provider     string   `json:"provider" example:"openai"`
	Model        string   `json:"model" example:"gpt-4o-mini"`
	APIKey       string   `json:"apiKey" example:"********abcd"`
	Configured   bool     `json:"configured" example:"true"`
	Providers    []string `json:"providers"`
	UpdatedAtUTC string   `json:"updatedAt,omitempty" example:"2025-03-14T09:00:00Z"`
}

// ImportResponse reports the outcome of a records import.
type ImportResponse struct {
	Imported int               `json:"imported" example:"12"`
	Mode     domain.ImportMode `json:"mode" example:"append"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
