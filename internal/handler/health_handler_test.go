package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"adoptions/internal/handler"
	"adoptions/mocks"
)

func TestHealthHandler_Readiness(t *testing.T) {
	kv := new(mocks.MockKeyValueStore)
	h := handler.NewHealthHandler(kv)
	kv.On("Ping", mock.Anything).Return(nil).Once()
	kv.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

	c, w := newContext(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(new(mocks.MockKeyValueStore))

	c, w := newContext(http.MethodGet, "/healthz", nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
