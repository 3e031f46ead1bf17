package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got HealthStatus
		decodeData(t, rec, &got)
		assert.Equal(t, "ok", got.Checks["database"])
		assert.Equal(t, "ok", got.Checks["redis"])
	})

	t.Run("database down", func(t *testing.T) {
		env := newTestEnv(t)
		env.db = func(context.Context) error { return errors.New("connection refused") }

		rec := env.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})
}
