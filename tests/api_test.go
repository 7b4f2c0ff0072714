package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"accsmarket/internal/adapter/api/handler"
	"accsmarket/pkg/errors"
	"accsmarket/pkg/response"
)

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	healthHandler := handler.NewHealthHandler(nil)

	if assert.NoError(t, healthHandler.CheckHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Server is running")
	}
}

func TestErrorResponseCarriesAppErrorCode(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/channels/initiate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := response.Error(c, errors.NotFound("Listing", nil))

	if assert.NoError(t, err) {
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
		assert.Contains(t, rec.Body.String(), "Listing not found")
	}
}
