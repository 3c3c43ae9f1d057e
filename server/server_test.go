package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kriyatec.com/medstore-api/pkg/shared/config"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

func TestCustomErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", helper.EntityNotFound("bill not found"), 404, "entity-not-found"},
		{"invalid bill", &invoice.InvalidBillError{Fields: []invoice.FieldError{{Field: "items", Message: "at least one item is required"}}}, 400, "invalid-input"},
		{"export", invoice.ExportFailed("upload", errors.New("access denied")), 502, "export-failed"},
		{"wrapped export", fmt.Errorf("bill B-1: %w", invoice.ExportFailed("render", errors.New("boom"))), 502, "export-failed"},
		{"fiber", fiber.ErrMethodNotAllowed, 405, "http-error"},
		{"other", errors.New("boom"), 500, "internal-server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body helper.Error
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestCustomErrorHandler_InvalidBillFields(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Post("/", func(c *fiber.Ctx) error {
		return invoice.Validate(invoice.Bill{})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"field":"items"`)
}

func TestCreate(t *testing.T) {
	app := Create(config.App{Name: "medstore-api"})
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
