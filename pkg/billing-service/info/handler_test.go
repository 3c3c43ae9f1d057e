package info

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

type fakeProfiles struct {
	profiles map[string]invoice.StoreProfile
	err      error
}

func (f fakeProfiles) Get(_ context.Context, orgId string) (invoice.StoreProfile, error) {
	if f.err != nil {
		return invoice.StoreProfile{}, f.err
	}
	return f.profiles[orgId].WithDefaults(), nil
}

func newApp(p Profiles) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		e := helper.AsError(err)
		return c.Status(e.Status).JSON(e)
	}})
	SetupRoutes(app, &Handler{Profiles: p})
	return app
}

func TestStoreProfile(t *testing.T) {
	app := newApp(fakeProfiles{profiles: map[string]invoice.StoreProfile{
		"kt": {StoreName: "Apollo Pharmacy", GSTNumber: "29ABCDE1234F1Z5"},
	}})

	tests := []struct {
		org       string
		storeName string
		phone     string
	}{
		{"kt", "Apollo Pharmacy", "+91-1075314648"},
		{"new-org", "MEDICAL STORE", "+91-1075314648"},
	}
	for _, tt := range tests {
		t.Run(tt.org, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/static/store", nil)
			req.Header.Set("OrgId", tt.org)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "public, max-age=600", resp.Header.Get("Cache-Control"))

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var env struct {
				Data invoice.StoreProfile `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, tt.storeName, env.Data.StoreName)
			assert.Equal(t, tt.phone, env.Data.Phone)
		})
	}
}

func TestStoreProfile_Errors(t *testing.T) {
	resp, err := newApp(fakeProfiles{}).Test(httptest.NewRequest(http.MethodGet, "/static/store", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/static/store", nil)
	req.Header.Set("OrgId", "kt")
	resp, err = newApp(fakeProfiles{err: errors.New("connection refused")}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
