package helper

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

func TestAsError(t *testing.T) {
	fields := []invoice.FieldError{{Field: "taxRate", Message: "must be at most 100"}}
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		fields int
	}{
		{"api error passes through", Conflict("bill number already used"), 409, "conflict", 0},
		{"invalid bill keeps fields", &invoice.InvalidBillError{Fields: fields}, 400, "invalid-input", 1},
		{"export failure", invoice.ExportFailed("upload", errors.New("timeout")), 502, "export-failed", 0},
		{"fiber error", fiber.ErrNotFound, 404, "http-error", 0},
		{"anything else", errors.New("boom"), 500, "internal-server", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := AsError(tt.err)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.code, e.Code)
			assert.Len(t, e.Fields, tt.fields)
		})
	}
}
