package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryStatusOf(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		expiry time.Time
		window int
		want   ExpiryStatus
	}{
		{"unknown", time.Time{}, 30, ExpiryUnknown},
		{"expired yesterday", now.Add(-25 * time.Hour), 30, ExpiryExpired},
		{"expires later today", now.Add(time.Hour), 30, ExpiryExpiring},
		{"on the window edge", now.AddDate(0, 0, 30), 30, ExpiryExpiring},
		{"past the window", now.AddDate(0, 0, 31), 30, ExpirySafe},
		{"custom window", now.AddDate(0, 0, 45), 60, ExpiryExpiring},
		{"default window", now.AddDate(0, 0, 20), 0, ExpiryExpiring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpiryStatusOf(tt.expiry, now, tt.window))
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysUntilExpiry(now.Add(2*time.Hour), now))
	assert.Equal(t, 10, DaysUntilExpiry(now.AddDate(0, 0, 10), now))
	assert.Equal(t, -2, DaysUntilExpiry(now.Add(-49*time.Hour), now))
}

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		quantity int
		alert    int
		want     StockStatus
	}{
		{0, 5, OutOfStock},
		{1, 5, LowStock},
		{5, 5, LowStock},
		{6, 5, InStock},
		{8, 10, LowStock},
		{3, 0, LowStock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatusOf(tt.quantity, tt.alert), "quantity %d alert %d", tt.quantity, tt.alert)
	}
}

func TestNewBillNumber(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "BILL-1700000000000-234", NewBillNumber(at, 1234))
	assert.Equal(t, "BILL-1700000000000-007", NewBillNumber(at, 7))
}
