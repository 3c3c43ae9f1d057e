package invoice

import (
	"fmt"
	"math"
	"time"
)

type ExpiryStatus string

const (
	ExpiryUnknown  ExpiryStatus = "unknown"
	ExpiryExpired  ExpiryStatus = "expired"
	ExpiryExpiring ExpiryStatus = "expiring"
	ExpirySafe     ExpiryStatus = "safe"
)

type StockStatus string

const (
	OutOfStock StockStatus = "out-of-stock"
	LowStock   StockStatus = "low-stock"
	InStock    StockStatus = "in-stock"
)

const (
	DefaultExpiryWindowDays = 30
	DefaultLowStockAlert    = 5
)

// DaysUntilExpiry rounds the remaining time up to whole days; negative means
// the date has passed.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func ExpiryStatusOf(expiry, now time.Time, windowDays int) ExpiryStatus {
	if expiry.IsZero() {
		return ExpiryUnknown
	}
	if windowDays <= 0 {
		windowDays = DefaultExpiryWindowDays
	}
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days < 0:
		return ExpiryExpired
	case days <= windowDays:
		return ExpiryExpiring
	default:
		return ExpirySafe
	}
}

func StockStatusOf(quantity, lowStockAlert int) StockStatus {
	if lowStockAlert <= 0 {
		lowStockAlert = DefaultLowStockAlert
	}
	switch {
	case quantity <= 0:
		return OutOfStock
	case quantity <= lowStockAlert:
		return LowStock
	default:
		return InStock
	}
}

// NewBillNumber formats a bill number from the checkout time and the org's
// bill sequence.
func NewBillNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("BILL-%d-%03d", now.UnixMilli(), seq%1000)
}
