package medicines

import (
	"time"

	"github.com/shopspring/decimal"

	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

const CollectionName = "medicine"

type Medicine struct {
	Id            string          `json:"_id" bson:"_id"`
	Name          string          `json:"name" bson:"name" validate:"required"`
	BatchNo       string          `json:"batchNo" bson:"batch_no" validate:"required"`
	Category      string          `json:"category" bson:"category"`
	Manufacturer  string          `json:"manufacturer" bson:"manufacturer"`
	HSNCode       string          `json:"hsnCode" bson:"hsn_code"`
	Quantity      int             `json:"quantity" bson:"quantity" validate:"gte=0"`
	Price         decimal.Decimal `json:"price" bson:"price" validate:"dgte=0"`
	MRP           decimal.Decimal `json:"mrp" bson:"mrp" validate:"dgte=0"`
	ExpiryDate    time.Time       `json:"expiryDate" bson:"expiry_date" validate:"required"`
	LowStockAlert int             `json:"lowStockAlert" bson:"low_stock_alert" validate:"gte=0"`
	Supplier      string          `json:"supplier" bson:"supplier"`
	Description   string          `json:"description" bson:"description"`
	CreatedOn     time.Time       `json:"created_on" bson:"created_on"`
	CreatedBy     string          `json:"created_by" bson:"created_by"`
	UpdatedOn     time.Time       `json:"updated_on,omitempty" bson:"updated_on,omitempty"`
	UpdatedBy     string          `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// View is a medicine with its derived stock and expiry state.
type View struct {
	Medicine
	StockStatus  invoice.StockStatus  `json:"stockStatus"`
	ExpiryStatus invoice.ExpiryStatus `json:"expiryStatus"`
	DaysToExpiry int                  `json:"daysToExpiry"`
}

type ListQuery struct {
	Search      string
	Category    string
	StockStatus invoice.StockStatus
	Page        int64
	Limit       int64
}

type Page struct {
	Medicines []View `json:"medicines"`
	Total     int64  `json:"total"`
	Page      int64  `json:"page"`
	Limit     int64  `json:"limit"`
}

type DashboardStats struct {
	TotalMedicines int64           `json:"totalMedicines"`
	TotalUnits     int64           `json:"totalUnits"`
	LowStock       int64           `json:"lowStock"`
	OutOfStock     int64           `json:"outOfStock"`
	Expiring       int64           `json:"expiringSoon"`
	Expired        int64           `json:"expired"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

type ImportResult struct {
	Inserted int                  `json:"inserted"`
	Skipped  []invoice.FieldError `json:"skipped,omitempty"`
}

// Thresholds drive the derived statuses.
type Thresholds struct {
	ExpiryWindowDays int
	LowStockAlert    int
}

func (t Thresholds) lowStockAlert() int {
	if t.LowStockAlert <= 0 {
		return invoice.DefaultLowStockAlert
	}
	return t.LowStockAlert
}

func (t Thresholds) view(m Medicine, now time.Time) View {
	alert := m.LowStockAlert
	if alert <= 0 {
		alert = t.lowStockAlert()
	}
	v := View{
		Medicine:     m,
		StockStatus:  invoice.StockStatusOf(m.Quantity, alert),
		ExpiryStatus: invoice.ExpiryStatusOf(m.ExpiryDate, now, t.ExpiryWindowDays),
	}
	if !m.ExpiryDate.IsZero() {
		v.DaysToExpiry = invoice.DaysUntilExpiry(m.ExpiryDate, now)
	}
	return v
}
