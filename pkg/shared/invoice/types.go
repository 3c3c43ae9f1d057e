package invoice

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one medicine line of a bill.
type LineItem struct {
	MedicineID      string          `json:"medicine,omitempty" bson:"medicine_id,omitempty"`
	MedicineName    string          `json:"medicineName" bson:"medicine_name"`
	BatchNo         string          `json:"batchNo" bson:"batch_no"`
	HSNCode         string          `json:"hsnCode" bson:"hsn_code"`
	Price           decimal.Decimal `json:"price" bson:"price" validate:"dgte=0"`
	Quantity        int             `json:"quantity" bson:"quantity" validate:"gte=0"`
	DiscountPercent decimal.Decimal `json:"discount" bson:"discount_percent" validate:"dgte=0,dlte=100"`
	MRP             decimal.Decimal `json:"mrp" bson:"mrp"`
	Category        string          `json:"category" bson:"category"`
	Description     string          `json:"description" bson:"description"`
}

type Customer struct {
	Name    string `json:"name" bson:"name"`
	Address string `json:"address" bson:"address"`
	GSTIN   string `json:"gstin" bson:"gstin"`
	Mobile  string `json:"mobile" bson:"mobile"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
}

// Bill is the checkout record the totals and the invoice are derived from.
type Bill struct {
	BillNo         string          `json:"billNo" bson:"bill_no"`
	Customer       Customer        `json:"customer" bson:"customer"`
	Items          []LineItem      `json:"items" bson:"items" validate:"required,min=1,dive"`
	TaxRatePercent decimal.Decimal `json:"taxRate" bson:"tax_rate_percent" validate:"dgte=0,dlte=100"`
	PaymentMethod  string          `json:"paymentMethod" bson:"payment_method"`
	CreatedAt      time.Time       `json:"createdAt" bson:"created_at"`
}

// StoreProfile identifies the selling store on the invoice header.
type StoreProfile struct {
	StoreName   string `json:"storeName" bson:"store_name"`
	Address     string `json:"storeAddress" bson:"store_address"`
	Phone       string `json:"phone" bson:"phone"`
	AltPhone    string `json:"altPhone" bson:"alt_phone"`
	GSTNumber   string `json:"gstNumber" bson:"gst_number"`
	ManagerName string `json:"name" bson:"manager_name"`
}

// WithDefaults fills empty fields with the stock values printed on an
// unconfigured store's invoices.
func (s StoreProfile) WithDefaults() StoreProfile {
	if s.StoreName == "" {
		s.StoreName = "MEDICAL STORE"
	}
	if s.Address == "" {
		s.Address = "Church Street Bengaluru"
	}
	if s.Phone == "" {
		s.Phone = "+91-1075314648"
	}
	if s.AltPhone == "" {
		s.AltPhone = "+91-8029924749"
	}
	if s.ManagerName == "" {
		s.ManagerName = "Store Manager"
	}
	return s
}

// BillTotals is always recomputed from a Bill and never stored on its own.
type BillTotals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
}

func (t BillTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal      json.Number `json:"subtotal"`
		TotalDiscount json.Number `json:"totalDiscount"`
		TaxAmount     json.Number `json:"taxAmount"`
		GrandTotal    json.Number `json:"total"`
	}{
		Subtotal:      Money(t.Subtotal),
		TotalDiscount: Money(t.TotalDiscount),
		TaxAmount:     Money(t.TaxAmount),
		GrandTotal:    Money(t.GrandTotal),
	})
}

// Money formats d as a JSON number with exactly two decimals.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
