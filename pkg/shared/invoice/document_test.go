package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBill() Bill {
	return Bill{
		BillNo: "BILL-1700000000000-042",
		Customer: Customer{
			Name:    "Ravi Kumar",
			Address: "12 MG Road, Bengaluru",
			GSTIN:   "29ABCDE1234F1Z5",
			Mobile:  "9876543210",
		},
		Items: []LineItem{
			item("100", 2, "10"),
			{
				MedicineName: "Cough Syrup",
				BatchNo:      "CS-9",
				HSNCode:      "3003",
				Price:        d("55.50"),
				Quantity:     1,
				MRP:          d("60"),
				Category:     "Syrup",
				Description:  "100ml bottle",
			},
		},
		TaxRatePercent: d("5"),
		CreatedAt:      time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildDocument(t *testing.T) {
	bill := sampleBill()
	totals, err := CalculateTotals(bill)
	require.NoError(t, err)

	doc := BuildDocument(bill, StoreProfile{StoreName: "Sri Sai Medicals", GSTNumber: "29AAACS1111A1Z1"}, totals)

	assert.Equal(t, "invoice-BILL-1700000000000-042.pdf", doc.FileName)
	assert.Equal(t, "TAX INVOICE", doc.Header.Title)
	assert.Equal(t, "Sri Sai Medicals", doc.Header.StoreName)
	assert.Equal(t, "Church Street Bengaluru", doc.Header.Address)
	assert.Equal(t, "+91-1075314648 +91-8029924749", doc.Header.Phones)

	assert.Equal(t, "Ravi Kumar", doc.Party.CustomerName)
	assert.Equal(t, "29ABCDE1234F1Z5", doc.Party.CustomerGSTIN)
	assert.Equal(t, bill.BillNo, doc.Party.InvoiceNo)
	assert.Equal(t, bill.CreatedAt, doc.Party.Date)
	assert.Equal(t, "29AAACS1111A1Z1", doc.Party.StoreGSTIN)
	assert.Equal(t, "Cash", doc.Party.PaymentMethod)

	require.Len(t, doc.Rows, 2)
	first := doc.Rows[0]
	assert.Equal(t, 1, first.SerialNo)
	assert.Equal(t, "3004", first.HSNCode)
	assert.Equal(t, "120.00", first.MRP.StringFixed(2))
	assert.Equal(t, "Tablet Medicine", first.Description)
	assert.Equal(t, "9.00", first.TaxAmount.StringFixed(2))
	assert.Equal(t, "189.00", first.Amount.StringFixed(2))

	second := doc.Rows[1]
	assert.Equal(t, 2, second.SerialNo)
	assert.Equal(t, "3003", second.HSNCode)
	assert.Equal(t, "60.00", second.MRP.StringFixed(2))
	assert.Equal(t, "100ml bottle", second.Description)
	assert.Equal(t, "2.78", second.TaxAmount.StringFixed(2))
	assert.Equal(t, "58.28", second.Amount.StringFixed(2))

	assert.Equal(t, "235.50", doc.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "247.28", doc.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, "Two Hundred and Forty Seven Rupees and Twenty Eight Paise Only", doc.Totals.AmountInWords)

	assert.Equal(t, Terms, doc.Terms)
	assert.Equal(t, "For Sri Sai Medicals", doc.Signatory)
	assert.Equal(t, "This is a computer generated invoice", doc.Footer)
}

func TestBuildDocument_TermsAreCopied(t *testing.T) {
	bill := sampleBill()
	totals, err := CalculateTotals(bill)
	require.NoError(t, err)

	doc := BuildDocument(bill, StoreProfile{}, totals)
	doc.Terms[0] = "changed"

	assert.Equal(t, "Goods once sold will not be taken back", Terms[0])
	assert.Equal(t, "For MEDICAL STORE", doc.Signatory)
}

func TestDocument_JSON(t *testing.T) {
	bill := sampleBill()
	totals, err := CalculateTotals(bill)
	require.NoError(t, err)

	raw, err := json.Marshal(BuildDocument(bill, StoreProfile{}, totals))
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"fileName":"invoice-BILL-1700000000000-042.pdf"`)
	assert.Contains(t, body, `"amount":189.00`)
	assert.Contains(t, body, `"taxRate":5`)
	assert.Contains(t, body, `"total":247.28`)
	assert.Contains(t, body, `"amountInWords":"Two Hundred and Forty Seven Rupees and Twenty Eight Paise Only"`)
}

func TestStoreProfile_WithDefaults(t *testing.T) {
	got := StoreProfile{StoreName: "Apollo", AltPhone: ""}.WithDefaults()

	assert.Equal(t, "Apollo", got.StoreName)
	assert.Equal(t, "Church Street Bengaluru", got.Address)
	assert.Equal(t, "+91-1075314648", got.Phone)
	assert.Equal(t, "Store Manager", got.ManagerName)
	assert.Empty(t, got.GSTNumber)
}
