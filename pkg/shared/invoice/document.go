package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const defaultHSNCode = "3004"

var mrpMarkup = decimal.RequireFromString("1.2")

// Terms printed under every invoice.
var Terms = []string{
	"Goods once sold will not be taken back",
	"Subject to Bengaluru jurisdiction",
	"E. & O.E.",
	"Please check medicines at the time of purchase",
}

// Document is the print/PDF model of one invoice. Renderers consume it as a
// plain value.
type Document struct {
	FileName  string      `json:"fileName"`
	Header    Header      `json:"header"`
	Party     Party       `json:"party"`
	Rows      []Row       `json:"rows"`
	Totals    TotalsBlock `json:"totals"`
	Terms     []string    `json:"terms"`
	Signatory string      `json:"signatory"`
	Footer    string      `json:"footer"`
}

type Header struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	StoreName string `json:"storeName"`
	Address   string `json:"address"`
	Phones    string `json:"phones"`
}

type Party struct {
	CustomerName    string    `json:"customerName"`
	CustomerAddress string    `json:"customerAddress"`
	CustomerGSTIN   string    `json:"customerGstin"`
	CustomerMobile  string    `json:"customerMobile"`
	InvoiceNo       string    `json:"invoiceNo"`
	Date            time.Time `json:"date"`
	StoreGSTIN      string    `json:"storeGstin,omitempty"`
	PaymentMethod   string    `json:"paymentMethod"`
}

// Row is one line of the item table. Money values are rounded to paise.
type Row struct {
	SerialNo        int
	MedicineName    string
	BatchNo         string
	HSNCode         string
	Rate            decimal.Decimal
	MRP             decimal.Decimal
	Quantity        int
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	Amount          decimal.Decimal
	Description     string
}

func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SerialNo        int         `json:"sno"`
		MedicineName    string      `json:"medicineName"`
		BatchNo         string      `json:"batchNo"`
		HSNCode         string      `json:"hsnCode"`
		Rate            json.Number `json:"rate"`
		MRP             json.Number `json:"mrp"`
		Quantity        int         `json:"quantity"`
		DiscountPercent json.Number `json:"discount"`
		TaxPercent      json.Number `json:"taxRate"`
		TaxAmount       json.Number `json:"taxAmount"`
		Amount          json.Number `json:"amount"`
		Description     string      `json:"description"`
	}{
		SerialNo:        r.SerialNo,
		MedicineName:    r.MedicineName,
		BatchNo:         r.BatchNo,
		HSNCode:         r.HSNCode,
		Rate:            Money(r.Rate),
		MRP:             Money(r.MRP),
		Quantity:        r.Quantity,
		DiscountPercent: json.Number(r.DiscountPercent.String()),
		TaxPercent:      json.Number(r.TaxPercent.String()),
		TaxAmount:       Money(r.TaxAmount),
		Amount:          Money(r.Amount),
		Description:     r.Description,
	})
}

type TotalsBlock struct {
	BillTotals
	TaxRatePercent decimal.Decimal
	AmountInWords  string
}

func (t TotalsBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal      json.Number `json:"subtotal"`
		TotalDiscount json.Number `json:"totalDiscount"`
		TaxRate       json.Number `json:"taxRate"`
		TaxAmount     json.Number `json:"taxAmount"`
		GrandTotal    json.Number `json:"total"`
		AmountInWords string      `json:"amountInWords"`
	}{
		Subtotal:      Money(t.Subtotal),
		TotalDiscount: Money(t.TotalDiscount),
		TaxRate:       json.Number(t.TaxRatePercent.String()),
		TaxAmount:     Money(t.TaxAmount),
		GrandTotal:    Money(t.GrandTotal),
		AmountInWords: t.AmountInWords,
	})
}

// FileName is the download name of a bill's PDF.
func FileName(billNo string) string {
	return fmt.Sprintf("invoice-%s.pdf", billNo)
}

// BuildDocument assembles the invoice model from a bill, the selling store
// and the bill's totals.
func BuildDocument(bill Bill, store StoreProfile, totals BillTotals) Document {
	store = store.WithDefaults()

	phones := store.Phone
	if store.AltPhone != "" {
		phones += " " + store.AltPhone
	}

	rows := make([]Row, 0, len(bill.Items))
	for i, item := range bill.Items {
		a := ItemAmounts(item, bill.TaxRatePercent)
		rows = append(rows, Row{
			SerialNo:        i + 1,
			MedicineName:    item.MedicineName,
			BatchNo:         item.BatchNo,
			HSNCode:         hsnCode(item),
			Rate:            round2(item.Price),
			MRP:             round2(mrp(item)),
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      bill.TaxRatePercent,
			TaxAmount:       round2(a.Tax),
			Amount:          round2(a.Total),
			Description:     description(item),
		})
	}

	terms := make([]string, len(Terms))
	copy(terms, Terms)

	return Document{
		FileName: FileName(bill.BillNo),
		Header: Header{
			Title:     "TAX INVOICE",
			Subtitle:  "MEDICAL INVOICE",
			StoreName: store.StoreName,
			Address:   store.Address,
			Phones:    phones,
		},
		Party: Party{
			CustomerName:    bill.Customer.Name,
			CustomerAddress: bill.Customer.Address,
			CustomerGSTIN:   bill.Customer.GSTIN,
			CustomerMobile:  bill.Customer.Mobile,
			InvoiceNo:       bill.BillNo,
			Date:            bill.CreatedAt,
			StoreGSTIN:      store.GSTNumber,
			PaymentMethod:   paymentMethod(bill.PaymentMethod),
		},
		Rows: rows,
		Totals: TotalsBlock{
			BillTotals:     totals,
			TaxRatePercent: bill.TaxRatePercent,
			AmountInWords:  AmountInWords(totals.GrandTotal),
		},
		Terms:     terms,
		Signatory: "For " + store.StoreName,
		Footer:    "This is a computer generated invoice",
	}
}

func hsnCode(item LineItem) string {
	if item.HSNCode == "" {
		return defaultHSNCode
	}
	return item.HSNCode
}

func mrp(item LineItem) decimal.Decimal {
	if item.MRP.IsZero() {
		return item.Price.Mul(mrpMarkup)
	}
	return item.MRP
}

func description(item LineItem) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Category + " Medicine"
}

func paymentMethod(m string) string {
	if m == "" {
		return "Cash"
	}
	return m
}
