package bills

import (
	"time"

	"github.com/shopspring/decimal"

	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

const (
	CollectionName     = "bill"
	ShareLinkColl      = "shorten_url"
	billSequenceKey    = "BILL"
	defaultPaymentMode = "Cash"
)

// Record is a saved bill. The bill number doubles as the document id.
type Record struct {
	Id           string `json:"-" bson:"_id"`
	invoice.Bill `bson:",inline"`
	// Snapshot copies the totals at checkout so the sales aggregation can
	// sum them. Responses always recompute from the bill.
	Snapshot  Snapshot            `json:"-" bson:"totals"`
	CreatedBy string              `json:"createdBy" bson:"created_by"`
	Export    *ExportInfo         `json:"export,omitempty" bson:"export,omitempty"`
	Payment   *helper.PaymentLink `json:"payment,omitempty" bson:"payment,omitempty"`
}

type Snapshot struct {
	Subtotal      decimal.Decimal `bson:"subtotal"`
	TotalDiscount decimal.Decimal `bson:"total_discount"`
	TaxAmount     decimal.Decimal `bson:"tax_amount"`
	GrandTotal    decimal.Decimal `bson:"grand_total"`
}

func snapshotOf(t invoice.BillTotals) Snapshot {
	return Snapshot{
		Subtotal:      t.Subtotal,
		TotalDiscount: t.TotalDiscount,
		TaxAmount:     t.TaxAmount,
		GrandTotal:    t.GrandTotal,
	}
}

// ExportInfo records where a bill's PDF was uploaded.
type ExportInfo struct {
	Id         string    `json:"id" bson:"id"`
	Key        string    `json:"key" bson:"key"`
	Link       string    `json:"link" bson:"link"`
	ShareCode  string    `json:"shareCode" bson:"share_code"`
	ShareURL   string    `json:"shareUrl" bson:"share_url"`
	ExportedAt time.Time `json:"exportedAt" bson:"exported_at"`
	SMSId      string    `json:"smsId,omitempty" bson:"-"`
}

// View is a bill as the API returns it.
type View struct {
	Record
	Totals        invoice.BillTotals `json:"totals"`
	AmountInWords string             `json:"amountInWords"`
}

type ListQuery struct {
	Search string
	Range  helper.DateRange
	Page   int64
	Limit  int64
}

// Page is one page of bills. Total leaves out the malformed bills that were
// skipped on this page.
type Page struct {
	Bills   []View `json:"bills"`
	Total   int64  `json:"total"`
	Skipped int    `json:"skipped,omitempty"`
	Page    int64  `json:"page"`
	Limit   int64  `json:"limit"`
}

type DailySales struct {
	Date    string          `json:"date" bson:"_id"`
	Revenue decimal.Decimal `json:"revenue" bson:"revenue"`
	Bills   int64           `json:"bills" bson:"bills"`
	Items   int64           `json:"items" bson:"items"`
}

type SalesStats struct {
	Days         []DailySales    `json:"days"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalBills   int64           `json:"totalBills"`
	AverageBill  decimal.Decimal `json:"averageBill"`
}

func summarize(days []DailySales) SalesStats {
	stats := SalesStats{Days: days, TotalRevenue: decimal.Zero, AverageBill: decimal.Zero}
	if stats.Days == nil {
		stats.Days = []DailySales{}
	}
	for _, d := range days {
		stats.TotalRevenue = stats.TotalRevenue.Add(d.Revenue)
		stats.TotalBills += d.Bills
	}
	if stats.TotalBills > 0 {
		stats.AverageBill = stats.TotalRevenue.Div(decimal.NewFromInt(stats.TotalBills)).Round(2)
	}
	stats.TotalRevenue = stats.TotalRevenue.Round(2)
	return stats
}
