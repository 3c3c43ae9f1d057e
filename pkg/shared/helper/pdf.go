package helper

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

// minTableRows keeps short invoices from looking empty on paper.
const minTableRows = 5

type GoPdf struct {
	*gofpdf.Fpdf
}

type pdfColumn struct {
	title string
	width float64
	align string
}

var invoiceColumns = []pdfColumn{
	{"S.No", 10, "C"},
	{"Medicine", 40, "L"},
	{"Batch", 18, "L"},
	{"HSN", 14, "C"},
	{"MRP", 16, "R"},
	{"Rate", 16, "R"},
	{"Qty", 10, "R"},
	{"Disc%", 12, "R"},
	{"Tax%", 12, "R"},
	{"Tax", 18, "R"},
	{"Amount", 24, "R"},
}

// InvoicePDF renders an invoice document as an A4 PDF.
type InvoicePDF struct{}

// Render draws doc and, when shareLink is set, a QR code pointing at it.
func (InvoicePDF) Render(doc invoice.Document, shareLink string) ([]byte, error) {
	pdf := GoPdf{gofpdf.New("P", "mm", "A4", "")}
	pdf.SetTitle(doc.FileName, false)
	pdf.SetAutoPageBreak(true, 20)
	pdf.footer(doc.Footer)
	pdf.AddPage()

	pdf.header(doc.Header, doc.Party.StoreGSTIN)
	pdf.party(doc.Party)
	pdf.itemTable(doc.Rows)
	pdf.totals(doc.Totals)
	if shareLink != "" {
		png, err := qrcode.Encode(shareLink, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}
		pdf.qr(png)
	}
	pdf.terms(doc.Terms, doc.Signatory)

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (pdf *GoPdf) header(h invoice.Header, gstin string) {
	pdf.SetFont("Arial", "B", 16)
	titleWidth := pdf.GetStringWidth(h.Title)
	pdf.SetXY(200-titleWidth, 10)
	pdf.Cell(titleWidth, 10, h.Title)
	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(200-titleWidth, 17)
	pdf.Cell(titleWidth, 6, h.Subtitle)

	pdf.SetXY(10, 10)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(120, 8, h.StoreName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(120, 5, h.Address, "", "L", false)
	pdf.Cell(120, 5, "Phone: "+h.Phones)
	pdf.Ln(5)
	if gstin != "" {
		pdf.Cell(120, 5, "GSTIN: "+gstin)
		pdf.Ln(5)
	}
	pdf.Ln(3)
	y := pdf.GetY()
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(10, y, 200, y)
	pdf.Ln(3)
}

func (pdf *GoPdf) party(p invoice.Party) {
	startY := pdf.GetY()
	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(10, startY)
	pdf.Cell(95, 6, "Bill To:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	lines := p.CustomerName
	if p.CustomerAddress != "" {
		lines += "\n" + p.CustomerAddress
	}
	if p.CustomerMobile != "" {
		lines += "\nMobile No: " + p.CustomerMobile
	}
	if p.CustomerGSTIN != "" {
		lines += "\nGSTIN: " + p.CustomerGSTIN
	}
	pdf.MultiCell(95, 5, lines, "", "L", false)
	leftEnd := pdf.GetY()

	pdf.SetXY(135, startY)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(65, 6, "Invoice # : "+p.InvoiceNo)
	pdf.SetXY(135, startY+6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(65, 5, "Date : "+p.Date.Format("02-01-2006"))
	pdf.SetXY(135, startY+11)
	pdf.Cell(65, 5, "Payment : "+p.PaymentMethod)

	pdf.SetXY(10, math.Max(leftEnd, startY+16)+4)
}

func (pdf *GoPdf) tableHeader() {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(173, 216, 230)
	pdf.SetDrawColor(200, 200, 200)
	for _, col := range invoiceColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
}

func (pdf *GoPdf) itemTable(rows []invoice.Row) {
	const lineHeight = 5.0
	_, pageHeight := pdf.GetPageSize()
	_, _, _, marginBottom := pdf.GetMargins()

	pdf.tableHeader()
	for i := 0; i < len(rows) || i < minTableRows; i++ {
		cells := make([]string, len(invoiceColumns))
		if i < len(rows) {
			cells = rowCells(rows[i])
		}

		height := lineHeight
		for c, col := range invoiceColumns {
			n := len(pdf.SplitLines([]byte(cells[c]), col.width-2))
			height = math.Max(height, float64(n)*lineHeight)
		}
		if pdf.GetY()+height > pageHeight-marginBottom {
			pdf.AddPage()
			pdf.tableHeader()
		}

		x, y := pdf.GetXY()
		for c, col := range invoiceColumns {
			pdf.Rect(x, y, col.width, height, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(col.width, lineHeight, cells[c], "", col.align, false)
			x += col.width
		}
		pdf.SetXY(10, y+height)
	}
	pdf.Ln(4)
}

func rowCells(r invoice.Row) []string {
	name := r.MedicineName
	if r.Description != "" {
		name += "\n" + r.Description
	}
	return []string{
		fmt.Sprintf("%d", r.SerialNo),
		name,
		r.BatchNo,
		r.HSNCode,
		r.MRP.StringFixed(2),
		r.Rate.StringFixed(2),
		fmt.Sprintf("%d", r.Quantity),
		invoice.Percent(r.DiscountPercent),
		invoice.Percent(r.TaxPercent),
		r.TaxAmount.StringFixed(2),
		r.Amount.StringFixed(2),
	}
}

func (pdf *GoPdf) totals(t invoice.TotalsBlock) {
	lines := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", t.Subtotal.StringFixed(2), false},
		{"Discount", t.TotalDiscount.StringFixed(2), false},
		{fmt.Sprintf("Tax (%s%%)", invoice.Percent(t.TaxRatePercent)), t.TaxAmount.StringFixed(2), false},
		{"Total (Rs.)", t.GrandTotal.StringFixed(2), true},
	}
	for _, l := range lines {
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.SetX(130)
		pdf.CellFormat(40, 6, l.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, l.value, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(40, 6, "Amount in words:")
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(150, 6, t.AmountInWords, "", "L", false)
	pdf.Ln(4)
}

func (pdf *GoPdf) qr(png []byte) {
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
	y := pdf.GetY()
	pdf.ImageOptions("share-qr", 170, y, 28, 28, false, opts, 0, "")
	pdf.SetFont("Arial", "", 7)
	pdf.SetXY(165, y+28)
	pdf.CellFormat(38, 4, "Scan for a digital copy", "", 0, "C", false, 0, "")
	pdf.SetXY(10, y)
}

func (pdf *GoPdf) terms(terms []string, signatory string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(100, 6, "Terms & Conditions")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 8)
	for i, t := range terms {
		pdf.Cell(150, 4.5, fmt.Sprintf("%d. %s", i+1, t))
		pdf.Ln(4.5)
	}
	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(190, 6, signatory, "0", 1, "R", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(190, 6, "_______________________", "0", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, "Seal & Signature", "0", 1, "R", false, 0, "")
}

func (pdf *GoPdf) footer(text string) {
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, text, "0", 0, "C", false, 0, "")
		pdf.SetX(10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "0", 0, "R", false, 0, "")
	})
}
