package bills

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/teris-io/shortid"

	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

var validate = invoice.NewValidator()

type Profiles interface {
	Get(ctx context.Context, orgId string) (invoice.StoreProfile, error)
}

type Renderer interface {
	Render(doc invoice.Document, shareLink string) ([]byte, error)
}

type Uploader interface {
	ObjectKey(fileName string, at time.Time) string
	Upload(ctx context.Context, key string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

type Notifier interface {
	Enabled() bool
	SendInvoiceSMS(ctx context.Context, mobileNo, customerName, storeName, billNo, link string) (string, error)
}

type PaymentGateway interface {
	CreatePaymentLink(request helper.PaymentRequest) (helper.PaymentLink, error)
}

type Handler struct {
	Store    Store
	Profiles Profiles
	Renderer Renderer
	// Uploader, Notifier and Payments are optional.
	Uploader  Uploader
	Notifier  Notifier
	Payments  PaymentGateway
	PublicURL string
	Now       func() time.Time
	NewCode   func() (string, error)
}

func NewHandler(store Store, profiles Profiles, renderer Renderer, publicURL string) *Handler {
	return &Handler{
		Store:     store,
		Profiles:  profiles,
		Renderer:  renderer,
		PublicURL: strings.TrimRight(publicURL, "/"),
		Now:       time.Now,
		NewCode:   shortid.Generate,
	}
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrShareLinkNotFound):
		return helper.EntityNotFound(err.Error())
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInsufficientStock):
		return helper.Conflict(err.Error())
	}
	return helper.Unexpected(err.Error())
}

func view(r Record) (View, error) {
	totals, err := invoice.CalculateTotals(r.Bill)
	if err != nil {
		return View{}, err
	}
	return View{Record: r, Totals: totals, AmountInWords: invoice.AmountInWords(totals.GrandTotal)}, nil
}

// totals prices an unsaved cart.
func (h *Handler) totals(c *fiber.Ctx) error {
	var bill invoice.Bill
	if err := c.BodyParser(&bill); err != nil {
		return helper.BadRequest(err.Error())
	}
	totals, err := invoice.CalculateTotals(bill)
	if err != nil {
		return err
	}
	return helper.SuccessResponse(c, fiber.Map{
		"totals":        totals,
		"amountInWords": invoice.AmountInWords(totals.GrandTotal),
	})
}

type customerRules struct {
	Name   string `json:"name" validate:"required"`
	Mobile string `json:"mobile" validate:"omitempty,numeric,len=10"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type checkoutRules struct {
	Customer customerRules `json:"customer"`
}

// checkBill validates the customer on top of the bill invariants and reports
// every offending field at once.
func checkBill(bill invoice.Bill) error {
	var fields []invoice.FieldError
	rules := checkoutRules{Customer: customerRules{
		Name:   bill.Customer.Name,
		Mobile: bill.Customer.Mobile,
		Email:  bill.Customer.Email,
	}}
	if err := validate.Struct(rules); err != nil {
		fe, ok := invoice.FieldErrors(err)
		if !ok {
			return err
		}
		fields = append(fields, fe...)
	}
	if err := invoice.Validate(bill); err != nil {
		var invalid *invoice.InvalidBillError
		if !errors.As(err, &invalid) {
			return err
		}
		fields = append(fields, invalid.Fields...)
	}
	if len(fields) > 0 {
		return &invoice.InvalidBillError{Fields: fields}
	}
	return nil
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	var bill invoice.Bill
	if err := c.BodyParser(&bill); err != nil {
		return helper.BadRequest(err.Error())
	}
	bill.BillNo = strings.TrimSpace(bill.BillNo)
	bill.Customer.Name = strings.TrimSpace(bill.Customer.Name)
	bill.Customer.Mobile = strings.TrimSpace(bill.Customer.Mobile)
	if bill.PaymentMethod == "" {
		bill.PaymentMethod = defaultPaymentMode
	}
	bill.CreatedAt = h.Now()

	if err := checkBill(bill); err != nil {
		return err
	}
	totals, err := invoice.CalculateTotals(bill)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if bill.BillNo == "" {
		if bill.BillNo, err = h.Store.NextBillNumber(ctx, orgId, bill.CreatedAt); err != nil {
			return storeError(err)
		}
	}
	if err := h.Store.ReserveStock(ctx, orgId, bill.Items); err != nil {
		return storeError(err)
	}
	rec := Record{
		Id:        bill.BillNo,
		Bill:      bill,
		Snapshot:  snapshotOf(totals),
		CreatedBy: helper.GetUserTokenValue(c).UserId,
	}
	if err := h.Store.Insert(ctx, orgId, rec); err != nil {
		if rerr := h.Store.ReleaseStock(ctx, orgId, bill.Items); rerr != nil {
			logx.Error().Err(rerr).Str("org", orgId).Str("bill", bill.BillNo).Msg("stock release failed")
		}
		return storeError(err)
	}
	logx.Info().Str("org", orgId).Str("bill", bill.BillNo).Str("total", totals.GrandTotal.StringFixed(2)).Msg("bill saved")
	return helper.CreatedResponse(c, View{Record: rec, Totals: totals, AmountInWords: invoice.AmountInWords(totals.GrandTotal)})
}

func dateRange(c *fiber.Ctx) (helper.DateRange, error) {
	var r helper.DateRange
	var err error
	if s := c.Query("from"); s != "" {
		if r.From, err = helper.ParseDate(s); err != nil {
			return r, helper.BadRequest(err.Error())
		}
	}
	if s := c.Query("to"); s != "" {
		if r.To, err = helper.ParseDate(s); err != nil {
			return r, helper.BadRequest(err.Error())
		}
		// a bare date covers the whole day
		if r.To.Equal(r.To.Truncate(24 * time.Hour)) {
			r.To = r.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, helper.BadRequest("to must not be before from")
	}
	return r, nil
}

func (h *Handler) list(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	r, err := dateRange(c)
	if err != nil {
		return err
	}
	q := ListQuery{
		Search: c.Query("search"),
		Range:  r,
		Page:   helper.Page(c.Query("page")),
		Limit:  helper.Limit(c.Query("limit")),
	}
	recs, total, err := h.Store.List(c.UserContext(), orgId, q)
	if err != nil {
		return storeError(err)
	}
	views := make([]View, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		v, err := view(rec)
		if err != nil {
			logx.Warn().Err(err).Str("org", orgId).Str("bill", rec.BillNo).Msg("skipping malformed bill")
			skipped++
			continue
		}
		views = append(views, v)
	}
	return helper.SuccessResponse(c, Page{Bills: views, Total: total - int64(skipped), Skipped: skipped, Page: q.Page, Limit: q.Limit})
}

func (h *Handler) record(c *fiber.Ctx) (string, Record, error) {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return "", Record{}, err
	}
	rec, err := h.Store.Get(c.UserContext(), orgId, c.Params("billNo"))
	if err != nil {
		return orgId, rec, storeError(err)
	}
	return orgId, rec, nil
}

func (h *Handler) get(c *fiber.Ctx) error {
	_, rec, err := h.record(c)
	if err != nil {
		return err
	}
	v, err := view(rec)
	if err != nil {
		return err
	}
	return helper.SuccessResponse(c, v)
}

// remove deletes a bill and puts its stock back on the shelf.
func (h *Handler) remove(c *fiber.Ctx) error {
	orgId, rec, err := h.record(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := h.Store.Delete(ctx, orgId, rec.Id); err != nil {
		return storeError(err)
	}
	if err := h.Store.ReleaseStock(ctx, orgId, rec.Items); err != nil {
		logx.Error().Err(err).Str("org", orgId).Str("bill", rec.Id).Msg("stock release failed")
	}
	if rec.Export != nil && h.Uploader != nil {
		if err := h.Uploader.Delete(ctx, rec.Export.Key); err != nil {
			logx.Warn().Err(err).Str("key", rec.Export.Key).Msg("invoice object not removed")
		}
	}
	return helper.SuccessResponse(c, fiber.Map{"deleted": rec.Id})
}

func (h *Handler) document(c *fiber.Ctx) (string, Record, invoice.Document, error) {
	orgId, rec, err := h.record(c)
	if err != nil {
		return orgId, rec, invoice.Document{}, err
	}
	totals, err := invoice.CalculateTotals(rec.Bill)
	if err != nil {
		return orgId, rec, invoice.Document{}, err
	}
	store, err := h.Profiles.Get(c.UserContext(), orgId)
	if err != nil {
		return orgId, rec, invoice.Document{}, helper.Unexpected(err.Error())
	}
	return orgId, rec, invoice.BuildDocument(rec.Bill, store, totals), nil
}

func (h *Handler) invoiceDocument(c *fiber.Ctx) error {
	_, _, doc, err := h.document(c)
	if err != nil {
		return err
	}
	return helper.SuccessResponse(c, doc)
}

func (h *Handler) pdf(c *fiber.Ctx) error {
	_, rec, doc, err := h.document(c)
	if err != nil {
		return err
	}
	shareURL := ""
	if rec.Export != nil {
		shareURL = rec.Export.ShareURL
	}
	raw, err := h.Renderer.Render(doc, shareURL)
	if err != nil {
		return invoice.ExportFailed("render", err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Send(raw)
}

// export renders the invoice, uploads it and publishes a share link. Nothing
// is left behind when a step fails, so the call can be retried.
func (h *Handler) export(c *fiber.Ctx) error {
	orgId, rec, doc, err := h.document(c)
	if err != nil {
		return err
	}
	if h.Uploader == nil {
		return invoice.ExportFailed("upload", errors.New("object storage not configured"))
	}
	ctx := c.UserContext()
	now := h.Now()

	code, err := h.NewCode()
	if err != nil {
		return invoice.ExportFailed("share-code", err)
	}
	shareURL := h.PublicURL + "/s/" + code

	raw, err := h.Renderer.Render(doc, shareURL)
	if err != nil {
		return invoice.ExportFailed("render", err)
	}
	// one object per export; the share code keeps keys apart
	key := h.Uploader.ObjectKey(strings.TrimSuffix(doc.FileName, ".pdf")+"-"+code+".pdf", now)
	link, err := h.Uploader.Upload(ctx, key, raw)
	if err != nil {
		return invoice.ExportFailed("upload", err)
	}

	info := ExportInfo{
		Id:         helper.GetRandomUUID(),
		Key:        key,
		Link:       link,
		ShareCode:  code,
		ShareURL:   shareURL,
		ExportedAt: now,
	}
	if err := h.Store.SaveShareLink(ctx, helper.ShortURL{Id: code, OrgId: orgId, OriginalURL: link, RefId: rec.Id, CreatedAt: now}); err != nil {
		h.discardUpload(ctx, key)
		return invoice.ExportFailed("share-link", err)
	}
	if err := h.Store.SetExport(ctx, orgId, rec.Id, info); err != nil {
		if derr := h.Store.DeleteShareLink(ctx, code); derr != nil {
			logx.Warn().Err(derr).Str("code", code).Msg("orphaned share link")
		}
		h.discardUpload(ctx, key)
		return invoice.ExportFailed("record", err)
	}
	logx.Info().Str("org", orgId).Str("bill", rec.Id).Str("key", key).Msg("invoice exported")
	if prev := rec.Export; prev != nil {
		h.retireExport(ctx, *prev, info)
	}

	if c.QueryBool("notify") && h.Notifier != nil && h.Notifier.Enabled() && rec.Customer.Mobile != "" {
		smsId, err := h.Notifier.SendInvoiceSMS(ctx, rec.Customer.Mobile, rec.Customer.Name, doc.Header.StoreName, rec.Id, shareURL)
		if err != nil {
			logx.Warn().Err(err).Str("bill", rec.Id).Msg("invoice SMS not sent")
		}
		info.SMSId = smsId
	}
	return helper.SuccessResponse(c, info)
}

// retireExport drops the object and share link of an export the bill no
// longer points at.
func (h *Handler) retireExport(ctx context.Context, prev, current ExportInfo) {
	if prev.ShareCode != "" && prev.ShareCode != current.ShareCode {
		if err := h.Store.DeleteShareLink(ctx, prev.ShareCode); err != nil {
			logx.Warn().Err(err).Str("code", prev.ShareCode).Msg("stale share link not removed")
		}
	}
	if prev.Key != "" && prev.Key != current.Key {
		h.discardUpload(ctx, prev.Key)
	}
}

func (h *Handler) discardUpload(ctx context.Context, key string) {
	if err := h.Uploader.Delete(ctx, key); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("orphaned invoice object")
	}
}

func (h *Handler) paymentLink(c *fiber.Ctx) error {
	orgId, rec, err := h.record(c)
	if err != nil {
		return err
	}
	if strings.EqualFold(rec.PaymentMethod, defaultPaymentMode) {
		return helper.BadRequest("cash bills take no payment link")
	}
	if h.Payments == nil {
		return helper.BadGateway("payment gateway not configured")
	}
	totals, err := invoice.CalculateTotals(rec.Bill)
	if err != nil {
		return err
	}
	link, err := h.Payments.CreatePaymentLink(helper.PaymentRequest{
		OrderId:        rec.Id,
		Amount:         totals.GrandTotal,
		CustomerId:     customerId(rec.Customer),
		CustomerMobile: rec.Customer.Mobile,
		CustomerEmail:  rec.Customer.Email,
		Note:           "Invoice " + rec.Id,
	})
	if err != nil {
		return helper.BadGateway(err.Error())
	}
	if err := h.Store.SetPayment(c.UserContext(), orgId, rec.Id, link); err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, link)
}

func customerId(cu invoice.Customer) string {
	if cu.Mobile != "" {
		return cu.Mobile
	}
	return strings.ReplaceAll(strings.ToLower(cu.Name), " ", "-")
}

func (h *Handler) salesStats(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	r, err := dateRange(c)
	if err != nil {
		return err
	}
	days, err := h.Store.SalesStats(c.UserContext(), orgId, r)
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, summarize(days))
}

var registerHeaders = []string{"Bill No", "Date", "Customer", "Mobile", "Payment", "Items", "Subtotal", "Discount", "Tax", "Total", "Amount in Words"}

// exportRegister downloads the bill register as a spreadsheet.
func (h *Handler) exportRegister(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	r, err := dateRange(c)
	if err != nil {
		return err
	}
	recs, err := h.Store.All(c.UserContext(), orgId, r)
	if err != nil {
		return storeError(err)
	}
	rows := make([][]interface{}, 0, len(recs))
	for _, rec := range recs {
		v, err := view(rec)
		if err != nil {
			continue
		}
		t := v.Totals
		rows = append(rows, []interface{}{
			rec.Id, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Customer.Name, rec.Customer.Mobile,
			rec.PaymentMethod, len(rec.Items),
			t.Subtotal.InexactFloat64(), t.TotalDiscount.InexactFloat64(),
			t.TaxAmount.InexactFloat64(), t.GrandTotal.InexactFloat64(),
			v.AmountInWords,
		})
	}
	raw, err := helper.WriteSheet("Bills", registerHeaders, rows)
	if err != nil {
		return helper.Unexpected(err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bills.xlsx"`)
	return c.Send(raw)
}

// redirect resolves a public share code to the stored invoice.
func (h *Handler) redirect(c *fiber.Ctx) error {
	link, err := h.Store.ShareLink(c.UserContext(), c.Params("code"))
	if err != nil {
		return storeError(err)
	}
	return c.Redirect(link.OriginalURL, fiber.StatusFound)
}
