package medicines

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

var validate = invoice.NewValidator()

type Handler struct {
	Store      Store
	Thresholds Thresholds
	Now        func() time.Time
}

func NewHandler(store Store, t Thresholds) *Handler {
	return &Handler{Store: store, Thresholds: t, Now: time.Now}
}

// medicineInput accepts the expiry date in any of the formats staff use.
type medicineInput struct {
	Name          string          `json:"name"`
	BatchNo       string          `json:"batchNo"`
	Category      string          `json:"category"`
	Manufacturer  string          `json:"manufacturer"`
	HSNCode       string          `json:"hsnCode"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	MRP           decimal.Decimal `json:"mrp"`
	ExpiryDate    string          `json:"expiryDate"`
	LowStockAlert int             `json:"lowStockAlert"`
	Supplier      string          `json:"supplier"`
	Description   string          `json:"description"`
}

func (in medicineInput) medicine() (Medicine, error) {
	m := Medicine{
		Name:          strings.TrimSpace(in.Name),
		BatchNo:       strings.TrimSpace(in.BatchNo),
		Category:      in.Category,
		Manufacturer:  in.Manufacturer,
		HSNCode:       in.HSNCode,
		Quantity:      in.Quantity,
		Price:         in.Price,
		MRP:           in.MRP,
		LowStockAlert: in.LowStockAlert,
		Supplier:      in.Supplier,
		Description:   in.Description,
	}
	if in.ExpiryDate != "" {
		expiry, err := helper.ParseDate(in.ExpiryDate)
		if err != nil {
			return m, helper.InvalidInput("invalid medicine", []invoice.FieldError{{Field: "expiryDate", Message: err.Error()}})
		}
		m.ExpiryDate = expiry
	}
	return m, checkMedicine(m)
}

func checkMedicine(m Medicine) error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	if fields, ok := invoice.FieldErrors(err); ok {
		return helper.InvalidInput("invalid medicine", fields)
	}
	return helper.BadRequest(err.Error())
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return helper.EntityNotFound(err.Error())
	}
	if errors.Is(err, ErrInsufficientStock) {
		return helper.Conflict(err.Error())
	}
	return helper.Unexpected(err.Error())
}

func (h *Handler) list(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	q := ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     helper.Page(c.Query("page")),
		Limit:    helper.Limit(c.Query("limit")),
	}
	if s := c.Query("stockStatus"); s != "" {
		status, ok := parseStockStatus(s)
		if !ok {
			return helper.BadRequest("unknown stockStatus " + s)
		}
		q.StockStatus = status
	}

	meds, total, err := h.Store.List(c.UserContext(), orgId, q, h.Thresholds)
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, Page{Medicines: h.views(meds), Total: total, Page: q.Page, Limit: q.Limit})
}

func parseStockStatus(s string) (invoice.StockStatus, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "instock":
		return invoice.InStock, true
	case "lowstock":
		return invoice.LowStock, true
	case "outofstock":
		return invoice.OutOfStock, true
	}
	return "", false
}

func (h *Handler) views(meds []Medicine) []View {
	now := h.Now()
	views := make([]View, 0, len(meds))
	for _, m := range meds {
		views = append(views, h.Thresholds.view(m, now))
	}
	return views
}

func (h *Handler) get(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	m, err := h.Store.Get(c.UserContext(), orgId, c.Params("id"))
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, h.Thresholds.view(m, h.Now()))
}

func (h *Handler) create(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	var in medicineInput
	if err := c.BodyParser(&in); err != nil {
		return helper.BadRequest(err.Error())
	}
	m, err := in.medicine()
	if err != nil {
		return err
	}
	m.Id = uuid.NewString()
	m.CreatedOn = h.Now()
	m.CreatedBy = helper.GetUserTokenValue(c).UserId
	if err := h.Store.Insert(c.UserContext(), orgId, m); err != nil {
		return storeError(err)
	}
	return helper.CreatedResponse(c, h.Thresholds.view(m, h.Now()))
}

func (h *Handler) update(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	var in medicineInput
	if err := c.BodyParser(&in); err != nil {
		return helper.BadRequest(err.Error())
	}
	m, err := in.medicine()
	if err != nil {
		return err
	}
	m.Id = c.Params("id")
	m.UpdatedOn = h.Now()
	m.UpdatedBy = helper.GetUserTokenValue(c).UserId
	ctx := c.UserContext()
	if err := h.Store.Update(ctx, orgId, m.Id, m); err != nil {
		return storeError(err)
	}
	// quantity is not part of an update, answer with what is stored
	saved, err := h.Store.Get(ctx, orgId, m.Id)
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, h.Thresholds.view(saved, h.Now()))
}

type stockInput struct {
	Delta int `json:"delta"`
}

// adjustStock restocks (positive delta) or writes off (negative delta) units.
func (h *Handler) adjustStock(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	var in stockInput
	if err := c.BodyParser(&in); err != nil {
		return helper.BadRequest(err.Error())
	}
	if in.Delta == 0 {
		return helper.InvalidInput("invalid stock change", []invoice.FieldError{{Field: "delta", Message: "must not be zero"}})
	}
	m, err := h.Store.AdjustStock(c.UserContext(), orgId, c.Params("id"), in.Delta, helper.GetUserTokenValue(c).UserId, h.Now())
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, h.Thresholds.view(m, h.Now()))
}

func (h *Handler) remove(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	if err := h.Store.Delete(c.UserContext(), orgId, c.Params("id")); err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, fiber.Map{"deleted": c.Params("id")})
}

// expiry lists stock that expires within days (type=expiring, the default)
// or has already expired (type=expired).
func (h *Handler) expiry(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	kind := c.Query("type", "expiring")
	if kind != "expiring" && kind != "expired" {
		return helper.BadRequest("type must be expiring or expired")
	}
	days := h.Thresholds.ExpiryWindowDays
	if s := c.Query("days"); s != "" {
		days, err = strconv.Atoi(s)
		if err != nil || days <= 0 {
			return helper.BadRequest("days must be a positive number")
		}
	}

	now := h.Now()
	meds, err := h.Store.ExpiringBefore(c.UserContext(), orgId, now.AddDate(0, 0, days))
	if err != nil {
		return storeError(err)
	}
	want := invoice.ExpiryExpiring
	if kind == "expired" {
		want = invoice.ExpiryExpired
	}
	result := []View{}
	for _, m := range meds {
		if invoice.ExpiryStatusOf(m.ExpiryDate, now, days) == want {
			result = append(result, h.Thresholds.view(m, now))
		}
	}
	return helper.SuccessResponse(c, result)
}

func (h *Handler) dashboardStats(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	meds, err := h.Store.All(c.UserContext(), orgId)
	if err != nil {
		return storeError(err)
	}
	return helper.SuccessResponse(c, h.stats(meds))
}

func (h *Handler) stats(meds []Medicine) DashboardStats {
	stats := DashboardStats{InventoryValue: decimal.Zero}
	for _, v := range h.views(meds) {
		stats.TotalMedicines++
		stats.TotalUnits += int64(v.Quantity)
		switch v.StockStatus {
		case invoice.LowStock:
			stats.LowStock++
		case invoice.OutOfStock:
			stats.OutOfStock++
		}
		switch v.ExpiryStatus {
		case invoice.ExpiryExpiring:
			stats.Expiring++
		case invoice.ExpiryExpired:
			stats.Expired++
		}
		if v.Quantity > 0 {
			stats.InventoryValue = stats.InventoryValue.Add(v.Price.Mul(decimal.NewFromInt(int64(v.Quantity))))
		}
	}
	stats.InventoryValue = stats.InventoryValue.Round(2)
	return stats
}

var exportHeaders = []string{"Name", "Batch No", "Category", "Manufacturer", "HSN Code", "Quantity", "Price", "MRP", "Expiry Date", "Stock Status", "Expiry Status"}

func (h *Handler) export(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	meds, err := h.Store.All(c.UserContext(), orgId)
	if err != nil {
		return storeError(err)
	}
	rows := make([][]interface{}, 0, len(meds))
	for _, v := range h.views(meds) {
		expiry := ""
		if !v.ExpiryDate.IsZero() {
			expiry = v.ExpiryDate.Format("2006-01-02")
		}
		rows = append(rows, []interface{}{
			v.Name, v.BatchNo, v.Category, v.Manufacturer, v.HSNCode, v.Quantity,
			v.Price.Round(2).InexactFloat64(), v.MRP.Round(2).InexactFloat64(),
			expiry, string(v.StockStatus), string(v.ExpiryStatus),
		})
	}
	raw, err := helper.WriteSheet("Medicines", exportHeaders, rows)
	if err != nil {
		return helper.Unexpected(err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="medicines.xlsx"`)
	return c.Send(raw)
}

// importColumns maps accepted sheet headers to input fields.
var importColumns = map[string]string{
	"name":            "name",
	"medicine":        "name",
	"medicine name":   "name",
	"batch":           "batchNo",
	"batch no":        "batchNo",
	"batchno":         "batchNo",
	"category":        "category",
	"manufacturer":    "manufacturer",
	"hsn":             "hsnCode",
	"hsn code":        "hsnCode",
	"qty":             "quantity",
	"quantity":        "quantity",
	"price":           "price",
	"rate":            "price",
	"mrp":             "mrp",
	"expiry":          "expiryDate",
	"expiry date":     "expiryDate",
	"low stock alert": "lowStockAlert",
	"supplier":        "supplier",
	"description":     "description",
}

func rowInput(row map[string]string) (medicineInput, error) {
	fields := map[string]string{}
	for header, value := range row {
		if name, ok := importColumns[header]; ok {
			fields[name] = value
		}
	}
	in := medicineInput{
		Name:         fields["name"],
		BatchNo:      fields["batchNo"],
		Category:     fields["category"],
		Manufacturer: fields["manufacturer"],
		HSNCode:      fields["hsnCode"],
		ExpiryDate:   fields["expiryDate"],
		Supplier:     fields["supplier"],
		Description:  fields["description"],
	}
	var err error
	if in.Quantity, err = atoiOrZero(fields["quantity"]); err != nil {
		return in, fmt.Errorf("quantity: %w", err)
	}
	if in.LowStockAlert, err = atoiOrZero(fields["lowStockAlert"]); err != nil {
		return in, fmt.Errorf("low stock alert: %w", err)
	}
	if in.Price, err = decimalOrZero(fields["price"]); err != nil {
		return in, fmt.Errorf("price: %w", err)
	}
	if in.MRP, err = decimalOrZero(fields["mrp"]); err != nil {
		return in, fmt.Errorf("mrp: %w", err)
	}
	return in, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (h *Handler) importSheet(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	file, err := c.FormFile("file")
	if err != nil {
		return helper.BadRequest("file not found")
	}
	f, err := file.Open()
	if err != nil {
		return helper.BadRequest(err.Error())
	}
	defer f.Close()
	rows, err := helper.ReadSheet(f)
	if err != nil {
		return helper.BadRequest(err.Error())
	}

	now := h.Now()
	user := helper.GetUserTokenValue(c).UserId
	var result ImportResult
	var meds []Medicine
	for i, row := range rows {
		// row 1 holds the headers
		label := fmt.Sprintf("row %d", i+2)
		in, err := rowInput(row)
		if err != nil {
			result.Skipped = append(result.Skipped, invoice.FieldError{Field: label, Message: err.Error()})
			continue
		}
		m, err := in.medicine()
		if err != nil {
			result.Skipped = append(result.Skipped, invoice.FieldError{Field: label, Message: err.Error()})
			continue
		}
		m.Id = uuid.NewString()
		m.CreatedOn = now
		m.CreatedBy = user
		meds = append(meds, m)
	}
	result.Inserted, err = h.Store.InsertMany(c.UserContext(), orgId, meds)
	if err != nil {
		return storeError(err)
	}
	logx.Info().Str("org", orgId).Int("inserted", result.Inserted).Int("skipped", len(result.Skipped)).Msg("medicine import")
	return helper.SuccessResponse(c, result)
}
