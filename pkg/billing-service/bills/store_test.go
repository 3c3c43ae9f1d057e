package bills

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kriyatec.com/medstore-api/pkg/shared/database"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

func TestStockDemand(t *testing.T) {
	ids, qty := stockDemand([]invoice.LineItem{
		{MedicineID: "m-2", Quantity: 1},
		{MedicineID: "m-1", Quantity: 2},
		{MedicineID: "m-2", Quantity: 3},
		{MedicineName: "loose item", Quantity: 4},
		{MedicineID: "m-3", Quantity: 0},
	})
	assert.Equal(t, []string{"m-2", "m-1"}, ids)
	assert.Equal(t, map[string]int{"m-2": 4, "m-1": 2}, qty)
}

func TestListFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, listFilter(ListQuery{}))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := listFilter(ListQuery{Search: "Ravi", Range: helper.DateRange{From: from}})
	assert.Equal(t, bson.M{"$gte": from}, f["created_at"])
	require.Contains(t, f, "$or")
	assert.Len(t, f["$or"], 3)
}

func TestSalesPipeline(t *testing.T) {
	p := salesPipeline(helper.DateRange{})
	require.Len(t, p, 3)
	assert.Equal(t, "$match", p[0][0].Key)
	group := p[1][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$sum": "$totals.grand_total"}, group["revenue"])
	assert.Equal(t, "$sort", p[2][0].Key)
}

func TestRecordStorageShape(t *testing.T) {
	bill := invoice.Bill{
		BillNo:   "B-1",
		Customer: invoice.Customer{Name: "Ravi"},
		Items:    []invoice.LineItem{{MedicineName: "ORS", Quantity: 1}},
	}
	raw, err := bson.MarshalWithRegistry(database.Registry, Record{Id: "B-1", Bill: bill, Snapshot: Snapshot{GrandTotal: decimal.RequireFromString("20.00")}})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.UnmarshalWithRegistry(database.Registry, raw, &doc))
	assert.Equal(t, "B-1", doc["_id"])
	assert.Equal(t, "B-1", doc["bill_no"])
	assert.Contains(t, doc, "items")
	totals := doc["totals"].(bson.M)
	assert.IsType(t, primitive.Decimal128{}, totals["grand_total"])
	assert.NotContains(t, doc, "export")
}
