package medicines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

func TestListFilter(t *testing.T) {
	th := Thresholds{LowStockAlert: 5}

	assert.Equal(t, bson.M{}, listFilter(ListQuery{}, th))

	f := listFilter(ListQuery{Search: "para+", Category: "Tablet"}, th)
	assert.Equal(t, "Tablet", f["category"])
	or := f["$or"].(bson.A)
	assert.Len(t, or, 2)
	assert.Equal(t, bson.M{"name": bson.M{"$regex": `para\+`, "$options": "i"}}, or[0])

	f = listFilter(ListQuery{StockStatus: invoice.OutOfStock}, th)
	assert.Equal(t, bson.M{"quantity": bson.M{"$lte": 0}}, f)

	for _, status := range []invoice.StockStatus{invoice.LowStock, invoice.InStock} {
		f = listFilter(ListQuery{StockStatus: status}, th)
		assert.Contains(t, f, "$expr", status)
		assert.NotContains(t, f, "quantity", status)
	}
}

func TestListFilter_DefaultLowStockAlert(t *testing.T) {
	f := listFilter(ListQuery{StockStatus: invoice.LowStock}, Thresholds{})
	expr := f["$expr"].(bson.M)["$and"].(bson.A)
	alert := expr[1].(bson.M)["$lte"].(bson.A)[1].(bson.M)["$cond"].(bson.A)
	assert.Equal(t, invoice.DefaultLowStockAlert, alert[2])

	m := med("1", "Insulin", invoice.DefaultLowStockAlert, "450", now.AddDate(1, 0, 0))
	assert.Equal(t, invoice.LowStock, Thresholds{}.view(m, now).StockStatus)
}

func TestThresholds_View(t *testing.T) {
	th := Thresholds{ExpiryWindowDays: 30, LowStockAlert: 5}

	m := med("1", "Insulin", 8, "450", now.AddDate(0, 0, 45))
	v := th.view(m, now)
	assert.Equal(t, invoice.InStock, v.StockStatus)
	assert.Equal(t, invoice.ExpirySafe, v.ExpiryStatus)
	assert.Equal(t, 45, v.DaysToExpiry)

	m.LowStockAlert = 10
	assert.Equal(t, invoice.LowStock, th.view(m, now).StockStatus)

	m.ExpiryDate = now.AddDate(-1, 0, 0)
	assert.Equal(t, invoice.ExpiryExpired, th.view(m, now).ExpiryStatus)
}
