package bills

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kriyatec.com/medstore-api/pkg/billing-service/medicines"
	"kriyatec.com/medstore-api/pkg/shared/database"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

var (
	ErrNotFound          = errors.New("bill not found")
	ErrDuplicate         = errors.New("bill number already used")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrShareLinkNotFound = errors.New("share link not found")
)

// Store persists bills and the stock they consume.
type Store interface {
	NextBillNumber(ctx context.Context, orgId string, now time.Time) (string, error)
	// ReserveStock takes every item's quantity off its medicine or nothing at
	// all. Items without a medicine id are not stock tracked.
	ReserveStock(ctx context.Context, orgId string, items []invoice.LineItem) error
	ReleaseStock(ctx context.Context, orgId string, items []invoice.LineItem) error
	Insert(ctx context.Context, orgId string, r Record) error
	Get(ctx context.Context, orgId, billNo string) (Record, error)
	List(ctx context.Context, orgId string, q ListQuery) ([]Record, int64, error)
	All(ctx context.Context, orgId string, r helper.DateRange) ([]Record, error)
	Delete(ctx context.Context, orgId, billNo string) error
	SetExport(ctx context.Context, orgId, billNo string, e ExportInfo) error
	SetPayment(ctx context.Context, orgId, billNo string, p helper.PaymentLink) error
	SalesStats(ctx context.Context, orgId string, r helper.DateRange) ([]DailySales, error)
	SaveShareLink(ctx context.Context, link helper.ShortURL) error
	ShareLink(ctx context.Context, code string) (helper.ShortURL, error)
	DeleteShareLink(ctx context.Context, code string) error
}

type MongoStore struct{}

func collection(orgId string) *mongo.Collection {
	return database.GetConnection(orgId).Collection(CollectionName)
}

func (MongoStore) NextBillNumber(ctx context.Context, orgId string, now time.Time) (string, error) {
	seq, err := helper.GetNextSeqNumber(ctx, orgId, billSequenceKey)
	if err != nil {
		return "", err
	}
	return invoice.NewBillNumber(now, seq), nil
}

// stockDemand sums the quantities per medicine, keeping first-seen order.
func stockDemand(items []invoice.LineItem) ([]string, map[string]int) {
	var ids []string
	qty := map[string]int{}
	for _, item := range items {
		if item.MedicineID == "" || item.Quantity <= 0 {
			continue
		}
		if _, ok := qty[item.MedicineID]; !ok {
			ids = append(ids, item.MedicineID)
		}
		qty[item.MedicineID] += item.Quantity
	}
	return ids, qty
}

func (s MongoStore) ReserveStock(ctx context.Context, orgId string, items []invoice.LineItem) error {
	ids, qty := stockDemand(items)
	coll := database.GetConnection(orgId).Collection(medicines.CollectionName)
	var taken []invoice.LineItem
	for _, id := range ids {
		res, err := coll.UpdateOne(ctx,
			bson.M{"_id": id, "quantity": bson.M{"$gte": qty[id]}},
			bson.M{"$inc": bson.M{"quantity": -qty[id]}})
		if err == nil && res.MatchedCount == 0 {
			err = fmt.Errorf("%w for medicine %s", ErrInsufficientStock, id)
		}
		if err != nil {
			if rerr := s.ReleaseStock(ctx, orgId, taken); rerr != nil {
				logx.Error().Err(rerr).Str("org", orgId).Msg("stock rollback failed")
			}
			return err
		}
		taken = append(taken, invoice.LineItem{MedicineID: id, Quantity: qty[id]})
	}
	return nil
}

func (MongoStore) ReleaseStock(ctx context.Context, orgId string, items []invoice.LineItem) error {
	ids, qty := stockDemand(items)
	coll := database.GetConnection(orgId).Collection(medicines.CollectionName)
	var errs []error
	for _, id := range ids {
		if _, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"quantity": qty[id]}}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (MongoStore) Insert(ctx context.Context, orgId string, r Record) error {
	_, err := helper.InsertData(ctx, orgId, CollectionName, r)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (MongoStore) Get(ctx context.Context, orgId, billNo string) (Record, error) {
	var r Record
	err := collection(orgId).FindOne(ctx, bson.M{"_id": billNo}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, ErrNotFound
	}
	return r, err
}

func listFilter(q ListQuery) bson.M {
	filter := helper.DateRangeFilter("created_at", q.Range)
	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = bson.A{
			bson.M{"_id": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"customer.name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"customer.mobile": bson.M{"$regex": pattern}},
		}
	}
	return filter
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (MongoStore) List(ctx context.Context, orgId string, q ListQuery) ([]Record, int64, error) {
	filter := listFilter(q)
	total, err := collection(orgId).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := []Record{}
	err = helper.FindInto(ctx, orgId, CollectionName, filter, q.Page, q.Limit, newestFirst, &result)
	return result, total, err
}

func (MongoStore) All(ctx context.Context, orgId string, r helper.DateRange) ([]Record, error) {
	result := []Record{}
	err := helper.FindInto(ctx, orgId, CollectionName, helper.DateRangeFilter("created_at", r), 0, 0, newestFirst, &result)
	return result, err
}

func (MongoStore) Delete(ctx context.Context, orgId, billNo string) error {
	res, err := collection(orgId).DeleteOne(ctx, bson.M{"_id": billNo})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func setField(ctx context.Context, orgId, billNo, field string, value interface{}) error {
	res, err := collection(orgId).UpdateOne(ctx, bson.M{"_id": billNo}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (MongoStore) SetExport(ctx context.Context, orgId, billNo string, e ExportInfo) error {
	return setField(ctx, orgId, billNo, "export", e)
}

func (MongoStore) SetPayment(ctx context.Context, orgId, billNo string, p helper.PaymentLink) error {
	return setField(ctx, orgId, billNo, "payment", p)
}

func salesPipeline(r helper.DateRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: helper.DateRangeFilter("created_at", r)}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"revenue": bson.M{"$sum": "$totals.grand_total"},
			"bills":   bson.M{"$sum": 1},
			"items":   bson.M{"$sum": bson.M{"$size": "$items"}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func (MongoStore) SalesStats(ctx context.Context, orgId string, r helper.DateRange) ([]DailySales, error) {
	result := []DailySales{}
	err := helper.AggregateInto(ctx, orgId, CollectionName, salesPipeline(r), &result)
	return result, err
}

// Share links live in the shared database; the redirect is public and has no
// org to route by.
func (MongoStore) SaveShareLink(ctx context.Context, link helper.ShortURL) error {
	_, err := database.SharedDB.Collection(ShareLinkColl).InsertOne(ctx, link)
	return err
}

func (MongoStore) ShareLink(ctx context.Context, code string) (helper.ShortURL, error) {
	var link helper.ShortURL
	err := database.SharedDB.Collection(ShareLinkColl).FindOne(ctx, bson.M{"_id": code}).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return link, ErrShareLinkNotFound
	}
	return link, err
}

func (MongoStore) DeleteShareLink(ctx context.Context, code string) error {
	_, err := database.SharedDB.Collection(ShareLinkColl).DeleteOne(ctx, bson.M{"_id": code})
	return err
}
