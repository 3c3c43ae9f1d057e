package medicines

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kriyatec.com/medstore-api/pkg/shared/database"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

var (
	ErrNotFound          = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("stock cannot go below zero")
)

// Store persists the stock list of an org.
type Store interface {
	List(ctx context.Context, orgId string, q ListQuery, t Thresholds) ([]Medicine, int64, error)
	All(ctx context.Context, orgId string) ([]Medicine, error)
	Get(ctx context.Context, orgId, id string) (Medicine, error)
	Insert(ctx context.Context, orgId string, m Medicine) error
	InsertMany(ctx context.Context, orgId string, ms []Medicine) (int, error)
	// Update writes every field except quantity, which only moves through
	// AdjustStock and checkout so concurrent changes add up.
	Update(ctx context.Context, orgId, id string, m Medicine) error
	// AdjustStock adds delta to the quantity and returns the result. The
	// quantity never drops below zero.
	AdjustStock(ctx context.Context, orgId, id string, delta int, by string, at time.Time) (Medicine, error)
	Delete(ctx context.Context, orgId, id string) error
	// ExpiringBefore returns medicines with an expiry date on or before
	// until, soonest first. Already expired stock is included.
	ExpiringBefore(ctx context.Context, orgId string, until time.Time) ([]Medicine, error)
}

type MongoStore struct{}

func collection(orgId string) *mongo.Collection {
	return database.GetConnection(orgId).Collection(CollectionName)
}

func listFilter(q ListQuery, t Thresholds) bson.M {
	filter := bson.M{}
	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"batch_no": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	alert := bson.M{"$cond": bson.A{bson.M{"$gt": bson.A{"$low_stock_alert", 0}}, "$low_stock_alert", t.lowStockAlert()}}
	switch q.StockStatus {
	case invoice.OutOfStock:
		filter["quantity"] = bson.M{"$lte": 0}
	case invoice.LowStock:
		filter["$expr"] = bson.M{"$and": bson.A{
			bson.M{"$gt": bson.A{"$quantity", 0}},
			bson.M{"$lte": bson.A{"$quantity", alert}},
		}}
	case invoice.InStock:
		filter["$expr"] = bson.M{"$gt": bson.A{"$quantity", alert}}
	}
	return filter
}

func (MongoStore) List(ctx context.Context, orgId string, q ListQuery, t Thresholds) ([]Medicine, int64, error) {
	filter := listFilter(q, t)
	total, err := collection(orgId).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := []Medicine{}
	err = helper.FindInto(ctx, orgId, CollectionName, filter, q.Page, q.Limit, bson.D{{Key: "name", Value: 1}}, &result)
	return result, total, err
}

func (MongoStore) All(ctx context.Context, orgId string) ([]Medicine, error) {
	result := []Medicine{}
	err := helper.FindInto(ctx, orgId, CollectionName, bson.M{}, 0, 0, bson.D{{Key: "name", Value: 1}}, &result)
	return result, err
}

func (MongoStore) Get(ctx context.Context, orgId, id string) (Medicine, error) {
	var m Medicine
	err := collection(orgId).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return m, ErrNotFound
	}
	return m, err
}

func (MongoStore) Insert(ctx context.Context, orgId string, m Medicine) error {
	_, err := helper.InsertData(ctx, orgId, CollectionName, m)
	return err
}

func (MongoStore) InsertMany(ctx context.Context, orgId string, ms []Medicine) (int, error) {
	if len(ms) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(ms))
	for i := range ms {
		docs[i] = ms[i]
	}
	res, err := collection(orgId).InsertMany(ctx, docs)
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

func (MongoStore) Update(ctx context.Context, orgId, id string, m Medicine) error {
	res, err := collection(orgId).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":            m.Name,
		"batch_no":        m.BatchNo,
		"category":        m.Category,
		"manufacturer":    m.Manufacturer,
		"hsn_code":        m.HSNCode,
		"price":           m.Price,
		"mrp":             m.MRP,
		"expiry_date":     m.ExpiryDate,
		"low_stock_alert": m.LowStockAlert,
		"supplier":        m.Supplier,
		"description":     m.Description,
		"updated_on":      m.UpdatedOn,
		"updated_by":      m.UpdatedBy,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (MongoStore) AdjustStock(ctx context.Context, orgId, id string, delta int, by string, at time.Time) (Medicine, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_on": at, "updated_by": by},
	}
	var m Medicine
	err := collection(orgId).FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := (MongoStore{}).Get(ctx, orgId, id); gerr != nil {
			return m, gerr
		}
		return m, ErrInsufficientStock
	}
	return m, err
}

func (MongoStore) Delete(ctx context.Context, orgId, id string) error {
	res, err := collection(orgId).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (MongoStore) ExpiringBefore(ctx context.Context, orgId string, until time.Time) ([]Medicine, error) {
	result := []Medicine{}
	filter := bson.M{"expiry_date": bson.M{"$lte": until, "$gt": time.Time{}}}
	err := helper.FindInto(ctx, orgId, CollectionName, filter, 0, 0, bson.D{{Key: "expiry_date", Value: 1}}, &result)
	return result, err
}
