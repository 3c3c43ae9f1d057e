package helper

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kriyatec.com/medstore-api/pkg/shared/database"
)

var findUpdateOpts = options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

func InsertData(ctx context.Context, orgId string, collectionName string, data interface{}) (*mongo.InsertOneResult, error) {
	return database.GetConnection(orgId).Collection(collectionName).InsertOne(ctx, data)
}

// AggregateInto runs the pipeline and decodes every document into out.
func AggregateInto(ctx context.Context, orgId string, collectionName string, query interface{}, out interface{}) error {
	cur, err := database.GetConnection(orgId).Collection(collectionName).Aggregate(ctx, query)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// FindInto runs a paged find and decodes the page into out. page starts at 1.
func FindInto(ctx context.Context, orgId string, collectionName string, query interface{}, page int64, limit int64, sort interface{}, out interface{}) error {
	cur, err := ExecuteQuery(ctx, orgId, collectionName, query, page, limit, sort)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func ExecuteQuery(ctx context.Context, orgId string, collectionName string, query interface{}, page int64, limit int64, sort interface{}) (*mongo.Cursor, error) {
	pageOptions := options.Find()
	skip := int64(0)
	if page > 0 {
		skip = (page - int64(1)) * limit
	}
	pageOptions.SetSkip(skip)
	pageOptions.SetLimit(limit)
	if sort != nil {
		pageOptions.SetSort(sort)
	}
	if query == nil {
		query = bson.M{}
	}
	return database.GetConnection(orgId).Collection(collectionName).Find(ctx, query, pageOptions)
}

func ExecuteFindAndModifyQuery(ctx context.Context, orgId string, collectionName string, filter interface{}, data interface{}) (bson.M, error) {
	var result bson.M
	err := database.GetConnection(orgId).Collection(collectionName).FindOneAndUpdate(ctx, filter, data, findUpdateOpts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DateRangeFilter turns an optional range into a created_on condition.
func DateRangeFilter(column string, r DateRange) bson.M {
	cond := bson.M{}
	if !r.From.IsZero() {
		cond["$gte"] = r.From
	}
	if !r.To.IsZero() {
		cond["$lte"] = r.To
	}
	if len(cond) == 0 {
		return bson.M{}
	}
	return bson.M{column: cond}
}
