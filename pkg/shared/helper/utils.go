package helper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	uuid "github.com/satori/go.uuid"
	"go.mongodb.org/mongo-driver/bson"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

// GetNextSeqNumber bumps and returns the org counter stored under key.
func GetNextSeqNumber(ctx context.Context, orgId string, key string) (int64, error) {
	filter := bson.M{"_id": key}
	updateData := bson.M{
		"$inc": bson.M{"value": int64(1)},
	}
	result, err := ExecuteFindAndModifyQuery(ctx, orgId, "sequence", filter, updateData)
	if err != nil {
		return 0, err
	}
	switch v := result["value"].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("sequence %s holds %T", key, v)
	}
}

func Toint64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func Page(s string) int64 {
	if p := Toint64(s); p > 0 {
		return p
	}
	return 1
}

func Limit(s string) int64 {
	if l := Toint64(s); l > 0 {
		return l
	}
	return config.Get().App.FetchRows
}

func GetRandomUUID() string {
	u4 := uuid.NewV4()
	return uuid.NewV5(u4, "KT").String()
}

// ParseDate accepts the date formats the store staff type into forms and
// spreadsheets.
func ParseDate(dateStr string) (time.Time, error) {
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"02/01/2006",
		"2/1/2006",
		"02-01-2006",
		"2 Jan 2006",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2006-01",
		"01/2006",
		"01/06",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", dateStr)
}
