package helper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kriyatec.com/medstore-api/pkg/shared/config"
	"kriyatec.com/medstore-api/pkg/shared/database"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

const storeProfileCollection = "store_profile"

// StoreProfiles loads the selling store of an org. Profiles are cached in
// redis when a client is configured.
type StoreProfiles struct {
	Cache *redis.Client
	TTL   time.Duration
}

func NewStoreProfiles(cache *redis.Client, cfg config.Redis) *StoreProfiles {
	ttl, err := time.ParseDuration(cfg.StoreTTL)
	if err != nil || ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StoreProfiles{Cache: cache, TTL: ttl}
}

func storeCacheKey(orgId string) string {
	return "store_profile:" + orgId
}

// Get returns the stored profile with defaults applied. An org without a
// profile gets the defaults alone.
func (s *StoreProfiles) Get(ctx context.Context, orgId string) (invoice.StoreProfile, error) {
	if profile, ok := s.cached(ctx, orgId); ok {
		return profile, nil
	}

	var profile invoice.StoreProfile
	err := database.GetConnection(orgId).Collection(storeProfileCollection).FindOne(ctx, bson.M{}).Decode(&profile)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return invoice.StoreProfile{}, err
	}
	profile = profile.WithDefaults()
	s.store(ctx, orgId, profile)
	return profile, nil
}

func (s *StoreProfiles) cached(ctx context.Context, orgId string) (invoice.StoreProfile, bool) {
	var profile invoice.StoreProfile
	if s.Cache == nil {
		return profile, false
	}
	raw, err := s.Cache.Get(ctx, storeCacheKey(orgId)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.Warn().Err(err).Str("org", orgId).Msg("store profile cache read failed")
		}
		return profile, false
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return profile, false
	}
	return profile, true
}

func (s *StoreProfiles) store(ctx context.Context, orgId string, profile invoice.StoreProfile) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, storeCacheKey(orgId), raw, s.TTL).Err(); err != nil {
		logx.Warn().Err(err).Str("org", orgId).Msg("store profile cache write failed")
	}
}
