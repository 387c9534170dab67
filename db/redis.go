package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

var Redis *redis.Client

const analysisKeyPrefix = "prra:analysis"

func ConnectRedis(ctx context.Context, url string) error {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// AnalysisCache stores competitor analyses as JSON. Keys include the UTC
// date so an entry never outlives the day it was produced.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl, now: time.Now}
}

func (c *AnalysisCache) key(competitor string, daysBack int) string {
	return fmt.Sprintf("%s:%s:%d:%s", analysisKeyPrefix, competitor, daysBack, c.now().UTC().Format("2006-01-02"))
}

// Get returns nil without error on a cache miss.
func (c *AnalysisCache) Get(ctx context.Context, competitor string, daysBack int) (*model.CompetitorAnalysis, error) {
	data, err := c.client.Get(ctx, c.key(competitor, daysBack)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var analysis model.CompetitorAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("error decoding cached analysis: %w", err)
	}
	return &analysis, nil
}

func (c *AnalysisCache) Set(ctx context.Context, competitor string, daysBack int, analysis model.CompetitorAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(competitor, daysBack), data, c.ttl).Err()
}
