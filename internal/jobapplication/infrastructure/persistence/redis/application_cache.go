// Package redis 求职申请详情的 Redis 读缓存
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	"github.com/wyfcoding/recruiting/pkg/cache"
)

// cacheKeyPrefix 申请详情缓存键前缀
const cacheKeyPrefix = "recruiting:application:"

// ApplicationCache 基于 Redis 的申请详情缓存
type ApplicationCache struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewApplicationCache 创建申请缓存实例
func NewApplicationCache(rc *cache.RedisCache, ttl time.Duration) *ApplicationCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ApplicationCache{cache: rc, ttl: ttl}
}

// Get 读取缓存，未命中时返回 (nil, nil)
func (c *ApplicationCache) Get(ctx context.Context, applicationID string) (*domain.JobApplication, error) {
	var app domain.JobApplication
	found, err := c.cache.GetJSON(ctx, cacheKey(applicationID), &app)
	if err != nil {
		return nil, fmt.Errorf("failed to read application cache: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &app, nil
}

// Set 写入缓存
func (c *ApplicationCache) Set(ctx context.Context, app *domain.JobApplication) error {
	return c.cache.SetJSON(ctx, cacheKey(app.ApplicationID), app, c.ttl)
}

// Invalidate 失效缓存
func (c *ApplicationCache) Invalidate(ctx context.Context, applicationID string) error {
	return c.cache.Delete(ctx, cacheKey(applicationID))
}

func cacheKey(applicationID string) string {
	return cacheKeyPrefix + applicationID
}
