package scanguard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const keyPrefix = "parking:scan:"

// ErrGuard возвращается при ошибке хранилища подавления
var ErrGuard = errors.New("scanguard: storage error")

// RedisGuard подавляет повторный скан одной метки в течение окна.
// Общий для всех экземпляров сервиса
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

// NewRedisGuard создает guard поверх redis
func NewRedisGuard(client *redis.Client, window time.Duration) *RedisGuard {
	return &RedisGuard{client: client, window: window}
}

// Allow true для первого скана метки в окне
func (g *RedisGuard) Allow(ctx context.Context, tag string) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}

	ok, err := g.client.SetNX(ctx, key(tag), time.Now().UnixNano(), g.window).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGuard, err)
	}
	return ok, nil
}

// MemoryGuard подавление повторных сканов в памяти процесса
type MemoryGuard struct {
	cache  *cache.Cache
	window time.Duration
}

// NewMemoryGuard создает guard в памяти
func NewMemoryGuard(window time.Duration) *MemoryGuard {
	cleanup := window * 10
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &MemoryGuard{
		cache:  cache.New(window, cleanup),
		window: window,
	}
}

// Allow true для первого скана метки в окне
func (g *MemoryGuard) Allow(_ context.Context, tag string) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}
	// Add атомарен и падает, если ключ ещё не истёк
	if err := g.cache.Add(key(tag), struct{}{}, g.window); err != nil {
		return false, nil
	}
	return true, nil
}

// key метка сравнивается так же, как при поиске брони: без пробелов, с учётом регистра
func key(tag string) string {
	return keyPrefix + strings.TrimSpace(tag)
}
