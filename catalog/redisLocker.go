package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

var ErrStockLockBusy = errors.New("stock is locked by another checkout")

// RedisLocker locks products across processes with redislock, one key per product.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	prefix string
	logger *logrus.Logger
}

func NewRedisLocker(client *redislock.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
		prefix: "stock",
		logger: config.GetLogger(),
	}
}

func (l *RedisLocker) key(productId string) string {
	return fmt.Sprintf("%s:%s", l.prefix, productId)
}

func (l *RedisLocker) Lock(ctx context.Context, productIds []string) (func(), error) {
	if l.client == nil {
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	ids := sortedUnique(productIds)

	held := make([]*redislock.Lock, 0, len(ids))
	release := func() {
		// background context so a cancelled checkout still frees its keys
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.WithFields(logrus.Fields{
					"module": "catalog",
					"key":    held[i].Key(),
				}).Warn("failed to release redis lock: " + err.Error())
			}
		}
	}

	for _, id := range ids {
		lock, err := l.client.Obtain(ctx, l.key(id), l.ttl, &redislock.Options{RetryStrategy: l.retry})
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) {
				config.LogError(l.logger, "catalog", "RedisLocker.Lock", "Could not obtain lock for product", id, err)
				return nil, fmt.Errorf("%w: product %s", ErrStockLockBusy, id)
			}
			config.LogError(l.logger, "catalog", "RedisLocker.Lock", "Error obtaining lock for product", id, err)
			return nil, err
		}
		held = append(held, lock)
	}
	return release, nil
}
