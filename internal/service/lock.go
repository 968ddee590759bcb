package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes captures per order. Acquire returns false when the lock
// is already held; the release function must be called regardless of outcome.
type Locker interface {
	Acquire(ctx context.Context, orderID string) (release func(), acquired bool, err error)
}

// OrderLock is a short-lived mutual-exclusion lock keyed by order identifier,
// held for the duration of a remote capture call so duplicate triggers (a
// bulk admin action firing twice) cannot double-capture.
type OrderLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOrderLock(client *redis.Client, ttl time.Duration) *OrderLock {
	return &OrderLock{client: client, ttl: ttl}
}

// Acquire takes the lock for orderID. It returns false when another capture
// for the same order is already in flight. The returned release function must
// be called regardless of outcome; the TTL bounds the hold if the process
// dies first.
func (l *OrderLock) Acquire(ctx context.Context, orderID string) (release func(), acquired bool, err error) {
	key := fmt.Sprintf("capture_lock:%s", orderID)
	ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		l.client.Del(context.WithoutCancel(ctx), key)
	}, true, nil
}
