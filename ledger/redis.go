package ledger

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/rustyeddy/ichiwatch/signal"
)

// Redis is a Ledger backed by a single redis hash: field = composite key,
// value = "1". HSetNX gives idempotent inserts.
type Redis struct {
	client *goredis.Client
	key    string
	ctx    context.Context
}

// NewRedis connects to redis and verifies the connection. hashKey is the
// redis key holding the fired-signal hash.
func NewRedis(addr, password, hashKey string) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	return &Redis{client: client, key: hashKey, ctx: ctx}, nil
}

func (l *Redis) HasFired(sig signal.Signal, date string) (bool, error) {
	ok, err := l.client.HExists(l.ctx, l.key, Key(sig, date)).Result()
	if err != nil {
		return false, fmt.Errorf("query ledger: %w", err)
	}
	return ok, nil
}

func (l *Redis) RecordFired(sig signal.Signal, date string) error {
	if err := l.client.HSetNX(l.ctx, l.key, Key(sig, date), "1").Err(); err != nil {
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

func (l *Redis) Events() ([]signal.Event, error) {
	fields, err := l.client.HGetAll(l.ctx, l.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	events := make([]signal.Event, 0, len(fields))
	for k := range fields {
		sig, date, err := ParseKey(k)
		if err != nil {
			return nil, err
		}
		events = append(events, signal.Event{Type: sig, Date: date})
	}
	return events, nil
}

func (l *Redis) Close() error {
	return l.client.Close()
}
