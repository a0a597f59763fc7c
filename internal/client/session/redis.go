package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when NewRedisPersister gets an empty one.
const DefaultRedisKey = "castkeeper:session"

// RedisPersister stores the session as one JSON value, so Save and Purge
// are single atomic commands.
type RedisPersister struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisPersister binds the persister to key. A zero ttl keeps the value
// until Purge.
func NewRedisPersister(rdb redis.UniversalClient, key string, ttl time.Duration) *RedisPersister {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisPersister{rdb: rdb, key: key, ttl: ttl}
}

func (p *RedisPersister) Load(ctx context.Context) (Session, error) {
	data, err := p.rdb.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get %s: %w", p.key, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Session{}, fmt.Errorf("decode persisted session: %w", err)
	}
	return rec.session(), nil
}

func (p *RedisPersister) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s.record())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := p.rdb.Set(ctx, p.key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.key, err)
	}
	return nil
}

func (p *RedisPersister) Purge(ctx context.Context) error {
	if err := p.rdb.Del(ctx, p.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", p.key, err)
	}
	return nil
}
