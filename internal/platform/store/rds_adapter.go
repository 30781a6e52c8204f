package store

import (
	"context"
	"errors"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/store/rds"

	"github.com/redis/go-redis/v9"
)

// rdsAdapter wraps rds.RDS and implements KV
type rdsAdapter struct {
	r *rds.RDS
}

func newRDSAdapter(r *rds.RDS) *rdsAdapter { return &rdsAdapter{r: r} }

// NewKV wraps an already-open Redis handle as a KV
func NewKV(r *rds.RDS) KV { return newRDSAdapter(r) }

func (a *rdsAdapter) Ping(ctx context.Context) error {
	if a == nil || a.r == nil {
		return errors.New("rds: nil adapter")
	}
	return a.r.Ping(ctx)
}

func (a *rdsAdapter) Close() error { return a.r.Close() }

func (a *rdsAdapter) Get(ctx context.Context, key string) (string, error) {
	v, err := a.r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", perr.NotFoundf("key %q not found", key)
	}
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds get %q", key)
	}
	return v, nil
}

func (a *rdsAdapter) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if err := a.r.Client.Set(ctx, key, val, ttl).Err(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds set %q", key)
	}
	return nil
}

func (a *rdsAdapter) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := a.r.Client.Del(ctx, keys...).Err(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds del")
	}
	return nil
}

func (a *rdsAdapter) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := a.r.Client.SAdd(ctx, key, args...).Err(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds sadd %q", key)
	}
	return nil
}

func (a *rdsAdapter) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := a.r.Client.SRem(ctx, key, args...).Err(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds srem %q", key)
	}
	return nil
}

func (a *rdsAdapter) SMembers(ctx context.Context, key string) ([]string, error) {
	out, err := a.r.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rds smembers %q", key)
	}
	return out, nil
}
