package stats

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	u "hellopage/internal/utils"
)

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Renders  int64  `json:"renders"`
	Failures int64  `json:"failures"`
	Backend  string `json:"backend"`
}

// Recorder counts page renders and backend failures.
type Recorder interface {
	RecordRender(ctx context.Context)
	RecordFailure(ctx context.Context)
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Memory keeps counters in process.
type Memory struct {
	renders  atomic.Int64
	failures atomic.Int64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordRender(context.Context)  { m.renders.Add(1) }
func (m *Memory) RecordFailure(context.Context) { m.failures.Add(1) }

func (m *Memory) Snapshot(context.Context) (Snapshot, error) {
	return Snapshot{
		Renders:  m.renders.Load(),
		Failures: m.failures.Load(),
		Backend:  "memory",
	}, nil
}

// Redis keeps counters in Redis so they are shared between prefork children
// and survive restarts.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "hellopage"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) RecordRender(ctx context.Context)  { r.incr(ctx, "renders") }
func (r *Redis) RecordFailure(ctx context.Context) { r.incr(ctx, "failures") }

func (r *Redis) key(name string) string { return r.prefix + ":" + name }

// incr never fails the caller; a lost count only shows up as a warning.
func (r *Redis) incr(ctx context.Context, name string) {
	ctxRedis, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := r.rdb.Incr(ctxRedis, r.key(name)).Err(); err != nil {
		u.Warn("Redis stats write failed", "key", r.key(name), "error", err)
	}
}

func (r *Redis) Snapshot(ctx context.Context) (Snapshot, error) {
	ctxRedis, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	renders, err := r.get(ctxRedis, "renders")
	if err != nil {
		return Snapshot{}, err
	}
	failures, err := r.get(ctxRedis, "failures")
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Renders: renders, Failures: failures, Backend: "redis"}, nil
}

func (r *Redis) get(ctx context.Context, name string) (int64, error) {
	n, err := r.rdb.Get(ctx, r.key(name)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
