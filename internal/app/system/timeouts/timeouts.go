// Package timeouts centralizes the timeout values used around database and
// outbound calls in HTTP handlers, so individual handlers do not invent
// their own numbers.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads
//   - Medium: list queries, simple writes
//   - Long: multi-collection operations, exports
//   - Batch: bulk work and the external inference call
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 60 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
	batch  = DefaultBatch
)

func Ping() time.Duration   { mu.RLock(); defer mu.RUnlock(); return ping }
func Short() time.Duration  { mu.RLock(); defer mu.RUnlock(); return short }
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }
func Long() time.Duration   { mu.RLock(); defer mu.RUnlock(); return long }
func Batch() time.Duration  { mu.RLock(); defer mu.RUnlock(); return batch }

// Config holds overrides; zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

// Configure sets custom timeout values at startup, before handlers run.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// WithTimeout wraps context.WithTimeout and logs the operation name when the
// deadline is exceeded, which makes slow-query hunting much easier.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, op string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation hit its timeout", zap.String("op", op), zap.Duration("timeout", d))
		}
		cancel()
	}
}
