package cache

// config.go defines the functional options accepted by Create, adapted from
// the teacher's pkg/config.go. The teacher's Option is generic over K/V and
// carries TTL/shard/weight knobs for its CLOCK-Pro arena cache; this cache
// is a single strict LRU sized by entry byte size with no TTL, so config
// shrinks to capacity, logger, and metrics registry.
//
// © 2025 slidecore authors. MIT License.

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultCapacityBytes is used when Create is called with no WithCapacity
// option — 32 MiB, large enough to hold a few dozen decoded tiles at typical
// sizes without requiring every caller to think about sizing up front.
const DefaultCapacityBytes = 32 << 20

// Option configures a Cache at construction time.
type Option func(*config)

type config struct {
	capacityBytes int64
	logger        *zap.Logger
	registry      *prometheus.Registry
}

func defaultConfig() *config {
	return &config{
		capacityBytes: DefaultCapacityBytes,
		logger:        zap.NewNop(),
	}
}

// WithCapacity sets the cache's total byte budget.
// Must be positive; Create returns errInvalidCapacity otherwise.
func WithCapacity(bytes int64) Option {
	return func(c *config) { c.capacityBytes = bytes }
}

// WithLogger plugs an external zap.Logger. The cache never logs on the hot
// path (Get/Put); only slow/rare events do — creation, the one-time
// overlarge-entry warning, and the drain on the final Unref.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection, registered into reg.
// Passing nil (the default if this option is never used) disables metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.capacityBytes <= 0 {
		return nil, errInvalidCapacity
	}
	return cfg, nil
}

var errInvalidCapacity = errors.New("cache: capacity bytes must be > 0")
