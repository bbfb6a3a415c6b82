package slide

import (
	"go.uber.org/zap"

	"github.com/openvsf/slidecore/internal/vsfformat/codec"
	"github.com/openvsf/slidecore/pkg/cache"
)

// Option configures a Backend at Open time, the same functional-options
// shape pkg/cache uses (itself adapted from the teacher's pkg/config.go).
type Option func(*backendConfig)

type backendConfig struct {
	cache  *cache.Cache
	logger *zap.Logger
	jp2k   codec.JP2KDecodeFunc
}

func defaultBackendConfig() *backendConfig {
	return &backendConfig{logger: zap.NewNop()}
}

// WithCache installs a shared *cache.Cache instead of Open's default
// private one at DefaultCapacityBytes, letting multiple open slides share
// eviction pressure through the same CacheBinding indirection.
func WithCache(c *cache.Cache) Option {
	return func(cfg *backendConfig) { cfg.cache = c }
}

// WithLogger plugs an external zap.Logger into the backend.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *backendConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithJP2KDecoder injects a JPEG2000 decoder. Without one, opening a slide
// whose format is JPEG2000 succeeds (detection/geometry don't need it) but
// reading a JPEG2000 tile fails with ErrDecode.
func WithJP2KDecoder(fn codec.JP2KDecodeFunc) Option {
	return func(cfg *backendConfig) { cfg.jp2k = fn }
}
