// Package slide implements the VSF vendor backend façade: detect, open,
// paint a region, and destroy — wired to the tile cache in
// pkg/cache and the binary parsing/decoding in internal/vsfformat. Its
// concurrency shape (errgroup fan-out for independent per-level and
// per-sidecar work) is adapted from the teacher's repurposed
// golang.org/x/sync dependency; its data flow (cache lookup, miss path
// resolves offsets, decodes, inserts, paints, releases) is grounded
// directly on openslide-vendor-vsf.c's read_tile.
//
// © 2025 slidecore authors. MIT License.
package slide

import (
	"fmt"
	"image"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openvsf/slidecore/internal/vsfformat"
	"github.com/openvsf/slidecore/internal/vsfformat/codec"
	"github.com/openvsf/slidecore/pkg/cache"
)

// Backend is an open VSF slide: its parsed header, its pyramid levels
// (sorted widest-first), its cache binding, and its published properties.
type Backend struct {
	filename   string
	header     *vsfformat.Header
	levels     []*Level
	properties Properties

	binding *cache.CacheBinding
	logger  *zap.Logger
	jp2k    codec.JP2KDecodeFunc
}

// Detect reports whether filename looks like an openable VSF slide: the
// index file parses and every (level, focal plane) sidecar it predicts
// exists and is readable. Sidecar existence checks run concurrently via
// errgroup, one goroutine per (level, focal plane) pair, since each check
// is an independent stat/open with no shared state.
func Detect(filename string) (bool, error) {
	h, err := vsfformat.ReadIndex(filename)
	if err != nil {
		return false, err
	}

	var g errgroup.Group
	for level := uint8(0); level < h.LevelCount; level++ {
		level := level
		for focal := h.LowestFocalPlane; focal < h.HighestFocalPlane; focal++ {
			focal := focal
			g.Go(func() error {
				path := vsfformat.SidecarPath(filename, h.Major, level, focal)
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("%w: %s", ErrMissingAsset, path)
				}
				return f.Close()
			})
		}
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return true, nil
}

// Open parses filename's header and builds its pyramid levels, wiring a
// cache binding (private by default, shared via WithCache) and publishing
// properties.
func Open(filename string, opts ...Option) (*Backend, error) {
	cfg := defaultBackendConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	h, err := vsfformat.ReadIndex(filename)
	if err != nil {
		return nil, err
	}

	levels := make([]*Level, h.LevelCount)
	g := new(errgroup.Group)
	for i := uint8(0); i < h.LevelCount; i++ {
		i := i
		g.Go(func() error {
			downsample := int64(1) << i
			width := int64(h.SizeX) >> i
			height := int64(h.SizeY) >> i
			levels[i] = newLevel(i, width, height, int64(h.TileSizeX), int64(h.TileSizeY), downsample,
				vsfformat.SidecarPath(filename, h.Major, i, 0))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortLevelsByWidthDescending(levels)

	backendCache := cfg.cache
	if backendCache == nil {
		backendCache, err = cache.Create(cache.WithLogger(cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("slide: creating default cache: %w", err)
		}
	}

	b := &Backend{
		filename: filename,
		header:   h,
		levels:   levels,
		binding:  cache.NewBinding(backendCache),
		logger:   cfg.logger,
		jp2k:     cfg.jp2k,
	}
	b.properties = buildProperties(filename, h, levels[0])
	b.logger.Debug("slide opened", zap.String("filename", filename), zap.Int("levels", len(levels)))
	return b, nil
}

// sortLevelsByWidthDescending orders levels widest-first. Ties are broken
// by ascending layer index — the original C's width_compare leaves ties
// undefined; a stable sort on an already-layer-ordered slice gives a
// deterministic, documented choice (see DESIGN.md).
func sortLevelsByWidthDescending(levels []*Level) {
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j].Width > levels[j-1].Width; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
}

// Levels returns the backend's pyramid levels, widest first.
func (b *Backend) Levels() []*Level { return b.levels }

// Properties returns the published metadata.
func (b *Backend) Properties() Properties { return b.properties }

// PaintRegion renders the w x h rectangle whose top-left corner is (x, y)
// in base (level-0) slide coordinates into a freshly allocated RGBA image.
// The requested coordinates are divided by the target level's downsample
// factor before any tile is addressed, so the same (x, y) always names the
// same point on the slide regardless of which pyramid level paints it.
func (b *Backend) PaintRegion(levelIndex int, x, y int64, w, h int) (*image.RGBA, error) {
	if levelIndex < 0 || levelIndex >= len(b.levels) {
		return nil, fmt.Errorf("slide: level index %d out of range", levelIndex)
	}
	level := b.levels[levelIndex]
	x, y = x/level.Downsample, y/level.Downsample
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	err := paintRegion(dst, level, x, y, func(col, row int64) (*image.RGBA, error) {
		return b.readTile(level, col, row)
	})
	return dst, err
}

// Destroy releases the backend's cache binding and level resources. The
// Backend must not be used after Destroy.
func (b *Backend) Destroy() {
	for _, l := range b.levels {
		l.destroy()
	}
	b.levels = nil
	b.binding.Destroy()
	b.logger.Debug("slide destroyed", zap.String("filename", b.filename))
}
