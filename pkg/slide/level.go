package slide

import "sync"

// tileDescriptor is a level's lazily-populated per-tile extent and
// dimension record. Fields are filled in on first read of that tile and
// cached for the level's lifetime.
type tileDescriptor struct {
	resolved      bool
	offset, size  uint64
	width, height int64
}

// Level is one pyramid layer of an open VSF slide.
type Level struct {
	Width, Height int64
	TileW, TileH  int64
	Layer         uint8
	Filename      string

	TilesAcross, TilesDown int64

	// Downsample is size_x / Width: the factor base-slide coordinates are
	// divided by to land in this level's own pixel space before any tile
	// lookup.
	Downsample int64

	mu    sync.Mutex
	tiles []tileDescriptor
}

func newLevel(layer uint8, width, height, tileW, tileH, downsample int64, filename string) *Level {
	tilesAcross := ceilDiv(width, tileW)
	tilesDown := ceilDiv(height, tileH)
	return &Level{
		Width:       width,
		Height:      height,
		TileW:       tileW,
		TileH:       tileH,
		Layer:       layer,
		Filename:    filename,
		TilesAcross: tilesAcross,
		TilesDown:   tilesDown,
		Downsample:  downsample,
		tiles:       make([]tileDescriptor, tilesAcross*tilesDown),
	}
}

func ceilDiv(n, d int64) int64 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}

// descriptor returns the tile descriptor for tileIndex, along with
// whether it has already been resolved by a prior read.
func (l *Level) descriptor(tileIndex int64) (tileDescriptor, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tileIndex < 0 || tileIndex >= int64(len(l.tiles)) {
		return tileDescriptor{}, false
	}
	d := l.tiles[tileIndex]
	return d, d.resolved
}

// setDescriptor stores the resolved extent/dimensions for tileIndex.
func (l *Level) setDescriptor(tileIndex int64, d tileDescriptor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d.resolved = true
	l.tiles[tileIndex] = d
}

// destroy releases the level's tile descriptor array and filename,
// matching destroy()'s per-level cleanup in openslide-vendor-vsf.c so a
// reused *Level cannot serve stale descriptors.
func (l *Level) destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tiles = nil
	l.Filename = ""
}
