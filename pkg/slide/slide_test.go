package slide

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// buildSyntheticMajor2PNGSlide writes a minimal major-2 minor-0 VSF index
// file and its single-level PNG sidecar, returning the index file path.
// The sidecar is one 64x64 tile filled with a known solid color, so
// PaintRegion's output can be checked pixel-exactly.
func buildSyntheticMajor2PNGSlide(t *testing.T, fill color.RGBA) string {
	t.Helper()
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "synthetic.vsf")
	sidecarPath := filepath.Join(dir, "synthetic-level00.img")

	header := make([]byte, 60)
	copy(header, "VSF2.0 synthetic test fixture")
	header[30] = 1   // level_count
	header[31] = 255 // r
	header[32] = 255 // g
	header[33] = 255 // b
	binary.LittleEndian.PutUint32(header[34:], 64) // size_x
	binary.LittleEndian.PutUint32(header[38:], 64) // size_y
	binary.LittleEndian.PutUint32(header[42:], 0)  // resolution_x
	binary.LittleEndian.PutUint32(header[46:], 0)  // resolution_y
	header[50] = 2                                 // format = PNG
	header[51] = 0                                 // quality
	binary.LittleEndian.PutUint32(header[52:], 64) // tile_size_x
	binary.LittleEndian.PutUint32(header[56:], 64) // tile_size_y
	if err := os.WriteFile(indexPath, header, 0o644); err != nil {
		t.Fatalf("WriteFile index: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	const directoryLen = 24 // 8 (unused) + 8 (tile_count) + 8 (one offset)
	sidecar := make([]byte, directoryLen+pngBuf.Len())
	binary.LittleEndian.PutUint64(sidecar[8:], 1)            // tile_count = 1
	binary.LittleEndian.PutUint64(sidecar[16:], directoryLen) // tile 0 offset
	copy(sidecar[directoryLen:], pngBuf.Bytes())
	if err := os.WriteFile(sidecarPath, sidecar, 0o644); err != nil {
		t.Fatalf("WriteFile sidecar: %v", err)
	}

	return indexPath
}

func TestOpenAndPaintRegionEndToEnd(t *testing.T) {
	want := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	indexPath := buildSyntheticMajor2PNGSlide(t, want)

	b, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Destroy()

	if got := len(b.Levels()); got != 1 {
		t.Fatalf("Levels() length = %d, want 1", got)
	}
	if w := b.Levels()[0].Width; w != 64 {
		t.Fatalf("level width = %d, want 64", w)
	}

	img, err := b.PaintRegion(0, 0, 0, 64, 64)
	if err != nil {
		t.Fatalf("PaintRegion: %v", err)
	}

	r, g, bch, a := img.At(0, 0).RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bch>>8) != want.B || uint8(a>>8) != want.A {
		t.Fatalf("pixel(0,0) = (%d,%d,%d,%d), want (%d,%d,%d,%d)", r>>8, g>>8, bch>>8, a>>8, want.R, want.G, want.B, want.A)
	}

	// Second paint should hit the cache: remove the sidecar so a fresh
	// decode would fail, proving the tile came from cache.
	os.Remove(filepath.Join(filepath.Dir(indexPath), "synthetic-level00.img"))
	img2, err := b.PaintRegion(0, 0, 0, 64, 64)
	if err != nil {
		t.Fatalf("PaintRegion (cached): %v", err)
	}
	r2, _, _, _ := img2.At(0, 0).RGBA()
	if uint8(r2>>8) != want.R {
		t.Fatalf("cached pixel(0,0).R = %d, want %d", r2>>8, want.R)
	}
}

func TestProperties(t *testing.T) {
	indexPath := buildSyntheticMajor2PNGSlide(t, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	b, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Destroy()

	props := b.Properties()
	if props["vsf.filename"] != indexPath {
		t.Fatalf("vsf.filename = %q, want %q", props["vsf.filename"], indexPath)
	}
	if props["bounds.w"] != "64" || props["bounds.h"] != "64" {
		t.Fatalf("unexpected bounds: %+v", props)
	}
}
