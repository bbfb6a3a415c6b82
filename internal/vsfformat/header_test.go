package vsfformat

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeMajor1Header builds a minimal major-1 minor-1 index file containing
// just enough bytes to exercise ReadIndex: the 6-byte magic plus the four
// int32 fields at their minor-1 offset (13).
func writeMajor1Header(t *testing.T, path string, sizeX, sizeY, tileX, tileY int32) {
	t.Helper()
	buf := make([]byte, 13+16)
	copy(buf, "VSF1.1")
	binary.LittleEndian.PutUint32(buf[13:], uint32(sizeX))
	binary.LittleEndian.PutUint32(buf[17:], uint32(sizeY))
	binary.LittleEndian.PutUint32(buf[21:], uint32(tileX))
	binary.LittleEndian.PutUint32(buf[25:], uint32(tileY))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// TestReadIndexMajor1V1 covers spec §8 property 8 and scenario S5: the
// header parser recovers the exact (size_x, size_y, tile_size_x,
// tile_size_y) fields for a major-1 minor-1 file.
func TestReadIndexMajor1V1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.vsf")
	writeMajor1Header(t, path, 4096, 2048, 256, 256)

	h, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if h.Major != 1 || h.Minor != 1 {
		t.Fatalf("got major/minor %d.%d, want 1.1", h.Major, h.Minor)
	}
	if h.SizeX != 4096 || h.SizeY != 2048 || h.TileSizeX != 256 || h.TileSizeY != 256 {
		t.Fatalf("got size_x=%d size_y=%d tile_x=%d tile_y=%d", h.SizeX, h.SizeY, h.TileSizeX, h.TileSizeY)
	}
	if h.LevelCount != 9 {
		t.Fatalf("LevelCount default = %d, want 9", h.LevelCount)
	}
}

func TestReadIndexRejectsBadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.tiff")
	if err := os.WriteFile(path, []byte("VSF1.1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadIndex(path); err == nil {
		t.Fatal("expected error for non-.vsf extension")
	}
}

func writeMajor2Header(t *testing.T, path string, minor int, levelCount uint8, sizeX, sizeY, tileX, tileY int32) {
	t.Helper()
	headerSize := 60
	if minor >= 1 {
		headerSize = 72
	}
	buf := make([]byte, headerSize)
	copy(buf[0:], fmt.Sprintf("VSF2.%d padding...........", minor))
	buf[30] = levelCount
	buf[31], buf[32], buf[33] = 10, 20, 30 // r, g, b
	binary.LittleEndian.PutUint32(buf[34:], uint32(sizeX))
	binary.LittleEndian.PutUint32(buf[38:], uint32(sizeY))
	binary.LittleEndian.PutUint32(buf[42:], 0) // resolution_x
	binary.LittleEndian.PutUint32(buf[46:], 0) // resolution_y
	buf[50] = 0                                // format = JPEG
	buf[51] = 90                               // quality
	binary.LittleEndian.PutUint32(buf[52:], uint32(tileX))
	binary.LittleEndian.PutUint32(buf[56:], uint32(tileY))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReadIndexMajor2Minor0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.vsf")
	writeMajor2Header(t, path, 0, 5, 8192, 4096, 512, 512)

	h, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if h.Major != 2 || h.Minor != 0 {
		t.Fatalf("got major/minor %d.%d, want 2.0", h.Major, h.Minor)
	}
	if h.LevelCount != 5 {
		t.Fatalf("LevelCount = %d, want 5", h.LevelCount)
	}
	if h.SizeX != 8192 || h.SizeY != 4096 || h.TileSizeX != 512 || h.TileSizeY != 512 {
		t.Fatalf("unexpected geometry: %+v", h)
	}
	if h.BackgroundR != 10 || h.BackgroundG != 20 || h.BackgroundB != 30 {
		t.Fatalf("unexpected background color: %d,%d,%d", h.BackgroundR, h.BackgroundG, h.BackgroundB)
	}
}
