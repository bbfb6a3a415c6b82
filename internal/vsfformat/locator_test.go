package vsfformat

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TestLocateMajor2LastTile covers spec §8 property 7 and scenario S6: a
// synthetic major-2 directory with tile_count=3 and known offsets yields
// the exact (offset, size) pairs, and the last tile's size is
// file_length - last_offset.
func TestLocateMajor2LastTile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level00.img")

	const fileLength = 1_000_000
	offsets := []uint64{16, 300_016, 700_016}

	buf := make([]byte, 8+8+8*len(offsets))
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(offsets)))
	for i, off := range offsets {
		binary.LittleEndian.PutUint64(buf[16+8*i:], off)
	}
	// Pad the file out to fileLength so the "last tile" computation reads
	// the real end-of-file position.
	padded := make([]byte, fileLength)
	copy(padded, buf)
	if err := os.WriteFile(path, padded, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	offset, size, err := locateMajor2(f, 2)
	if err != nil {
		t.Fatalf("locateMajor2: %v", err)
	}
	if offset != 700_016 {
		t.Fatalf("offset = %d, want 700016", offset)
	}
	if size != fileLength-700_016 {
		t.Fatalf("size = %d, want %d", size, fileLength-700_016)
	}
}

func TestLocateMajor2MiddleTile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level00.img")
	offsets := []uint64{16, 300_016, 700_016}

	buf := make([]byte, 8+8+8*len(offsets))
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(offsets)))
	for i, off := range offsets {
		binary.LittleEndian.PutUint64(buf[16+8*i:], off)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	offset, size, err := locateMajor2(f, 1)
	if err != nil {
		t.Fatalf("locateMajor2: %v", err)
	}
	if offset != 300_016 || size != 700_016-300_016 {
		t.Fatalf("got offset=%d size=%d, want offset=300016 size=%d", offset, size, 700_016-300_016)
	}
}

func TestLocateMajor2OutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level00.img")
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[8:], 1)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if _, _, err := locateMajor2(f, 5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

// TestLocateMajor1 builds a synthetic single-level major-1 minor-0
// directory and checks the locator returns the recorded tile extent.
func TestLocateMajor1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level00.img")

	layout := major1LocatorTable[0]
	tilesX, tilesY := uint32(2), uint32(2)
	buf := make([]byte, layout.seek+8+int64(tilesX)*int64(tilesY)*layout.tileRecordSize)
	binary.LittleEndian.PutUint32(buf[layout.seek:], tilesX)
	binary.LittleEndian.PutUint32(buf[layout.seek+4:], tilesY)

	// Tile index 1's record (12 bytes: 4-byte offset, 4-byte size, 4 pad).
	recStart := layout.seek + 8 + 1*layout.tileRecordSize
	binary.LittleEndian.PutUint32(buf[recStart:], 12345)
	binary.LittleEndian.PutUint32(buf[recStart+4:], 678)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	offset, size, err := locateMajor1(f, 0, 0, 1)
	if err != nil {
		t.Fatalf("locateMajor1: %v", err)
	}
	if offset != 12345 || size != 678 {
		t.Fatalf("got offset=%d size=%d, want 12345/678", offset, size)
	}
}
