package vsfformat

// locator.go resolves (layer, tile_index) to a byte extent within a
// sidecar image file. Major-1 sidecars carry one inline tile directory per
// level; major-2 sidecars carry a single directory of 64-bit offsets
// covering the whole file.
//
// Open question recorded in DESIGN.md: the original C's major-1 reader
// applies an extra bit-shift to the raw offset bytes that, read literally,
// looks like a bug (shifting bytes that were just read into the low end of
// the word right by more bits than makes sense). This implementation reads
// off_bytes as a plain little-endian unsigned integer, then reads a
// separate 32-bit size field, taking that as the intended behavior rather
// than reproducing the apparent bug without a real v1 sample to verify
// against.

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type major1Layout struct {
	seek             int64
	tileRecordSize   int64
	levelRecordBytes int64
	offsetSize       int
}

var major1LocatorTable = map[int]major1Layout{
	0: {seek: 25, tileRecordSize: 12, levelRecordBytes: 16, offsetSize: 4},
	1: {seek: 29, tileRecordSize: 16, levelRecordBytes: 16, offsetSize: 8},
	2: {seek: 41, tileRecordSize: 16, levelRecordBytes: 28, offsetSize: 8},
}

// Locate resolves tileIndex within layer to a byte extent in the sidecar
// file f, dispatching on h.Major. A returned size of zero means "no tile":
// callers render transparent pixels without decoding.
func Locate(f *os.File, h *Header, layer uint8, tileIndex int64) (offset, size uint64, err error) {
	switch h.Major {
	case 1:
		return locateMajor1(f, h.Minor, layer, tileIndex)
	case 2:
		return locateMajor2(f, tileIndex)
	default:
		return 0, 0, fmt.Errorf("%w: unsupported major version %d", ErrFormatRejected, h.Major)
	}
}

func locateMajor1(f *os.File, minor int, layer uint8, tileIndex int64) (offset, size uint64, err error) {
	layout, ok := major1LocatorTable[minor]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unsupported major-1 minor version %d", ErrFormatRejected, minor)
	}

	if _, err := f.Seek(layout.seek, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("%w: seeking tile directory: %v", ErrParse, err)
	}
	var tilesX, tilesY uint32
	if err := binary.Read(f, binary.LittleEndian, &tilesX); err != nil {
		return 0, 0, fmt.Errorf("%w: reading tiles_x: %v", ErrParse, err)
	}
	if err := binary.Read(f, binary.LittleEndian, &tilesY); err != nil {
		return 0, 0, fmt.Errorf("%w: reading tiles_y: %v", ErrParse, err)
	}

	advance := int64(tilesX) * int64(tilesY) * layout.tileRecordSize + layout.levelRecordBytes
	for i := uint8(0); i < layer; i++ {
		if _, err := f.Seek(advance, io.SeekCurrent); err != nil {
			return 0, 0, fmt.Errorf("%w: seeking to level %d: %v", ErrParse, i, err)
		}
	}

	if int64(tilesX)*int64(tilesY) <= tileIndex {
		return 0, 0, fmt.Errorf("%w: tile index %d out of range (tiles_x*tiles_y=%d)", ErrParse, tileIndex, int64(tilesX)*int64(tilesY))
	}

	if _, err := f.Seek(tileIndex*layout.tileRecordSize, io.SeekCurrent); err != nil {
		return 0, 0, fmt.Errorf("%w: seeking to tile %d: %v", ErrParse, tileIndex, err)
	}

	offset, err = readUintLE(f, layout.offsetSize)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading tile offset: %v", ErrParse, err)
	}
	var size32 uint32
	if err := binary.Read(f, binary.LittleEndian, &size32); err != nil {
		return 0, 0, fmt.Errorf("%w: reading tile size: %v", ErrParse, err)
	}
	return offset, uint64(size32), nil
}

func locateMajor2(f *os.File, tileIndex int64) (offset, size uint64, err error) {
	if _, err := f.Seek(8, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("%w: seeking tile count: %v", ErrParse, err)
	}
	var tileCount uint64
	if err := binary.Read(f, binary.LittleEndian, &tileCount); err != nil {
		return 0, 0, fmt.Errorf("%w: reading tile_count: %v", ErrParse, err)
	}
	if tileCount <= uint64(tileIndex) {
		return 0, 0, fmt.Errorf("%w: tile index %d out of range (tile_count=%d)", ErrParse, tileIndex, tileCount)
	}

	if _, err := f.Seek(tileIndex*8, io.SeekCurrent); err != nil {
		return 0, 0, fmt.Errorf("%w: seeking to tile %d: %v", ErrParse, tileIndex, err)
	}
	if err := binary.Read(f, binary.LittleEndian, &offset); err != nil {
		return 0, 0, fmt.Errorf("%w: reading tile offset: %v", ErrParse, err)
	}

	var nextOffset uint64
	if uint64(tileIndex) != tileCount-1 {
		if err := binary.Read(f, binary.LittleEndian, &nextOffset); err != nil {
			return 0, 0, fmt.Errorf("%w: reading next tile offset: %v", ErrParse, err)
		}
	} else {
		fi, err := f.Stat()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: stat file: %v", ErrParse, err)
		}
		nextOffset = uint64(fi.Size())
	}
	return offset, nextOffset - offset, nil
}

// readUintLE reads n (1-8) bytes as a little-endian unsigned integer.
func readUintLE(r io.Reader, n int) (uint64, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(r, buf[:n]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}
