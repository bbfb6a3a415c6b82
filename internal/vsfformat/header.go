package vsfformat

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format identifies a tile's image codec.
type Format uint8

const (
	FormatJPEG Format = iota
	FormatJPEG2000
	FormatPNG
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatJPEG2000:
		return "jpeg2000"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Header is the VSF index file's parsed content.
type Header struct {
	Major, Minor int

	LevelCount uint8

	BackgroundR, BackgroundG, BackgroundB uint8

	SizeX, SizeY             int32
	ResolutionX, ResolutionY int32 // dpi_x, dpi_y

	TileSizeX, TileSizeY int32

	Format  Format
	Quality uint8

	LowestFocalPlane, HighestFocalPlane int32
	ZRangeUM                            float32

	// Comment is the raw magic/header string, published verbatim as the
	// openslide.comment property.
	Comment string
}

const indexFileExtension = ".vsf"

// major1SeekTable maps minor version to the absolute file offset of the
// first of four little-endian int32 fields (size_x, size_y, tile_size_x,
// tile_size_y).
var major1SeekTable = map[int]int64{0: 9, 1: 13, 2: 25}

// ReadIndex reads and validates a VSF index file, returning its parsed
// Header: extension check, magic/version parse, then a major-version-
// specific field read.
func ReadIndex(filename string) (*Header, error) {
	if !hasVSFExtension(filename) {
		return nil, fmt.Errorf("%w: %s: extension is not .vsf", ErrFormatRejected, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingAsset, filename, err)
	}
	defer f.Close()

	magic := make([]byte, 6)
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("%w: %s: reading magic: %v", ErrParse, filename, err)
	}

	major, minor, ok := parseVersion(magic)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unrecognized version bytes", ErrFormatRejected, filename)
	}

	h := &Header{
		Major:              major,
		Minor:              minor,
		BackgroundR:        255,
		BackgroundG:        255,
		BackgroundB:        255,
		LowestFocalPlane:   0,
		HighestFocalPlane:  0,
		Quality:            0,
		Format:             FormatJPEG,
		ZRangeUM:           0,
		LevelCount:         9,
		ResolutionX:        0,
		ResolutionY:        0,
	}

	switch major {
	case 1:
		if err := readMajor1Body(f, h); err != nil {
			return nil, err
		}
		h.Comment = string(magic)
	case 2:
		// readMajor2Body fills h.Comment from the full 30-byte comment
		// field it reads at offset 0, which supersedes the 6-byte magic.
		if err := readMajor2Body(f, h); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s: unsupported major version %d", ErrFormatRejected, filename, major)
	}

	return h, nil
}

// hasVSFExtension checks the filename's extension case-insensitively,
// mirroring _read_index_file's byte-by-byte lowercase comparison.
func hasVSFExtension(filename string) bool {
	if len(filename) <= len(indexFileExtension) {
		return false
	}
	return strings.EqualFold(filename[len(filename)-len(indexFileExtension):], indexFileExtension)
}

// parseVersion derives (major, minor) from the 6-byte magic prefix. Per the
// original C: major 1 is signaled by magic[1] == '1', with
// minor at magic[3] restricted to {0,1,2}; major 2 is signaled by
// magic[3] >= '2' with a one-digit decimal minor at magic[5]. These two
// checks read different byte positions because the major-1 and major-2
// product lines used different header layouts historically — this is
// ground truth from the vendor's own parser, not an inconsistency to "fix".
func parseVersion(magic []byte) (major, minor int, ok bool) {
	if len(magic) < 6 {
		return 0, 0, false
	}
	if magic[1] == '1' {
		switch magic[3] {
		case '0', '1', '2':
			return 1, int(magic[3] - '0'), true
		default:
			return 0, 0, false
		}
	}
	if magic[3] >= '2' && magic[5] >= '0' && magic[5] <= '9' {
		return 2, int(magic[5] - '0'), true
	}
	return 0, 0, false
}

func readMajor1Body(f *os.File, h *Header) error {
	seek, ok := major1SeekTable[h.Minor]
	if !ok {
		return fmt.Errorf("%w: unsupported major-1 minor version %d", ErrFormatRejected, h.Minor)
	}
	if _, err := f.Seek(seek, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking header fields: %v", ErrParse, err)
	}
	fields := []*int32{&h.SizeX, &h.SizeY, &h.TileSizeX, &h.TileSizeY}
	for _, field := range fields {
		if err := binary.Read(f, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("%w: reading major-1 header field: %v", ErrParse, err)
		}
	}
	return nil
}

// readMajor2Body reads the packed major-2 struct fields in the exact order
// and byte budget openslide-vendor-vsf.c's _index_file_content gives: 60
// bytes for minor 0 (through tile_size_y), 72 bytes for minor >= 1 (adds
// lowest/highest focal plane and z_range).
func readMajor2Body(f *os.File, h *Header) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking header: %v", ErrParse, err)
	}
	comment := make([]byte, 30)
	if _, err := io.ReadFull(f, comment); err != nil {
		return fmt.Errorf("%w: reading header comment: %v", ErrParse, err)
	}

	readU8 := func(dst *uint8) error { return binary.Read(f, binary.LittleEndian, dst) }
	readI32 := func(dst *int32) error { return binary.Read(f, binary.LittleEndian, dst) }

	var format, quality uint8
	for _, step := range []func() error{
		func() error { return readU8(&h.LevelCount) },
		func() error { return readU8(&h.BackgroundR) },
		func() error { return readU8(&h.BackgroundG) },
		func() error { return readU8(&h.BackgroundB) },
		func() error { return readI32(&h.SizeX) },
		func() error { return readI32(&h.SizeY) },
		func() error { return readI32(&h.ResolutionX) },
		func() error { return readI32(&h.ResolutionY) },
		func() error { return readU8(&format) },
		func() error { return readU8(&quality) },
		func() error { return readI32(&h.TileSizeX) },
		func() error { return readI32(&h.TileSizeY) },
	} {
		if err := step(); err != nil {
			return fmt.Errorf("%w: reading major-2 header field: %v", ErrParse, err)
		}
	}
	h.Format = Format(format)
	h.Quality = quality

	if h.Minor >= 1 {
		if err := readI32(&h.LowestFocalPlane); err != nil {
			return fmt.Errorf("%w: reading lowest focal plane: %v", ErrParse, err)
		}
		if err := readI32(&h.HighestFocalPlane); err != nil {
			return fmt.Errorf("%w: reading highest focal plane: %v", ErrParse, err)
		}
		if err := binary.Read(f, binary.LittleEndian, &h.ZRangeUM); err != nil {
			return fmt.Errorf("%w: reading z-range: %v", ErrParse, err)
		}
	}
	// Major 2 publishes the full 30-byte comment field; ReadIndex assigns
	// the 6-byte magic as Comment only for major 1.
	h.Comment = string(comment)
	return nil
}
