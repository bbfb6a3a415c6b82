// Package codec implements the tile pixel decoders the VSF backend
// dispatches to by format. JPEG, PNG and BMP are concrete, built on the
// standard library's image/jpeg, image/png and golang.org/x/image/bmp (the
// latter grounded on walkthru-earth-imagery-desktop's golang.org/x/image
// dependency). JPEG2000 has no implementation anywhere in the retrieval
// pack or the wider Go ecosystem as a pure-Go library, so it is exposed
// only as a typed extension point (JP2KDecodeFunc) that callers inject.
//
// © 2025 slidecore authors. MIT License.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
)

// jfifPreamble is prepended to major-1 tile bytes, which are stored
// without their JFIF APP0 header.
var jfifPreamble = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

// ToRGBA converts a decoded image.Image into a tightly packed RGBA byte
// buffer of size w*h*4, the shape the cache and the painter require.
func ToRGBA(img image.Image, w, h int) []byte {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba.Pix
}

// DecodeJPEGWithPreamble reassembles a major-1 tile (whose stored bytes
// omit the 10-byte JFIF APP0 header) and decodes it.
func DecodeJPEGWithPreamble(tileBytes []byte, w, h int) ([]byte, error) {
	full := make([]byte, 0, len(jfifPreamble)+len(tileBytes))
	full = append(full, jfifPreamble...)
	full = append(full, tileBytes...)
	img, err := jpeg.Decode(bytes.NewReader(full))
	if err != nil {
		return nil, fmt.Errorf("codec: jpeg decode: %w", err)
	}
	return ToRGBA(img, w, h), nil
}

// DecodeJPEGBuffer decodes a major-2 JPEG tile already prefetched into buf.
func DecodeJPEGBuffer(buf []byte, w, h int) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("codec: jpeg decode: %w", err)
	}
	return ToRGBA(img, w, h), nil
}

// JPEGDimensions peeks a JPEG's SOF marker to recover its (width, height)
// without fully decoding pixel data.
func JPEGDimensions(path string, offset int64) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("codec: seeking %s: %w", path, err)
	}
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: jpeg dimension probe: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// DecodePNG decodes a PNG tile directly from the sidecar file at offset.
func DecodePNG(path string, offset int64, w, h int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codec: opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("codec: seeking %s: %w", path, err)
	}
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("codec: png decode: %w", err)
	}
	return ToRGBA(img, w, h), nil
}

// DecodeBMP decodes a BMP tile read from the sidecar file at [offset, offset+size).
func DecodeBMP(path string, offset int64, size int64, w, h int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codec: opening %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("codec: seeking %s: %w", path, err)
	}
	img, err := bmp.Decode(io.LimitReader(f, size))
	if err != nil {
		return nil, fmt.Errorf("codec: bmp decode: %w", err)
	}
	return ToRGBA(img, w, h), nil
}

// JP2KDecodeFunc decodes a JPEG2000 tile buffer into an RGBA byte slice of
// size w*h*4. No default implementation is bundled (see package doc);
// callers that need JPEG2000 support inject one via Backend's options.
type JP2KDecodeFunc func(buf []byte, w, h int) ([]byte, error)
