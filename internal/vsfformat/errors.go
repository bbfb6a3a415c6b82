// Package vsfformat decodes the versioned VSF container format: its index
// header (header.go), its per-version tile directory (locator.go), its
// sidecar filename scheme (paths.go), and — via the codec subpackage — the
// pixel data the directory points at. Binary layout and field offsets are
// grounded directly on openslide-vendor-vsf.c (see original_source/ in the
// retrieval pack); decoding structure (version table dispatch,
// encoding/binary field reads) follows the pattern the pack's
// walkthru-earth-imagery-desktop/internal/googleearth/packet.go and
// owlpinetech-pixi/header.go use for fixed binary headers.
//
// © 2025 slidecore authors. MIT License.
package vsfformat

import "errors"

// Sentinel error categories this package can fail with. pkg/slide
// re-exports these so callers never need to import this internal package
// directly.
var (
	// ErrFormatRejected: not a VSF file — bad extension, bad magic, or an
	// unsupported (major, minor) combination.
	ErrFormatRejected = errors.New("vsfformat: not a recognized VSF file")

	// ErrMissingAsset: a required sidecar image file is absent or unreadable.
	ErrMissingAsset = errors.New("vsfformat: missing or unreadable sidecar file")

	// ErrParse: a truncated or inconsistent header or tile directory.
	ErrParse = errors.New("vsfformat: truncated or inconsistent binary data")
)
