package vsfformat

// paths.go builds sidecar image filenames from the index filename,
// grounded on _create_file_name_for_layer: trim the recognized extension
// from the index filename and splice a level (and, for major 2 at a
// nonzero focal plane, a signed focal-plane) suffix onto the stem, rather
// than reconstructing the path via filepath.Dir/Base — this preserves the
// original stem byte-for-byte, including unusual casing.

import (
	"fmt"
	"strings"
)

const imageFileExtension = ".img"

// SidecarPath builds the sidecar image filename for layer at focalPlane,
// given the original VSF index filename.
func SidecarPath(indexFilename string, major int, layer uint8, focalPlane int32) string {
	stem := strings.TrimSuffix(indexFilename, indexFilename[len(indexFilename)-len(indexFileExtension):])

	var suffix string
	switch {
	case major == 1:
		suffix = fmt.Sprintf("-level%d%s", layer, imageFileExtension)
	case focalPlane == 0:
		suffix = fmt.Sprintf("-level%02d%s", layer, imageFileExtension)
	default:
		suffix = fmt.Sprintf("-level%02d%+03d%s", layer, focalPlane, imageFileExtension)
	}
	return stem + suffix
}
