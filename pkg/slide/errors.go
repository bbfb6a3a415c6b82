package slide

// errors.go re-exports the internal vsfformat package's sentinel errors
// (so callers never import an internal package directly, the same
// re-export trick the teacher uses for EjectReason in pkg/config.go) and
// adds the two remaining error categories that originate at the façade
// layer rather than during parsing.

import (
	"errors"

	"github.com/openvsf/slidecore/internal/vsfformat"
)

var (
	// ErrFormatRejected: not a VSF file.
	ErrFormatRejected = vsfformat.ErrFormatRejected
	// ErrMissingAsset: a required sidecar file is absent or unreadable.
	ErrMissingAsset = vsfformat.ErrMissingAsset
	// ErrParse: truncated or inconsistent header or tile directory.
	ErrParse = vsfformat.ErrParse

	// ErrDecode: a codec refused a tile or produced the wrong dimensions.
	ErrDecode = errors.New("slide: tile decode failed")
	// ErrAllocation: a buffer allocation failed.
	ErrAllocation = errors.New("slide: buffer allocation failed")
)
