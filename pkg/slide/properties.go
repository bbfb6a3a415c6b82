package slide

import (
	"fmt"

	"github.com/openvsf/slidecore/internal/vsfformat"
)

// Properties holds the published metadata a VSF slide exposes after Open,
// with named background/bounds keys matching the original C's property
// constants in intent.
type Properties map[string]string

func buildProperties(filename string, h *vsfformat.Header, top *Level) Properties {
	p := Properties{
		"vsf.filename":      filename,
		"openslide.comment": h.Comment,
		"openslide.mpp-x":   mppFromDPI(h.ResolutionX),
		"openslide.mpp-y":   mppFromDPI(h.ResolutionY),
		"background.r":      fmt.Sprintf("%d", h.BackgroundR),
		"background.g":      fmt.Sprintf("%d", h.BackgroundG),
		"background.b":      fmt.Sprintf("%d", h.BackgroundB),
		"bounds.x":          "0",
		"bounds.y":          "0",
		"bounds.w":          fmt.Sprintf("%d", top.Width),
		"bounds.h":          fmt.Sprintf("%d", top.Height),
	}
	return p
}

// mppFromDPI converts dots-per-inch to micrometers-per-pixel: mpp =
// 25400 / dpi. A zero or negative dpi has no meaningful mpp and is
// reported as "0".
func mppFromDPI(dpi int32) string {
	if dpi <= 0 {
		return "0"
	}
	return fmt.Sprintf("%g", 25400.0/float64(dpi))
}
