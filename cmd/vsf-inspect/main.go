// vsf-inspect opens a VSF slide and prints its header, pyramid levels, and
// published properties — either as pretty text or JSON — and can paint a
// single region to a PNG file for a quick visual sanity check. Adapted from
// the teacher's cmd/arena-cache-inspect, which fetches and prints a
// JSON snapshot from a running process's debug endpoint; this tool
// inspects a VSF file directly instead of a live cache, so the HTTP
// fetch/pprof-download machinery is gone and flag/json usage moves to
// describing a slide on disk.
//
// © 2025 slidecore authors. MIT License.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/openvsf/slidecore/pkg/slide"
)

type options struct {
	path       string
	jsonOutput bool
	paintLevel int
	paintOut   string
	paintW     int
	paintH     int
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.path, "path", "", "path to the .vsf index file (required)")
	flag.BoolVar(&opts.jsonOutput, "json", false, "print properties as JSON instead of text")
	flag.IntVar(&opts.paintLevel, "paint-level", -1, "if >= 0, paint this level's top-left region to -paint-out")
	flag.StringVar(&opts.paintOut, "paint-out", "region.png", "output PNG path for -paint-level")
	flag.IntVar(&opts.paintW, "paint-w", 256, "width of the painted region")
	flag.IntVar(&opts.paintH, "paint-h", 256, "height of the painted region")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	if opts.path == "" {
		fatal(fmt.Errorf("-path is required"))
	}

	b, err := slide.Open(opts.path)
	if err != nil {
		fatal(err)
	}
	defer b.Destroy()

	if opts.paintLevel >= 0 {
		img, err := b.PaintRegion(opts.paintLevel, 0, 0, opts.paintW, opts.paintH)
		if err != nil {
			fatal(err)
		}
		f, err := os.Create(opts.paintOut)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			fatal(err)
		}
		fmt.Printf("painted level %d region to %s\n", opts.paintLevel, opts.paintOut)
		return
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summarize(b)); err != nil {
			fatal(err)
		}
		return
	}
	prettyPrint(b)
}

func summarize(b *slide.Backend) map[string]any {
	levels := make([]map[string]any, 0, len(b.Levels()))
	for _, l := range b.Levels() {
		levels = append(levels, map[string]any{
			"layer":        l.Layer,
			"width":        l.Width,
			"height":       l.Height,
			"tile_w":       l.TileW,
			"tile_h":       l.TileH,
			"tiles_across": l.TilesAcross,
			"tiles_down":   l.TilesDown,
		})
	}
	return map[string]any{
		"properties": b.Properties(),
		"levels":     levels,
	}
}

func prettyPrint(b *slide.Backend) {
	fmt.Printf("Levels: %d\n", len(b.Levels()))
	for _, l := range b.Levels() {
		fmt.Printf("  layer %-2d %6dx%-6d tiles %dx%d (tile %dx%d)\n",
			l.Layer, l.Width, l.Height, l.TilesAcross, l.TilesDown, l.TileW, l.TileH)
	}
	fmt.Println("Properties:")
	for k, v := range b.Properties() {
		fmt.Printf("  %s = %s\n", k, v)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vsf-inspect:", err)
	os.Exit(1)
}
