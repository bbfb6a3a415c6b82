package slide

// grid.go is a minimal stand-in for a tile-addressed grid/canvas
// collaborator: a tiles_across x tiles_down addressable surface that calls
// back into readTile for each tile a requested region covers and
// composites the results into a caller-supplied RGBA buffer. A real
// deployment would swap this for a fuller grid/canvas abstraction; this
// package only needs enough of it to exercise Backend.PaintRegion
// end-to-end.

import "image"

// paintRegion fills dst (already sized w x h) with pixels from level,
// starting at source coordinate (x, y) in level-local pixel space. It
// walks every tile the requested rectangle overlaps, invoking fetch for
// each, and copies the overlapping sub-rectangle of each tile's pixels
// into dst.
func paintRegion(dst *image.RGBA, level *Level, x, y int64, fetch func(col, row int64) (*image.RGBA, error)) error {
	w, h := int64(dst.Rect.Dx()), int64(dst.Rect.Dy())
	if w == 0 || h == 0 {
		return nil
	}

	colStart := x / level.TileW
	rowStart := y / level.TileH
	colEnd := (x + w - 1) / level.TileW
	rowEnd := (y + h - 1) / level.TileH

	for row := rowStart; row <= rowEnd && row < level.TilesDown; row++ {
		for col := colStart; col <= colEnd && col < level.TilesAcross; col++ {
			tile, err := fetch(col, row)
			if err != nil {
				return err
			}
			if tile == nil {
				continue // zero-size tile: leave the region transparent
			}
			tileOriginX := col * level.TileW
			tileOriginY := row * level.TileH
			copyTileInto(dst, tile, x, y, tileOriginX, tileOriginY)
		}
	}
	return nil
}

// copyTileInto copies the portion of tile that overlaps dst's source
// window [x, x+w) x [y, y+h) into dst at the correct destination offset.
func copyTileInto(dst *image.RGBA, tile *image.RGBA, x, y, tileOriginX, tileOriginY int64) {
	tw, th := int64(tile.Rect.Dx()), int64(tile.Rect.Dy())
	dw, dh := int64(dst.Rect.Dx()), int64(dst.Rect.Dy())

	for ty := int64(0); ty < th; ty++ {
		srcY := tileOriginY + ty
		dstY := srcY - y
		if dstY < 0 || dstY >= dh {
			continue
		}
		for tx := int64(0); tx < tw; tx++ {
			srcX := tileOriginX + tx
			dstX := srcX - x
			if dstX < 0 || dstX >= dw {
				continue
			}
			si := tile.PixOffset(int(tx), int(ty))
			di := dst.PixOffset(int(dstX), int(dstY))
			copy(dst.Pix[di:di+4], tile.Pix[si:si+4])
		}
	}
}
