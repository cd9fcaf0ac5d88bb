package gbc

// Planar tile format: 8x8 pixels of 2-bit color indices stored as 16
// bytes. Each pixel row is two bytes, low-bit plane then high-bit plane,
// with bit 7 holding the leftmost pixel.
const (
	TileSize  = 8
	TileBytes = 16
)

// SceneSize is the byte size of one fully rasterized view.
const SceneSize = MaxRenderTiles * TileBytes

// packPixelRow packs 8 color indices into the two plane bytes of one tile
// pixel row.
func packPixelRow(pixels []uint8) (lo, hi byte) {
	for col := 0; col < TileSize; col++ {
		bit := byte(1) << (7 - col)
		if pixels[col]&0x01 != 0 {
			lo |= bit
		}
		if pixels[col]&0x02 != 0 {
			hi |= bit
		}
	}
	return
}

// unpackPixelRow expands the two plane bytes of one tile pixel row back
// into 8 color indices.
func unpackPixelRow(lo, hi byte, pixels []uint8) {
	for col := 0; col < TileSize; col++ {
		bit := byte(1) << (7 - col)
		var c uint8
		if lo&bit != 0 {
			c |= 0x01
		}
		if hi&bit != 0 {
			c |= 0x02
		}
		pixels[col] = c
	}
}

// tilePixel returns the color index of one pixel from 16 bytes of planar
// tile data.
func tilePixel(tile []byte, px, py int) uint8 {
	lo := tile[py*2]
	hi := tile[py*2+1]
	bit := byte(1) << (7 - px)

	var c uint8
	if lo&bit != 0 {
		c |= 0x01
	}
	if hi&bit != 0 {
		c |= 0x02
	}
	return c
}

// packTileRow packs 8 accumulated scanlines of color indices into planar
// tiles, RenderTilesX of them, 16 bytes each.
func packTileRow(lines *[TileSize][RenderWidth]uint8, out []byte) {
	for tx := 0; tx < RenderTilesX; tx++ {
		tile := out[tx*TileBytes : (tx+1)*TileBytes]
		baseX := tx * TileSize
		for row := 0; row < TileSize; row++ {
			lo, hi := packPixelRow(lines[row][baseX : baseX+TileSize])
			tile[row*2] = lo
			tile[row*2+1] = hi
		}
	}
}
