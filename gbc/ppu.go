package gbc

import "image"

// Background map and palette geometry.
const (
	MapWidth  = 32 // tilemap cells per row
	MapHeight = 32
	NumTiles  = 256

	NumPalettes = 4 // colors per palette
	numSlots    = 2 // background palette slots

	// Palette slot assignments: the render window uses slot 0, the border
	// and progress bar use slot 1.
	PaletteRender = 0
	PaletteBorder = 1
)

// PPU is the 4-color tile display: planar pattern RAM, a 32x32 background
// tilemap with per-cell palette attributes, and two RGB555 palettes,
// composited scanline by scanline into an RGBA framebuffer.
type PPU struct {
	tiles    [NumTiles][TileBytes]byte
	tilemap  [MapWidth * MapHeight]uint8
	attrs    [MapWidth * MapHeight]uint8
	palettes [numSlots][NumPalettes]uint16

	framebuffer *image.RGBA
}

// NewPPU creates a PPU with an LCD-sized framebuffer.
func NewPPU() *PPU {
	return &PPU{
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
}

// SetTileData writes planar tile data into pattern RAM starting at the
// given tile index. Data length must be a multiple of TileBytes; tiles
// beyond pattern RAM are ignored.
func (p *PPU) SetTileData(start int, data []byte) {
	for i := 0; i*TileBytes+TileBytes <= len(data); i++ {
		idx := start + i
		if idx < 0 || idx >= NumTiles {
			return
		}
		copy(p.tiles[idx][:], data[i*TileBytes:(i+1)*TileBytes])
	}
}

// SetMapTiles writes a run of tile indices into the tilemap at (x, y).
func (p *PPU) SetMapTiles(x, y int, indices []uint8) {
	copy(p.tilemap[y*MapWidth+x:], indices)
}

// SetMapAttrs writes a run of palette attributes into the attribute map.
func (p *PPU) SetMapAttrs(x, y int, attrs []uint8) {
	copy(p.attrs[y*MapWidth+x:], attrs)
}

// SetPalette loads four RGB555 colors into a background palette slot.
func (p *PPU) SetPalette(slot int, colors [NumPalettes]uint16) {
	p.palettes[slot] = colors
}

// rgb555 packs 8-bit channels into a 15-bit color word (red in the low
// bits, as the palette RAM stores it).
func rgb555(r, g, b uint8) uint16 {
	return uint16(r>>3) | uint16(g>>3)<<5 | uint16(b>>3)<<10
}

// paletteColor expands a palette entry to 8-bit R, G, B values. Each
// 5-bit channel is widened by replicating its top bits.
func (p *PPU) paletteColor(slot int, index uint8) (r, g, b uint8) {
	c := p.palettes[slot][index&0x03]

	red := uint8(c) & 0x1F
	green := uint8(c>>5) & 0x1F
	blue := uint8(c>>10) & 0x1F

	r = red<<3 | red>>2
	g = green<<3 | green>>2
	b = blue<<3 | blue>>2
	return
}

// RenderScanline composites one LCD line from the tilemap into the
// framebuffer. The visible area maps 1:1 onto the top-left 20x18 cells;
// there is no scrolling on this machine.
func (p *PPU) RenderScanline(line int) {
	if line < 0 || line >= ScreenHeight {
		return
	}

	pix := p.framebuffer.Pix
	stride := p.framebuffer.Stride
	offset := line * stride

	mapRow := line / TileSize * MapWidth
	py := line % TileSize

	for x := 0; x < ScreenWidth; x++ {
		cell := mapRow + x/TileSize
		tile := p.tilemap[cell]
		slot := int(p.attrs[cell]) & 0x01

		c := tilePixel(p.tiles[tile][:], x%TileSize, py)
		r, g, b := p.paletteColor(slot, c)

		o := offset + x*4
		pix[o] = r
		pix[o+1] = g
		pix[o+2] = b
		pix[o+3] = 0xFF
	}
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (p *PPU) GetFramebuffer() []byte {
	return p.framebuffer.Pix
}

// GetStride returns the framebuffer stride in bytes per row.
func (p *PPU) GetStride() int {
	return p.framebuffer.Stride
}

// DefaultRenderPalette returns the built-in render-window colors:
// shadow, red sphere, green ground, sky blue.
func DefaultRenderPalette() [NumPalettes]uint16 {
	return [NumPalettes]uint16{
		rgb555(24, 16, 32),
		rgb555(220, 60, 60),
		rgb555(60, 180, 80),
		rgb555(135, 206, 235),
	}
}

// DefaultBorderPalette returns the built-in border colors: dark fill,
// white, progress-bar green, border blue.
func DefaultBorderPalette() [NumPalettes]uint16 {
	return [NumPalettes]uint16{
		rgb555(8, 8, 16),
		rgb555(255, 255, 255),
		rgb555(100, 255, 100),
		rgb555(40, 40, 80),
	}
}
