package gbc

import (
	"bytes"
	"testing"
)

func TestPackPixelRow_PlaneSplit(t *testing.T) {
	// Leftmost pixel lands in bit 7. Color 1 sets only the low plane,
	// color 2 only the high plane, color 3 both.
	cases := []struct {
		pixels []uint8
		lo, hi byte
	}{
		{[]uint8{0, 0, 0, 0, 0, 0, 0, 0}, 0x00, 0x00},
		{[]uint8{1, 0, 0, 0, 0, 0, 0, 0}, 0x80, 0x00},
		{[]uint8{2, 0, 0, 0, 0, 0, 0, 0}, 0x00, 0x80},
		{[]uint8{3, 0, 0, 0, 0, 0, 0, 1}, 0x81, 0x80},
		{[]uint8{3, 3, 3, 3, 3, 3, 3, 3}, 0xFF, 0xFF},
		{[]uint8{0, 1, 2, 3, 0, 1, 2, 3}, 0x55, 0x33},
	}
	for _, c := range cases {
		lo, hi := packPixelRow(c.pixels)
		if lo != c.lo || hi != c.hi {
			t.Errorf("packPixelRow(%v): expected %02X/%02X, got %02X/%02X",
				c.pixels, c.lo, c.hi, lo, hi)
		}
	}
}

func TestUnpackPixelRow_RoundTrip(t *testing.T) {
	src := []uint8{3, 1, 0, 2, 2, 0, 1, 3}
	lo, hi := packPixelRow(src)

	got := make([]uint8, TileSize)
	unpackPixelRow(lo, hi, got)
	if !bytes.Equal(src, got) {
		t.Errorf("round trip: expected %v, got %v", src, got)
	}
}

func TestTilePixel_Layout(t *testing.T) {
	// Row 3 has color 2 at column 0 and color 3 at column 7; everything
	// else is color 0. Planes are interleaved per row, low plane first.
	var tile [TileBytes]byte
	tile[3*2] = 0x01   // low plane, column 7
	tile[3*2+1] = 0x81 // high plane, columns 0 and 7

	if got := tilePixel(tile[:], 0, 3); got != 2 {
		t.Errorf("pixel (0,3): expected 2, got %d", got)
	}
	if got := tilePixel(tile[:], 7, 3); got != 3 {
		t.Errorf("pixel (7,3): expected 3, got %d", got)
	}
	if got := tilePixel(tile[:], 4, 3); got != 0 {
		t.Errorf("pixel (4,3): expected 0, got %d", got)
	}
	if got := tilePixel(tile[:], 0, 2); got != 0 {
		t.Errorf("pixel (0,2): expected 0, got %d", got)
	}
}

func TestPackTileRow_PixelAddressing(t *testing.T) {
	// Fill a full row of scanlines with a position-derived pattern and
	// verify every pixel lands in the right tile at the right offset.
	var lines [TileSize][RenderWidth]uint8
	for row := 0; row < TileSize; row++ {
		for x := 0; x < RenderWidth; x++ {
			lines[row][x] = uint8((x + row) & 0x03)
		}
	}

	out := make([]byte, RenderTilesX*TileBytes)
	packTileRow(&lines, out)

	for row := 0; row < TileSize; row++ {
		for x := 0; x < RenderWidth; x++ {
			tile := out[(x/TileSize)*TileBytes : (x/TileSize+1)*TileBytes]
			if got := tilePixel(tile, x%TileSize, row); got != lines[row][x] {
				t.Fatalf("pixel (%d,%d): expected %d, got %d", x, row, lines[row][x], got)
			}
		}
	}
}
