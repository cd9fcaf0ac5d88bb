package gbc

import (
	"encoding/binary"
	"fmt"
)

// Scene cartridge layout. A cartridge replaces the built-in scene and
// palettes; everything else about the machine is fixed.
//
//	0x00  16  system magic "TRACEBOY SCENE  "
//	0x10   2  format version (little-endian)
//	0x12   2  payload checksum: 16-bit byte sum over 0x14..end
//	0x14   1  sphere center X (signed)
//	0x15   1  sphere center Y
//	0x16   1  sphere center Z
//	0x17   1  sphere radius (1..8)
//	0x18   1  camera height (signed)
//	0x19   1  reserved
//	0x1A   6  light direction X, Y, Z (8.8 fixed, little-endian words)
//	0x20   8  render palette, 4 RGB555 words
//	0x28   8  border palette, 4 RGB555 words
const (
	cartMagic   = "TRACEBOY SCENE  "
	cartVersion = 1
	cartSize    = 0x30

	cartPayloadOffset = 0x14
)

// Cartridge is a parsed scene cartridge.
type Cartridge struct {
	Scene         Scene
	RenderPalette [NumPalettes]uint16
	BorderPalette [NumPalettes]uint16
}

// DefaultCartridge returns the built-in scene and palettes, used when no
// cartridge is provided.
func DefaultCartridge() Cartridge {
	return Cartridge{
		Scene:         DefaultScene(),
		RenderPalette: DefaultRenderPalette(),
		BorderPalette: DefaultBorderPalette(),
	}
}

// ValidateCartridge checks the magic, version, length, and payload
// checksum without decoding the scene.
func ValidateCartridge(data []byte) error {
	if len(data) < cartSize {
		return fmt.Errorf("scene cartridge too short: %d bytes, need %d", len(data), cartSize)
	}
	if string(data[0:16]) != cartMagic {
		return fmt.Errorf("not a scene cartridge: bad magic %q", string(data[0:16]))
	}
	version := binary.LittleEndian.Uint16(data[0x10:0x12])
	if version != cartVersion {
		return fmt.Errorf("unsupported cartridge version %d", version)
	}

	expected := binary.LittleEndian.Uint16(data[0x12:0x14])
	var computed uint16
	for _, b := range data[cartPayloadOffset:] {
		computed += uint16(b)
	}
	if computed != expected {
		return fmt.Errorf("cartridge checksum mismatch: header=%04X computed=%04X", expected, computed)
	}
	return nil
}

// ParseCartridge validates and decodes a scene cartridge. A nil or empty
// slice yields the default cartridge.
func ParseCartridge(data []byte) (Cartridge, error) {
	if len(data) == 0 {
		return DefaultCartridge(), nil
	}
	if err := ValidateCartridge(data); err != nil {
		return Cartridge{}, err
	}

	c := Cartridge{
		Scene: Scene{
			SphereCX: int(int8(data[0x14])),
			SphereCY: int(int8(data[0x15])),
			SphereCZ: int(int8(data[0x16])),
			SphereR:  int(data[0x17]),
			CamY:     int(int8(data[0x18])),
			LightX:   Fixed(binary.LittleEndian.Uint16(data[0x1A:0x1C])),
			LightY:   Fixed(binary.LittleEndian.Uint16(data[0x1C:0x1E])),
			LightZ:   Fixed(binary.LittleEndian.Uint16(data[0x1E:0x20])),
		},
	}
	c.Scene.SphereRSq = c.Scene.SphereR * c.Scene.SphereR

	for i := 0; i < NumPalettes; i++ {
		c.RenderPalette[i] = binary.LittleEndian.Uint16(data[0x20+i*2 : 0x22+i*2])
		c.BorderPalette[i] = binary.LittleEndian.Uint16(data[0x28+i*2 : 0x2A+i*2])
	}

	if c.Scene.SphereR < 1 || c.Scene.SphereR > 8 {
		return Cartridge{}, fmt.Errorf("sphere radius %d out of range 1..8", c.Scene.SphereR)
	}
	if c.Scene.SphereCY <= 0 {
		return Cartridge{}, fmt.Errorf("sphere center Y %d must be above the ground plane", c.Scene.SphereCY)
	}
	if c.Scene.LightY <= 0 {
		return Cartridge{}, fmt.Errorf("light Y component %d must be positive", c.Scene.LightY)
	}
	return c, nil
}

// BuildCartridge encodes a cartridge back into its binary form, computing
// the payload checksum. Used by tooling and tests.
func BuildCartridge(c Cartridge) []byte {
	data := make([]byte, cartSize)
	copy(data[0:16], cartMagic)
	binary.LittleEndian.PutUint16(data[0x10:0x12], cartVersion)

	data[0x14] = byte(int8(c.Scene.SphereCX))
	data[0x15] = byte(int8(c.Scene.SphereCY))
	data[0x16] = byte(int8(c.Scene.SphereCZ))
	data[0x17] = byte(c.Scene.SphereR)
	data[0x18] = byte(int8(c.Scene.CamY))
	binary.LittleEndian.PutUint16(data[0x1A:0x1C], uint16(c.Scene.LightX))
	binary.LittleEndian.PutUint16(data[0x1C:0x1E], uint16(c.Scene.LightY))
	binary.LittleEndian.PutUint16(data[0x1E:0x20], uint16(c.Scene.LightZ))
	for i := 0; i < NumPalettes; i++ {
		binary.LittleEndian.PutUint16(data[0x20+i*2:0x22+i*2], c.RenderPalette[i])
		binary.LittleEndian.PutUint16(data[0x28+i*2:0x2A+i*2], c.BorderPalette[i])
	}

	var sum uint16
	for _, b := range data[cartPayloadOffset:] {
		sum += uint16(b)
	}
	binary.LittleEndian.PutUint16(data[0x12:0x14], sum)
	return data
}
