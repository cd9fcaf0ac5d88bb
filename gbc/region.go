package gbc

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// Timing constants. The LCD runs at 60 Hz regardless of region; a frame is
// 154 scanlines (144 visible plus 10 of vertical blank).
const (
	FPS             = 60
	TotalScanlines  = ScreenHeight + VBlankScanlines
	VBlankScanlines = 10
)

// DetectRegion reports the region for a scene cartridge. The handheld has a
// single video timing, so every cartridge is NTSC.
func DetectRegion(cart []byte) Region {
	return RegionNTSC
}
