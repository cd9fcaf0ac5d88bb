package adapter

import (
	emucore "github.com/user-none/eblitui/api"

	"traceboy/gbc"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the TraceBoy handheld.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "traceboy",
		ConsoleName:     "TraceBoy",
		Extensions:      []string{".tbs"},
		ScreenWidth:     gbc.ScreenWidth,
		MaxScreenHeight: gbc.ScreenHeight,
		AspectRatio:     float64(gbc.ScreenWidth) / float64(gbc.ScreenHeight),
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "A", ID: gbc.ButtonA, DefaultKey: "J", DefaultPad: "A"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "turbo_render",
				Label:       "Turbo Render",
				Description: "Render a whole view per frame instead of one tile row",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
		},
		DataDirName:   "traceboy",
		CoreName:      gbc.Name,
		CoreVersion:   gbc.Version,
		SerializeSize: gbc.SerializeSize(),
	}
}

// CreateEmulator creates a new machine instance with the given scene
// cartridge and region.
func (f *Factory) CreateEmulator(cart []byte, region emucore.Region) (emucore.Emulator, error) {
	m, err := gbc.NewMachine(cart, region)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DetectRegion reports the region for a scene cartridge. The bool return
// is false since the handheld has a single fixed video timing, not a
// database lookup.
func (f *Factory) DetectRegion(cart []byte) (emucore.Region, bool) {
	return gbc.DetectRegion(cart), false
}
