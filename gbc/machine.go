package gbc

import (
	"hash/crc32"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/go-chip-sn76489"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Machine)(nil)
var _ emucore.SaveStater = (*Machine)(nil)

// Machine metadata.
const (
	Name    = "traceboy"
	Version = "1.0.0"
)

// Progress bar: one solid tile after the render tiles, drawn across the
// top tilemap row while the views render.
const (
	tileBorder    = 0
	tileProgress  = RenderTileBase + MaxRenderTiles // 145
	progressY     = 0
	progressWidth = 20
)

// machinePhase tracks where the machine is in its fixed program: render
// the front view, render the back view, then the interactive gallery.
type machinePhase uint8

const (
	phaseRenderFront machinePhase = iota
	phaseRenderBack
	phaseGallery
)

// Machine is the whole handheld: tracer, display, sound chip, and the
// frame loop that sequences them. The only program it runs is the two-view
// raytracer gallery.
type Machine struct {
	cart    Cartridge
	cartCRC uint32

	tracer *Tracer
	ppu    *PPU
	psg    *sn76489.SN76489

	region Region
	phase  machinePhase

	renderRow   int
	currentView View
	buttons     uint32
	lastButtons uint32
	turbo       bool

	// Feedback tone state
	toneQueue  []toneStep
	toneActive bool
	toneFrames int

	// Pre-allocated audio buffer for external consumption
	audioBuffer []int16
}

// NewMachine creates and initializes the machine. A nil or empty cart
// loads the built-in scene.
func NewMachine(cart []byte, region Region) (Machine, error) {
	c, err := ParseCartridge(cart)
	if err != nil {
		return Machine{}, err
	}

	psg := sn76489.New(psgClockHz, sampleRate, psgBufferSize, sn76489.Sega)
	psg.SetGain(psgGain)

	// Silence all four channels; only channel 0 is ever used.
	psg.Write(0x9F)
	psg.Write(0xBF)
	psg.Write(0xDF)
	psg.Write(0xFF)

	m := Machine{
		cart:        c,
		cartCRC:     crc32.ChecksumIEEE(cart),
		tracer:      NewTracer(c.Scene),
		ppu:         NewPPU(),
		psg:         psg,
		region:      region,
		phase:       phaseRenderFront,
		currentView: ViewFront,
		audioBuffer: make([]int16, 0, 2048),
	}

	m.initVRAM()
	m.tracer.BuildTables()
	return m, nil
}

// initVRAM loads the palettes, the border and progress tiles, clears the
// render tiles, and lays out the tilemap: border everywhere, render tiles
// 1..144 mapped into the centered window, border palette outside it and
// render palette inside.
func (m *Machine) initVRAM() {
	m.ppu.SetPalette(PaletteRender, m.cart.RenderPalette)
	m.ppu.SetPalette(PaletteBorder, m.cart.BorderPalette)

	// Border tile: solid color 3.
	var borderTile [TileBytes]byte
	for i := range borderTile {
		borderTile[i] = 0xFF
	}
	m.ppu.SetTileData(tileBorder, borderTile[:])

	// Progress tile: solid color 2.
	var progressTile [TileBytes]byte
	for row := 0; row < TileSize; row++ {
		progressTile[row*2+1] = 0xFF
	}
	m.ppu.SetTileData(tileProgress, progressTile[:])

	// Clear render tiles.
	var empty [TileBytes]byte
	for i := 0; i < MaxRenderTiles; i++ {
		m.ppu.SetTileData(RenderTileBase+i, empty[:])
	}

	mapOffsetX := RenderOffsetX / TileSize
	mapOffsetY := RenderOffsetY / TileSize

	// Border fill and border palette over the visible map area.
	borderRow := make([]uint8, MapWidth)
	borderAttr := make([]uint8, MapWidth)
	for i := range borderAttr {
		borderAttr[i] = PaletteBorder
	}
	for y := 0; y < ScreenHeight/TileSize; y++ {
		m.ppu.SetMapTiles(0, y, borderRow)
		m.ppu.SetMapAttrs(0, y, borderAttr)
	}

	// Render window: tile indices 1..144 and the render palette.
	rowMap := make([]uint8, RenderTilesX)
	rowAttr := make([]uint8, RenderTilesX) // PaletteRender == 0
	for ty := 0; ty < RenderTilesY; ty++ {
		for tx := 0; tx < RenderTilesX; tx++ {
			rowMap[tx] = uint8(RenderTileBase + ty*RenderTilesX + tx)
		}
		m.ppu.SetMapTiles(mapOffsetX, mapOffsetY+ty, rowMap)
		m.ppu.SetMapAttrs(mapOffsetX, mapOffsetY+ty, rowAttr)
	}
}

// RunFrame executes one frame: advance the render/gallery program, step
// the feedback tone, composite all LCD scanlines, and generate audio.
func (m *Machine) RunFrame() {
	m.audioBuffer = m.audioBuffer[:0]
	m.psg.ResetBuffer()

	pressed := m.buttons &^ m.lastButtons
	m.lastButtons = m.buttons

	switch m.phase {
	case phaseRenderFront:
		m.advanceRender(ViewFront, phaseRenderBack, ViewBack)
	case phaseRenderBack:
		m.advanceRender(ViewBack, phaseGallery, ViewFront)
	case phaseGallery:
		m.handleGalleryInput(pressed)
	}

	m.stepTone()

	for line := 0; line < TotalScanlines; line++ {
		if line < ScreenHeight {
			m.ppu.RenderScanline(line)
		}
		m.psg.Run(psgCyclesPerScanline)
	}

	m.mixAudio()
}

// advanceRender renders tile rows of the given view (one per frame, or
// the whole view in turbo mode), uploading each completed row and the
// progress bar. When the view's last row is stored it moves to nextPhase
// after switching the tracer to nextView.
func (m *Machine) advanceRender(view View, nextPhase machinePhase, nextView View) {
	rows := 1
	if m.turbo {
		rows = RenderTilesY - m.renderRow
	}

	for i := 0; i < rows; i++ {
		m.tracer.RenderRow(m.renderRow)
		m.tracer.StoreRow(view, m.renderRow)
		m.uploadRow(m.renderRow)
		m.renderRow++
		m.showProgress(view, m.renderRow)
	}

	if m.renderRow < RenderTilesY {
		return
	}
	m.renderRow = 0
	m.tracer.SetView(nextView)

	if nextPhase == phaseGallery {
		m.clearProgress()
		m.loadView(ViewFront)
		m.playChime()
	}
	m.phase = nextPhase
}

// uploadRow writes one packed tile row into pattern RAM.
func (m *Machine) uploadRow(tileRow int) {
	m.ppu.SetTileData(RenderTileBase+tileRow*RenderTilesX, m.tracer.RowData())
}

// ButtonA is the bitmask ID of the single action button, matching the
// adapter's button table.
const ButtonA = 4

// handleGalleryInput switches the displayed view on button edges: Down
// selects the front view, Up the back view, A toggles. A pure store
// load, no recomputation.
func (m *Machine) handleGalleryInput(pressed uint32) {
	newView := m.currentView
	if pressed&(1<<emucore.ButtonDown) != 0 {
		newView = ViewFront
	}
	if pressed&(1<<emucore.ButtonUp) != 0 {
		newView = ViewBack
	}
	if pressed&(1<<ButtonA) != 0 {
		newView = 1 - m.currentView
	}

	if newView != m.currentView {
		m.loadView(newView)
		m.playBlip()
	}
}

// loadView uploads a stored view's full bitmap into pattern RAM and makes
// it current.
func (m *Machine) loadView(view View) {
	data, err := m.tracer.ActivateStore(view)
	if err != nil {
		return // store incomplete, keep current tiles
	}
	m.tracer.SetView(view)
	m.ppu.SetTileData(RenderTileBase, data)
	m.currentView = view
}

// showProgress draws the top progress bar: filled cells out of
// progressWidth, proportional to rows completed across both views.
func (m *Machine) showProgress(view View, row int) {
	total := NumViews * RenderTilesY
	current := int(view)*RenderTilesY + row
	filled := current * progressWidth / total

	bar := make([]uint8, progressWidth)
	for i := 0; i < filled; i++ {
		bar[i] = tileProgress
	}
	m.ppu.SetMapTiles(0, progressY, bar)
}

// clearProgress restores the border over the progress bar.
func (m *Machine) clearProgress() {
	m.ppu.SetMapTiles(0, progressY, make([]uint8, progressWidth))
}

// SetInput unpacks a button bitmask for the given player. The machine has
// a single D-pad; player 1 and beyond are ignored.
func (m *Machine) SetInput(player int, buttons uint32) {
	if player == 0 {
		m.buttons = buttons
	}
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (m *Machine) GetFramebuffer() []byte {
	return m.ppu.GetFramebuffer()
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (m *Machine) GetFramebufferStride() int {
	return m.ppu.GetStride()
}

// GetActiveHeight returns the LCD height.
func (m *Machine) GetActiveHeight() int {
	return ScreenHeight
}

// GetRegion returns the machine's region setting.
func (m *Machine) GetRegion() Region {
	return m.region
}

// SetRegion updates the region setting. The LCD timing does not change.
func (m *Machine) SetRegion(region Region) {
	m.region = region
}

// GetTiming returns FPS and scanline count.
func (m *Machine) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       FPS,
		Scanlines: TotalScanlines,
	}
}

// CurrentView returns the view shown in the gallery.
func (m *Machine) CurrentView() View {
	return m.currentView
}

// Ready reports whether both views are rendered and stored.
func (m *Machine) Ready() bool {
	return m.phase == phaseGallery
}

// SetOption applies a core option change identified by key.
func (m *Machine) SetOption(key string, value string) {
	switch key {
	case "turbo_render":
		m.turbo = value == "true"
	}
}

// Close releases any resources held by the machine.
func (m *Machine) Close() {}
