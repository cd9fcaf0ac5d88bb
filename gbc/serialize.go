package gbc

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/user-none/go-chip-sn76489"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "TBoySState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + cartCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	machineSerializeSize = 8 // phase(1) + renderRow(1) + view(1) + turbo(1) + lastButtons(4)
	tracerSerializeSize  = 1 + 2*2 + NumViews*SceneSize
	ppuSerializeSize     = NumTiles*TileBytes + 2*MapWidth*MapHeight + numSlots*NumPalettes*2
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes of a save state. The
// layout is fixed: nothing in the machine is variable length.
func SerializeSize() int {
	return stateHeaderSize +
		machineSerializeSize +
		tracerSerializeSize +
		ppuSerializeSize +
		sn76489.SerializeSize
}

// SerializeSize implements emucore.SaveStater.
func (m *Machine) SerializeSize() int {
	return SerializeSize()
}

// Serialize creates a save state and returns it as a byte slice.
func (m *Machine) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], m.cartCRC)

	offset := stateHeaderSize

	// Machine inline state
	data[offset] = uint8(m.phase)
	data[offset+1] = uint8(m.renderRow)
	data[offset+2] = uint8(m.currentView)
	data[offset+3] = boolByte(m.turbo)
	binary.LittleEndian.PutUint32(data[offset+4:offset+8], m.lastButtons)
	offset += machineSerializeSize

	// Tracer: active view, committed-row masks, scene store
	data[offset] = uint8(m.tracer.view)
	offset++
	for v := 0; v < NumViews; v++ {
		binary.LittleEndian.PutUint16(data[offset:offset+2], m.tracer.storedRows[v])
		offset += 2
	}
	for v := 0; v < NumViews; v++ {
		copy(data[offset:offset+SceneSize], m.tracer.store[v][:])
		offset += SceneSize
	}

	// PPU: pattern RAM, tilemap, attributes, palettes
	for i := 0; i < NumTiles; i++ {
		copy(data[offset:offset+TileBytes], m.ppu.tiles[i][:])
		offset += TileBytes
	}
	copy(data[offset:offset+len(m.ppu.tilemap)], m.ppu.tilemap[:])
	offset += len(m.ppu.tilemap)
	copy(data[offset:offset+len(m.ppu.attrs)], m.ppu.attrs[:])
	offset += len(m.ppu.attrs)
	for s := 0; s < numSlots; s++ {
		for i := 0; i < NumPalettes; i++ {
			binary.LittleEndian.PutUint16(data[offset:offset+2], m.ppu.palettes[s][i])
			offset += 2
		}
	}

	// PSG
	if err := m.psg.Serialize(data[offset:]); err != nil {
		return nil, err
	}

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// VerifyState checks a save state's header and data integrity without
// restoring it.
func (m *Machine) VerifyState(data []byte) error {
	if len(data) != SerializeSize() {
		return errors.New("save state size mismatch")
	}
	if string(data[0:12]) != stateMagic {
		return errors.New("save state bad magic")
	}
	if binary.LittleEndian.Uint16(data[12:14]) != stateVersion {
		return errors.New("save state unsupported version")
	}
	if binary.LittleEndian.Uint32(data[14:18]) != m.cartCRC {
		return errors.New("save state is for a different cartridge")
	}
	if binary.LittleEndian.Uint32(data[18:22]) != crc32.ChecksumIEEE(data[stateHeaderSize:]) {
		return errors.New("save state data corrupt")
	}
	return nil
}

// Deserialize restores machine state from a save state byte slice.
// Region is NOT restored - the current region setting is preserved.
func (m *Machine) Deserialize(data []byte) error {
	if err := m.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	m.phase = machinePhase(data[offset])
	m.renderRow = int(data[offset+1])
	m.currentView = View(data[offset+2])
	m.turbo = data[offset+3] != 0
	m.lastButtons = binary.LittleEndian.Uint32(data[offset+4 : offset+8])
	offset += machineSerializeSize

	view := View(data[offset])
	offset++
	for v := 0; v < NumViews; v++ {
		m.tracer.storedRows[v] = binary.LittleEndian.Uint16(data[offset : offset+2])
		offset += 2
	}
	for v := 0; v < NumViews; v++ {
		copy(m.tracer.store[v][:], data[offset:offset+SceneSize])
		offset += SceneSize
	}

	for i := 0; i < NumTiles; i++ {
		copy(m.ppu.tiles[i][:], data[offset:offset+TileBytes])
		offset += TileBytes
	}
	copy(m.ppu.tilemap[:], data[offset:offset+len(m.ppu.tilemap)])
	offset += len(m.ppu.tilemap)
	copy(m.ppu.attrs[:], data[offset:offset+len(m.ppu.attrs)])
	offset += len(m.ppu.attrs)
	for s := 0; s < numSlots; s++ {
		for i := 0; i < NumPalettes; i++ {
			m.ppu.palettes[s][i] = binary.LittleEndian.Uint16(data[offset : offset+2])
			offset += 2
		}
	}

	if err := m.psg.Deserialize(data[offset:]); err != nil {
		return err
	}

	// Rebuild derived tracer state for the restored view. Feedback tones
	// are transient and restart silent.
	m.tracer.state = stateTablesBuilt
	switch {
	case m.tracer.storedRows[ViewFront] == fullRowsMask && m.tracer.storedRows[ViewBack] == fullRowsMask:
		m.tracer.state = stateReady
	case m.tracer.storedRows[ViewFront] == fullRowsMask || m.tracer.storedRows[ViewBack] == fullRowsMask:
		m.tracer.state = stateViewARendered
	}
	m.tracer.SetView(view)
	m.toneQueue = nil
	m.toneActive = false
	m.toneFrames = 0

	return nil
}
