package gbc

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	emucore "github.com/user-none/eblitui/api"
)

func TestSerializeSize(t *testing.T) {
	size1 := SerializeSize()
	size2 := SerializeSize()

	if size1 != size2 {
		t.Errorf("SerializeSize not consistent: %d vs %d", size1, size2)
	}

	if size1 < stateHeaderSize {
		t.Errorf("SerializeSize too small: %d < %d (header)", size1, stateHeaderSize)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	m := makeTestMachine(t)

	// Render a few rows of the front view to get interesting state.
	for i := 0; i < 5; i++ {
		m.RunFrame()
	}

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	savedRow := m.renderRow
	savedRows := m.tracer.storedRows[ViewFront]

	// Advance the machine well past the saved point.
	m.SetOption("turbo_render", "true")
	for i := 0; i < 10; i++ {
		m.RunFrame()
	}
	if !m.Ready() {
		t.Fatal("machine should be in the gallery before restore")
	}

	if err := m.Deserialize(state); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if m.Ready() {
		t.Error("restored machine should be mid-render, not in the gallery")
	}
	if m.renderRow != savedRow {
		t.Errorf("render row: expected %d, got %d", savedRow, m.renderRow)
	}
	if m.tracer.storedRows[ViewFront] != savedRows {
		t.Errorf("stored rows: expected %04X, got %04X", savedRows, m.tracer.storedRows[ViewFront])
	}

	// The next composited frame must match the frame at the save point
	// plus exactly one more rendered tile row.
	m.RunFrame()
	m2 := makeTestMachine(t)
	for i := 0; i < 6; i++ {
		m2.RunFrame()
	}
	if !bytes.Equal(m.GetFramebuffer(), m2.GetFramebuffer()) {
		t.Error("frame after restore diverged from uninterrupted run")
	}
}

func TestDeserialize_RestoresGalleryView(t *testing.T) {
	m := makeTestMachine(t)
	m.SetOption("turbo_render", "true")
	runToGallery(m)

	// Switch to the back view, save, flip away, restore.
	m.SetInput(0, 1<<emucore.ButtonUp)
	m.RunFrame()
	if m.CurrentView() != ViewBack {
		t.Fatal("setup: expected back view")
	}

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	m.SetInput(0, 0)
	m.RunFrame()
	m.SetInput(0, 1<<emucore.ButtonDown)
	m.RunFrame()
	if m.CurrentView() != ViewFront {
		t.Fatal("setup: expected front view")
	}

	if err := m.Deserialize(state); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if m.CurrentView() != ViewBack {
		t.Errorf("restored view: expected back, got %d", m.CurrentView())
	}
	if !m.Ready() {
		t.Error("restored machine should be in the gallery")
	}
}

func TestVerifyState_ValidState(t *testing.T) {
	m := makeTestMachine(t)

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if err := m.VerifyState(state); err != nil {
		t.Errorf("VerifyState should pass for valid state: %v", err)
	}
}

func TestVerifyState_InvalidMagic(t *testing.T) {
	m := makeTestMachine(t)

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	state[0] = 'X'

	if err := m.VerifyState(state); err == nil {
		t.Error("VerifyState should reject invalid magic bytes")
	}
}

func TestVerifyState_UnsupportedVersion(t *testing.T) {
	m := makeTestMachine(t)

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	binary.LittleEndian.PutUint16(state[12:14], 9999)

	if err := m.VerifyState(state); err == nil {
		t.Error("VerifyState should reject unsupported version")
	}
}

func TestVerifyState_CorruptData(t *testing.T) {
	m := makeTestMachine(t)

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	state[stateHeaderSize+5] ^= 0xFF

	if err := m.VerifyState(state); err == nil {
		t.Error("VerifyState should reject corrupted data")
	}
}

func TestVerifyState_WrongCartridge(t *testing.T) {
	m1 := makeTestMachine(t)

	state, err := m1.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// A machine booted from an explicit cartridge has a different CRC
	// even though the scene decodes identically.
	m2init, err := NewMachine(BuildCartridge(DefaultCartridge()), RegionNTSC)
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	m2 := &m2init

	if err := m2.VerifyState(state); err == nil {
		t.Error("VerifyState should reject state from a different cartridge")
	}
}

func TestVerifyState_TooShort(t *testing.T) {
	m := makeTestMachine(t)

	state := make([]byte, stateHeaderSize-1)

	if err := m.VerifyState(state); err == nil {
		t.Error("VerifyState should reject data smaller than header")
	}
}

func TestDeserialize_PreservesRegion(t *testing.T) {
	mNTSC := makeTestMachine(t)

	state, err := mNTSC.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	palInit, err := NewMachine(nil, RegionPAL)
	if err != nil {
		t.Fatalf("NewMachine PAL failed: %v", err)
	}
	mPAL := &palInit

	if err := mPAL.Deserialize(state); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if mPAL.GetRegion() != RegionPAL {
		t.Errorf("Region should be preserved as PAL, got %v", mPAL.GetRegion())
	}
}

func TestSerialize_StateIntegrity(t *testing.T) {
	m := makeTestMachine(t)

	state, err := m.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if len(state) != SerializeSize() {
		t.Errorf("state length: expected %d, got %d", SerializeSize(), len(state))
	}

	if string(state[0:12]) != stateMagic {
		t.Errorf("Magic bytes: expected %q, got %q", stateMagic, string(state[0:12]))
	}

	version := binary.LittleEndian.Uint16(state[12:14])
	if version != stateVersion {
		t.Errorf("Version: expected %d, got %d", stateVersion, version)
	}

	cartCRC := binary.LittleEndian.Uint32(state[14:18])
	if cartCRC != m.cartCRC {
		t.Errorf("Cart CRC32: expected 0x%08X, got 0x%08X", m.cartCRC, cartCRC)
	}

	dataCRC := binary.LittleEndian.Uint32(state[18:22])
	calculatedCRC := crc32.ChecksumIEEE(state[stateHeaderSize:])
	if dataCRC != calculatedCRC {
		t.Errorf("Data CRC32: expected 0x%08X, got 0x%08X", calculatedCRC, dataCRC)
	}
}
