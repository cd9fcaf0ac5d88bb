package gbc

// PSG configuration. The feedback chip runs at the usual 3.58 MHz PSG
// clock and is stepped once per scanline like the rest of the machine.
const (
	sampleRate           = 48000
	psgClockHz           = 3579545
	psgBufferSize        = 1024
	psgGain              = 1898.0
	psgCyclesPerScanline = psgClockHz / FPS / TotalScanlines
)

// PSG tone periods: period = clock / (32 * frequency).
const (
	blipPeriod   = 112 // ~1 kHz
	chimePeriodA = 169 // ~660 Hz
	chimePeriodB = 85  // ~1.3 kHz
)

// toneStep is one segment of a feedback tone: a tone period held for a
// number of frames.
type toneStep struct {
	period uint16
	frames int
}

// playBlip queues the short view-switch blip.
func (m *Machine) playBlip() {
	m.toneQueue = []toneStep{{blipPeriod, 3}}
}

// playChime queues the render-complete two-note chime.
func (m *Machine) playChime() {
	m.toneQueue = []toneStep{{chimePeriodA, 6}, {chimePeriodB, 9}}
}

// stepTone advances the tone queue by one frame, writing PSG channel 0
// registers through the chip's latch/data protocol.
func (m *Machine) stepTone() {
	if len(m.toneQueue) == 0 {
		if m.toneActive {
			m.psg.Write(0x9F) // channel 0 volume off
			m.toneActive = false
		}
		return
	}

	step := &m.toneQueue[0]
	if !m.toneActive || m.toneFrames == 0 {
		// Latch channel 0 tone (low 4 bits), then data (high 6 bits).
		m.psg.Write(0x80 | byte(step.period&0x0F))
		m.psg.Write(byte(step.period >> 4 & 0x3F))
		m.psg.Write(0x90) // channel 0 full volume
		m.toneActive = true
		m.toneFrames = step.frames
	}

	m.toneFrames--
	if m.toneFrames == 0 {
		m.toneQueue = m.toneQueue[1:]
	}
}

// mixAudio drains the PSG output buffer into the machine's stereo sample
// buffer, duplicating the mono chip output to both channels.
func (m *Machine) mixAudio() {
	buf, count := m.psg.GetBuffer()
	for i := 0; i < count; i++ {
		s := int16(buf[i])
		m.audioBuffer = append(m.audioBuffer, s, s)
	}
}

// GetAudioSamples returns accumulated audio samples as 16-bit stereo PCM.
func (m *Machine) GetAudioSamples() []int16 {
	return m.audioBuffer
}
