package ui

import (
	"sync"
	"time"

	"traceboy/gbc"
)

// SharedInput holds button state written by the Ebiten thread and read by
// the machine goroutine. The handheld has a D-pad (only up and down are
// wired) and one action button.
type SharedInput struct {
	mu          sync.Mutex
	up, down, a bool
}

// Set updates button state from the Ebiten thread.
func (si *SharedInput) Set(up, down, a bool) {
	si.mu.Lock()
	si.up = up
	si.down = down
	si.a = a
	si.mu.Unlock()
}

// Read returns the current input state.
func (si *SharedInput) Read() (up, down, a bool) {
	si.mu.Lock()
	up = si.up
	down = si.down
	a = si.a
	si.mu.Unlock()
	return
}

// SharedFramebuffer holds pixel data written by the machine goroutine and
// read by Ebiten's Draw() method. Uses separate write and read buffers so
// the machine goroutine can write new data while Draw uses the read copy.
type SharedFramebuffer struct {
	mu           sync.Mutex
	writePixels  []byte // Written by machine goroutine under lock
	readPixels   []byte // Snapshot copied on Read for safe external use
	stride       int
	activeHeight int
}

// NewSharedFramebuffer creates a pre-allocated framebuffer. The LCD has a
// single fixed resolution.
func NewSharedFramebuffer() *SharedFramebuffer {
	return &SharedFramebuffer{
		writePixels: make([]byte, gbc.ScreenWidth*gbc.ScreenHeight*4),
		readPixels:  make([]byte, gbc.ScreenWidth*gbc.ScreenHeight*4),
	}
}

// Update copies framebuffer data from the machine goroutine.
func (sf *SharedFramebuffer) Update(pixels []byte, stride, activeHeight int) {
	sf.mu.Lock()
	n := stride * activeHeight
	if n > len(sf.writePixels) {
		n = len(sf.writePixels)
	}
	if n > len(pixels) {
		n = len(pixels)
	}
	copy(sf.writePixels[:n], pixels[:n])
	sf.stride = stride
	sf.activeHeight = activeHeight
	sf.mu.Unlock()
}

// Read returns a snapshot of the current framebuffer state. Copies the
// write buffer into the read buffer under the lock, then returns the read
// buffer which is safe to use without holding the lock.
func (sf *SharedFramebuffer) Read() (pixels []byte, stride, activeHeight int) {
	sf.mu.Lock()
	stride = sf.stride
	activeHeight = sf.activeHeight
	n := stride * activeHeight
	if n > len(sf.writePixels) {
		n = len(sf.writePixels)
	}
	if n > 0 {
		copy(sf.readPixels[:n], sf.writePixels[:n])
	}
	pixels = sf.readPixels
	sf.mu.Unlock()
	return
}

// MachineControl manages pause/resume/stop coordination between the
// Ebiten thread and the machine goroutine.
type MachineControl struct {
	mu       sync.Mutex
	pauseReq bool
	paused   bool
	running  bool
	stopReq  bool
	ackCh    chan struct{}
}

// NewMachineControl creates a new machine control.
func NewMachineControl() *MachineControl {
	return &MachineControl{
		running: true,
		ackCh:   make(chan struct{}, 1),
	}
}

// RequestPause asks the machine goroutine to pause and blocks until it
// acknowledges the pause.
func (mc *MachineControl) RequestPause() {
	mc.mu.Lock()
	if mc.paused || mc.pauseReq {
		mc.mu.Unlock()
		return
	}
	mc.pauseReq = true
	mc.mu.Unlock()

	// Wait for the machine goroutine to acknowledge
	<-mc.ackCh
}

// RequestResume tells the machine goroutine to resume.
func (mc *MachineControl) RequestResume() {
	mc.mu.Lock()
	mc.pauseReq = false
	mc.paused = false
	mc.mu.Unlock()
}

// CheckPause is called by the machine goroutine between frames. If a
// pause has been requested, it sends an acknowledgment and spins until
// resumed or stopped. Returns false if the goroutine should exit.
func (mc *MachineControl) CheckPause() bool {
	mc.mu.Lock()
	if !mc.running || mc.stopReq {
		mc.mu.Unlock()
		return false
	}
	if !mc.pauseReq {
		mc.mu.Unlock()
		return true
	}

	// Acknowledge pause request
	mc.paused = true
	mc.mu.Unlock()

	// Non-blocking send of ack (buffer size 1)
	select {
	case mc.ackCh <- struct{}{}:
	default:
	}

	// Spin-wait until resumed or stopped
	for {
		mc.mu.Lock()
		if !mc.running || mc.stopReq {
			mc.mu.Unlock()
			return false
		}
		if !mc.pauseReq {
			mc.paused = false
			mc.mu.Unlock()
			return true
		}
		mc.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
}

// Stop signals the machine goroutine to exit.
func (mc *MachineControl) Stop() {
	mc.mu.Lock()
	mc.running = false
	mc.stopReq = true
	// Also clear pause so CheckPause unblocks
	mc.pauseReq = false
	mc.mu.Unlock()
}

// ShouldRun returns true if the goroutine should continue running.
func (mc *MachineControl) ShouldRun() bool {
	mc.mu.Lock()
	r := mc.running && !mc.stopReq
	mc.mu.Unlock()
	return r
}

// IsPaused returns true if the machine goroutine is currently paused.
func (mc *MachineControl) IsPaused() bool {
	mc.mu.Lock()
	p := mc.paused
	mc.mu.Unlock()
	return p
}
