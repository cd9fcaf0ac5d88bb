// Package cli provides a command-line runner for the machine. It handles
// input polling and runs the machine in a window without the full UI.
package cli

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/eblitui/api"

	emubridge "traceboy/bridge/ebiten"
	"traceboy/gbc"
	"traceboy/ui"
)

// Audio buffer thresholds in bytes for frame pacing.
const (
	paceMinBuffer = 9600
	paceMaxBuffer = 19200
)

// Runner wraps a machine for command-line mode. The machine runs on a
// dedicated goroutine with audio-driven timing. The Ebiten thread handles
// input polling and rendering from the shared framebuffer.
type Runner struct {
	machine     *emubridge.Machine
	audioPlayer *ui.AudioPlayer

	// Machine goroutine control
	control           *ui.MachineControl
	sharedInput       *ui.SharedInput
	sharedFramebuffer *ui.SharedFramebuffer
	machineDone       chan struct{}
}

// NewRunner creates a new Runner wrapping the given machine. Audio
// initialization failure is non-fatal; the runner will work without sound.
func NewRunner(m *emubridge.Machine) *Runner {
	player, err := ui.NewAudioPlayer(1.0)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	r := &Runner{
		machine:           m,
		audioPlayer:       player,
		control:           ui.NewMachineControl(),
		sharedInput:       &ui.SharedInput{},
		sharedFramebuffer: ui.NewSharedFramebuffer(),
		machineDone:       make(chan struct{}),
	}

	// Start machine goroutine
	go r.machineLoop()

	return r
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	if r.control != nil {
		r.control.Stop()
		<-r.machineDone
	}

	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// machineLoop runs frames on a dedicated goroutine with audio-driven
// pacing.
func (r *Runner) machineLoop() {
	defer close(r.machineDone)

	timing := r.machine.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()

	for {
		if !r.control.CheckPause() {
			return
		}

		// Read input from shared state
		up, down, a := r.sharedInput.Read()
		var buttons uint32
		if up {
			buttons |= 1 << emucore.ButtonUp
		}
		if down {
			buttons |= 1 << emucore.ButtonDown
		}
		if a {
			buttons |= 1 << gbc.ButtonA
		}
		r.machine.SetInput(0, buttons)

		// Run one frame
		r.machine.RunFrame()

		// Queue audio
		if r.audioPlayer != nil {
			r.audioPlayer.QueueSamples(r.machine.GetAudioSamples())
		}

		// Update shared framebuffer
		r.sharedFramebuffer.Update(
			r.machine.GetFramebuffer(),
			r.machine.GetFramebufferStride(),
			r.machine.GetActiveHeight(),
		)

		// Sleep the remainder of the frame, nudged by the audio buffer
		// level to keep playback from draining or backing up.
		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed

		if r.audioPlayer != nil {
			bufferLevel := r.audioPlayer.GetBufferLevel()
			if bufferLevel < paceMinBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 0.9)
			} else if bufferLevel > paceMaxBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 1.1)
			}
		}

		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	r.pollInputToShared()
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	pixels, stride, height := r.sharedFramebuffer.Read()
	if height == 0 {
		return
	}
	r.machine.DrawCachedFramebuffer(screen, pixels, stride, height)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.machine.Layout(outsideWidth, outsideHeight)
}

// pollInputToShared reads keyboard and gamepad input and writes to shared
// state.
func (r *Runner) pollInputToShared() {
	// Keyboard (W/S + arrows for the D-pad, J for A)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	a := ebiten.IsKeyPressed(ebiten.KeyJ)

	// Gamepad support (all connected gamepads)
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
			up = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			down = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			a = true
		}

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if axisY < -deadzone {
			up = true
		}
		if axisY > deadzone {
			down = true
		}
	}

	r.sharedInput.Set(up, down, a)
}
