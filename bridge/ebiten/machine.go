// Package ebiten provides an Ebiten-specific wrapper for the machine.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"traceboy/gbc"
)

// Machine wraps gbc.Machine with Ebiten-specific rendering.
type Machine struct {
	gbc.Machine

	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewMachine creates a new machine instance with Ebiten rendering.
func NewMachine(cart []byte, region gbc.Region) (*Machine, error) {
	base, err := gbc.NewMachine(cart, region)
	if err != nil {
		return nil, err
	}

	return &Machine{
		Machine: base,
	}, nil
}

// Layout implements ebiten.Game.
func (m *Machine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// DrawCachedFramebuffer renders pre-cached pixel data to the screen.
// The machine goroutine writes pixels to a shared framebuffer, and the
// Ebiten Draw() thread renders them here.
func (m *Machine) DrawCachedFramebuffer(screen *ebiten.Image, pixels []byte, stride, activeHeight int) {
	if activeHeight == 0 || stride == 0 {
		return
	}

	requiredLen := stride * activeHeight
	if len(pixels) < requiredLen {
		return
	}

	if m.offscreen == nil {
		m.offscreen = ebiten.NewImage(gbc.ScreenWidth, gbc.ScreenHeight)
	}

	m.offscreen.WritePixels(pixels[:requiredLen])

	// Scale to fit the window while preserving the LCD aspect ratio.
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(gbc.ScreenWidth)
	nativeH := float64(activeHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	m.drawOpts = ebiten.DrawImageOptions{}
	m.drawOpts.GeoM.Scale(scale, scale)
	m.drawOpts.GeoM.Translate(offsetX, offsetY)
	m.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(m.offscreen, &m.drawOpts)
}
