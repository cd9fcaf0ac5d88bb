package gbc

import "errors"

// Sphere-intersection LUT parameters. d.d ranges from 256 to ~706 over the
// render window; the table spans [256,768] in 64 buckets of width 8 so the
// two divisions of ray-sphere intersection are paid once at startup.
const (
	lutMinVal = 256
	lutMaxVal = 768
	lutShift  = 3  // bucket width 8
	lutSize   = 64 // (768-256)/8
)

// Shadow-brightness LUT parameters. Maps squared planar distance from the
// shadow center directly to brightness with no division.
const (
	shadowLUTSize  = 128
	shadowLUTShift = 3 // bucket width 8
)

// Render phases. Activating a stored view is only legal once both views
// have been rendered and committed to the scene store.
type renderState uint8

const (
	stateUninitialized renderState = iota
	stateTablesBuilt
	stateViewARendered
	stateReady
)

var (
	errTablesNotBuilt = errors.New("gbc: tables not built")
	errNotReady       = errors.New("gbc: scene store incomplete")
)

// Tracer is the raytracing and shading engine. It owns every lookup table
// and per-scanline array, rebuilt in place with no allocation after
// construction, plus the scene store holding both fully rendered views.
type Tracer struct {
	scene Scene
	state renderState

	// Active view. The back view flips the light's X sign, which moves
	// the shadow projection to the opposite side of the sphere.
	view      View
	lightDirX int16 // -1 for front, +1 for back

	// One-time LUTs and per-axis ray components.
	// ocDotD is constant because the camera and sphere share X and Y
	// offsets, so oc.d collapses to the Z term.
	ocDotD    int16
	lutTHit   [lutSize]int16
	lutProjSq [lutSize]int16
	shadowLUT [shadowLUTSize]uint8

	dxFx [RenderWidth]int16
	dxSq [RenderWidth]int32
	dyFx [RenderHeight]int16
	dySq [RenderHeight]int32
	dzSq int32

	// Per-view shadow geometry, recomputed by SetView.
	shadowCenterX Fixed
	shadowCenterZ Fixed

	// Per-scanline ground/shadow tables, rebuilt by SetView.
	hitGround  [RenderHeight]bool
	tGround    [RenderHeight]int16
	groundZ    [RenderHeight]Fixed
	shadowDzSq [RenderHeight]int32

	// Scene store: both views fully rasterized in planar tile format.
	store      [NumViews][SceneSize]byte
	storedRows [NumViews]uint16 // bitmask of committed tile rows

	// Scanline accumulator and packed tile-row output buffer.
	lineBuf [TileSize][RenderWidth]uint8
	rowBuf  [RenderTilesX * TileBytes]byte
}

// NewTracer creates a tracer for the given scene. BuildTables must be
// called before any render or view operation.
func NewTracer(scene Scene) *Tracer {
	return &Tracer{
		scene:     scene,
		lightDirX: -1,
	}
}

// BuildTables performs the one-time startup precomputation: the sphere
// intersection LUTs, the shadow brightness LUT, and the per-column /
// per-row ray direction arrays. Runs once; every division it performs is
// one the per-pixel path never has to.
func (t *Tracer) BuildTables() {
	t.buildSphereLUT()
	t.buildShadowLUT()
	t.buildRayArrays()
	t.state = stateTablesBuilt
	t.SetView(t.view)
}

// buildSphereLUT precomputes tHit = (oc.d << 8) / d.d and
// projSq = (oc.d)^2 / d.d for each quantized d.d bucket. The bucket value
// is the bucket center.
func (t *Tracer) buildSphereLUT() {
	ocZ := intToFx(t.scene.SphereCZ)
	t.ocDotD = int16((int32(ocZ) * fxOne) >> fxShift)

	for i := 0; i < lutSize; i++ {
		dd := int32(lutMinVal) + int32(i)<<lutShift + 1<<(lutShift-1)
		t.lutTHit[i] = int16((int32(t.ocDotD) << fxShift) / dd)
		t.lutProjSq[i] = int16(int32(t.ocDotD) * int32(t.ocDotD) / dd)
	}
}

// buildShadowLUT maps quantized squared shadow-plane distance to a
// brightness: 0 inside the umbra, 255 outside the full shadow radius, and
// a linear ramp between. Depends only on the sphere radius, so it never
// needs rebuilding after startup.
func (t *Tracer) buildShadowLUT() {
	shadowRadiusSq := int16(t.scene.SphereRSq << fxShift)
	umbraRadiusSq := shadowRadiusSq >> 2
	penumbraRange := shadowRadiusSq - umbraRadiusSq

	for i := 0; i < shadowLUTSize; i++ {
		distSq := int16(i << shadowLUTShift)
		switch {
		case distSq >= shadowRadiusSq:
			t.shadowLUT[i] = 255
		case distSq <= umbraRadiusSq:
			t.shadowLUT[i] = 0
		default:
			ramp := int32(distSq-umbraRadiusSq) * 256 / int32(penumbraRange)
			t.shadowLUT[i] = uint8(ramp)
		}
	}
}

// buildRayArrays precomputes the per-column and per-row ray direction
// components and their squares. dz is the constant 1.0.
func (t *Tracer) buildRayArrays() {
	halfW := RenderWidth / 2
	halfH := RenderHeight / 2

	for x := 0; x < RenderWidth; x++ {
		dx := int16(x-halfW) * 5
		t.dxFx[x] = dx
		t.dxSq[x] = int32(dx) * int32(dx)
	}
	for y := 0; y < RenderHeight; y++ {
		dy := int16(halfH-y) * 5
		t.dyFx[y] = dy
		t.dySq[y] = int32(dy) * int32(dy)
	}
	t.dzSq = int32(fxOne) * int32(fxOne)
}

// SetView switches the active viewpoint: it flips the light's horizontal
// sign, recomputes the shadow center, and rebuilds the per-scanline ground
// and shadow tables. O(render height), with exactly one division per
// ground row plus one for the shadow projection. Returns an error before
// BuildTables has run.
func (t *Tracer) SetView(view View) error {
	if t.state == stateUninitialized {
		return errTablesNotBuilt
	}

	t.view = view
	if view == ViewFront {
		t.lightDirX = -1
	} else {
		t.lightDirX = 1
	}

	// Project the sphere center along the negated light direction down to
	// the ground plane. One division, paid per view change, not per pixel.
	tShadow := (int32(t.scene.SphereCY) << 16) / int32(t.scene.LightY)
	t.shadowCenterX = Fixed(int32(intToFx(t.scene.SphereCX)) +
		(int32(-t.lightDirX)*int32(t.scene.LightX)*tShadow)>>fxShift)
	t.shadowCenterZ = Fixed(int32(intToFx(t.scene.SphereCZ)) +
		(-int32(t.scene.LightZ)*tShadow)>>fxShift)

	t.buildGroundScanlines()
	t.buildShadowScanlines()
	return nil
}

// View returns the active viewpoint.
func (t *Tracer) View() View {
	return t.view
}

// buildGroundScanlines precomputes, for every row, whether the ray hits
// the ground and at what parameter. Rays steeper than a small negative
// epsilon get one division; intersection parameters outside a plausible
// window (too near, or beyond the horizon cutoff) are discarded as misses.
func (t *Tracer) buildGroundScanlines() {
	for py := 0; py < RenderHeight; py++ {
		dy := t.dyFx[py]

		t.hitGround[py] = false
		t.tGround[py] = 0
		t.groundZ[py] = 0

		if dy >= -16 {
			continue // near-horizontal, no ground hit
		}

		tg := int16((int32(-t.scene.CamY) << (fxShift + fxShift)) / int32(dy))
		if tg > 16 && tg < 2000 {
			t.hitGround[py] = true
			t.tGround[py] = tg
			t.groundZ[py] = Fixed((int32(fxOne) * int32(tg)) >> fxShift)
		}
	}
}

// buildShadowScanlines precomputes the squared Z-distance from each ground
// row's intersection point to the current shadow center.
func (t *Tracer) buildShadowScanlines() {
	for py := 0; py < RenderHeight; py++ {
		if !t.hitGround[py] {
			t.shadowDzSq[py] = 0
			continue
		}
		dz := int32(t.groundZ[py]) - int32(t.shadowCenterZ)
		t.shadowDzSq[py] = (dz * dz) >> fxShift
	}
}
