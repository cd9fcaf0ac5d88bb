package gbc

// bayer2x2 is the ordered-dither threshold matrix, indexed [y&1][x&1].
// A brightness above the threshold selects the bright candidate color.
var bayer2x2 = [2][2]uint8{
	{0, 128},
	{192, 64},
}

// dither quantizes a continuous brightness to one of two palette indices
// using the pixel's parity pair. Pure function of (brightness, x&1, y&1).
func dither(brightness, darkColor, brightColor uint8, px, py int) uint8 {
	if brightness > bayer2x2[py&1][px&1] {
		return brightColor
	}
	return darkColor
}

// ambient shading floor and diffuse scale for the sphere's Lambert term.
const (
	ambientLevel = 50
	diffuseScale = 205
)

// sphereLookup returns the precomputed hit parameter and squared
// projection length for a ray self-dot-product. Out-of-domain values clamp
// to the nearest bound, so extreme viewing angles degrade to the nearest
// bucket rather than reading out of range.
func (t *Tracer) sphereLookup(dd int16) (tHit int16, projSq int32) {
	if dd < lutMinVal {
		dd = lutMinVal
	}
	if dd > lutMaxVal {
		dd = lutMaxVal
	}
	idx := int(dd-lutMinVal) >> lutShift
	if idx >= lutSize {
		idx = lutSize - 1
	}
	return t.lutTHit[idx], int32(t.lutProjSq[idx])
}

// tracePixel classifies one pixel of the render window as sphere, ground,
// shadow, or sky and returns its 2-bit color index. The path is
// division-free: ray components come from the precomputed per-axis arrays,
// sphere intersection from the quantized LUT, ground intersection from the
// per-scanline table, and shadow brightness from the shadow LUT.
func (t *Tracer) tracePixel(px, py int) uint8 {
	dx := t.dxFx[px]
	dy := t.dyFx[py]

	dd := int16((t.dxSq[px] + t.dySq[py] + t.dzSq) >> fxShift)
	tHit, projSq := t.sphereLookup(dd)

	// Sphere hit: distance-squared discriminant against radius squared,
	// gated on the ray pointing toward the sphere.
	ocSq := int32(t.scene.SphereCZ) * int32(t.scene.SphereCZ)
	distSqFx := ocSq<<fxShift - projSq
	radiusSqFx := int32(t.scene.SphereRSq) << fxShift
	hitSphere := distSqFx < radiusSqFx && t.ocDotD > 0

	hitGround := t.hitGround[py]
	tGround := t.tGround[py]

	if hitSphere && (!hitGround || tHit < tGround) {
		return t.shadeSphere(dx, dy, tHit, px, py)
	}
	if hitGround {
		groundX := Fixed((int32(dx) * int32(tGround)) >> fxShift)
		return t.shadeGround(groundX, px, py)
	}
	return ColorSky
}

// shadeSphere dithers the Lambertian brightness at the sphere hit point
// between the shadow and sphere colors.
func (t *Tracer) shadeSphere(dx, dy, tHit Fixed, px, py int) uint8 {
	return dither(t.sphereBrightness(dx, dy, tHit), ColorShadow, ColorSphere, px, py)
}

// sphereBrightness computes the Lambertian term at the sphere hit point:
// ambient floor plus the clamped dot of the surface normal with the
// view-adjusted light direction. The normal is the hit point minus the
// sphere center, halved so the dot product stays within the widened
// int32 multiply.
func (t *Tracer) sphereBrightness(dx, dy, tHit Fixed) uint8 {
	hx := Fixed((int32(dx) * int32(tHit)) >> fxShift)
	hy := intToFx(t.scene.CamY) + Fixed((int32(dy)*int32(tHit))>>fxShift)
	hz := Fixed((int32(fxOne) * int32(tHit)) >> fxShift)

	nx := hx >> 1
	ny := (hy - intToFx(t.scene.SphereCY)) >> 1
	nz := (hz - intToFx(t.scene.SphereCZ)) >> 1

	lx := t.lightDirX * t.scene.LightX
	ly := t.scene.LightY
	lz := t.scene.LightZ

	dot := (int32(nx)*int32(lx) + int32(ny)*int32(ly) + int32(nz)*int32(lz)) >> fxShift

	brightness := int32(ambientLevel)
	if dot > 0 {
		brightness += dot * diffuseScale >> fxShift
	}
	if brightness > 255 {
		brightness = 255
	}

	return uint8(brightness)
}

// shadeGround looks up the shadow brightness for a ground hit from the
// squared planar distance to the shadow center: the Z term comes from the
// per-scanline table, only the X term is computed here.
func (t *Tracer) shadeGround(groundX Fixed, px, py int) uint8 {
	return dither(t.groundBrightness(groundX, py), ColorShadow, ColorGround, px, py)
}

// groundBrightness returns the shadow LUT value for a ground hit at the
// given planar X on scanline py.
func (t *Tracer) groundBrightness(groundX Fixed, py int) uint8 {
	sdx := int32(groundX) - int32(t.shadowCenterX)
	sdxSq := (sdx * sdx) >> fxShift
	distSq := sdxSq + t.shadowDzSq[py]

	// Clamp into the LUT domain before narrowing.
	const maxLUTValue = (shadowLUTSize - 1) << shadowLUTShift
	var idx int
	switch {
	case distSq >= maxLUTValue:
		idx = shadowLUTSize - 1 // far from shadow, full brightness
	case distSq <= 0:
		idx = 0
	default:
		idx = int(distSq >> shadowLUTShift)
	}

	return t.shadowLUT[idx]
}
