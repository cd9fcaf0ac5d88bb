package gbc

import "testing"

func TestDither_ThresholdMatrix(t *testing.T) {
	// Brightness 100 against the concrete matrix {{0,128},{192,64}}:
	// parity (x,y)=(0,0) threshold 0 -> bright, (1,1) threshold 64 ->
	// bright, (0,1) threshold 192 -> dark, (1,0) threshold 128 -> dark.
	cases := []struct {
		px, py int
		want   uint8
	}{
		{0, 0, ColorGround},
		{1, 1, ColorGround},
		{0, 1, ColorShadow},
		{1, 0, ColorShadow},
	}
	for _, c := range cases {
		got := dither(100, ColorShadow, ColorGround, c.px, c.py)
		if got != c.want {
			t.Errorf("dither(100) at parity (%d,%d): expected %d, got %d", c.px, c.py, c.want, got)
		}
	}
}

func TestDither_PureInParity(t *testing.T) {
	// Only x&1 and y&1 matter: any pixel with the same parity pair must
	// produce the same result for a fixed brightness.
	for b := 0; b <= 255; b += 51 {
		for py := 0; py < 2; py++ {
			for px := 0; px < 2; px++ {
				want := dither(uint8(b), 0, 1, px, py)
				if got := dither(uint8(b), 0, 1, px+2, py+6); got != want {
					t.Errorf("dither(%d) at (%d,%d) vs (%d,%d): %d != %d",
						b, px, py, px+2, py+6, got, want)
				}
			}
		}
	}
}

func TestDither_Extremes(t *testing.T) {
	// Brightness 0 never exceeds any threshold; 255 exceeds all.
	for py := 0; py < 2; py++ {
		for px := 0; px < 2; px++ {
			if got := dither(0, ColorShadow, ColorSphere, px, py); got != ColorShadow {
				t.Errorf("dither(0) at (%d,%d): expected shadow, got %d", px, py, got)
			}
			if got := dither(255, ColorShadow, ColorSphere, px, py); got != ColorSphere {
				t.Errorf("dither(255) at (%d,%d): expected sphere, got %d", px, py, got)
			}
		}
	}
}

func TestTracePixel_SkyImpliesNoHits(t *testing.T) {
	tr := makeTestTracer()

	for py := 0; py < RenderHeight; py++ {
		for px := 0; px < RenderWidth; px++ {
			if tr.tracePixel(px, py) != ColorSky {
				continue
			}
			// A sky pixel must fail both hit tests: the ground test is
			// per-row, and the sphere discriminant must not be inside
			// the radius.
			if tr.hitGround[py] {
				dd := int16((tr.dxSq[px] + tr.dySq[py] + tr.dzSq) >> fxShift)
				_, projSq := tr.sphereLookup(dd)
				distSqFx := int32(tr.scene.SphereCZ)*int32(tr.scene.SphereCZ)<<fxShift - projSq
				if distSqFx >= int32(tr.scene.SphereRSq)<<fxShift {
					t.Fatalf("pixel (%d,%d): sky returned on a ground row without sphere rejection", px, py)
				}
			}
		}
	}
}

func TestTracePixel_CenterHitsSphere(t *testing.T) {
	tr := makeTestTracer()

	// The window center looks straight at the sphere; row 48 has no
	// ground hit so only the sphere can win.
	got := tr.tracePixel(RenderWidth/2, RenderHeight/2)
	if got != ColorSphere && got != ColorShadow {
		t.Errorf("center pixel: expected sphere shading, got color %d", got)
	}
}

func TestTracePixel_CornersAreSky(t *testing.T) {
	tr := makeTestTracer()

	for _, c := range [][2]int{{0, 0}, {RenderWidth - 1, 0}} {
		if got := tr.tracePixel(c[0], c[1]); got != ColorSky {
			t.Errorf("pixel (%d,%d): expected sky, got %d", c[0], c[1], got)
		}
	}
}

func TestTracePixel_NearerHitWins(t *testing.T) {
	tr := makeTestTracer()

	// (48,63): ground row (dy=-75, t=1747) but the sphere is closer
	// (tHit around 1424), so the sphere must win.
	py := 63
	if !tr.hitGround[py] {
		t.Fatalf("row %d: expected ground hit", py)
	}
	got := tr.tracePixel(RenderWidth/2, py)
	if got != ColorSphere && got != ColorShadow {
		t.Errorf("pixel (48,%d): expected sphere to win over ground, got %d", py, got)
	}

	// (10,63): same row, but the ray misses the sphere; ground wins.
	got = tr.tracePixel(10, py)
	if got != ColorGround && got != ColorShadow {
		t.Errorf("pixel (10,%d): expected ground shading, got %d", py, got)
	}
}

func TestTracePixel_FrontBackMirrorsBrightness(t *testing.T) {
	tr := makeTestTracer()

	// Flipping the view negates the light's X component and the shadow
	// center's X, so the shading mirrors horizontally: the brightness at
	// back(x,y) matches front(96-x,y). Truncating right shifts round
	// negative products differently than positive ones, so the match is
	// within one shading step, not exact. Column 0 has no mirror partner
	// inside the window.
	var front [RenderHeight][RenderWidth]int
	if err := tr.SetView(ViewFront); err != nil {
		t.Fatalf("set view: %v", err)
	}
	for py := 0; py < RenderHeight; py++ {
		for px := 0; px < RenderWidth; px++ {
			front[py][px] = pixelBrightness(tr, px, py)
		}
	}

	if err := tr.SetView(ViewBack); err != nil {
		t.Fatalf("set view: %v", err)
	}
	for py := 0; py < RenderHeight; py++ {
		for px := 1; px < RenderWidth; px++ {
			back := pixelBrightness(tr, px, py)
			mirrored := front[py][RenderWidth-px]
			if (back < 0) != (mirrored < 0) {
				t.Fatalf("pixel (%d,%d): back view material %d != mirrored front %d",
					px, py, back, mirrored)
			}
			if diff := back - mirrored; diff < -3 || diff > 3 {
				t.Fatalf("pixel (%d,%d): back brightness %d deviates from mirrored front %d",
					px, py, back, mirrored)
			}
		}
	}
}

func TestTracePixel_ShadowSideFlipsWithView(t *testing.T) {
	tr := makeTestTracer()

	// The shadow center sits left of the window in the front view and
	// right of it in the back view, so the darkest ground pixels swap
	// sides when the view flips.
	shadowHalves := func() (left, right int) {
		for py := 62; py < RenderHeight; py++ {
			for px := 0; px < RenderWidth; px++ {
				if tr.tracePixel(px, py) != ColorShadow {
					continue
				}
				if px < RenderWidth/2 {
					left++
				} else {
					right++
				}
			}
		}
		return left, right
	}

	if err := tr.SetView(ViewFront); err != nil {
		t.Fatalf("set view: %v", err)
	}
	left, right := shadowHalves()
	if left <= right {
		t.Errorf("front view: expected shadow on the left half, got %d left / %d right", left, right)
	}

	if err := tr.SetView(ViewBack); err != nil {
		t.Fatalf("set view: %v", err)
	}
	left, right = shadowHalves()
	if left >= right {
		t.Errorf("back view: expected shadow on the right half, got %d left / %d right", left, right)
	}
}

// pixelBrightness returns the pre-dither shading value for a pixel, or a
// negative material code when no brightness applies: -1 for sky.
// Ground and sphere brightness share the 0..255 scale but are offset into
// disjoint bands so a material mismatch cannot pass as a brightness match.
func pixelBrightness(tr *Tracer, px, py int) int {
	dx := tr.dxFx[px]
	dy := tr.dyFx[py]

	dd := int16((tr.dxSq[px] + tr.dySq[py] + tr.dzSq) >> fxShift)
	tHit, projSq := tr.sphereLookup(dd)

	ocSq := int32(tr.scene.SphereCZ) * int32(tr.scene.SphereCZ)
	hitSphere := ocSq<<fxShift-projSq < int32(tr.scene.SphereRSq)<<fxShift && tr.ocDotD > 0

	if hitSphere && (!tr.hitGround[py] || tHit < tr.tGround[py]) {
		return 1000 + int(tr.sphereBrightness(dx, dy, tHit))
	}
	if tr.hitGround[py] {
		groundX := Fixed((int32(dx) * int32(tr.tGround[py])) >> fxShift)
		return int(tr.groundBrightness(groundX, py))
	}
	return -1
}
