package gbc

import "testing"

func TestFixed_IntConversion(t *testing.T) {
	cases := []struct {
		in   int
		want Fixed
	}{
		{0, 0},
		{1, 256},
		{6, 1536},
		{-2, -512},
		{127, 32512},
	}
	for _, c := range cases {
		if got := intToFx(c.in); got != c.want {
			t.Errorf("intToFx(%d): expected %d, got %d", c.in, c.want, got)
		}
		if got := fxToInt(intToFx(c.in)); got != c.in {
			t.Errorf("fxToInt(intToFx(%d)): expected %d, got %d", c.in, c.in, got)
		}
	}
}

func TestFixed_TruncationTowardNegativeInfinity(t *testing.T) {
	// -1.5 in 8.8 is -384; arithmetic shift truncates to -2, not -1.
	if got := fxToInt(-384); got != -2 {
		t.Errorf("fxToInt(-384): expected -2, got %d", got)
	}
}

func TestFixed_Mul(t *testing.T) {
	cases := []struct {
		a, b, want Fixed
	}{
		{fxOne, fxOne, fxOne},               // 1.0 * 1.0
		{fxOne / 2, fxOne / 2, fxOne / 4},   // 0.5 * 0.5
		{3 * fxOne / 2, 2 * fxOne, 768},     // 1.5 * 2.0 = 3.0
		{-fxOne, 2 * fxOne, -2 * fxOne},     // -1.0 * 2.0
		{-fxOne / 2, -fxOne / 2, fxOne / 4}, // -0.5 * -0.5
	}
	for _, c := range cases {
		if got := fxMul(c.a, c.b); got != c.want {
			t.Errorf("fxMul(%d, %d): expected %d, got %d", c.a, c.b, c.want, got)
		}
	}
}

func TestFixed_MulWidensIntermediate(t *testing.T) {
	// 90.0 * 1.0: the raw 32-bit product (23040*256) overflows int16 but
	// the widened multiply must recover the exact result.
	a := intToFx(90)
	if got := fxMul(a, fxOne); got != a {
		t.Errorf("fxMul(90.0, 1.0): expected %d, got %d", a, got)
	}
}
