package gbc

// Fixed is an 8.8 signed fixed-point value: 8 integer bits, 8 fractional
// bits, range roughly -128.0 to +127.996. All real-valued scene math uses
// this representation; the hardware this models has no FPU and no divide.
type Fixed = int16

const (
	// fxShift is the number of fractional bits.
	fxShift = 8
	// fxOne is 1.0 in 8.8 fixed point.
	fxOne = 1 << fxShift
)

// intToFx converts an integer to 8.8 fixed point.
func intToFx(x int) Fixed {
	return Fixed(x << fxShift)
}

// fxToInt truncates an 8.8 fixed-point value to its integer part.
// Right shift on a signed value, so truncation is toward negative infinity.
func fxToInt(x Fixed) int {
	return int(x >> fxShift)
}

// fxMul multiplies two 8.8 fixed-point values. The product is carried in
// 32 bits before shifting back down; callers are responsible for keeping
// intermediate magnitudes inside int32 range.
func fxMul(a, b Fixed) Fixed {
	return Fixed((int32(a) * int32(b)) >> fxShift)
}
