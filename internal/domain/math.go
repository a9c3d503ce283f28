package domain

import "math/bits"

// CheckedAdd returns a + b, or ErrArithmeticOverflow if the sum does not fit
// in a uint64.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// CheckedMul returns a * b, or ErrArithmeticOverflow if the product does not
// fit in a uint64.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmeticOverflow
	}
	return lo, nil
}

// mulDiv returns floor(a * b / div) using a 128-bit intermediate so the
// product may exceed uint64 as long as the quotient fits. div must be
// non-zero and the quotient must fit in a uint64; both hold for every caller
// here because b is capped well below div or equal to it.
func mulDiv(a, b, div uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	quo, _ := bits.Div64(hi, lo, div)
	return quo
}
