/*
Package gf2 implements arithmetic on polynomials over GF(2) modulo the
CRC-32 generator polynomial.

A polynomial is stored as an unsigned integer where bit i is the
coefficient of x^i. Addition and subtraction are both XOR so there are no
functions for them.
*/
package gf2

import (
	"errors"
	"fmt"
	"math/bits"
)

// Generator is the CRC-32 generator polynomial, x^32 + x^26 + x^23 + x^22 +
// x^16 + x^12 + x^11 + x^10 + x^8 + x^7 + x^5 + x^4 + x^2 + x + 1.
const Generator Poly = 0x104c11db7

var (
	// ErrDivisionByZero is returned when dividing by the zero polynomial
	ErrDivisionByZero = errors.New("gf2: division by zero")
	// ErrNoReciprocal is returned when a polynomial shares a factor with
	// the generator
	ErrNoReciprocal = errors.New("gf2: reciprocal does not exist")
)

// A Poly is a polynomial over GF(2). Values reduced modulo Generator fit
// in 32 bits, the remaining bits hold intermediate products.
type Poly uint64

// Degree returns the index of the highest non-zero coefficient. The zero
// polynomial has no degree and Degree panics if called on it.
func (x Poly) Degree() int {
	if x == 0 {
		panic("gf2: degree of zero polynomial")
	}
	return 63 - bits.LeadingZeros64(uint64(x))
}

func (x Poly) String() string {
	return fmt.Sprintf("%#x", uint64(x))
}

// reduce returns x modulo Generator.
func (x Poly) reduce() Poly {
	if x>>32 == 0 {
		return x
	}
	_, r, _ := DivMod(x, Generator)
	return r
}

// MultiplyMod returns x multiplied by y modulo Generator.
func MultiplyMod(x, y Poly) Poly {
	x = x.reduce()
	var z Poly
	for y != 0 {
		if y&1 != 0 {
			z ^= x
		}
		y >>= 1
		x <<= 1
		if x>>32&1 != 0 {
			x ^= Generator
		}
	}
	return z
}

// PowMod returns x raised to the power y modulo Generator. Any x raised to
// zero is 1.
func PowMod(x Poly, y uint64) Poly {
	z := Poly(1)
	for y != 0 {
		if y&1 != 0 {
			z = MultiplyMod(z, x)
		}
		x = MultiplyMod(x, x)
		y >>= 1
	}
	return z
}

// DivMod returns the quotient and remainder of x divided by y.
func DivMod(x, y Poly) (Poly, Poly, error) {
	if y == 0 {
		return 0, 0, ErrDivisionByZero
	}
	if x == 0 {
		return 0, 0, nil
	}

	ydeg := y.Degree()
	var q Poly
	for i := x.Degree() - ydeg; i >= 0; i-- {
		if x>>uint(i+ydeg)&1 != 0 {
			x ^= y << uint(i)
			q |= 1 << uint(i)
		}
	}
	return q, x, nil
}

// ReciprocalMod returns the polynomial r such that x * r = 1 modulo
// Generator.
func ReciprocalMod(x Poly) (Poly, error) {
	// Extended Euclid, only tracking the coefficient of x
	y, x := x, Generator
	a, b := Poly(0), Poly(1)
	for y != 0 {
		q, r, err := DivMod(x, y)
		if err != nil {
			return 0, err
		}
		c := a ^ MultiplyMod(b, q)
		x, y = y, r
		a, b = b, c
	}
	if x != 1 {
		return 0, ErrNoReciprocal
	}
	return a, nil
}
