package ch34x

import (
	"fmt"

	"github.com/ardnew/softvcp/pkg"
)

// Divisor is the value programmed into the baud rate generator: an 8-bit
// factor and a prescaler selection.
type Divisor struct {
	Factor uint8 // 256 minus the divide quotient
	Scale  uint8 // Prescaler tier, 0..3, or 7 for the undivided 12 MHz clock
}

// prescalerEnable is set in the low byte of every divisor register write.
const prescalerEnable = 0x80

// scaleDirect selects the 12 MHz clock without a prescaler.
const scaleDirect = 7

// tier is one prescaler setting and the base clock it yields.
type tier struct {
	scale uint8
	base  uint32
}

// tiers in order of preference. The last is used when no other fits.
var tiers = [...]tier{
	{3, 6000000},
	{2, 750000},
	{1, 93750},
	{0, 11719},
}

// exactDivisors are rates the prescaler tiers cannot reach accurately.
var exactDivisors = map[uint32]Divisor{
	921600: {Factor: 0xF3, Scale: scaleDirect},
	307200: {Factor: 0xD9, Scale: scaleDirect},
}

// ComputeDivisor returns the divisor that best approximates rate.
//
// The first tier whose base clock divided by 255 is strictly below rate is
// selected. The quotient base/rate is then rounded to whichever of q and q+1
// gives the smaller error. Rates that leave a zero quotient or a quotient of
// 255 or more before rounding fail with [pkg.ErrUnsupportedRate]. The bound
// is checked before rounding only, so rounding may still reach 255 (Factor
// 0x01), as it does for 2942.
func ComputeDivisor(rate uint32) (Divisor, error) {
	if rate == 0 {
		return Divisor{}, fmt.Errorf("%w: %d", pkg.ErrUnsupportedRate, rate)
	}
	if d, ok := exactDivisors[rate]; ok {
		return d, nil
	}

	t := tiers[len(tiers)-1]
	for _, c := range tiers[:len(tiers)-1] {
		if rate > c.base/255 {
			t = c
			break
		}
	}

	q := t.base / rate
	if q == 0 || q >= 255 {
		return Divisor{}, fmt.Errorf("%w: %d", pkg.ErrUnsupportedRate, rate)
	}

	// base/q is never below rate and base/(q+1) is always below it.
	above := t.base/q - rate
	below := rate - t.base/(q+1)
	if above > below {
		q++
	}

	return Divisor{Factor: uint8(256 - q), Scale: t.scale}, nil
}

// Register returns the 16-bit value written to [RegisterDivisor].
func (d Divisor) Register() uint16 {
	return uint16(d.Factor)<<8 | uint16(d.Scale) | prescalerEnable
}

// Base returns the clock selected by the prescaler.
func (d Divisor) Base() uint32 {
	if d.Scale == scaleDirect {
		return 12000000
	}
	for _, t := range tiers {
		if t.scale == d.Scale {
			return t.base
		}
	}
	return 0
}

// Rate returns the bit rate the divisor actually produces.
func (d Divisor) Rate() uint32 {
	q := 256 - uint32(d.Factor)
	return d.Base() / q
}

func (d Divisor) String() string {
	return fmt.Sprintf("factor=0x%02x scale=%d (%d bps)", d.Factor, d.Scale, d.Rate())
}
