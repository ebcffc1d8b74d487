package ch34x

import (
	"fmt"

	"github.com/ardnew/softvcp/host/class/cdc"
	"github.com/ardnew/softvcp/pkg"
)

// LineFormat is the value of the line control register.
type LineFormat uint8

// EncodeLineFormat builds the line control register for a frame format.
// The receiver and transmitter are always enabled.
func EncodeLineFormat(dataBits uint8, parity cdc.Parity, stop cdc.StopBits) (LineFormat, error) {
	lcr := LineFormat(LCREnableRX | LCREnableTX)

	switch dataBits {
	case 5:
		lcr |= LCRCS5
	case 6:
		lcr |= LCRCS6
	case 7:
		lcr |= LCRCS7
	case 8:
		lcr |= LCRCS8
	default:
		return 0, fmt.Errorf("%w: %d data bits", pkg.ErrInvalidArgument, dataBits)
	}

	switch parity {
	case cdc.ParityNone:
	case cdc.ParityOdd:
		lcr |= LCREnablePar
	case cdc.ParityEven:
		lcr |= LCREnablePar | LCRParEven
	case cdc.ParityMark, cdc.ParitySpace:
		lcr |= LCREnablePar | LCRMarkSpace
	default:
		return 0, fmt.Errorf("%w: parity %v", pkg.ErrInvalidArgument, parity)
	}

	switch stop {
	case cdc.StopBits1:
	case cdc.StopBits2:
		lcr |= LCRStopBits2
	default:
		return 0, fmt.Errorf("%w: %v stop bits", pkg.ErrInvalidArgument, stop)
	}

	return lcr, nil
}

// EncodeFrameFormat is EncodeLineFormat for a [cdc.FrameFormat].
func EncodeFrameFormat(f cdc.FrameFormat) (LineFormat, error) {
	return EncodeLineFormat(f.DataBits, f.Parity, f.StopBits)
}

// DataBits returns the character size.
func (f LineFormat) DataBits() uint8 {
	return 5 + uint8(f&lcrSizeMask)
}

// ParityEnabled reports whether a parity bit is sent.
func (f LineFormat) ParityEnabled() bool {
	return f&LCREnablePar != 0
}

// TwoStopBits reports whether two stop bits are sent.
func (f LineFormat) TwoStopBits() bool {
	return f&LCRStopBits2 != 0
}

func (f LineFormat) String() string {
	return fmt.Sprintf("0x%02x", uint8(f))
}
