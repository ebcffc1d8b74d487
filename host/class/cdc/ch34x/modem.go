package ch34x

import (
	"go.bug.st/serial"

	"github.com/ardnew/softvcp/host/class/cdc"
)

// ModemControl is the value sent with [CommandModemOut].
type ModemControl uint8

// EncodeModemControl returns the modem control value for the given DTR and
// RTS states. The output marker bit is always set.
func EncodeModemControl(dtr, rts bool) ModemControl {
	c := ModemControl(ControlOut)
	if dtr {
		c |= ControlDTR
	}
	if rts {
		c |= ControlRTS
	}
	return c
}

// DTR reports whether DTR is asserted.
func (c ModemControl) DTR() bool { return c&ControlDTR != 0 }

// RTS reports whether RTS is asserted.
func (c ModemControl) RTS() bool { return c&ControlRTS != 0 }

// ModemStatus holds the modem input lines, active high.
type ModemStatus uint8

// ParseModemStatus decodes the first byte of a [RegisterModemStatus] read.
// The chip reports the lines active low.
func ParseModemStatus(raw uint8) ModemStatus {
	return ModemStatus(^raw & statusMask)
}

// CTS reports whether Clear To Send is asserted.
func (s ModemStatus) CTS() bool { return s&StatusCTS != 0 }

// DSR reports whether Data Set Ready is asserted.
func (s ModemStatus) DSR() bool { return s&StatusDSR != 0 }

// Ring reports whether Ring Indicator is asserted.
func (s ModemStatus) Ring() bool { return s&StatusRing != 0 }

// DCD reports whether Data Carrier Detect is asserted.
func (s ModemStatus) DCD() bool { return s&StatusDCD != 0 }

// Bits converts the status to the go.bug.st/serial representation.
func (s ModemStatus) Bits() *serial.ModemStatusBits {
	return &serial.ModemStatusBits{
		CTS: s.CTS(),
		DSR: s.DSR(),
		RI:  s.Ring(),
		DCD: s.DCD(),
	}
}

// UARTError is a line error code from the chip's UART state byte.
type UARTError uint8

// ParseUARTError keeps the transient error bits of raw.
func ParseUARTError(raw uint8) UARTError {
	return UARTError(raw & UARTStateTransientMask)
}

// Overrun reports whether received data was lost.
func (e UARTError) Overrun() bool { return e&UARTStateOverrun != 0 }

// Framing reports a framing error. It takes precedence over Parity, whose
// bit it shares.
func (e UARTError) Framing() bool { return e&UARTStateFrame == UARTStateFrame }

// Parity reports a parity error.
func (e UARTError) Parity() bool { return !e.Framing() && e&UARTStateParity != 0 }

// State converts the error to the CDC SERIAL_STATE bits.
func (e UARTError) State() cdc.UARTState {
	var s cdc.UARTState
	if e.Overrun() {
		s |= cdc.UARTStateOverrun
	}
	if e.Framing() {
		s |= cdc.UARTStateFraming
	}
	if e.Parity() {
		s |= cdc.UARTStateParity
	}
	return s
}
