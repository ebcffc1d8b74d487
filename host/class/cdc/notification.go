package cdc

import (
	"fmt"
	"strings"

	"github.com/ardnew/softvcp/pkg"
)

// NotificationHeaderSize is the size of the fixed notification header.
const NotificationHeaderSize = 8

// Notification is a CDC notification received on the interrupt IN endpoint
// of the communications interface.
type Notification struct {
	RequestType uint8            // bmRequestType (0xA1)
	Code        NotificationCode // bNotificationCode
	Value       uint16           // wValue
	Index       uint16           // wIndex (interface number)
	Length      uint16           // wLength
	Data        []byte           // Payload, aliases the parsed buffer
}

// ParseNotification parses a notification from data. The payload in out
// refers to data and is only valid as long as data is.
//
// data must hold exactly the header plus wLength payload bytes.
func ParseNotification(data []byte, out *Notification) error {
	if len(data) < NotificationHeaderSize {
		return pkg.ErrDescriptorTooShort
	}
	length := uint16(data[6]) | uint16(data[7])<<8
	payload := data[NotificationHeaderSize:]
	switch {
	case len(payload) < int(length):
		return fmt.Errorf("notification payload %d < wLength %d: %w",
			len(payload), length, pkg.ErrDescriptorTooShort)
	case len(payload) > int(length):
		return fmt.Errorf("notification payload %d > wLength %d: %w",
			len(payload), length, pkg.ErrInvalidLength)
	}

	out.RequestType = data[0]
	out.Code = NotificationCode(data[1])
	out.Value = uint16(data[2]) | uint16(data[3])<<8
	out.Index = uint16(data[4]) | uint16(data[5])<<8
	out.Length = length
	out.Data = payload
	return nil
}

// MarshalTo writes the notification to buf. Length is taken from Data.
// Returns the number of bytes written, or 0 if buf is too small.
func (n *Notification) MarshalTo(buf []byte) int {
	size := NotificationHeaderSize + len(n.Data)
	if len(buf) < size || len(n.Data) > 0xFFFF {
		return 0
	}
	buf[0] = n.RequestType
	buf[1] = byte(n.Code)
	buf[2] = byte(n.Value)
	buf[3] = byte(n.Value >> 8)
	buf[4] = byte(n.Index)
	buf[5] = byte(n.Index >> 8)
	buf[6] = byte(len(n.Data))
	buf[7] = byte(len(n.Data) >> 8)
	copy(buf[NotificationHeaderSize:], n.Data)
	return size
}

// SerialState decodes the UART state bitmap of a SERIAL_STATE notification.
func (n *Notification) SerialState() (UARTState, error) {
	if n.Code != NotificationSerialState {
		return 0, fmt.Errorf("%s is not SERIAL_STATE: %w", n.Code, pkg.ErrDescriptorTypeMismatch)
	}
	if len(n.Data) < 2 {
		return 0, pkg.ErrDescriptorTooShort
	}
	return UARTState(uint16(n.Data[0]) | uint16(n.Data[1])<<8), nil
}

// UARTState is the UART state bitmap carried by SERIAL_STATE
// (CDC-PSTN 1.2, Table 31).
type UARTState uint16

// UART state bits.
const (
	UARTStateRxCarrier  UARTState = 1 << 0 // DCD
	UARTStateTxCarrier  UARTState = 1 << 1 // DSR
	UARTStateBreak      UARTState = 1 << 2 // Break detected
	UARTStateRingSignal UARTState = 1 << 3 // Ring signal detected
	UARTStateFraming    UARTState = 1 << 4 // Framing error
	UARTStateParity     UARTState = 1 << 5 // Parity error
	UARTStateOverrun    UARTState = 1 << 6 // Received data discarded due to overrun

	// UARTStateTransient covers the bits the device clears after reporting.
	UARTStateTransient = UARTStateBreak | UARTStateRingSignal |
		UARTStateFraming | UARTStateParity | UARTStateOverrun
)

// RxCarrier reports the receiver carrier (RS-232 DCD).
func (s UARTState) RxCarrier() bool { return s&UARTStateRxCarrier != 0 }

// TxCarrier reports the transmission carrier (RS-232 DSR).
func (s UARTState) TxCarrier() bool { return s&UARTStateTxCarrier != 0 }

// Break reports a detected break condition.
func (s UARTState) Break() bool { return s&UARTStateBreak != 0 }

// RingSignal reports a detected ring signal.
func (s UARTState) RingSignal() bool { return s&UARTStateRingSignal != 0 }

// Framing reports a framing error.
func (s UARTState) Framing() bool { return s&UARTStateFraming != 0 }

// Parity reports a parity error.
func (s UARTState) Parity() bool { return s&UARTStateParity != 0 }

// Overrun reports an overrun error.
func (s UARTState) Overrun() bool { return s&UARTStateOverrun != 0 }

// HasError reports any framing, parity or overrun error.
func (s UARTState) HasError() bool {
	return s&(UARTStateFraming|UARTStateParity|UARTStateOverrun) != 0
}

// String lists the set bits, e.g. "DCD|DSR|OVERRUN".
func (s UARTState) String() string {
	names := [...]string{"DCD", "DSR", "BREAK", "RING", "FRAMING", "PARITY", "OVERRUN"}
	var parts []string
	for i, name := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}
