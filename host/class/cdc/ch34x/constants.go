package ch34x

import "github.com/ardnew/softvcp/host/hal"

// Vendor and product IDs of the CH34x family.
const (
	VendorID = 0x1A86 // Nanjing Qinheng Microelectronics (WCH)

	ProductCH340 = 0x7523
	ProductCH341 = 0x5523
)

// Vendor request codes (bRequest).
const (
	CommandRead       = 0x95 // Read register pair
	CommandWrite      = 0x9A // Write register pair
	CommandSerialInit = 0xA1 // Reset and initialize the UART
	CommandModemOut   = 0xA4 // Drive modem control outputs
	CommandVersion    = 0x5F // Read chip version
)

// Request types for vendor commands addressed to the device.
const (
	RequestTypeWrite = hal.RequestTypeOut | hal.RequestTypeVendor | hal.RequestTypeDevice // 0x40
	RequestTypeRead  = hal.RequestTypeIn | hal.RequestTypeVendor | hal.RequestTypeDevice  // 0xC0
)

// Register pairs. A write of a pair carries the pair address in wValue and
// the data in wIndex.
const (
	RegisterDivisor     = 0x1312 // Prescaler (low byte) and divisor factor (high byte)
	RegisterLineControl = 0x2518 // Line control register
	RegisterModemStatus = 0x0706 // Modem input status, active low
)

// Line control register bits.
const (
	LCREnableRX  = 0x80
	LCREnableTX  = 0x40
	LCRMarkSpace = 0x20
	LCRParEven   = 0x10
	LCREnablePar = 0x08
	LCRStopBits2 = 0x04
	LCRCS8       = 0x03
	LCRCS7       = 0x02
	LCRCS6       = 0x01
	LCRCS5       = 0x00

	lcrSizeMask = 0x03
)

// Modem control output bits (CommandModemOut wValue).
const (
	ControlOut = 0x10
	ControlDTR = 0x20
	ControlRTS = 0x40
)

// Modem status input bits.
const (
	StatusCTS  = 0x01
	StatusDSR  = 0x02
	StatusRing = 0x04
	StatusDCD  = 0x08

	statusMask = 0x0F
)

// UART state codes reported by the chip.
const (
	UARTStateOverrun       = 0x01
	UARTStateParity        = 0x02
	UARTStateFrame         = 0x06
	UARTStateTransientMask = 0x07
)

// Supported reports whether vid:pid identifies a CH34x bridge.
func Supported(vid, pid uint16) bool {
	if vid != VendorID {
		return false
	}
	switch pid {
	case ProductCH340, ProductCH341:
		return true
	}
	return false
}
