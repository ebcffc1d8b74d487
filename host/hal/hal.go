package hal

import (
	"context"
	"fmt"
)

// Request type bits (bmRequestType).
const (
	RequestTypeOut       = 0x00 // Host to device
	RequestTypeIn        = 0x80 // Device to host
	RequestTypeStandard  = 0x00 // Standard request
	RequestTypeClass     = 0x20 // Class-specific request
	RequestTypeVendor    = 0x40 // Vendor-specific request
	RequestTypeDevice    = 0x00 // Recipient: device
	RequestTypeInterface = 0x01 // Recipient: interface
	RequestTypeEndpoint  = 0x02 // Recipient: endpoint
	RequestTypeOther     = 0x03 // Recipient: other

	requestTypeDirMask       = 0x80
	requestTypeTypeMask      = 0x60
	requestTypeRecipientMask = 0x1F
)

// SetupPacket represents a USB SETUP packet.
type SetupPacket struct {
	RequestType uint8  // Request characteristics
	Request     uint8  // Specific request
	Value       uint16 // Request-specific value
	Index       uint16 // Request-specific index
	Length      uint16 // Number of bytes to transfer
}

// SetupPacketSize is the size of a USB SETUP packet in bytes.
const SetupPacketSize = 8

// ParseSetupPacket parses raw bytes into a SetupPacket.
// Returns false if data is too short.
func ParseSetupPacket(data []byte, out *SetupPacket) bool {
	if len(data) < SetupPacketSize {
		return false
	}
	out.RequestType = data[0]
	out.Request = data[1]
	out.Value = uint16(data[2]) | uint16(data[3])<<8
	out.Index = uint16(data[4]) | uint16(data[5])<<8
	out.Length = uint16(data[6]) | uint16(data[7])<<8
	return true
}

// MarshalTo writes the setup packet to buf.
// Returns the number of bytes written (8), or 0 if buf is too small.
func (s *SetupPacket) MarshalTo(buf []byte) int {
	if len(buf) < SetupPacketSize {
		return 0
	}
	buf[0] = s.RequestType
	buf[1] = s.Request
	buf[2] = byte(s.Value)
	buf[3] = byte(s.Value >> 8)
	buf[4] = byte(s.Index)
	buf[5] = byte(s.Index >> 8)
	buf[6] = byte(s.Length)
	buf[7] = byte(s.Length >> 8)
	return SetupPacketSize
}

// IsIn returns true if the data stage flows from device to host.
func (s *SetupPacket) IsIn() bool {
	return s.RequestType&requestTypeDirMask == RequestTypeIn
}

// IsClass returns true for class-specific requests.
func (s *SetupPacket) IsClass() bool {
	return s.RequestType&requestTypeTypeMask == RequestTypeClass
}

// IsVendor returns true for vendor-specific requests.
func (s *SetupPacket) IsVendor() bool {
	return s.RequestType&requestTypeTypeMask == RequestTypeVendor
}

// Recipient returns the recipient bits of the request type.
func (s *SetupPacket) Recipient() uint8 {
	return s.RequestType & requestTypeRecipientMask
}

// String formats the packet the way USB analyzers print it.
func (s SetupPacket) String() string {
	return fmt.Sprintf("bmRequestType=0x%02x bRequest=0x%02x wValue=0x%04x wIndex=0x%04x wLength=%d",
		s.RequestType, s.Request, s.Value, s.Index, s.Length)
}

// ControlPipe is the capability to submit a control transfer on a device's
// default endpoint.
//
// Scheduling, retries, timeouts and cancellation belong to the implementation.
// The setup packet and data buffer are owned by the caller. For OUT requests,
// data holds the data stage (nil for none); for IN requests, data is filled
// with the response. Implementations return the number of bytes moved in the
// data stage.
type ControlPipe interface {
	ControlTransfer(ctx context.Context, setup *SetupPacket, data []byte) (int, error)
}

// ControlPipeFunc adapts a function to the ControlPipe interface.
type ControlPipeFunc func(ctx context.Context, setup *SetupPacket, data []byte) (int, error)

// ControlTransfer calls f(ctx, setup, data).
func (f ControlPipeFunc) ControlTransfer(ctx context.Context, setup *SetupPacket, data []byte) (int, error) {
	return f(ctx, setup, data)
}
