package cdc

import (
	"fmt"

	"github.com/ardnew/softvcp/pkg"
)

// Functional descriptor sizes.
const (
	functionalPrefixSize         = 3 // bFunctionLength, bDescriptorType, bDescriptorSubtype
	HeaderDescriptorSize         = 5
	CallManagementDescriptorSize = 5
	ACMDescriptorSize            = 4
	UnionDescriptorMinSize       = 4 // Control interface only, no subordinates
)

// parsePrefix validates the common functional descriptor prefix.
func parsePrefix(data []byte, subtype DescriptorSubtype, minSize int) error {
	if len(data) < functionalPrefixSize {
		return pkg.ErrDescriptorTooShort
	}
	length := int(data[0])
	if length < minSize || len(data) < length {
		return fmt.Errorf("%s descriptor length %d: %w", subtype, length, pkg.ErrDescriptorTooShort)
	}
	if data[1] != DescriptorTypeCSInterface {
		return fmt.Errorf("descriptor type 0x%02x: %w", data[1], pkg.ErrDescriptorTypeMismatch)
	}
	if DescriptorSubtype(data[2]) != subtype {
		return fmt.Errorf("got %s, want %s: %w", DescriptorSubtype(data[2]), subtype, pkg.ErrDescriptorTypeMismatch)
	}
	return nil
}

// HeaderDescriptor is the CDC Header Functional Descriptor (CDC 1.2, Table 15).
type HeaderDescriptor struct {
	Length         uint8
	DescriptorType uint8
	Subtype        DescriptorSubtype
	CDCVersion     uint16 // Binary-coded decimal, e.g. 0x0110 for 1.10
}

// ParseHeaderDescriptor parses a Header Functional Descriptor.
func ParseHeaderDescriptor(data []byte, out *HeaderDescriptor) error {
	if err := parsePrefix(data, SubtypeHeader, HeaderDescriptorSize); err != nil {
		return err
	}
	out.Length = data[0]
	out.DescriptorType = data[1]
	out.Subtype = SubtypeHeader
	out.CDCVersion = uint16(data[3]) | uint16(data[4])<<8
	return nil
}

// Version formats CDCVersion as "major.minor".
func (d *HeaderDescriptor) Version() string {
	return fmt.Sprintf("%x.%02x", d.CDCVersion>>8, d.CDCVersion&0xFF)
}

// MarshalTo writes the descriptor to buf.
func (d *HeaderDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < HeaderDescriptorSize {
		return 0
	}
	buf[0] = HeaderDescriptorSize
	buf[1] = DescriptorTypeCSInterface
	buf[2] = byte(SubtypeHeader)
	buf[3] = byte(d.CDCVersion)
	buf[4] = byte(d.CDCVersion >> 8)
	return HeaderDescriptorSize
}

// UnionDescriptor is the CDC Union Functional Descriptor (CDC 1.2, Table 16).
type UnionDescriptor struct {
	Length                uint8
	DescriptorType        uint8
	Subtype               DescriptorSubtype
	ControlInterface      uint8   // Controlling interface
	SubordinateInterfaces []uint8 // Subordinate interfaces, aliases the parsed buffer
}

// ParseUnionDescriptor parses a Union Functional Descriptor.
func ParseUnionDescriptor(data []byte, out *UnionDescriptor) error {
	if err := parsePrefix(data, SubtypeUnion, UnionDescriptorMinSize); err != nil {
		return err
	}
	out.Length = data[0]
	out.DescriptorType = data[1]
	out.Subtype = SubtypeUnion
	out.ControlInterface = data[3]
	out.SubordinateInterfaces = data[4:out.Length]
	return nil
}

// MarshalTo writes the descriptor to buf.
func (d *UnionDescriptor) MarshalTo(buf []byte) int {
	size := UnionDescriptorMinSize + len(d.SubordinateInterfaces)
	if len(buf) < size || size > 0xFF {
		return 0
	}
	buf[0] = byte(size)
	buf[1] = DescriptorTypeCSInterface
	buf[2] = byte(SubtypeUnion)
	buf[3] = d.ControlInterface
	copy(buf[4:], d.SubordinateInterfaces)
	return size
}

// CallCapabilities is the bmCapabilities field of the Call Management
// Functional Descriptor.
type CallCapabilities uint8

// Call management capability bits.
const (
	CallCapHandlesCallManagement CallCapabilities = 1 << 0 // Device handles call management itself
	CallCapOverDataInterface     CallCapabilities = 1 << 1 // Call management over the Data Class interface
)

// HandlesCallManagement reports whether the device handles call management.
func (c CallCapabilities) HandlesCallManagement() bool {
	return c&CallCapHandlesCallManagement != 0
}

// OverDataInterface reports whether call management travels over the data interface.
func (c CallCapabilities) OverDataInterface() bool {
	return c&CallCapOverDataInterface != 0
}

// CallManagementDescriptor is the Call Management Functional Descriptor
// (CDC-PSTN 1.2, Table 3).
type CallManagementDescriptor struct {
	Length         uint8
	DescriptorType uint8
	Subtype        DescriptorSubtype
	Capabilities   CallCapabilities
	DataInterface  uint8 // Data Class interface optionally used for call management
}

// ParseCallManagementDescriptor parses a Call Management Functional Descriptor.
func ParseCallManagementDescriptor(data []byte, out *CallManagementDescriptor) error {
	if err := parsePrefix(data, SubtypeCallManagement, CallManagementDescriptorSize); err != nil {
		return err
	}
	out.Length = data[0]
	out.DescriptorType = data[1]
	out.Subtype = SubtypeCallManagement
	out.Capabilities = CallCapabilities(data[3])
	out.DataInterface = data[4]
	return nil
}

// MarshalTo writes the descriptor to buf.
func (d *CallManagementDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < CallManagementDescriptorSize {
		return 0
	}
	buf[0] = CallManagementDescriptorSize
	buf[1] = DescriptorTypeCSInterface
	buf[2] = byte(SubtypeCallManagement)
	buf[3] = byte(d.Capabilities)
	buf[4] = d.DataInterface
	return CallManagementDescriptorSize
}

// ACMCapabilities is the bmCapabilities field of the ACM Functional Descriptor.
type ACMCapabilities uint8

// ACM capability bits.
const (
	ACMCapCommFeature ACMCapabilities = 1 << 0 // Set/Clear/Get_Comm_Feature
	ACMCapLineCoding  ACMCapabilities = 1 << 1 // Set/Get_Line_Coding, Set_Control_Line_State, Serial_State
	ACMCapSendBreak   ACMCapabilities = 1 << 2 // Send_Break
	ACMCapNetworkConn ACMCapabilities = 1 << 3 // Network_Connection notification
)

// CommFeature reports support for the comm feature requests.
func (c ACMCapabilities) CommFeature() bool { return c&ACMCapCommFeature != 0 }

// LineCoding reports support for line coding, control line state and
// serial state.
func (c ACMCapabilities) LineCoding() bool { return c&ACMCapLineCoding != 0 }

// SendBreak reports support for SEND_BREAK.
func (c ACMCapabilities) SendBreak() bool { return c&ACMCapSendBreak != 0 }

// NetworkConnection reports support for the NETWORK_CONNECTION notification.
func (c ACMCapabilities) NetworkConnection() bool { return c&ACMCapNetworkConn != 0 }

// ACMDescriptor is the Abstract Control Management Functional Descriptor
// (CDC-PSTN 1.2, Table 4).
type ACMDescriptor struct {
	Length         uint8
	DescriptorType uint8
	Subtype        DescriptorSubtype
	Capabilities   ACMCapabilities
}

// ParseACMDescriptor parses an ACM Functional Descriptor.
func ParseACMDescriptor(data []byte, out *ACMDescriptor) error {
	if err := parsePrefix(data, SubtypeACM, ACMDescriptorSize); err != nil {
		return err
	}
	out.Length = data[0]
	out.DescriptorType = data[1]
	out.Subtype = SubtypeACM
	out.Capabilities = ACMCapabilities(data[3])
	return nil
}

// MarshalTo writes the descriptor to buf.
func (d *ACMDescriptor) MarshalTo(buf []byte) int {
	if len(buf) < ACMDescriptorSize {
		return 0
	}
	buf[0] = ACMDescriptorSize
	buf[1] = DescriptorTypeCSInterface
	buf[2] = byte(SubtypeACM)
	buf[3] = byte(d.Capabilities)
	return ACMDescriptorSize
}

// Functional collects the functional descriptors of a CDC communications
// interface. Absent descriptors are nil.
type Functional struct {
	Header         *HeaderDescriptor
	Union          *UnionDescriptor
	CallManagement *CallManagementDescriptor
	ACM            *ACMDescriptor
}

// IsEmpty returns true if no functional descriptor was found.
func (f *Functional) IsEmpty() bool {
	return f.Header == nil && f.Union == nil && f.CallManagement == nil && f.ACM == nil
}

// ParseFunctional walks a descriptor chain (typically the full configuration
// descriptor) and collects the first Header, Union, Call Management and ACM
// functional descriptors. Other descriptors are skipped. A malformed
// functional descriptor of a known subtype is an error; the walk stops at the
// first descriptor whose length runs past the end of data.
func ParseFunctional(data []byte) (Functional, error) {
	var f Functional

	for offset := 0; offset+2 <= len(data); {
		length := int(data[offset])
		if length < 2 || offset+length > len(data) {
			break
		}
		desc := data[offset : offset+length]
		offset += length

		if desc[1] != DescriptorTypeCSInterface || len(desc) < functionalPrefixSize {
			continue
		}

		var err error
		switch DescriptorSubtype(desc[2]) {
		case SubtypeHeader:
			if f.Header == nil {
				f.Header = new(HeaderDescriptor)
				err = ParseHeaderDescriptor(desc, f.Header)
			}
		case SubtypeUnion:
			if f.Union == nil {
				f.Union = new(UnionDescriptor)
				err = ParseUnionDescriptor(desc, f.Union)
			}
		case SubtypeCallManagement:
			if f.CallManagement == nil {
				f.CallManagement = new(CallManagementDescriptor)
				err = ParseCallManagementDescriptor(desc, f.CallManagement)
			}
		case SubtypeACM:
			if f.ACM == nil {
				f.ACM = new(ACMDescriptor)
				err = ParseACMDescriptor(desc, f.ACM)
			}
		}
		if err != nil {
			return Functional{}, err
		}
	}

	return f, nil
}
