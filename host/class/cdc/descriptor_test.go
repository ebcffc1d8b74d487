package cdc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardnew/softvcp/pkg"
)

// configCDC is a CDC-ACM configuration descriptor: configuration, control
// interface with four functional descriptors and a notification endpoint,
// then the data interface with two bulk endpoints.
var configCDC = []byte{
	0x09, 0x02, 0x43, 0x00, 0x02, 0x01, 0x00, 0x80, 0x32, // configuration
	0x09, 0x04, 0x00, 0x00, 0x01, 0x02, 0x02, 0x01, 0x00, // interface 0, CDC ACM
	0x05, 0x24, 0x00, 0x10, 0x01, // header, CDC 1.10
	0x05, 0x24, 0x01, 0x03, 0x01, // call management
	0x04, 0x24, 0x02, 0x06, // ACM
	0x05, 0x24, 0x06, 0x00, 0x01, // union
	0x07, 0x05, 0x81, 0x03, 0x08, 0x00, 0x10, // interrupt IN
	0x09, 0x04, 0x01, 0x00, 0x02, 0x0A, 0x00, 0x00, 0x00, // interface 1, CDC data
	0x07, 0x05, 0x82, 0x02, 0x40, 0x00, 0x00, // bulk IN
	0x07, 0x05, 0x02, 0x02, 0x40, 0x00, 0x00, // bulk OUT
}

// =============================================================================
// DescriptorSubtype Tests
// =============================================================================

func TestDescriptorSubtype_String(t *testing.T) {
	tests := []struct {
		subtype DescriptorSubtype
		want    string
	}{
		{SubtypeHeader, "Header"},
		{SubtypeACM, "ACM"},
		{SubtypeUnion, "Union"},
		{SubtypeProtocolUnit, "Protocol Unit"},
		{SubtypeNCM, "NCM"},
		{DescriptorSubtype(0x42), "Unknown Subtype (0x42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.subtype.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Functional Descriptor Tests
// =============================================================================

func TestParseFunctional(t *testing.T) {
	f, err := ParseFunctional(configCDC)
	if err != nil {
		t.Fatalf("ParseFunctional() error = %v", err)
	}

	if f.Header == nil {
		t.Fatal("Header not found")
	}
	if f.Header.CDCVersion != 0x0110 {
		t.Errorf("CDCVersion = %#04x, want 0x0110", f.Header.CDCVersion)
	}
	if got := f.Header.Version(); got != "1.10" {
		t.Errorf("Version() = %q, want %q", got, "1.10")
	}

	if f.CallManagement == nil {
		t.Fatal("CallManagement not found")
	}
	if !f.CallManagement.Capabilities.HandlesCallManagement() {
		t.Error("HandlesCallManagement() = false")
	}
	if !f.CallManagement.Capabilities.OverDataInterface() {
		t.Error("OverDataInterface() = false")
	}
	if f.CallManagement.DataInterface != 1 {
		t.Errorf("DataInterface = %d, want 1", f.CallManagement.DataInterface)
	}

	if f.ACM == nil {
		t.Fatal("ACM not found")
	}
	caps := f.ACM.Capabilities
	if caps.CommFeature() || !caps.LineCoding() || !caps.SendBreak() || caps.NetworkConnection() {
		t.Errorf("ACM capabilities = %#02x, want line coding and send break only", uint8(caps))
	}

	if f.Union == nil {
		t.Fatal("Union not found")
	}
	if f.Union.ControlInterface != 0 {
		t.Errorf("ControlInterface = %d, want 0", f.Union.ControlInterface)
	}
	if !bytes.Equal(f.Union.SubordinateInterfaces, []byte{1}) {
		t.Errorf("SubordinateInterfaces = %v, want [1]", f.Union.SubordinateInterfaces)
	}
}

func TestParseFunctional_VendorClass(t *testing.T) {
	// CH340 style: a single vendor-class interface, no functional descriptors.
	data := []byte{
		0x09, 0x02, 0x27, 0x00, 0x01, 0x01, 0x00, 0x80, 0x31,
		0x09, 0x04, 0x00, 0x00, 0x03, 0xFF, 0x01, 0x02, 0x00,
		0x07, 0x05, 0x82, 0x02, 0x20, 0x00, 0x00,
		0x07, 0x05, 0x02, 0x02, 0x20, 0x00, 0x00,
		0x07, 0x05, 0x81, 0x03, 0x08, 0x00, 0x01,
	}

	f, err := ParseFunctional(data)
	if err != nil {
		t.Fatalf("ParseFunctional() error = %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("ParseFunctional() = %+v, want empty", f)
	}
}

func TestParseFunctional_Malformed(t *testing.T) {
	// ACM descriptor claiming 3 bytes
	data := []byte{0x03, 0x24, 0x02}
	if _, err := ParseFunctional(data); !errors.Is(err, pkg.ErrDescriptorTooShort) {
		t.Errorf("ParseFunctional() error = %v, want ErrDescriptorTooShort", err)
	}
}

func TestParseFunctional_Truncated(t *testing.T) {
	// The union descriptor runs past the end; the walk stops before it.
	data := append([]byte{}, configCDC[:36]...)
	f, err := ParseFunctional(data)
	if err != nil {
		t.Fatalf("ParseFunctional() error = %v", err)
	}
	if f.ACM == nil {
		t.Error("ACM not found before truncation")
	}
	if f.Union != nil {
		t.Error("truncated Union descriptor was parsed")
	}
}

func TestParseHeaderDescriptor_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, pkg.ErrDescriptorTooShort},
		{"short length", []byte{0x04, 0x24, 0x00, 0x10}, pkg.ErrDescriptorTooShort},
		{"wrong type", []byte{0x05, 0x25, 0x00, 0x10, 0x01}, pkg.ErrDescriptorTypeMismatch},
		{"wrong subtype", []byte{0x05, 0x24, 0x06, 0x00, 0x01}, pkg.ErrDescriptorTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d HeaderDescriptor
			if err := ParseHeaderDescriptor(tt.data, &d); !errors.Is(err, tt.want) {
				t.Errorf("ParseHeaderDescriptor() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFunctionalDescriptors_MarshalTo(t *testing.T) {
	var buf [16]byte

	header := HeaderDescriptor{CDCVersion: 0x0120}
	if n := header.MarshalTo(buf[:]); !bytes.Equal(buf[:n], []byte{0x05, 0x24, 0x00, 0x20, 0x01}) {
		t.Errorf("HeaderDescriptor.MarshalTo() = % x", buf[:n])
	}

	call := CallManagementDescriptor{Capabilities: CallCapHandlesCallManagement, DataInterface: 2}
	if n := call.MarshalTo(buf[:]); !bytes.Equal(buf[:n], []byte{0x05, 0x24, 0x01, 0x01, 0x02}) {
		t.Errorf("CallManagementDescriptor.MarshalTo() = % x", buf[:n])
	}

	acm := ACMDescriptor{Capabilities: ACMCapLineCoding | ACMCapSendBreak}
	if n := acm.MarshalTo(buf[:]); !bytes.Equal(buf[:n], []byte{0x04, 0x24, 0x02, 0x06}) {
		t.Errorf("ACMDescriptor.MarshalTo() = % x", buf[:n])
	}

	union := UnionDescriptor{ControlInterface: 0, SubordinateInterfaces: []byte{1, 2}}
	if n := union.MarshalTo(buf[:]); !bytes.Equal(buf[:n], []byte{0x06, 0x24, 0x06, 0x00, 0x01, 0x02}) {
		t.Errorf("UnionDescriptor.MarshalTo() = % x", buf[:n])
	}

	if n := union.MarshalTo(buf[:3]); n != 0 {
		t.Errorf("UnionDescriptor.MarshalTo(short) = %d, want 0", n)
	}
}
