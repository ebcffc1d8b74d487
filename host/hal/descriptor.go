package hal

import (
	"context"
	"fmt"

	"github.com/ardnew/softvcp/pkg"
)

// Standard requests used to read descriptors.
const (
	RequestGetDescriptor = 0x06

	DescriptorTypeDevice        = 0x01
	DescriptorTypeConfiguration = 0x02

	DeviceDescriptorSize        = 18
	ConfigurationDescriptorSize = 9
)

// DeviceID holds the identification fields of a device descriptor.
type DeviceID struct {
	VendorID  uint16
	ProductID uint16
	Release   uint16 // bcdDevice
}

func (id DeviceID) String() string {
	return fmt.Sprintf("%04x:%04x", id.VendorID, id.ProductID)
}

// ReadDeviceID reads the device descriptor through pipe and returns its
// identification fields.
func ReadDeviceID(ctx context.Context, pipe ControlPipe) (DeviceID, error) {
	var buf [DeviceDescriptorSize]byte
	setup := SetupPacket{
		RequestType: RequestTypeIn | RequestTypeStandard | RequestTypeDevice,
		Request:     RequestGetDescriptor,
		Value:       uint16(DescriptorTypeDevice) << 8,
		Length:      DeviceDescriptorSize,
	}

	n, err := pipe.ControlTransfer(ctx, &setup, buf[:])
	if err != nil {
		return DeviceID{}, err
	}
	if n < DeviceDescriptorSize || buf[1] != DescriptorTypeDevice {
		return DeviceID{}, fmt.Errorf("%w: device descriptor", pkg.ErrDescriptorTooShort)
	}

	return DeviceID{
		VendorID:  uint16(buf[8]) | uint16(buf[9])<<8,
		ProductID: uint16(buf[10]) | uint16(buf[11])<<8,
		Release:   uint16(buf[12]) | uint16(buf[13])<<8,
	}, nil
}

// ReadConfigDescriptor reads configuration descriptor index into buf,
// including all interface, endpoint and class-specific descriptors that
// follow it. The header is read first to learn the total length, which is
// clipped to len(buf). Returns the filled part of buf.
func ReadConfigDescriptor(ctx context.Context, pipe ControlPipe, index uint8, buf []byte) ([]byte, error) {
	if len(buf) < ConfigurationDescriptorSize {
		return nil, pkg.ErrBufferTooSmall
	}

	setup := SetupPacket{
		RequestType: RequestTypeIn | RequestTypeStandard | RequestTypeDevice,
		Request:     RequestGetDescriptor,
		Value:       uint16(DescriptorTypeConfiguration)<<8 | uint16(index),
		Length:      ConfigurationDescriptorSize,
	}

	n, err := pipe.ControlTransfer(ctx, &setup, buf[:ConfigurationDescriptorSize])
	if err != nil {
		return nil, err
	}
	if n < ConfigurationDescriptorSize {
		return nil, fmt.Errorf("%w: configuration header", pkg.ErrDescriptorTooShort)
	}
	if buf[1] != DescriptorTypeConfiguration {
		return nil, fmt.Errorf("%w: type 0x%02x", pkg.ErrDescriptorTypeMismatch, buf[1])
	}

	// Get total length
	total := int(buf[2]) | int(buf[3])<<8
	if total > len(buf) {
		total = len(buf)
	}
	if total <= ConfigurationDescriptorSize {
		return buf[:n], nil
	}

	setup.Length = uint16(total)
	n, err = pipe.ControlTransfer(ctx, &setup, buf[:total])
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
