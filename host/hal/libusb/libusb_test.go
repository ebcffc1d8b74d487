package libusb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/gousb"

	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/pkg"
)

// =============================================================================
// Error Mapping Tests
// =============================================================================

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want pkg.TransferStatus
	}{
		{gousb.ErrorPipe, pkg.TransferStatusStall},
		{gousb.ErrorTimeout, pkg.TransferStatusTimeout},
		{gousb.ErrorInterrupted, pkg.TransferStatusCancelled},
		{gousb.ErrorOverflow, pkg.TransferStatusOverrun},
		{gousb.ErrorNoDevice, pkg.TransferStatusNoDevice},
		{gousb.ErrorNotFound, pkg.TransferStatusNoDevice},
		{gousb.ErrorBusy, pkg.TransferStatusBusy},
		{gousb.ErrorAccess, pkg.TransferStatusBusy},
		{gousb.ErrorNotSupported, pkg.TransferStatusNotSupported},
		{gousb.ErrorIO, pkg.TransferStatusError},
		{fmt.Errorf("control: %w", gousb.ErrorPipe), pkg.TransferStatusStall},
		{errors.New("other"), pkg.TransferStatusError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusOf(tt.err); got != tt.want {
				t.Errorf("statusOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	if mapError(nil) != nil {
		t.Error("mapError(nil) != nil")
	}

	err := mapError(gousb.ErrorTimeout)
	if !errors.Is(err, pkg.ErrTimeout) {
		t.Errorf("mapError() = %v, want ErrTimeout", err)
	}
	var uerr gousb.Error
	if !errors.As(err, &uerr) || uerr != gousb.ErrorTimeout {
		t.Errorf("mapError() lost the libusb error: %v", err)
	}

	if err := mapError(gousb.ErrorIO); !errors.Is(err, pkg.ErrProtocol) {
		t.Errorf("mapError(ErrorIO) = %v, want ErrProtocol", err)
	}
}

// =============================================================================
// Pipe Tests
// =============================================================================

func TestPipe_Closed(t *testing.T) {
	p := &Pipe{Timeout: DefaultTimeout}
	setup := hal.SetupPacket{RequestType: 0xC0, Request: 0x5F, Length: 2}

	_, err := p.ControlTransfer(context.Background(), &setup, make([]byte, 2))
	if !errors.Is(err, pkg.ErrNoDevice) {
		t.Errorf("ControlTransfer() error = %v, want ErrNoDevice", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestPipe_CancelledContext(t *testing.T) {
	p := &Pipe{Timeout: DefaultTimeout}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	setup := hal.SetupPacket{RequestType: 0x40, Request: 0xA4, Value: 0x10}
	_, err := p.ControlTransfer(ctx, &setup, nil)
	if !errors.Is(err, pkg.ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Errorf("ControlTransfer() error = %v, want ErrCancelled wrapping context.Canceled", err)
	}
}
