package libusb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"

	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/pkg"
)

// DefaultTimeout bounds control transfers issued without a context deadline.
const DefaultTimeout = time.Second

// Pipe is a [hal.ControlPipe] on the default control endpoint of a device
// opened with libusb.
type Pipe struct {
	ctx *gousb.Context
	dev *gousb.Device

	// Timeout applies when the request context has no deadline.
	Timeout time.Duration

	mutex sync.Mutex
}

var _ hal.ControlPipe = (*Pipe)(nil)

// Open opens the first device matching vid:pid.
func Open(vid, pid uint16) (*Pipe, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open %04x:%04x: %w", vid, pid, mapError(err))
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("open %04x:%04x: %w", vid, pid, pkg.ErrNoDevice)
	}

	// Release the interface from a kernel serial driver when it is claimed.
	if err := dev.SetAutoDetach(true); err != nil {
		pkg.LogDebug(pkg.ComponentHAL, "auto detach unavailable", "error", err)
	}

	pkg.LogInfo(pkg.ComponentHAL, "device opened",
		"vid", fmt.Sprintf("%04x", vid),
		"pid", fmt.Sprintf("%04x", pid),
		"bus", dev.Desc.Bus,
		"address", dev.Desc.Address)

	return &Pipe{ctx: ctx, dev: dev, Timeout: DefaultTimeout}, nil
}

// Close releases the device and the libusb context.
func (p *Pipe) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var err error
	if p.dev != nil {
		err = p.dev.Close()
		p.dev = nil
	}
	if p.ctx != nil {
		if cerr := p.ctx.Close(); err == nil {
			err = cerr
		}
		p.ctx = nil
	}
	return err
}

// ControlTransfer issues setup on the default control endpoint. The context
// deadline, if any, becomes the libusb timeout.
func (p *Pipe) ControlTransfer(ctx context.Context, setup *hal.SetupPacket, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", pkg.ErrCancelled, err)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.dev == nil {
		return 0, pkg.ErrNoDevice
	}

	timeout := p.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, pkg.ErrTimeout
		}
	}
	p.dev.ControlTimeout = timeout

	if int(setup.Length) < len(data) {
		data = data[:setup.Length]
	}

	n, err := p.dev.Control(setup.RequestType, setup.Request, setup.Value, setup.Index, data)
	if err != nil {
		err = mapError(err)
		pkg.LogDebug(pkg.ComponentHAL, "control transfer failed",
			"setup", setup.String(),
			"error", err)
		return n, err
	}
	return n, nil
}

// statusOf classifies a libusb error.
func statusOf(err error) pkg.TransferStatus {
	var uerr gousb.Error
	if !errors.As(err, &uerr) {
		return pkg.TransferStatusError
	}
	switch uerr {
	case gousb.ErrorPipe:
		return pkg.TransferStatusStall
	case gousb.ErrorTimeout:
		return pkg.TransferStatusTimeout
	case gousb.ErrorInterrupted:
		return pkg.TransferStatusCancelled
	case gousb.ErrorOverflow:
		return pkg.TransferStatusOverrun
	case gousb.ErrorNoDevice, gousb.ErrorNotFound:
		return pkg.TransferStatusNoDevice
	case gousb.ErrorBusy, gousb.ErrorAccess:
		return pkg.TransferStatusBusy
	case gousb.ErrorNotSupported:
		return pkg.TransferStatusNotSupported
	default:
		return pkg.TransferStatusError
	}
}

// mapError wraps a libusb error with the matching pkg sentinel so callers
// can test it with errors.Is.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", statusOf(err).Error(), err)
}
