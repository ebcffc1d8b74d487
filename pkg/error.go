package pkg

import "errors"

// Encoding errors. These are reported before any request reaches the device.
var (
	// ErrUnsupportedRate indicates the requested bit rate has no register
	// encoding on the target chip.
	ErrUnsupportedRate = errors.New("unsupported bit rate")

	// ErrInvalidArgument indicates a data bits, parity or stop bits value the
	// target hardware cannot represent.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Binary layout errors.
var (
	// ErrDescriptorTooShort indicates the descriptor data is too short.
	ErrDescriptorTooShort = errors.New("descriptor too short")

	// ErrDescriptorTypeMismatch indicates the descriptor type or subtype does
	// not match the one requested.
	ErrDescriptorTypeMismatch = errors.New("descriptor type mismatch")

	// ErrInvalidLength indicates a length field disagrees with the data
	// carrying it.
	ErrInvalidLength = errors.New("invalid length")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")
)

// Transport errors. A control pipe returns one of these (possibly wrapped)
// when a transfer fails; the encoders never interpret them.
var (
	// ErrStall indicates the device stalled the control endpoint.
	ErrStall = errors.New("endpoint stalled")

	// ErrTimeout indicates a transfer timeout.
	ErrTimeout = errors.New("transfer timeout")

	// ErrCancelled indicates a cancelled transfer.
	ErrCancelled = errors.New("transfer cancelled")

	// ErrOverrun indicates the device returned more data than requested.
	ErrOverrun = errors.New("data overrun")

	// ErrNoDevice indicates the device is not present.
	ErrNoDevice = errors.New("device not present")

	// ErrBusy indicates the resource is busy.
	ErrBusy = errors.New("resource busy")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")

	// ErrProtocol indicates an unclassified transfer failure.
	ErrProtocol = errors.New("protocol error")
)

// TransferStatus represents the completion status of a USB transfer.
type TransferStatus int

// Transfer status values.
const (
	TransferStatusSuccess   TransferStatus = iota // Transfer completed successfully
	TransferStatusError                           // Transfer failed with error
	TransferStatusStall                           // Endpoint stalled
	TransferStatusTimeout                         // Transfer timed out
	TransferStatusCancelled                       // Transfer was cancelled
	TransferStatusOverrun                         // Data overrun
	TransferStatusNoDevice                        // Device went away
	TransferStatusBusy                            // Resource busy
	TransferStatusNotSupported                    // Request not supported by the backend
)

// String returns a string representation of the transfer status.
func (s TransferStatus) String() string {
	switch s {
	case TransferStatusSuccess:
		return "success"
	case TransferStatusError:
		return "error"
	case TransferStatusStall:
		return "stall"
	case TransferStatusTimeout:
		return "timeout"
	case TransferStatusCancelled:
		return "cancelled"
	case TransferStatusOverrun:
		return "overrun"
	case TransferStatusNoDevice:
		return "no device"
	case TransferStatusBusy:
		return "busy"
	case TransferStatusNotSupported:
		return "not supported"
	default:
		return "unknown"
	}
}

// Error returns the sentinel error for the transfer status, or nil on success.
func (s TransferStatus) Error() error {
	switch s {
	case TransferStatusSuccess:
		return nil
	case TransferStatusStall:
		return ErrStall
	case TransferStatusTimeout:
		return ErrTimeout
	case TransferStatusCancelled:
		return ErrCancelled
	case TransferStatusOverrun:
		return ErrOverrun
	case TransferStatusNoDevice:
		return ErrNoDevice
	case TransferStatusBusy:
		return ErrBusy
	case TransferStatusNotSupported:
		return ErrNotSupported
	default:
		return ErrProtocol
	}
}
