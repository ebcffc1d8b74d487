// Package libusb provides a [hal.ControlPipe] backed by libusb through
// github.com/google/gousb.
//
//	pipe, err := libusb.Open(0x1a86, 0x7523)
//	if err != nil {
//	    return err
//	}
//	defer pipe.Close()
//
// libusb errors are wrapped with the matching sentinel from the pkg package,
// so callers can use errors.Is(err, pkg.ErrStall) and still reach the
// underlying [gousb.Error] with errors.As.
//
// Building this package requires cgo and the libusb-1.0 development headers.
package libusb
