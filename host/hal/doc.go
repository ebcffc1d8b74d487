// Package hal defines the control-transfer capability that class drivers use
// to talk to a USB device.
//
// Class drivers in this module never schedule transfers themselves. They build
// a [SetupPacket] describing a request and hand it to a [ControlPipe], which
// owns submission, completion, timeouts and retries. Any host stack can
// provide a ControlPipe; [github.com/ardnew/softvcp/host/hal/libusb] provides
// one backed by libusb.
//
// # Implementing a ControlPipe
//
//	type myPipe struct{ dev *MyDevice }
//
//	func (p *myPipe) ControlTransfer(ctx context.Context, setup *hal.SetupPacket, data []byte) (int, error) {
//	    return p.dev.Control(ctx, setup.RequestType, setup.Request, setup.Value, setup.Index, data)
//	}
//
// For tests and small adapters, [ControlPipeFunc] turns a plain function into
// a ControlPipe.
package hal
