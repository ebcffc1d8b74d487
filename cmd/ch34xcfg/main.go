// Command ch34xcfg configures the UART of a WCH CH340/CH341 USB bridge.
//
// Usage:
//
//	ch34xcfg -baud 9600 -data 8 -parity E -stop 1 -dtr on
//	ch34xcfg -dry-run -baud 921600 -v
//	ch34xcfg -status
//	ch34xcfg -init -baud 115200
//
// A zero -baud or -data leaves that setting unchanged on the chip. With
// -dry-run nothing is opened; every control request is logged instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"go.bug.st/serial"

	"github.com/ardnew/softvcp/host/class/cdc"
	"github.com/ardnew/softvcp/host/class/cdc/ch34x"
	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/host/hal/libusb"
	"github.com/ardnew/softvcp/pkg"
	"github.com/ardnew/softvcp/pkg/usbid"
)

var (
	verbose   = flag.Bool("v", false, "Enable verbose logging")
	jsonOut   = flag.Bool("json", false, "Output logs as JSON")
	vendorID  = flag.String("vid", "1a86", "Vendor ID (hex)")
	productID = flag.String("pid", "7523", "Product ID (hex)")
	ifaceNum  = flag.Uint("iface", 0, "Interface number")
	baudRate  = flag.Int("baud", 115200, "Bit rate, 0 to leave unchanged")
	dataBits  = flag.Int("data", 8, "Data bits (5-8), 0 to leave the frame format unchanged")
	parity    = flag.String("parity", "N", "Parity: N, O, E, M or S")
	stopBits  = flag.String("stop", "1", "Stop bits: 1 or 2")
	dtr       = flag.String("dtr", "", "Drive DTR: on or off")
	rts       = flag.String("rts", "", "Drive RTS: on or off")
	timeout   = flag.Duration("timeout", time.Second, "Control transfer timeout")
	dryRun    = flag.Bool("dry-run", false, "Log requests instead of sending them")
	status    = flag.Bool("status", false, "Read chip version and modem status")
	initUART  = flag.Bool("init", false, "Reset the UART before configuring it")
)

// options is the validated command line.
type options struct {
	vid, pid uint16
	iface    uint8
	mode     *serial.Mode
	identify bool
	initUART bool
	status   bool
}

func main() {
	os.Exit(realMain())
}

// realMain runs the command and returns the exit code, so deferred cleanup
// runs before the process exits.
func realMain() int {
	flag.Parse()

	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	} else {
		pkg.SetLogLevel(slog.LevelInfo)
	}
	if *jsonOut {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	} else {
		pkg.SetLogFormat(pkg.LogFormatText)
	}

	opts, err := parseOptions()
	if err != nil {
		pkg.LogError(pkg.ComponentCLI, "invalid arguments", "error", err)
		flag.Usage()
		return 2
	}

	var pipe hal.ControlPipe
	if *dryRun {
		pipe = dryRunPipe()
	} else {
		p, err := libusb.Open(opts.vid, opts.pid)
		if err != nil {
			pkg.LogError(pkg.ComponentCLI, "failed to open device", "error", err)
			return 1
		}
		defer func() {
			if err := p.Close(); err != nil {
				pkg.LogWarn(pkg.ComponentCLI, "failed to close device", "error", err)
			}
		}()
		p.Timeout = *timeout
		pipe = p
		opts.identify = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*(*timeout))
	defer cancel()

	if err := run(ctx, pipe, opts); err != nil {
		pkg.LogError(pkg.ComponentCLI, "configuration failed", "error", err)
		return 1
	}
	return 0
}

// parseOptions validates the flags.
func parseOptions() (options, error) {
	var opts options

	vid, err := strconv.ParseUint(*vendorID, 16, 16)
	if err != nil {
		return opts, fmt.Errorf("vid %q: %w", *vendorID, err)
	}
	pid, err := strconv.ParseUint(*productID, 16, 16)
	if err != nil {
		return opts, fmt.Errorf("pid %q: %w", *productID, err)
	}
	if *ifaceNum > 0xFF {
		return opts, fmt.Errorf("iface %d: %w", *ifaceNum, pkg.ErrInvalidArgument)
	}

	mode, err := parseMode(*baudRate, *dataBits, *parity, *stopBits, *dtr, *rts)
	if err != nil {
		return opts, err
	}

	opts.vid, opts.pid = uint16(vid), uint16(pid)
	opts.iface = uint8(*ifaceNum)
	opts.mode = mode
	opts.status = *status
	opts.initUART = *initUART
	return opts, nil
}

// parseMode builds a serial mode from flag values. Empty dtr and rts leave
// the modem outputs alone; if either is given the other defaults to off.
func parseMode(baud, data int, parity, stop, dtr, rts string) (*serial.Mode, error) {
	mode := &serial.Mode{BaudRate: baud, DataBits: data}

	switch parity {
	case "N", "n":
		mode.Parity = serial.NoParity
	case "O", "o":
		mode.Parity = serial.OddParity
	case "E", "e":
		mode.Parity = serial.EvenParity
	case "M", "m":
		mode.Parity = serial.MarkParity
	case "S", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("parity %q: %w", parity, pkg.ErrInvalidArgument)
	}

	switch stop {
	case "1":
		mode.StopBits = serial.OneStopBit
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("stop bits %q: %w", stop, pkg.ErrInvalidArgument)
	}

	if dtr != "" || rts != "" {
		d, err := parseSwitch("dtr", dtr)
		if err != nil {
			return nil, err
		}
		r, err := parseSwitch("rts", rts)
		if err != nil {
			return nil, err
		}
		mode.InitialStatusBits = &serial.ModemOutputBits{DTR: d, RTS: r}
	}
	return mode, nil
}

func parseSwitch(name, value string) (bool, error) {
	switch value {
	case "on", "1", "true":
		return true, nil
	case "", "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%s %q: %w", name, value, pkg.ErrInvalidArgument)
}

// run configures the bridge reachable through pipe.
func run(ctx context.Context, pipe hal.ControlPipe, opts options) error {
	ids := usbid.New()
	ids.Load()

	if !ch34x.Supported(opts.vid, opts.pid) {
		pkg.LogWarn(pkg.ComponentCLI, "device is not a known CH34x bridge",
			"device", ids.Describe(opts.vid, opts.pid))
	} else {
		pkg.LogInfo(pkg.ComponentCLI, "configuring",
			"device", ids.Describe(opts.vid, opts.pid),
			"interface", opts.iface)
	}

	acm := cdc.NewACM(pipe, opts.iface)
	ctrl := ch34x.Attach(acm)

	if opts.identify {
		var buf [512]byte
		desc, err := hal.ReadConfigDescriptor(ctx, pipe, 0, buf[:])
		if err != nil {
			return fmt.Errorf("read configuration descriptor: %w", err)
		}
		if err := acm.Identify(desc); err != nil {
			return fmt.Errorf("parse configuration descriptor: %w", err)
		}
	}

	if opts.initUART {
		if err := ctrl.Init(ctx); err != nil {
			return fmt.Errorf("serial init: %w", err)
		}
	}

	if err := acm.SetSerialMode(ctx, opts.mode); err != nil {
		return err
	}
	pkg.LogInfo(pkg.ComponentCLI, "line configured",
		"coding", acm.LineCoding().String())

	if opts.status {
		version, err := ctrl.ReadVersion(ctx)
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		ms, err := ctrl.ReadModemStatus(ctx)
		if err != nil {
			return fmt.Errorf("read modem status: %w", err)
		}
		pkg.LogInfo(pkg.ComponentCLI, "status",
			"version", fmt.Sprintf("0x%02x", version),
			"cts", ms.CTS(),
			"dsr", ms.DSR(),
			"ri", ms.Ring(),
			"dcd", ms.DCD())
	}
	return nil
}

// dryRunPipe logs each request. IN requests read back as 0xFF, which is
// the idle level of the active-low status lines.
func dryRunPipe() hal.ControlPipe {
	return hal.ControlPipeFunc(func(ctx context.Context, setup *hal.SetupPacket, data []byte) (int, error) {
		pkg.LogInfo(pkg.ComponentCLI, "request", "setup", setup.String())
		if setup.IsIn() {
			for i := range data {
				data[i] = 0xFF
			}
		}
		return len(data), nil
	})
}
