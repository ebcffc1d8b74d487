package cdc

import (
	"context"
	"sync"

	"go.bug.st/serial"

	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/pkg"
)

// LineController applies line configuration and modem control lines to a
// device. The standard CDC-ACM requests are the default; bridge chips that
// only imitate CDC install their own implementation with
// [ACM.SetLineController].
type LineController interface {
	// SetLineCoding applies the fields present in cfg.
	SetLineCoding(ctx context.Context, cfg LineConfig) error

	// SetControlLineState drives the DTR and RTS outputs.
	SetControlLineState(ctx context.Context, dtr, rts bool) error
}

// StagedLineController is a LineController that applies a configuration in
// separate requests. ApplyLineCoding returns the part of cfg the device
// accepted, which is non-empty even on error when an earlier stage succeeded.
type StagedLineController interface {
	LineController

	ApplyLineCoding(ctx context.Context, cfg LineConfig) (LineConfig, error)
}

// ACM is a host-side CDC-ACM session on one communications interface.
//
// The session is created after the device is enumerated and its interfaces
// are claimed; it only issues control requests through its pipe.
type ACM struct {
	pipe  hal.ControlPipe
	iface uint8

	ctrl LineController

	lineCoding  LineCoding
	dtr, rts    bool
	serialState UARTState
	functional  Functional

	mutex sync.RWMutex
}

// NewACM creates a session for the communications interface iface reachable
// through pipe. The standard CDC-ACM controller is installed.
func NewACM(pipe hal.ControlPipe, iface uint8) *ACM {
	a := &ACM{
		pipe:       pipe,
		iface:      iface,
		lineCoding: DefaultLineCoding,
	}
	a.ctrl = &standardController{acm: a}
	return a
}

// Pipe returns the control pipe of the session.
func (a *ACM) Pipe() hal.ControlPipe {
	return a.pipe
}

// Interface returns the communications interface number.
func (a *ACM) Interface() uint8 {
	return a.iface
}

// SetLineController replaces the line controller. A nil controller restores
// the standard CDC-ACM controller.
func (a *ACM) SetLineController(c LineController) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if c == nil {
		c = &standardController{acm: a}
	}
	a.ctrl = c
}

// LineController returns the installed line controller.
func (a *ACM) LineController() LineController {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.ctrl
}

// LineCoding returns the line coding last applied to the device. After a
// partial failure it includes the stages that were applied.
func (a *ACM) LineCoding() LineCoding {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.lineCoding
}

// ControlLines returns the last DTR and RTS state applied successfully.
func (a *ACM) ControlLines() (dtr, rts bool) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.dtr, a.rts
}

// SetLineCoding applies cfg through the installed controller. The recorded
// line coding is updated with whatever the controller applied; a
// [StagedLineController] may report a partial update alongside an error.
func (a *ACM) SetLineCoding(ctx context.Context, cfg LineConfig) error {
	if cfg.IsEmpty() {
		return nil
	}

	var (
		applied LineConfig
		err     error
	)
	switch ctrl := a.LineController().(type) {
	case StagedLineController:
		applied, err = ctrl.ApplyLineCoding(ctx, cfg)
	default:
		if err = ctrl.SetLineCoding(ctx, cfg); err == nil {
			applied = cfg
		}
	}

	a.mutex.Lock()
	a.lineCoding = applied.Apply(a.lineCoding)
	lc := a.lineCoding
	a.mutex.Unlock()

	if err != nil {
		pkg.LogWarn(pkg.ComponentCDC, "set line coding failed",
			"interface", a.iface,
			"coding", lc.String(),
			"error", err)
		return err
	}

	pkg.LogDebug(pkg.ComponentCDC, "line coding set",
		"interface", a.iface,
		"coding", lc.String())
	return nil
}

// SetSerialMode applies a go.bug.st/serial mode. If the mode carries initial
// modem output bits, they are applied after the line coding.
func (a *ACM) SetSerialMode(ctx context.Context, mode *serial.Mode) error {
	cfg, err := ConfigFromSerialMode(mode)
	if err != nil {
		return err
	}
	if err := a.SetLineCoding(ctx, cfg); err != nil {
		return err
	}
	if mode != nil && mode.InitialStatusBits != nil {
		return a.SetModemOutputs(ctx, *mode.InitialStatusBits)
	}
	return nil
}

// SetControlLineState drives DTR and RTS through the installed controller.
func (a *ACM) SetControlLineState(ctx context.Context, dtr, rts bool) error {
	ctrl := a.LineController()
	if err := ctrl.SetControlLineState(ctx, dtr, rts); err != nil {
		pkg.LogWarn(pkg.ComponentCDC, "set control line state failed",
			"interface", a.iface,
			"error", err)
		return err
	}

	a.mutex.Lock()
	a.dtr, a.rts = dtr, rts
	a.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentCDC, "control line state set",
		"interface", a.iface,
		"dtr", dtr,
		"rts", rts)
	return nil
}

// SetModemOutputs drives DTR and RTS from go.bug.st/serial output bits.
func (a *ACM) SetModemOutputs(ctx context.Context, bits serial.ModemOutputBits) error {
	return a.SetControlLineState(ctx, bits.DTR, bits.RTS)
}

// Identify records the functional descriptors found in the configuration
// descriptor of the device.
func (a *ACM) Identify(configDescriptor []byte) error {
	f, err := ParseFunctional(configDescriptor)
	if err != nil {
		return err
	}

	a.mutex.Lock()
	a.functional = f
	a.mutex.Unlock()

	if f.ACM != nil {
		pkg.LogDebug(pkg.ComponentCDC, "ACM functional descriptor",
			"interface", a.iface,
			"lineCoding", f.ACM.Capabilities.LineCoding(),
			"sendBreak", f.ACM.Capabilities.SendBreak())
	}
	return nil
}

// Functional returns the functional descriptors recorded by Identify.
func (a *ACM) Functional() Functional {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.functional
}

// HandleNotification parses a buffer received on the notification endpoint.
// SERIAL_STATE notifications update the recorded serial state.
func (a *ACM) HandleNotification(data []byte) (Notification, error) {
	var n Notification
	if err := ParseNotification(data, &n); err != nil {
		return n, err
	}

	if n.Code == NotificationSerialState {
		state, err := n.SerialState()
		if err != nil {
			return n, err
		}
		a.mutex.Lock()
		a.serialState = state
		a.mutex.Unlock()

		if state.HasError() {
			pkg.LogWarn(pkg.ComponentCDC, "serial error reported",
				"interface", a.iface,
				"state", state.String())
		}
	}
	return n, nil
}

// SerialState returns the UART state of the last SERIAL_STATE notification.
func (a *ACM) SerialState() UARTState {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.serialState
}

// standardController issues the CDC-ACM class requests.
type standardController struct {
	acm *ACM
}

// SetLineCoding sends SET_LINE_CODING. The request always carries a full
// line coding, so absent fields are filled from the session.
func (c *standardController) SetLineCoding(ctx context.Context, cfg LineConfig) error {
	lc := cfg.Apply(c.acm.LineCoding())

	var buf [LineCodingSize]byte
	lc.MarshalTo(buf[:])

	setup := hal.SetupPacket{
		RequestType: hal.RequestTypeOut | hal.RequestTypeClass | hal.RequestTypeInterface,
		Request:     uint8(RequestSetLineCoding),
		Value:       0,
		Index:       uint16(c.acm.iface),
		Length:      LineCodingSize,
	}
	_, err := c.acm.pipe.ControlTransfer(ctx, &setup, buf[:])
	return err
}

// SetControlLineState sends SET_CONTROL_LINE_STATE.
func (c *standardController) SetControlLineState(ctx context.Context, dtr, rts bool) error {
	var value uint16
	if dtr {
		value |= ControlLineDTR
	}
	if rts {
		value |= ControlLineRTS
	}

	setup := hal.SetupPacket{
		RequestType: hal.RequestTypeOut | hal.RequestTypeClass | hal.RequestTypeInterface,
		Request:     uint8(RequestSetControlLineState),
		Value:       value,
		Index:       uint16(c.acm.iface),
		Length:      0,
	}
	_, err := c.acm.pipe.ControlTransfer(ctx, &setup, nil)
	return err
}
