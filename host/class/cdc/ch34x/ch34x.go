package ch34x

import (
	"context"
	"fmt"

	"github.com/ardnew/softvcp/host/class/cdc"
	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/pkg"
)

// Stage identifies the part of a line configuration that failed to encode.
type Stage uint8

// Configuration stages, in the order they are applied.
const (
	StageRate Stage = iota
	StageFormat
)

func (s Stage) String() string {
	switch s {
	case StageRate:
		return "rate"
	case StageFormat:
		return "format"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// ConfigError reports a line configuration the chip cannot represent.
// Nothing is sent for the failing stage; earlier stages may have been
// applied already.
type ConfigError struct {
	Stage Stage
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ch34x: %s: %v", e.Stage, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Controller drives a CH34x bridge with its vendor requests. It implements
// [cdc.StagedLineController].
type Controller struct {
	pipe  hal.ControlPipe
	iface uint8
}

var _ cdc.StagedLineController = (*Controller)(nil)

// New returns a controller for the bridge reachable through pipe, whose
// communications interface is iface.
func New(pipe hal.ControlPipe, iface uint8) *Controller {
	return &Controller{pipe: pipe, iface: iface}
}

// Attach installs a CH34x controller on an open session.
func Attach(acm *cdc.ACM) *Controller {
	c := New(acm.Pipe(), acm.Interface())
	acm.SetLineController(c)
	return c
}

// Open creates a CDC-ACM session for a CH34x bridge.
func Open(pipe hal.ControlPipe, iface uint8) *cdc.ACM {
	acm := cdc.NewACM(pipe, iface)
	Attach(acm)
	return acm
}

// SetLineCoding programs the bit rate and then the frame format. Fields
// absent from cfg are left unchanged on the chip.
func (c *Controller) SetLineCoding(ctx context.Context, cfg cdc.LineConfig) error {
	_, err := c.ApplyLineCoding(ctx, cfg)
	return err
}

// ApplyLineCoding is SetLineCoding that also returns the part of cfg written
// to the chip. If the format stage fails, the rate already written is
// reported as applied.
func (c *Controller) ApplyLineCoding(ctx context.Context, cfg cdc.LineConfig) (cdc.LineConfig, error) {
	var applied cdc.LineConfig

	if cfg.BitRate != nil {
		d, err := ComputeDivisor(*cfg.BitRate)
		if err != nil {
			return applied, &ConfigError{Stage: StageRate, Err: err}
		}
		if err := c.write(ctx, RegisterDivisor, d.Register()); err != nil {
			return applied, err
		}
		applied.BitRate = cfg.BitRate
		pkg.LogDebug(pkg.ComponentCH34x, "divisor set",
			"rate", *cfg.BitRate,
			"actual", d.Rate(),
			"register", d.Register())
	}

	if cfg.Format != nil {
		lcr, err := EncodeFrameFormat(*cfg.Format)
		if err != nil {
			return applied, &ConfigError{Stage: StageFormat, Err: err}
		}
		if err := c.write(ctx, RegisterLineControl, uint16(lcr)); err != nil {
			return applied, err
		}
		applied.Format = cfg.Format
		pkg.LogDebug(pkg.ComponentCH34x, "line control set",
			"lcr", lcr.String())
	}
	return applied, nil
}

// SetControlLineState drives DTR and RTS.
func (c *Controller) SetControlLineState(ctx context.Context, dtr, rts bool) error {
	mc := EncodeModemControl(dtr, rts)
	setup := hal.SetupPacket{
		RequestType: RequestTypeWrite,
		Request:     CommandModemOut,
		Value:       uint16(mc),
		Index:       uint16(c.iface),
	}
	if _, err := c.pipe.ControlTransfer(ctx, &setup, nil); err != nil {
		pkg.LogWarn(pkg.ComponentCH34x, "modem control failed",
			"setup", setup.String(),
			"error", err)
		return err
	}
	return nil
}

// Init resets the UART to its power-on state. Line coding and modem
// outputs must be set again afterwards.
func (c *Controller) Init(ctx context.Context) error {
	setup := hal.SetupPacket{
		RequestType: RequestTypeWrite,
		Request:     CommandSerialInit,
	}
	if _, err := c.pipe.ControlTransfer(ctx, &setup, nil); err != nil {
		pkg.LogWarn(pkg.ComponentCH34x, "serial init failed",
			"setup", setup.String(),
			"error", err)
		return err
	}
	return nil
}

// ReadVersion returns the chip version byte.
func (c *Controller) ReadVersion(ctx context.Context) (uint8, error) {
	buf, err := c.read(ctx, CommandVersion, 0)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadRegister reads the register pair at addr.
func (c *Controller) ReadRegister(ctx context.Context, addr uint16) ([2]byte, error) {
	return c.read(ctx, CommandRead, addr)
}

// ReadModemStatus returns the modem input lines.
func (c *Controller) ReadModemStatus(ctx context.Context) (ModemStatus, error) {
	buf, err := c.ReadRegister(ctx, RegisterModemStatus)
	if err != nil {
		return 0, err
	}
	return ParseModemStatus(buf[0]), nil
}

// write stores value in the register pair addr.
func (c *Controller) write(ctx context.Context, addr, value uint16) error {
	setup := hal.SetupPacket{
		RequestType: RequestTypeWrite,
		Request:     CommandWrite,
		Value:       addr,
		Index:       value,
	}
	if _, err := c.pipe.ControlTransfer(ctx, &setup, nil); err != nil {
		pkg.LogWarn(pkg.ComponentCH34x, "register write failed",
			"setup", setup.String(),
			"error", err)
		return err
	}
	return nil
}

// read issues a 2-byte vendor IN request.
func (c *Controller) read(ctx context.Context, request uint8, value uint16) ([2]byte, error) {
	var buf [2]byte
	setup := hal.SetupPacket{
		RequestType: RequestTypeRead,
		Request:     request,
		Value:       value,
		Length:      uint16(len(buf)),
	}
	n, err := c.pipe.ControlTransfer(ctx, &setup, buf[:])
	if err != nil {
		pkg.LogWarn(pkg.ComponentCH34x, "vendor read failed",
			"setup", setup.String(),
			"error", err)
		return buf, err
	}
	if n < len(buf) {
		return buf, fmt.Errorf("%w: read %d of %d bytes", pkg.ErrProtocol, n, len(buf))
	}
	return buf, nil
}
