package cdc

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/ardnew/softvcp/pkg"
)

// StopBits is the bCharFormat field of a line coding.
type StopBits uint8

// Stop bit values.
const (
	StopBits1   StopBits = 0 // 1 stop bit
	StopBits1_5 StopBits = 1 // 1.5 stop bits
	StopBits2   StopBits = 2 // 2 stop bits
)

// String returns the stop bit count.
func (s StopBits) String() string {
	switch s {
	case StopBits1:
		return "1"
	case StopBits1_5:
		return "1.5"
	case StopBits2:
		return "2"
	default:
		return fmt.Sprintf("StopBits(%d)", uint8(s))
	}
}

// Parity is the bParityType field of a line coding.
type Parity uint8

// Parity values.
const (
	ParityNone  Parity = 0
	ParityOdd   Parity = 1
	ParityEven  Parity = 2
	ParityMark  Parity = 3
	ParitySpace Parity = 4
)

// String returns the conventional one-letter parity code.
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	case ParityMark:
		return "M"
	case ParitySpace:
		return "S"
	default:
		return fmt.Sprintf("Parity(%d)", uint8(p))
	}
}

// LineCoding is the 7-byte line coding structure exchanged by
// SET_LINE_CODING and GET_LINE_CODING (CDC-PSTN 1.2, Table 17).
type LineCoding struct {
	DTERate    uint32   // Data terminal rate in bits per second
	CharFormat StopBits // Stop bits
	ParityType Parity   // Parity
	DataBits   uint8    // Data bits: 5, 6, 7, 8, or 16
}

// LineCodingSize is the size of LineCoding in bytes.
const LineCodingSize = 7

// DefaultLineCoding is 115200 8N1.
var DefaultLineCoding = LineCoding{
	DTERate:    115200,
	CharFormat: StopBits1,
	ParityType: ParityNone,
	DataBits:   8,
}

// String formats the coding as e.g. "115200 8N1".
func (lc LineCoding) String() string {
	return fmt.Sprintf("%d %d%s%s", lc.DTERate, lc.DataBits, lc.ParityType, lc.CharFormat)
}

// MarshalTo writes the LineCoding to buf.
// Returns the number of bytes written, or 0 if buf is too small.
func (lc *LineCoding) MarshalTo(buf []byte) int {
	if len(buf) < LineCodingSize {
		return 0
	}
	buf[0] = byte(lc.DTERate)
	buf[1] = byte(lc.DTERate >> 8)
	buf[2] = byte(lc.DTERate >> 16)
	buf[3] = byte(lc.DTERate >> 24)
	buf[4] = byte(lc.CharFormat)
	buf[5] = byte(lc.ParityType)
	buf[6] = lc.DataBits
	return LineCodingSize
}

// ParseLineCoding parses LineCoding from data.
// Returns false if data is too short.
func ParseLineCoding(data []byte, out *LineCoding) bool {
	if len(data) < LineCodingSize {
		return false
	}
	out.DTERate = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	out.CharFormat = StopBits(data[4])
	out.ParityType = Parity(data[5])
	out.DataBits = data[6]
	return true
}

// FrameFormat is the shape of one serial character.
type FrameFormat struct {
	DataBits uint8
	Parity   Parity
	StopBits StopBits
}

// LineConfig is a line reconfiguration request. A nil field leaves the
// corresponding setting on the device unchanged.
type LineConfig struct {
	BitRate *uint32
	Format  *FrameFormat
}

// NewLineConfig returns a request that changes both bit rate and frame format.
func NewLineConfig(rate uint32, dataBits uint8, parity Parity, stop StopBits) LineConfig {
	return LineConfig{
		BitRate: &rate,
		Format:  &FrameFormat{DataBits: dataBits, Parity: parity, StopBits: stop},
	}
}

// ConfigFromLineCoding converts a wire line coding into a request. A zero
// DTERate or DataBits means "leave unchanged", as host class drivers
// conventionally encode it.
func ConfigFromLineCoding(lc LineCoding) LineConfig {
	var cfg LineConfig
	if lc.DTERate != 0 {
		rate := lc.DTERate
		cfg.BitRate = &rate
	}
	if lc.DataBits != 0 {
		cfg.Format = &FrameFormat{
			DataBits: lc.DataBits,
			Parity:   lc.ParityType,
			StopBits: lc.CharFormat,
		}
	}
	return cfg
}

// IsEmpty returns true if the request changes nothing.
func (c LineConfig) IsEmpty() bool {
	return c.BitRate == nil && c.Format == nil
}

// Apply returns base with the fields present in c replaced.
func (c LineConfig) Apply(base LineCoding) LineCoding {
	if c.BitRate != nil {
		base.DTERate = *c.BitRate
	}
	if c.Format != nil {
		base.DataBits = c.Format.DataBits
		base.ParityType = c.Format.Parity
		base.CharFormat = c.Format.StopBits
	}
	return base
}

// ConfigFromSerialMode converts a go.bug.st/serial mode into a request.
// A zero BaudRate or DataBits leaves that setting unchanged.
func ConfigFromSerialMode(mode *serial.Mode) (LineConfig, error) {
	var cfg LineConfig
	if mode == nil {
		return cfg, nil
	}

	if mode.BaudRate < 0 || uint64(mode.BaudRate) > uint64(^uint32(0)) {
		return cfg, fmt.Errorf("baud rate %d: %w", mode.BaudRate, pkg.ErrUnsupportedRate)
	}
	if mode.BaudRate != 0 {
		rate := uint32(mode.BaudRate)
		cfg.BitRate = &rate
	}

	if mode.DataBits == 0 {
		return cfg, nil
	}
	if mode.DataBits < 0 || mode.DataBits > 0xFF {
		return cfg, fmt.Errorf("data bits %d: %w", mode.DataBits, pkg.ErrInvalidArgument)
	}

	f := FrameFormat{DataBits: uint8(mode.DataBits)}
	switch mode.Parity {
	case serial.NoParity:
		f.Parity = ParityNone
	case serial.OddParity:
		f.Parity = ParityOdd
	case serial.EvenParity:
		f.Parity = ParityEven
	case serial.MarkParity:
		f.Parity = ParityMark
	case serial.SpaceParity:
		f.Parity = ParitySpace
	default:
		return cfg, fmt.Errorf("parity %d: %w", mode.Parity, pkg.ErrInvalidArgument)
	}
	switch mode.StopBits {
	case serial.OneStopBit:
		f.StopBits = StopBits1
	case serial.OnePointFiveStopBits:
		f.StopBits = StopBits1_5
	case serial.TwoStopBits:
		f.StopBits = StopBits2
	default:
		return cfg, fmt.Errorf("stop bits %d: %w", mode.StopBits, pkg.ErrInvalidArgument)
	}
	cfg.Format = &f
	return cfg, nil
}
