package ch34x

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/softvcp/host/class/cdc"
	"github.com/ardnew/softvcp/host/hal"
	"github.com/ardnew/softvcp/pkg"
)

// =============================================================================
// Mock ControlPipe for Testing
// =============================================================================

// mockPipe records setup packets. Reads are answered from response and the
// request numbered failAt (1-based) fails with err.
type mockPipe struct {
	setups   []hal.SetupPacket
	response []byte
	failAt   int
	err      error
}

func (m *mockPipe) ControlTransfer(ctx context.Context, setup *hal.SetupPacket, data []byte) (int, error) {
	m.setups = append(m.setups, *setup)
	if m.failAt == len(m.setups) {
		return 0, m.err
	}
	if setup.IsIn() {
		return copy(data, m.response), nil
	}
	return len(data), nil
}

func writeSetup(value, index uint16) hal.SetupPacket {
	return hal.SetupPacket{RequestType: 0x40, Request: 0x9A, Value: value, Index: index}
}

// =============================================================================
// Controller Tests
// =============================================================================

func TestController_SetLineCoding(t *testing.T) {
	pipe := &mockPipe{}
	c := New(pipe, 0)

	err := c.SetLineCoding(context.Background(), cdc.NewLineConfig(9600, 8, cdc.ParityEven, cdc.StopBits1))
	if err != nil {
		t.Fatalf("SetLineCoding() error = %v", err)
	}

	want := []hal.SetupPacket{
		writeSetup(0x1312, 0xB282),
		writeSetup(0x2518, 0x00DB),
	}
	if len(pipe.setups) != len(want) {
		t.Fatalf("sent %d requests, want %d", len(pipe.setups), len(want))
	}
	for i := range want {
		if pipe.setups[i] != want[i] {
			t.Errorf("request %d = %v, want %v", i, pipe.setups[i], want[i])
		}
	}
}

func TestController_SetLineCoding_Partial(t *testing.T) {
	tests := []struct {
		name string
		cfg  cdc.LineConfig
		want []hal.SetupPacket
	}{
		{
			name: "format only",
			cfg:  cdc.LineConfig{Format: &cdc.FrameFormat{DataBits: 8}},
			want: []hal.SetupPacket{writeSetup(0x2518, 0x00C3)},
		},
		{
			name: "rate only",
			cfg:  cdc.ConfigFromLineCoding(cdc.LineCoding{DTERate: 115200}),
			want: []hal.SetupPacket{writeSetup(0x1312, 0xCC83)},
		},
		{
			name: "empty",
			cfg:  cdc.LineConfig{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipe := &mockPipe{}
			if err := New(pipe, 0).SetLineCoding(context.Background(), tt.cfg); err != nil {
				t.Fatalf("SetLineCoding() error = %v", err)
			}
			if len(pipe.setups) != len(tt.want) {
				t.Fatalf("sent %d requests, want %d", len(pipe.setups), len(tt.want))
			}
			for i := range tt.want {
				if pipe.setups[i] != tt.want[i] {
					t.Errorf("request %d = %v, want %v", i, pipe.setups[i], tt.want[i])
				}
			}
		})
	}
}

func TestController_SetLineCoding_ConfigError(t *testing.T) {
	tests := []struct {
		name  string
		cfg   cdc.LineConfig
		stage Stage
		cause error
		sent  int
	}{
		{"zero rate", cdc.NewLineConfig(0, 8, cdc.ParityNone, cdc.StopBits1), StageRate, pkg.ErrUnsupportedRate, 0},
		{"16 data bits", cdc.NewLineConfig(9600, 16, cdc.ParityNone, cdc.StopBits1), StageFormat, pkg.ErrInvalidArgument, 1},
		{"1.5 stop bits", cdc.LineConfig{Format: &cdc.FrameFormat{DataBits: 8, StopBits: cdc.StopBits1_5}}, StageFormat, pkg.ErrInvalidArgument, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipe := &mockPipe{}
			err := New(pipe, 0).SetLineCoding(context.Background(), tt.cfg)

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("SetLineCoding() error = %v, want *ConfigError", err)
			}
			if cfgErr.Stage != tt.stage {
				t.Errorf("Stage = %v, want %v", cfgErr.Stage, tt.stage)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want wrapping %v", err, tt.cause)
			}
			if len(pipe.setups) != tt.sent {
				t.Errorf("sent %d requests, want %d", len(pipe.setups), tt.sent)
			}
		})
	}
}

func TestController_SetLineCoding_TransportError(t *testing.T) {
	pipe := &mockPipe{failAt: 2, err: pkg.ErrStall}
	err := New(pipe, 0).SetLineCoding(context.Background(), cdc.NewLineConfig(9600, 8, cdc.ParityNone, cdc.StopBits1))

	if err != pkg.ErrStall {
		t.Errorf("SetLineCoding() error = %v, want ErrStall unchanged", err)
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		t.Error("transport error reported as *ConfigError")
	}
	// The rate write is not undone.
	if len(pipe.setups) != 2 {
		t.Errorf("sent %d requests, want 2", len(pipe.setups))
	}
}

func TestController_SetControlLineState(t *testing.T) {
	tests := []struct {
		dtr, rts bool
		value    uint16
	}{
		{false, false, 0x10},
		{true, false, 0x30},
		{false, true, 0x50},
		{true, true, 0x70},
	}

	for _, tt := range tests {
		pipe := &mockPipe{}
		if err := New(pipe, 1).SetControlLineState(context.Background(), tt.dtr, tt.rts); err != nil {
			t.Fatalf("SetControlLineState() error = %v", err)
		}
		want := hal.SetupPacket{RequestType: 0x40, Request: 0xA4, Value: tt.value, Index: 1}
		if pipe.setups[0] != want {
			t.Errorf("SetControlLineState(%v, %v) = %v, want %v", tt.dtr, tt.rts, pipe.setups[0], want)
		}
	}
}

func TestController_Reads(t *testing.T) {
	pipe := &mockPipe{response: []byte{0x31, 0x00}}
	c := New(pipe, 0)
	ctx := context.Background()

	v, err := c.ReadVersion(ctx)
	if err != nil {
		t.Fatalf("ReadVersion() error = %v", err)
	}
	if v != 0x31 {
		t.Errorf("ReadVersion() = 0x%02x, want 0x31", v)
	}
	want := hal.SetupPacket{RequestType: 0xC0, Request: 0x5F, Length: 2}
	if pipe.setups[0] != want {
		t.Errorf("ReadVersion() setup = %v, want %v", pipe.setups[0], want)
	}

	pipe.response = []byte{0xF6, 0xEE}
	status, err := c.ReadModemStatus(ctx)
	if err != nil {
		t.Fatalf("ReadModemStatus() error = %v", err)
	}
	if !status.CTS() || !status.DCD() || status.DSR() {
		t.Errorf("ReadModemStatus() = 0x%02x, want CTS|DCD", uint8(status))
	}
	want = hal.SetupPacket{RequestType: 0xC0, Request: 0x95, Value: 0x0706, Length: 2}
	if pipe.setups[1] != want {
		t.Errorf("ReadModemStatus() setup = %v, want %v", pipe.setups[1], want)
	}

	if err := c.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	want = hal.SetupPacket{RequestType: 0x40, Request: 0xA1}
	if pipe.setups[2] != want {
		t.Errorf("Init() setup = %v, want %v", pipe.setups[2], want)
	}

	pipe.response = []byte{0x01}
	if _, err := c.ReadRegister(ctx, 0x2518); !errors.Is(err, pkg.ErrProtocol) {
		t.Errorf("ReadRegister(short) error = %v, want ErrProtocol", err)
	}
}

// =============================================================================
// Binding Tests
// =============================================================================

func TestOpen(t *testing.T) {
	pipe := &mockPipe{}
	acm := Open(pipe, 0)

	if _, ok := acm.LineController().(*Controller); !ok {
		t.Fatalf("LineController() = %T, want *Controller", acm.LineController())
	}

	ctx := context.Background()
	if err := acm.SetLineCoding(ctx, cdc.NewLineConfig(115200, 8, cdc.ParityNone, cdc.StopBits1)); err != nil {
		t.Fatalf("SetLineCoding() error = %v", err)
	}
	if err := acm.SetControlLineState(ctx, true, true); err != nil {
		t.Fatalf("SetControlLineState() error = %v", err)
	}

	for _, s := range pipe.setups {
		if s.IsClass() {
			t.Errorf("class request %v sent to a CH34x bridge", s)
		}
	}
	if len(pipe.setups) != 3 {
		t.Errorf("sent %d requests, want 3", len(pipe.setups))
	}
	if got := acm.LineCoding().DTERate; got != 115200 {
		t.Errorf("LineCoding().DTERate = %d, want 115200", got)
	}
}

func TestOpen_ConfigErrorKeepsState(t *testing.T) {
	acm := Open(&mockPipe{}, 0)
	err := acm.SetLineCoding(context.Background(), cdc.NewLineConfig(45, 8, cdc.ParityNone, cdc.StopBits1))
	if !errors.Is(err, pkg.ErrUnsupportedRate) {
		t.Fatalf("SetLineCoding() error = %v, want ErrUnsupportedRate", err)
	}
	if got := acm.LineCoding(); got != cdc.DefaultLineCoding {
		t.Errorf("LineCoding() = %+v, want %+v", got, cdc.DefaultLineCoding)
	}
}

func TestOpen_PartialFailureRecordsRate(t *testing.T) {
	tests := []struct {
		name string
		pipe *mockPipe
		cfg  cdc.LineConfig
	}{
		{
			name: "format encoding",
			pipe: &mockPipe{},
			cfg:  cdc.NewLineConfig(9600, 16, cdc.ParityNone, cdc.StopBits1),
		},
		{
			name: "format transport",
			pipe: &mockPipe{failAt: 2, err: pkg.ErrTimeout},
			cfg:  cdc.NewLineConfig(9600, 7, cdc.ParityEven, cdc.StopBits1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acm := Open(tt.pipe, 0)
			if err := acm.SetLineCoding(context.Background(), tt.cfg); err == nil {
				t.Fatal("SetLineCoding() error = nil")
			}

			// The divisor write reached the chip; the frame format did not.
			want := cdc.DefaultLineCoding
			want.DTERate = 9600
			if got := acm.LineCoding(); got != want {
				t.Errorf("LineCoding() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestController_ApplyLineCoding(t *testing.T) {
	pipe := &mockPipe{}
	applied, err := New(pipe, 0).ApplyLineCoding(context.Background(),
		cdc.NewLineConfig(115200, 8, cdc.ParityOdd, cdc.StopBits2))
	if err != nil {
		t.Fatalf("ApplyLineCoding() error = %v", err)
	}
	if applied.BitRate == nil || *applied.BitRate != 115200 {
		t.Errorf("applied BitRate = %v, want 115200", applied.BitRate)
	}
	want := cdc.FrameFormat{DataBits: 8, Parity: cdc.ParityOdd, StopBits: cdc.StopBits2}
	if applied.Format == nil || *applied.Format != want {
		t.Errorf("applied Format = %+v, want %+v", applied.Format, want)
	}

	applied, err = New(pipe, 0).ApplyLineCoding(context.Background(),
		cdc.NewLineConfig(0, 8, cdc.ParityNone, cdc.StopBits1))
	if err == nil || !applied.IsEmpty() {
		t.Errorf("ApplyLineCoding(rate 0) = %+v, %v, want empty and an error", applied, err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		vid, pid uint16
		want     bool
	}{
		{0x1A86, 0x7523, true},
		{0x1A86, 0x5523, true},
		{0x1A86, 0x55D4, false},
		{0x0403, 0x7523, false},
	}

	for _, tt := range tests {
		if got := Supported(tt.vid, tt.pid); got != tt.want {
			t.Errorf("Supported(0x%04x, 0x%04x) = %v, want %v", tt.vid, tt.pid, got, tt.want)
		}
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Stage: StageFormat, Err: pkg.ErrInvalidArgument}
	if got, want := err.Error(), "ch34x: format: "+pkg.ErrInvalidArgument.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(err) != pkg.ErrInvalidArgument {
		t.Error("Unwrap() did not return the cause")
	}
}
