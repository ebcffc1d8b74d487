// Package ch34x configures WCH CH340 and CH341 USB to UART bridges.
//
// These chips enumerate with a vendor-specific interface and ignore the
// CDC-ACM class requests. Line configuration is done by writing register
// pairs with vendor control requests instead:
//
//   - bit rate: [ComputeDivisor] picks a prescaler and an 8-bit factor,
//     written to [RegisterDivisor]
//   - frame format: [EncodeLineFormat] builds the line control register,
//     written to [RegisterLineControl]
//   - DTR and RTS: [EncodeModemControl], sent with [CommandModemOut]
//
// A [Controller] issues these requests through a [hal.ControlPipe]. It
// replaces the standard controller of a [cdc.ACM] session:
//
//	acm := ch34x.Open(pipe, 0)
//	err := acm.SetLineCoding(ctx, cdc.NewLineConfig(9600, 8, cdc.ParityEven, cdc.StopBits1))
//
// Encoding failures are reported as [*ConfigError] and nothing is sent for
// the failing stage. Transport errors from the pipe are returned as is.
package ch34x
