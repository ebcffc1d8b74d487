// Package cdc models the USB Communications Device Class (CDC) structures
// seen by a host and provides a host-side CDC-ACM session.
//
// # Binary Layouts
//
// All structures are decoded from little-endian byte slices with explicit
// shifts and masks:
//
//   - [LineCoding]: the 7-byte SET_LINE_CODING payload
//   - [Notification]: interrupt IN notifications, including SERIAL_STATE
//     and its [UARTState] bitmap
//   - Functional descriptors: [HeaderDescriptor], [UnionDescriptor],
//     [CallManagementDescriptor] and [ACMDescriptor], collected by
//     [ParseFunctional]
//
// Parsed values alias the buffer they came from where noted and are never
// modified by this package.
//
// # Line Control
//
// An [ACM] session sends line configuration through a [LineController].
// The default controller issues the standard CDC-ACM class requests. USB to
// UART bridges that only imitate CDC (for example the WCH CH34x family in
// [github.com/ardnew/softvcp/host/class/cdc/ch34x]) install their own
// controller when the device is opened:
//
//	acm := cdc.NewACM(pipe, 0)
//	acm.SetLineController(myController)
//
//	err := acm.SetLineCoding(ctx, cdc.NewLineConfig(115200, 8, cdc.ParityNone, cdc.StopBits1))
//
// A [LineConfig] field left nil keeps the device's current setting.
package cdc
