// Package pkg provides shared utilities for the softvcp packages.
//
// It contains:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel errors for encoding failures and USB transport failures
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] and tags every record with the
// component that emitted it:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogDebug(pkg.ComponentCH34x, "vendor write", "value", 0x1312)
//
// # Errors
//
// Encoding errors are reported before any request reaches the device:
//
//	if errors.Is(err, pkg.ErrUnsupportedRate) {
//	    // pick another bit rate
//	}
//
// Transport errors come from the control pipe and are passed through
// untouched, so the usual [errors.Is] checks apply:
//
//	if errors.Is(err, pkg.ErrNoDevice) {
//	    // device was unplugged
//	}
package pkg
