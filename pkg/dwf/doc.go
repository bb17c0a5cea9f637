// Package dwf is a typed binding over the Digilent WaveForms SDK (libdwf).
//
// The SDK surface is the Driver interface. Two implementations exist: the
// native cgo binding, compiled in with the "dwf" build tag, and Simulator,
// an in-memory device used by tests and by the CLI's sim backend.
//
// Devices are discovered with Enumerate and opened into a Handle, which is
// an exclusive lock on the device. Instruments are views bound to the
// handle:
//
//	devs, err := dwf.Enumerate(drv, dwf.EnumFilterAll)
//	h, err := devs[0].Open()
//	defer h.Close()
//
//	scope := h.Oscilloscope()
//	scope.SetSampleFrequency(units.Megahertz(1))
//	capture, err := scope.Acquire(ctx)
//
// All calls made through a Handle are serialized, so a handle and its
// instrument views may be shared between goroutines. After Close every call
// fails with ErrHandleClosed.
//
// Measurement values cross the API as units.Voltage, units.Frequency and
// units.Time, never as bare numbers.
package dwf
