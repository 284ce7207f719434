// Package sbi provides access to the supervisor binary interface exposed by
// the machine-mode firmware. The legacy extensions used here are the only
// services the kernel needs: the debug console and the timer.
package sbi

import "github.com/tews-code/beyond-os1k/kernel/errors"

// Legacy extension IDs understood by the firmware.
const (
	eidSetTimer       = 0
	eidConsolePutChar = 1
	eidConsoleGetChar = 2
)

var (
	// legacyCallFn is mocked by tests and is automatically inlined by the
	// compiler.
	legacyCallFn = legacyCall

	// ErrCallFailed is returned when the firmware reports a non-zero
	// result for a call.
	ErrCallFailed = errors.KernelError("sbi: firmware call failed")

	// ErrNoData is returned by GetChar when the console has no pending
	// input.
	ErrNoData = errors.KernelError("sbi: no console data available")
)

// PutChar writes a single byte to the firmware console.
func PutChar(ch byte) error {
	if ret := legacyCallFn(eidConsolePutChar, uintptr(ch)); ret != 0 {
		return ErrCallFailed
	}

	return nil
}

// GetChar polls the firmware console for a pending input byte.
func GetChar() (byte, error) {
	ret := legacyCallFn(eidConsoleGetChar, 0)
	if int64(ret) == -1 {
		return 0, ErrNoData
	}

	return byte(ret), nil
}

// SetTimer arms the per-hart timer to fire once the mtime counter reaches
// the supplied absolute tick value.
func SetTimer(ticks uint64) error {
	if ret := legacyCallFn(eidSetTimer, uintptr(ticks)); ret != 0 {
		return ErrCallFailed
	}

	return nil
}
