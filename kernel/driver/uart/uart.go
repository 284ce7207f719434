// Package uart implements the debug console driver. The transport is the
// firmware console which accepts exactly one byte per call; the driver adds
// no buffering of its own.
package uart

import (
	"github.com/tews-code/beyond-os1k/kernel/errors"
	"github.com/tews-code/beyond-os1k/kernel/sbi"
)

var (
	// putCharFn and getCharFn are mocked by tests and are automatically
	// inlined by the compiler.
	putCharFn = sbi.PutChar
	getCharFn = sbi.GetChar
)

// Device drives the firmware debug console one byte at a time. Its zero value
// is an uninitialized device; all I/O fails until Init is called.
type Device struct {
	initialized bool
}

// Init marks the device as ready for I/O. The firmware console needs no
// hardware setup so initialization cannot fail.
func (d *Device) Init() {
	d.initialized = true
}

// WriteByte emits a single byte to the console. It implements io.ByteWriter.
func (d *Device) WriteByte(b byte) error {
	if !d.initialized {
		return errors.ErrDeviceNotReady
	}

	return putCharFn(b)
}

// Write emits the contents of p to the console one byte at a time. It
// implements io.Writer and reports the number of bytes emitted before any
// error.
func (d *Device) Write(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		if err := d.WriteByte(p[i]); err != nil {
			return i, err
		}
	}

	return len(p), nil
}

// ReadByte polls the console for a pending input byte. It returns
// sbi.ErrNoData when no input is available.
func (d *Device) ReadByte() (byte, error) {
	if !d.initialized {
		return 0, errors.ErrDeviceNotReady
	}

	return getCharFn()
}
