// Package hal links the platform devices to the rest of the kernel. The only
// device this kernel manages itself is the debug console; everything else is
// owned by the firmware.
package hal

import (
	"github.com/tews-code/beyond-os1k/kernel/driver/uart"
	"github.com/tews-code/beyond-os1k/kernel/kfmt"
)

// serialConsole is the singleton debug console device.
var serialConsole uart.Device

// ActiveTerminal returns the debug console device used for kernel output.
func ActiveTerminal() *uart.Device {
	return &serialConsole
}

// InitTerminal initializes the debug console and attaches it as the kernel
// log output sink, draining any output buffered during early boot.
func InitTerminal() {
	serialConsole.Init()
	kfmt.SetOutputSink(&serialConsole)
}
