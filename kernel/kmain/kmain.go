package kmain

import (
	"github.com/tews-code/beyond-os1k/kernel"
	"github.com/tews-code/beyond-os1k/kernel/cpu"
	"github.com/tews-code/beyond-os1k/kernel/hal"
	"github.com/tews-code/beyond-os1k/kernel/irq"
	"github.com/tews-code/beyond-os1k/kernel/kfmt"
	"github.com/tews-code/beyond-os1k/kernel/sbi"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// console is the byte-level interface the echo loop drives. The uart device
// behind hal.ActiveTerminal satisfies it.
type console interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// cpuWaitFn is mocked by tests and is automatically inlined by the compiler.
var cpuWaitFn = cpu.Wait

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code on
// the boot hart after it has cleared .bss and set up a minimal stack.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// hart.
//
//go:noinline
func Kmain() {
	hal.InitTerminal()
	kfmt.Printf("beyond-os1k: console ready\n")

	irq.Init()
	kfmt.Printf("beyond-os1k: trap vector installed\n")

	consoleEcho(hal.ActiveTerminal())

	// Use kernel.Panic instead of panic to prevent the compiler from
	// treating kernel.Panic as dead-code and eliminating it.
	kernel.Panic(errKmainReturned)
}

// consoleEcho writes every byte read from the console straight back, parking
// the hart between polls. It returns only when the console fails with
// something other than an empty input queue.
func consoleEcho(term console) {
	for {
		b, err := term.ReadByte()
		switch err {
		case nil:
			if err = term.WriteByte(b); err != nil {
				return
			}
		case sbi.ErrNoData:
			cpuWaitFn()
		default:
			return
		}
	}
}
