package irq

import (
	"io"

	"github.com/tews-code/beyond-os1k/kernel"
	"github.com/tews-code/beyond-os1k/kernel/cpu"
	"github.com/tews-code/beyond-os1k/kernel/kfmt"
	"github.com/tews-code/beyond-os1k/kernel/sbi"
)

// Frame contains a snapshot of the integer register values saved by the trap
// entry code when a trap is taken. Its layout must stay in sync with the
// save sequence in entry_riscv64.s.
type Frame struct {
	RA  uint64
	GP  uint64
	TP  uint64
	T0  uint64
	T1  uint64
	T2  uint64
	T3  uint64
	T4  uint64
	T5  uint64
	T6  uint64
	A0  uint64
	A1  uint64
	A2  uint64
	A3  uint64
	A4  uint64
	A5  uint64
	A6  uint64
	A7  uint64
	S0  uint64
	S1  uint64
	S2  uint64
	S3  uint64
	S4  uint64
	S5  uint64
	S6  uint64
	S7  uint64
	S8  uint64
	S9  uint64
	S10 uint64
	S11 uint64
	SP  uint64
}

// DumpTo outputs the register contents to w.
func (f *Frame) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "ra  = %16x sp  = %16x\n", f.RA, f.SP)
	kfmt.Fprintf(w, "gp  = %16x tp  = %16x\n", f.GP, f.TP)
	kfmt.Fprintf(w, "t0  = %16x t1  = %16x\n", f.T0, f.T1)
	kfmt.Fprintf(w, "t2  = %16x t3  = %16x\n", f.T2, f.T3)
	kfmt.Fprintf(w, "t4  = %16x t5  = %16x\n", f.T4, f.T5)
	kfmt.Fprintf(w, "t6  = %16x\n", f.T6)
	kfmt.Fprintf(w, "a0  = %16x a1  = %16x\n", f.A0, f.A1)
	kfmt.Fprintf(w, "a2  = %16x a3  = %16x\n", f.A2, f.A3)
	kfmt.Fprintf(w, "a4  = %16x a5  = %16x\n", f.A4, f.A5)
	kfmt.Fprintf(w, "a6  = %16x a7  = %16x\n", f.A6, f.A7)
	kfmt.Fprintf(w, "s0  = %16x s1  = %16x\n", f.S0, f.S1)
	kfmt.Fprintf(w, "s2  = %16x s3  = %16x\n", f.S2, f.S3)
	kfmt.Fprintf(w, "s4  = %16x s5  = %16x\n", f.S4, f.S5)
	kfmt.Fprintf(w, "s6  = %16x s7  = %16x\n", f.S6, f.S7)
	kfmt.Fprintf(w, "s8  = %16x s9  = %16x\n", f.S8, f.S9)
	kfmt.Fprintf(w, "s10 = %16x s11 = %16x\n", f.S10, f.S11)
}

// causeInterruptFlag is set in scause when the trap was raised by an
// interrupt rather than an exception.
const causeInterruptFlag = uint64(1) << 63

// TrapCause describes the value reported by scause when a trap is taken.
type TrapCause uint64

const (
	// InstrAddrMisaligned occurs when the hart fetches an instruction
	// from an address that violates the alignment rules.
	InstrAddrMisaligned = TrapCause(0)

	// InstrAccessFault occurs when an instruction fetch fails a physical
	// memory protection check.
	InstrAccessFault = TrapCause(1)

	// IllegalInstruction occurs when the hart attempts to execute an
	// invalid or privileged instruction encoding.
	IllegalInstruction = TrapCause(2)

	// Breakpoint occurs when an ebreak instruction is executed.
	Breakpoint = TrapCause(3)

	// LoadAccessFault occurs when a load fails a physical memory
	// protection check.
	LoadAccessFault = TrapCause(5)

	// StoreAccessFault occurs when a store or AMO fails a physical memory
	// protection check.
	StoreAccessFault = TrapCause(7)

	// EcallFromU occurs when user code executes an ecall instruction.
	EcallFromU = TrapCause(8)

	// EcallFromS occurs when supervisor code executes an ecall
	// instruction.
	EcallFromS = TrapCause(9)

	// InstrPageFault occurs when an instruction fetch misses in the page
	// tables.
	InstrPageFault = TrapCause(12)

	// LoadPageFault occurs when a load misses in the page tables.
	LoadPageFault = TrapCause(13)

	// StorePageFault occurs when a store or AMO misses in the page
	// tables.
	StorePageFault = TrapCause(15)

	// TimerInterrupt occurs when the supervisor timer armed via
	// sbi.SetTimer fires.
	TimerInterrupt = TrapCause(causeInterruptFlag | 5)
)

// Name returns a human-readable description for known trap causes.
func (c TrapCause) Name() string {
	switch c {
	case InstrAddrMisaligned:
		return "instruction address misaligned"
	case InstrAccessFault:
		return "instruction access fault"
	case IllegalInstruction:
		return "illegal instruction"
	case Breakpoint:
		return "breakpoint"
	case LoadAccessFault:
		return "load access fault"
	case StoreAccessFault:
		return "store access fault"
	case EcallFromU:
		return "environment call from U-mode"
	case EcallFromS:
		return "environment call from S-mode"
	case InstrPageFault:
		return "instruction page fault"
	case LoadPageFault:
		return "load page fault"
	case StorePageFault:
		return "store page fault"
	case TimerInterrupt:
		return "supervisor timer interrupt"
	}

	return "unknown"
}

// timerInterval defines the number of mtime ticks between supervisor timer
// interrupts.
const timerInterval = 500

// EcallHandler is a function that handles an environment call raised by user
// code. When the handler returns, execution resumes at the instruction
// following the ecall with any modifications to the supplied Frame propagated
// back to the interrupted context.
type EcallHandler func(*Frame)

var (
	ecallHandler EcallHandler

	// The following indirections are mocked by tests and are automatically
	// inlined by the compiler.
	readScauseFn = cpu.ReadScause
	readSepcFn   = cpu.ReadSepc
	readStvalFn  = cpu.ReadStval
	writeSepcFn  = cpu.WriteSepc
	readTimeFn   = cpu.ReadTime
	setTimerFn   = sbi.SetTimer
	panicAtFn    = kernel.PanicAt
)

// HandleEcall registers a handler for environment calls raised by user code.
func HandleEcall(handler EcallHandler) {
	ecallHandler = handler
}

// Init installs the trap vector for the current hart, arms the supervisor
// timer and enables interrupt delivery.
func Init() {
	cpu.SetTrapVector(trapEntryAddr())
	if err := setTimerFn(readTimeFn() + timerInterval); err != nil {
		kfmt.Printf("irq: failed to arm timer: %s\n", err.Error())
	}
	cpu.EnableInterrupts()
}

// trapEntry is the register save trampoline in entry_riscv64.s. It is never
// called from Go; this declaration gives the assembly symbol a Go prototype
// so the toolchain can link it.
func trapEntry()

// trapEntryAddr returns the address of the register save trampoline in
// entry_riscv64.s.
func trapEntryAddr() uintptr

// DispatchTrap is invoked by the trap entry code with the register state it
// saved. Environment calls and timer interrupts are handled and resumed;
// every other trap is unrecoverable and escalates to kernel.PanicAt.
func DispatchTrap(frame *Frame) {
	cause := TrapCause(readScauseFn())

	switch cause {
	case EcallFromU:
		if ecallHandler == nil {
			break
		}

		ecallHandler(frame)

		// Resume at the instruction following the 4-byte ecall.
		writeSepcFn(readSepcFn() + 4)
		return
	case TimerInterrupt:
		// Firmware timers are one-shot; re-arm for the next tick. A
		// failed re-arm loses the tick source but is not fatal, so it
		// is logged rather than escalated.
		if err := setTimerFn(readTimeFn() + timerInterval); err != nil {
			kfmt.Printf("irq: failed to re-arm timer: %s\n", err.Error())
		}
		return
	}

	unexpectedTrap(cause, frame)
}

// unexpectedTrap dumps the trap cause and register state to the kernel log
// and escalates to kernel.PanicAt with the decoded cause and the interrupted
// program counter. It never returns.
func unexpectedTrap(cause TrapCause, frame *Frame) {
	sepc := readSepcFn()

	w := kfmt.GetOutputSink()
	kfmt.Fprintf(w, "\nUnexpected trap: %s\n", cause.Name())
	kfmt.Fprintf(w, "scause = %16x\n", uint64(cause))
	kfmt.Fprintf(w, "sepc   = %16x\n", sepc)
	kfmt.Fprintf(w, "stval  = %16x\n", readStvalFn())
	if frame != nil {
		frame.DumpTo(w)
	}

	panicAtFn(cause.Name(), "sepc", int(sepc))
}
