package kernel

import (
	"sync/atomic"

	"github.com/tews-code/beyond-os1k/kernel/cpu"
	"github.com/tews-code/beyond-os1k/kernel/hal"
	"github.com/tews-code/beyond-os1k/kernel/kfmt"
	"github.com/tews-code/beyond-os1k/kernel/sbi"
)

// fallbackByte is emitted by the degraded diagnostic path when no cause text
// is available.
const fallbackByte = '!'

var (
	// faultCount tracks how many times this kernel has entered Panic. It
	// must only ever be mutated through one atomic fetch-and-add per
	// invocation; the previous value observed by that increment selects
	// the diagnostic tier for the invocation. The counter is never reset
	// and is shared by every hart and interrupt context.
	faultCount uint32

	// recordedCause holds a private copy of the first fault's cause, taken
	// by the tier-0 path before it touches the formatter. The copy shares
	// no storage with the caller's payload, so a fault raised mid-render
	// cannot rewrite it and mask the original cause. causeRecorded orders
	// the copy against readers on other harts.
	recordedCause Error
	causeRecorded uint32

	// The following indirections are mocked by tests and are automatically
	// inlined by the compiler.
	cpuHaltFn           = cpu.Halt
	consoleWriteByteFn  = consoleWriteByte
	rawConsolePutCharFn = sbi.RawPutChar
)

// Panic reports an unrecoverable error and halts the current hart. Calls to
// Panic never return. Panic also works as a redirection target for calls to
// panic() (resolved via runtime.gopanic).
//
// Every entry performs exactly one atomic increment of the kernel-wide fault
// counter and dispatches on the value the counter held before the increment:
//
//	0  - full formatted diagnostic rendered via kfmt.
//	1  - the formatted path faulted while rendering; the cause text is
//	     pushed to the console one byte at a time with no formatting and
//	     every console error discarded.
//	2+ - no software output path can be trusted; a fixed glyph is emitted
//	     through raw firmware calls that need no kernel state at all.
//
// Each step down the ladder uses strictly fewer kernel facilities than the
// one above it and never calls back into them, so at most two re-entries can
// occur before reaching a tier with no fallible operation left.
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	cause, haveCause := causeError(e)
	handleFault(cause, haveCause)
}

// PanicAt reports an unrecoverable error raised at a known location and halts
// the current hart. Callers that decode their own fault state, such as the
// trap dispatcher, use it to attach the faulting location to the cause. It
// never returns.
func PanicAt(msg, file string, line int) {
	handleFault(Error{Module: "rt", Message: msg, File: file, Line: line}, true)
}

// panicString serves as a redirect target for runtime.throw
//
//go:redirect-from runtime.throw
func panicString(msg string) {
	handleFault(Error{Module: "rt", Message: msg}, true)
}

// handleFault performs the single counter increment for a fault and runs the
// diagnostic tier selected by the previous counter value. It never returns.
func handleFault(cause Error, haveCause bool) {
	prev := atomic.AddUint32(&faultCount, 1) - 1

	switch {
	case prev == 0:
		fullDiagnostic(cause, haveCause)
	case prev == 1:
		degradedDiagnostic(cause, haveCause)
	default:
		rawGlyph()
	}

	cpuHaltFn()
}

// causeError normalizes the value passed to Panic into a private Error value.
// The second return is false when the fault carries no cause information.
func causeError(e interface{}) (Error, bool) {
	switch t := e.(type) {
	case *Error:
		if t == nil {
			return Error{}, false
		}
		return *t, true
	case string:
		return Error{Module: "rt", Message: t}, true
	case error:
		return Error{Module: "rt", Message: t.Error()}, true
	}

	return Error{}, false
}

// fullDiagnostic renders the complete panic banner through the formatted
// output path. The formatter may buffer and may itself fault; if it does, the
// re-entered Panic escalates past it and replays the cause recorded here.
func fullDiagnostic(cause Error, haveCause bool) {
	if haveCause {
		recordedCause = cause
	}
	atomic.StoreUint32(&causeRecorded, 1)

	kfmt.Printf("\n-----------------------------------\n")
	if haveCause {
		kfmt.Printf("[%s] unrecoverable error: %s\n", cause.Module, cause.Message)
		if cause.HasLocation() {
			kfmt.Printf("  at %s:%d\n", cause.File, cause.Line)
		}
	}
	kfmt.Printf("*** kernel panic: system halted ***")
	kfmt.Printf("\n-----------------------------------\n")
}

// degradedDiagnostic bypasses the formatter and pushes the cause text of the
// first recorded fault to the console one byte at a time. Console errors are
// deliberately discarded: this path must not be able to trigger another
// escalation through its own error reporting.
func degradedDiagnostic(cause Error, haveCause bool) {
	// Prefer the cause recorded by the tier above so that the fault that
	// broke the formatter does not mask the original one. Without a record
	// this invocation lost the tier-0 race to another hart and its own
	// payload is the best cause available.
	if atomic.LoadUint32(&causeRecorded) != 0 {
		cause, haveCause = recordedCause, true
	}

	if !haveCause || len(cause.Message) == 0 {
		consoleWriteByteFn(fallbackByte)
		return
	}

	for i := 0; i < len(cause.Message); i++ {
		consoleWriteByteFn(cause.Message[i])
	}
}

// rawGlyph emits a fixed warning glyph (U+26A0 followed by a newline) using
// one raw firmware call per literal byte. It performs no data-dependent
// branching and reads no kernel state, so it cannot fault.
func rawGlyph() {
	rawConsolePutCharFn('\n')
	rawConsolePutCharFn(0xe2)
	rawConsolePutCharFn(0x9a)
	rawConsolePutCharFn(0xa0)
	rawConsolePutCharFn('\n')
}

func consoleWriteByte(b byte) error {
	return hal.ActiveTerminal().WriteByte(b)
}
