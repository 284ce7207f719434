package cpu

// EnableInterrupts sets the SIE bit in sstatus enabling supervisor interrupt
// handling on the current hart.
func EnableInterrupts()

// DisableInterrupts clears the SIE bit in sstatus disabling supervisor
// interrupt handling on the current hart.
func DisableInterrupts()

// Halt disables interrupts on the current hart and enters an endless
// low-power wait. Halt never returns; it performs no memory access and no
// call once entered so it cannot fault.
func Halt()

// Wait executes a single wfi instruction, parking the hart until the next
// interrupt becomes pending.
func Wait()

// SetTrapVector installs the supplied address into stvec in direct mode. The
// address must be 4-byte aligned.
func SetTrapVector(vecAddr uintptr)

// ReadScause returns the trap cause register for the current hart. The top
// bit indicates an interrupt; the low bits encode the exception or interrupt
// code.
func ReadScause() uint64

// ReadSepc returns the program counter value saved when the current hart
// last entered a trap.
func ReadSepc() uint64

// ReadStval returns the trap value register (faulting address or offending
// instruction bits, depending on the trap cause).
func ReadStval() uint64

// WriteSepc updates the program counter that the hart resumes at when it
// returns from the current trap.
func WriteSepc(pc uint64)

// ReadTime returns the current value of the free-running mtime counter.
func ReadTime() uint64
