package sbi

// legacyCall traps into the firmware using the legacy calling convention:
// extension ID in a7, a single argument in a0 and the result returned in a0.
func legacyCall(eid, arg0 uintptr) uintptr

// RawPutChar emits a single byte to the firmware console using one ecall. It
// bypasses all driver state, ignores the firmware result and performs no
// branching; it is safe to use at any point after reset.
func RawPutChar(ch byte)
