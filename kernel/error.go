package kernel

// Error describes a kernel error. All kernel errors must be defined as global
// variables that are pointers to the Error structure. This requirement stems
// from the fact that the Go allocator is not available to us so we cannot use
// errors.New.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string

	// The source location where the error was raised. A zero File indicates
	// that no location information is available.
	File string
	Line int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// HasLocation returns true if the error carries source location information.
func (e *Error) HasLocation() bool {
	return e.File != ""
}
