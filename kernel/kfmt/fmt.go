package kfmt

import "io"

// numBufSize is large enough to render a 64-bit value in base 8 plus a sign.
const numBufSize = 24

const digits = "0123456789abcdef"

var (
	missingArg = []byte("(MISSING)")
	wrongType  = []byte("%!(WRONGTYPE)")
	badVerb    = []byte("%!(NOVERB)")
	extraArg   = []byte("%!(EXTRA)")
	trueValue  = []byte("true")
	falseValue = []byte("false")

	// numBuf is a shared scratch buffer for rendering integers. Sharing a
	// package-level buffer keeps fmtInt allocation-free.
	numBuf [numBufSize]byte

	// byteBuf carries single characters to the output sink. Characters must
	// be emitted through it one at a time as slicing the format string would
	// trigger a memory allocation.
	byteBuf = []byte{0}

	// earlyBuf captures Printf output generated before an output sink is
	// attached by the hal package.
	earlyBuf ringBuffer

	// outputSink is the io.Writer where Printf sends its output. While nil,
	// output is redirected to earlyBuf.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w and drains any
// output accumulated in the early boot buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuf)
	}
}

// GetOutputSink returns the current target for calls to Printf.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf provides a minimal printf implementation that can be safely used
// even when the Go runtime has not been fully initialized. It performs no
// memory allocation.
//
// The supported subset of formatting verbs is:
//
// Strings:
//
//	%s the uninterpreted bytes of the string or byte slice
//
// Integers:
//
//	%o base 8
//	%d base 10
//	%x base 16, with lower-case letters for a-f
//
// Booleans:
//
//	%t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the
// verb. String and base-10 values shorter than the width are left-padded with
// spaces; base-8 and base-16 values are left-padded with zeroes.
//
// Pointer verbs are intentionally unsupported: printing pointers drags in the
// reflect package whose type assembly calls runtime.newobject, which cannot
// be assumed to work at the points where Printf must keep working.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	nextArgIndex := 0

	for i := 0; i < len(format); {
		if format[i] != '%' {
			emitByte(w, format[i])
			i++
			continue
		}

		// Parse the optional width between the '%' and its verb.
		width := 0
		i++
		for ; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = (width * 10) + int(format[i]-'0')
		}

		if i == len(format) {
			emit(w, badVerb)
			break
		}

		verb := format[i]
		i++

		if verb == '%' {
			emitByte(w, '%')
			continue
		}

		if nextArgIndex >= len(args) {
			emit(w, missingArg)
			continue
		}

		arg := args[nextArgIndex]
		nextArgIndex++

		switch verb {
		case 'o':
			fmtInt(w, arg, 8, width)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 's':
			fmtString(w, arg, width)
		case 't':
			fmtBool(w, arg)
		default:
			emit(w, badVerb)
		}
	}

	// Flag any unused args
	for ; nextArgIndex < len(args); nextArgIndex++ {
		emit(w, extraArg)
	}
}

// fmtBool emits a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	switch bVal := v.(type) {
	case bool:
		if bVal {
			emit(w, trueValue)
		} else {
			emit(w, falseValue)
		}
	default:
		emit(w, wrongType)
	}
}

// fmtString emits a formatted version of string or []byte value v, applying
// the requested padding.
func fmtString(w io.Writer, v interface{}, width int) {
	switch sVal := v.(type) {
	case string:
		for pad := width - len(sVal); pad > 0; pad-- {
			emitByte(w, ' ')
		}

		// emit the string contents one byte at a time; converting the
		// string to a byte slice triggers a memory allocation.
		for i := 0; i < len(sVal); i++ {
			emitByte(w, sVal[i])
		}
	case []byte:
		for pad := width - len(sVal); pad > 0; pad-- {
			emitByte(w, ' ')
		}
		emit(w, sVal)
	default:
		emit(w, wrongType)
	}
}

// fmtInt emits a formatted version of v in the requested base, applying the
// requested padding. All built-in signed and unsigned integer types are
// supported.
func fmtInt(w io.Writer, v interface{}, base, width int) {
	var (
		uVal uint64
		neg  bool
	)

	switch iVal := v.(type) {
	case uint8:
		uVal = uint64(iVal)
	case uint16:
		uVal = uint64(iVal)
	case uint32:
		uVal = uint64(iVal)
	case uint64:
		uVal = iVal
	case uint:
		uVal = uint64(iVal)
	case uintptr:
		uVal = uint64(iVal)
	case int8:
		neg, uVal = iVal < 0, uint64(int64(iVal))
	case int16:
		neg, uVal = iVal < 0, uint64(int64(iVal))
	case int32:
		neg, uVal = iVal < 0, uint64(int64(iVal))
	case int64:
		neg, uVal = iVal < 0, uint64(iVal)
	case int:
		neg, uVal = iVal < 0, uint64(int64(iVal))
	default:
		emit(w, wrongType)
		return
	}

	// Negative values are rendered from their two's complement.
	if neg {
		uVal = ^uVal + 1
	}

	pos := len(numBuf)
	for {
		pos--
		numBuf[pos] = digits[uVal%uint64(base)]
		if uVal /= uint64(base); uVal == 0 {
			break
		}
	}

	if neg {
		pos--
		numBuf[pos] = '-'
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}

	for pad := width - (len(numBuf) - pos); pad > 0; pad-- {
		emitByte(w, padCh)
	}

	emit(w, numBuf[pos:])
}

// emitByte writes a single byte to w via the shared single-byte buffer.
func emitByte(w io.Writer, b byte) {
	byteBuf[0] = b
	emit(w, byteBuf)
}

// emit writes p to w, redirecting to the early boot buffer while no sink is
// attached.
func emit(w io.Writer, p []byte) {
	if w == nil {
		earlyBuf.Write(p)
		return
	}

	w.Write(p)
}
