package kfmt

import (
	"bytes"
	"testing"
)

func TestFprintf(t *testing.T) {
	// mute vet warnings about malformed printf formatting strings
	fprintfn := Fprintf

	specs := []struct {
		descr     string
		fn        func(*bytes.Buffer)
		expOutput string
	}{
		{
			"no args",
			func(buf *bytes.Buffer) { fprintfn(buf, "no args") },
			"no args",
		},
		// bool values
		{
			"bool true",
			func(buf *bytes.Buffer) { fprintfn(buf, "%t", true) },
			"true",
		},
		{
			"bool false",
			func(buf *bytes.Buffer) { fprintfn(buf, "%t", false) },
			"false",
		},
		// strings and byte slices
		{
			"string arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%s arg", "STRING") },
			"STRING arg",
		},
		{
			"byte slice arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%s arg", []byte("BYTE SLICE")) },
			"BYTE SLICE arg",
		},
		{
			"string arg with padding",
			func(buf *bytes.Buffer) { fprintfn(buf, "'%4s'", "ABC") },
			"' ABC'",
		},
		{
			"string arg longer than padding",
			func(buf *bytes.Buffer) { fprintfn(buf, "'%4s'", "ABCDE") },
			"'ABCDE'",
		},
		// integer types
		{
			"signed int arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%d", -42) },
			"-42",
		},
		{
			"int64 arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%d", int64(-1234567890)) },
			"-1234567890",
		},
		{
			"uint64 arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%d", uint64(18446744073709551615)) },
			"18446744073709551615",
		},
		{
			"uint8 arg base 16",
			func(buf *bytes.Buffer) { fprintfn(buf, "%x", uint8(0xbe)) },
			"be",
		},
		{
			"uintptr arg base 16 with padding",
			func(buf *bytes.Buffer) { fprintfn(buf, "0x%8x", uintptr(0xdead)) },
			"0x0000dead",
		},
		{
			"uint16 arg base 8",
			func(buf *bytes.Buffer) { fprintfn(buf, "%o", uint16(0777)) },
			"777",
		},
		{
			"base 10 with space padding",
			func(buf *bytes.Buffer) { fprintfn(buf, "'%4d'", 7) },
			"'   7'",
		},
		// escaped percent
		{
			"escaped percent",
			func(buf *bytes.Buffer) { fprintfn(buf, "100%%") },
			"100%",
		},
		// error handling
		{
			"missing arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "%d") },
			"(MISSING)",
		},
		{
			"extra arg",
			func(buf *bytes.Buffer) { fprintfn(buf, "nothing", 1) },
			"nothing%!(EXTRA)",
		},
		{
			"wrong arg type",
			func(buf *bytes.Buffer) { fprintfn(buf, "%d", "not a number") },
			"%!(WRONGTYPE)",
		},
		{
			"unknown verb",
			func(buf *bytes.Buffer) { fprintfn(buf, "%v", 1) },
			"%!(NOVERB)",
		},
		{
			"format string ending in percent",
			func(buf *bytes.Buffer) { fprintfn(buf, "trailing %") },
			"trailing %!(NOVERB)",
		},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			var buf bytes.Buffer
			spec.fn(&buf)

			if got := buf.String(); got != spec.expOutput {
				t.Fatalf("expected output %q; got %q", spec.expOutput, got)
			}
		})
	}
}

func TestPrintfWithoutSink(t *testing.T) {
	defer func() {
		SetOutputSink(nil)
		earlyBuf.rIndex = 0
		earlyBuf.wIndex = 0
	}()

	SetOutputSink(nil)
	Printf("buffered %s output", "early")

	// Attaching a sink must drain the early buffer into it.
	var buf bytes.Buffer
	SetOutputSink(&buf)

	if got, exp := buf.String(), "buffered early output"; got != exp {
		t.Fatalf("expected sink to receive buffered output %q; got %q", exp, got)
	}

	if GetOutputSink() != &buf {
		t.Fatal("expected GetOutputSink to return the attached sink")
	}
}
