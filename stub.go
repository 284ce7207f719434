package main

import "github.com/tews-code/beyond-os1k/kernel/kmain"

// main makes a dummy call to the actual kernel entrypoint function. It is
// intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code.
//
// The rt0 assembly code invokes kmain.Kmain directly after setting up a
// minimal g0 struct for the boot hart; main itself is never executed.
func main() {
	kmain.Kmain()
}
