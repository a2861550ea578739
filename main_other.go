//go:build !linux

package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	fmt.Fprintf(os.Stderr, "%s needs Linux evdev and uinput, not available on %s\n", name, runtime.GOOS)
	os.Exit(1)
}
