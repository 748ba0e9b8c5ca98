package lib

import (
	"fmt"
	"os"
)

// ExitCode prints the error and exits with a caller-chosen code, for
// commands that distinguish failure phases (e.g. generation vs. DSL error
// vs. I/O error) in their exit status.
func ExitCode(code int, err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(code)
}
