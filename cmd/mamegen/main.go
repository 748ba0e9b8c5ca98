package main

import (
	"errors"

	"github.com/mitumame/mamegen/internal/genrow"
	"github.com/mitumame/mamegen/pkg/lib"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			lib.ExitCode(ce.code, ce.err)
			return
		}
		if errors.Is(err, genrow.ErrGeneration) {
			lib.ExitCode(exitGeneration, err)
			return
		}
		lib.ExitCode(exitIOError, err)
	}
}

// cliError pins a command failure to one of the phase exit codes. Errors
// without one exit with exitGeneration when they wrap genrow.ErrGeneration
// and with exitIOError otherwise.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func dslError(err error) error { return &cliError{code: exitDSLError, err: err} }
func ioError(err error) error  { return &cliError{code: exitIOError, err: err} }
