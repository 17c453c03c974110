package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	treeerrors "github.com/matzehuels/treeviz/pkg/errors"
)

// Exit codes returned by the treeviz binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2 // bad tree, layout, format or settings
	ExitGPU         = 3 // no OpenGL context or shader failure
	ExitInterrupted = 130
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case treeerrors.IsGPU(err):
		return ExitGPU
	case strings.HasPrefix(string(treeerrors.GetCode(err)), "INVALID_"):
		return ExitUsage
	}
	return ExitFailure
}

// PrintError writes err for a human, without the machine-readable code.
// Interruptions print nothing.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+treeerrors.UserMessage(err))
}
