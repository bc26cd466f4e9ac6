package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/envtree/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message suited to the error's code and returns err unchanged
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "Configuration not found. Create envtree.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "Invalid configuration: %v\n", err)
		fmt.Fprintf(h.Out, "Run 'envtree schema --config' to see the accepted fields.\n")

	case errors.ErrCodeSourceNotFound:
		if treeErr, ok := err.(*errors.TreeError); ok {
			fmt.Fprintf(h.Out, "Source document '%v' not found. Set source.path in envtree.yml.\n", treeErr.Details["path"])
		}

	case errors.ErrCodeSourceInvalid:
		fmt.Fprintf(h.Out, "Source document could not be loaded: %v\n", err)
		fmt.Fprintf(h.Out, "Run 'envtree validate' for details.\n")

	case errors.ErrCodeNotFound:
		if treeErr, ok := err.(*errors.TreeError); ok {
			fmt.Fprintf(h.Out, "Node '%v' does not exist in the tree\n", treeErr.Details["id"])
		}

	case errors.ErrCodeInvariantViolation:
		fmt.Fprintf(h.Out, "Tree invariant violated: %v\n", err)

	default:
		fmt.Fprintf(h.Out, "Error: %v\n", err)
	}

	if h.Verbose {
		if treeErr, ok := err.(*errors.TreeError); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", treeErr.ToJSON())
		}
	}
	return err
}
