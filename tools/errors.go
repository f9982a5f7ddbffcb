package tools

import (
	"errors"
	"fmt"
)

// Tool errors. The first two are reported to the model verbatim, so their
// text is part of the tool contract.
var (
	ErrInvalidInput = errors.New("Invalid input")
	ErrInvalidDate  = errors.New("Invalid date format")
	ErrUnknownTool  = errors.New("tools: unknown tool")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func missingParam(name string) error {
	return invalidInput("Missing '%s' parameter", name)
}
