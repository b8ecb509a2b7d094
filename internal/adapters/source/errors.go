package source

import (
	"errors"
	"fmt"
)

// Sentinel kinds for record-source errors. These allow errors.Is from
// callers to distinguish boundary conditions.
var (
	// ErrMalformedRecord marks a row whose timestamp or score could not
	// be parsed. Such rows are dropped and counted, never fatal on their
	// own.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingNamesList signals that the selected-names side file is
	// absent. Callers proceed with an empty selection but surface this
	// distinctly from "list present but no matches".
	ErrMissingNamesList = errors.New("selected-names list missing")

	// ErrNoRecords signals that a load produced zero usable observations.
	ErrNoRecords = errors.New("no usable records")
)

// wrap annotates err with the failing operation.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
