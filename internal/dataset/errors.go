package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFiles is returned when no input file matches the configured patterns.
var ErrNoFiles = errors.New("no input files matched")

// SchemaError indicates an input file lacks required columns.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}
