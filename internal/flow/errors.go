package flow

import (
	"errors"
	"fmt"
)

// ErrMissingColumn matches every ColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// ColumnError indicates a column named in a build call is absent from the
// input table. It is a caller configuration error.
type ColumnError struct {
	Column string
	Role   string // source|target|value
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found", e.Role, e.Column)
}

func (e *ColumnError) Is(target error) bool { return target == ErrMissingColumn }

// WeightError indicates a value-column cell that is not numeric.
type WeightError struct {
	Row   int
	Value any
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("row %d: non-numeric weight %v", e.Row, e.Value)
}

// LinkError indicates a link endpoint outside the node range.
type LinkError struct {
	Link  int
	Code  int
	Nodes int
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %d: code %d out of range [0,%d)", e.Link, e.Code, e.Nodes)
}
