package tables

import "fmt"

// FieldTooLongError reports a text field that exceeds its fixed byte
// budget at encode time. It is raised before any bytes are written so a
// long value can never be silently truncated into the archive.
type FieldTooLongError struct {
	Field  string
	Length int
	Budget int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("field %s is %d bytes, budget is %d", e.Field, e.Length, e.Budget)
}
