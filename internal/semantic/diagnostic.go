package semantic

import (
	"fmt"
)

// Severity separates fatal findings from advisory ones.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Diagnostic is a single finding of the checker.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
}

// Error renders the diagnostic as "Error: <message>: line L" or
// "Warning: <message>: line L".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: line %d", d.Severity, d.Message, d.Line)
}

// IsWarning reports whether the diagnostic is advisory.
func (d *Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// HasErrors reports whether any diagnostic is an error. Warnings are
// ignored.
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}
