package hclust

import "fmt"

// Diagnostics collects non-fatal observations made during a run, such as
// degenerate variables or CF-tree rebuilds. It is returned alongside each
// result rather than logged, so the caller decides how to surface it.
type Diagnostics struct {
	Warnings []string
	Notes    []string
}

// Warnf records a warning about the input or configuration.
func (d *Diagnostics) Warnf(format string, args ...any) {
	if d == nil {
		return
	}
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Notef records an informational note about the run.
func (d *Diagnostics) Notef(format string, args ...any) {
	if d == nil {
		return
	}
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// Merge appends the observations of other to d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Notes = append(d.Notes, other.Notes...)
}

// Empty reports whether nothing was recorded.
func (d *Diagnostics) Empty() bool {
	return d == nil || (len(d.Warnings) == 0 && len(d.Notes) == 0)
}
