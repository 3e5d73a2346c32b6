package cli

import (
	"fmt"

	"github.com/rodaine/table"
)

// newTable creates a table on stdout whose column widths ignore ANSI escapes.
func newTable(headers ...interface{}) table.Table {
	tbl := table.New(headers...).WithWriter(stdout).WithWidthFunc(visibleWidth)
	if colorEnabled {
		tbl.WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return paint(styleHeader, fmt.Sprintf(format, vals...))
		})
	}
	return tbl
}

// statusCell styles a status word.
func statusCell(status string) string {
	switch status {
	case "pass", "ok", "created", "removed", "applied", "present":
		return paint(styleSuccess, status)
	case "warn", "warning", "overwritten", "missing":
		return paint(styleWarning, status)
	case "fail", "failed":
		return paint(styleError, status)
	default:
		return paint(styleDim, status)
	}
}
