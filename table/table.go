// Package table provides the table presets used for terminal output.
package table

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
)

// New creates a new table writing to standard output.
func New() *tablewriter.Table {
	return NewWriter(os.Stdout)
}

// NewWriter creates a new table writing to w.
func NewWriter(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}
