package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/dylink/dylink/internal/types"
)

type PrintOptions struct {
	NoColor bool
}

// PrintTable renders one linkage report as a bordered table with a row per
// provenance bucket. The binary name and target prefix the table when both
// are known (reports loaded from older JSON may lack them).
func PrintTable(w io.Writer, ln types.Linkage, opts PrintOptions) {
	if ln.Binary != "" && ln.Target != "" {
		head := fmt.Sprintf("%s (%s):", ln.Binary, ln.Target)
		if !opts.NoColor {
			head = "\x1b[1m" + head + "\x1b[0m" // bold
		}
		fmt.Fprintf(w, "%s\n\n", head)
	}

	table := tablewriter.NewTable(w)
	table.Header([]string{"Category", "Libraries"})
	_ = table.Append([]string{"System", displayCell(ln.System)})
	_ = table.Append([]string{"Homebrew", displayCell(ln.Homebrew)})
	_ = table.Append([]string{"Public (unmanaged)", pathCell(ln.PublicUnmanaged)})
	_ = table.Append([]string{"Frameworks", pathCell(ln.Frameworks)})
	_ = table.Append([]string{"Other", displayCell(ln.Other)})
	_ = table.Render()
}

// PrintAll renders every report, blank-line separated.
func PrintAll(w io.Writer, reports []types.Linkage, opts PrintOptions) {
	for i, ln := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		PrintTable(w, ln, opts)
	}
}

// displayCell joins a bucket's "path (source)" display forms.
func displayCell(bucket []types.Library) string {
	out := ""
	for i, lib := range bucket {
		if i > 0 {
			out += "\n"
		}
		out += lib.Display()
	}
	return out
}

// pathCell joins bare paths; the path is the whole identity for unmanaged
// and framework libraries.
func pathCell(bucket []types.Library) string {
	out := ""
	for i, lib := range bucket {
		if i > 0 {
			out += "\n"
		}
		out += lib.Path
	}
	return out
}
