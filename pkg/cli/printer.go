package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/devicelab-dev/screenpull/pkg/core"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// noANSI is set from the --no-ansi global flag before commands run.
var noANSI = false

func printSetupStep(msg string) {
	fmt.Printf("  %s\n", msg)
}

func printSetupSuccess(msg string) {
	check := "✓"
	if shouldColorize(os.Stdout) {
		check = ansiGreen + check + ansiReset
	}
	fmt.Printf("  %s %s\n", check, msg)
}

// printSummary renders the merged pipeline outcome: a count table,
// then every recorded per-file failure. Per-file failures are
// informational here; they never fail the command.
func printSummary(w io.Writer, outputDir string, s core.Summary) {
	rows := [][]string{
		{"Extracted", strconv.Itoa(s.Extracted)},
	}
	if s.Organize != nil {
		rows = append(rows,
			[]string{"Runs", strconv.Itoa(s.Organize.Runs)},
			[]string{"Tests", strconv.Itoa(s.Organize.Tests)},
			[]string{"Organized", strconv.Itoa(s.Organize.Screenshots)},
		)
	}
	rows = append(rows, []string{"Errors", strconv.Itoa(s.TotalErrors())})
	if s.Cleaned {
		rows = append(rows, []string{"Remote cleaned", "yes"})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"Result", "Count"}, rows))
	fmt.Fprintf(w, "Output: %s\n", outputDir)

	errs := append([]string{}, s.Errors...)
	if s.Organize != nil {
		errs = append(errs, s.Organize.Errors...)
	}
	if len(errs) > 0 {
		warn := "!"
		if shouldColorize(w) {
			warn = ansiYellow + warn + ansiReset
		}
		fmt.Fprintf(w, "\n%s %d file(s) failed:\n", warn, len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: len(headers), Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	if noANSI {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
