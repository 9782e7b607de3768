package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tfd/internal/dispatch"
	"tfd/internal/domain"
	"tfd/internal/mapping"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a Formatter writing to stdout
func NewFormatter() *Formatter {
	return &Formatter{out: os.Stdout}
}

// NewFormatterTo creates a Formatter writing to out
func NewFormatterTo(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintSummary prints one row per invocation followed by the totals
func (f *Formatter) PrintSummary(report *dispatch.Report) {
	fmt.Fprintln(f.out)
	color.New(color.FgCyan).Fprintf(f.out, "Run %s\n", report.RunID)

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"RUNNER", "TEST", "STATUS", "PASSED", "FAILED", "DURATION"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "RUNNER", AutoMerge: true},
		{Name: "TEST", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "PASSED", Align: text.AlignRight},
		{Name: "FAILED", Align: text.AlignRight},
		{Name: "DURATION", Align: text.AlignRight},
	})
	for _, res := range report.Results {
		passed, failed := res.CaseCounts()
		t.AppendRow(table.Row{res.Runner, res.Test, strings.ToUpper(string(res.Status)), passed, failed, formatDuration(res)})
	}
	passed, failed := report.CaseCounts()
	status := "PASSED"
	if len(report.Failed()) > 0 {
		status = "FAILED"
	}
	t.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d invocation(s)", len(report.Results)), status, passed, failed,
		fmt.Sprintf("%.2fs", report.Duration.Seconds())})
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintln(f.out)
	for _, token := range report.Unresolved {
		color.New(color.FgYellow).Fprintf(f.out, "! unresolved: %s\n", token)
	}
	if failedRuns := report.Failed(); len(failedRuns) > 0 {
		color.New(color.FgRed).Fprintf(f.out, "✗ %d invocation(s) failed\n", len(failedRuns))
		for _, res := range failedRuns {
			color.New(color.FgRed).Fprintf(f.out, "  |_ %s: %s\n", res.Test, res.Command)
		}
		return
	}
	color.New(color.FgGreen).Fprintln(f.out, "✓ All tests passed!")
}

func formatDuration(res domain.InvocationResult) string {
	if res.Duration == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fs", res.Duration.Seconds())
}

// PrintTestList prints resolved tests with their runner and build targets
func (f *Formatter) PrintTestList(infos []*domain.TestInfo, unresolved []string) {
	color.New(color.FgGreen).Fprintf(f.out, "Resolved %d test(s):\n", len(infos))

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"#", "TEST", "RUNNER", "BUILD TARGETS", "DETAILS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "DETAILS", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for i, ti := range infos {
		t.AppendRow(table.Row{i + 1, ti.TestName, ti.TestRunner, strings.Join(ti.SortedBuildTargets(), ", "), details(ti)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	for _, token := range unresolved {
		color.New(color.FgYellow).Fprintf(f.out, "! unresolved: %s\n", token)
	}
}

// details renders the data keys understood by the bundled runners
func details(ti *domain.TestInfo) string {
	var parts []string
	if filters := ti.Filters(); len(filters) > 0 {
		names := make([]string, 0, len(filters))
		for _, flt := range filters {
			names = append(names, strings.Join(flt.HarnessStrings(), ","))
		}
		parts = append(parts, "filter: "+strings.Join(names, ","))
	}
	if path, ok := ti.Data[domain.DataPath].(string); ok && path != "" {
		parts = append(parts, "path: "+path)
	}
	if opts, ok := ti.Data[domain.DataOptions].([]string); ok && len(opts) > 0 {
		parts = append(parts, "options: "+strings.Join(opts, ", "))
	}
	return strings.Join(parts, "; ")
}

// CheckRow is the outcome of one runner's host environment check
type CheckRow struct {
	Runner    string
	Err       error
	BuildReqs []string
}

// PrintCheck prints the host check outcome and build requirements of every runner
func (f *Formatter) PrintCheck(rows []CheckRow) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"RUNNER", "HOST CHECK", "BUILD REQS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "HOST CHECK", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	failed := 0
	for _, row := range rows {
		status := "OK"
		if row.Err != nil {
			status = row.Err.Error()
			failed++
		}
		t.AppendRow(table.Row{row.Runner, status, strings.Join(row.BuildReqs, ", ")})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	if failed > 0 {
		color.New(color.FgRed).Fprintf(f.out, "✗ %d runner(s) failed the host check\n", failed)
		return
	}
	color.New(color.FgGreen).Fprintln(f.out, "✓ Host environment ready")
}

// PrintMapping prints every group of a test-mapping document with its canonical details
func (f *Formatter) PrintMapping(doc *mapping.Document) {
	groups := doc.GroupNames()
	color.New(color.FgGreen).Fprintf(f.out, "%s: %d group(s)\n", doc.Source, len(groups))
	for i, name := range groups {
		details, _ := doc.Group(name)
		lastGroup := i == len(groups)-1
		if lastGroup {
			color.New(color.FgCyan).Fprintf(f.out, "└── %s\n", name)
		} else {
			color.New(color.FgCyan).Fprintf(f.out, "├── %s\n", name)
		}
		for j, d := range details {
			prefix := "│   "
			if lastGroup {
				prefix = "    "
			}
			if j == len(details)-1 {
				prefix += "└── "
			} else {
				prefix += "├── "
			}
			fmt.Fprintf(f.out, "%s%s\n", prefix, color.YellowString(d.String()))
		}
	}
	for _, imp := range doc.Imports {
		color.New(color.FgYellow).Fprintf(f.out, "! import not followed: %s\n", imp)
	}
}

// PrintBuildReqs prints the build requirements of a dispatch
func (f *Formatter) PrintBuildReqs(reqs []string) {
	if len(reqs) == 0 {
		return
	}
	color.New(color.FgCyan).Fprintln(f.out, "Build requirements:")
	for _, req := range reqs {
		fmt.Fprintf(f.out, "  - %s\n", req)
	}
}
