package ui

import (
	"fmt"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"tfd/internal/dispatch"
	"tfd/internal/domain"
)

// maxOutputLines bounds the captured output shown for one invocation
const maxOutputLines = 200

// InvocationViewer lists the invocations of a dispatch in a TUI; failures first
type InvocationViewer struct {
	failedOnly bool
}

// NewInvocationViewer creates an InvocationViewer. With failedOnly set, passed
// invocations are left out.
func NewInvocationViewer(failedOnly bool) *InvocationViewer {
	return &InvocationViewer{failedOnly: failedOnly}
}

// entries orders the results to show: failed invocations, then passed ones
func (v *InvocationViewer) entries(report *dispatch.Report) []domain.InvocationResult {
	entries := report.Failed()
	if !v.failedOnly {
		entries = append(entries, report.Passed()...)
	}
	return entries
}

// View runs the TUI until the user quits
func (v *InvocationViewer) View(report *dispatch.Report) error {
	entries := v.entries(report)
	if len(entries) == 0 {
		color.Green("✓ No failed invocations to inspect!")
		return nil
	}

	// Reviewed marks live for the lifetime of the viewer only
	reviewed := make(map[int]bool)

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(index int) string {
		res := entries[index]
		mark := "[red]✗"
		if res.Success() {
			mark = "[green]✓"
		}
		if reviewed[index] {
			return fmt.Sprintf("[gray]• %s [yellow]%d.[gray] %s[white]", mark, index+1, res.Test)
		}
		return fmt.Sprintf("%s [yellow]%d.[white] %s", mark, index+1, res.Test)
	}

	for i := range entries {
		list.AddItem(itemText(i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	outputView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 4, 0, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(outputView, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(
			" Run %s: %d invocation(s), %d failed | ↑↓ navigate, [yellow]R[white] mark reviewed, → output, ← back, Ctrl+C exit ",
			report.RunID, len(report.Results), len(report.Failed())))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(entries) {
			return
		}
		statsView.SetText(formatInvocationStats(entries[index]))
		outputView.SetText(formatInvocationOutput(entries[index]))
		outputView.ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(outputView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(entries) {
					reviewed[index] = !reviewed[index]
					list.SetItemText(index, itemText(index), "")
				}
				return nil
			}
		}
		return event
	})

	outputView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return errors.Wrap(err, "failed to run TUI")
	}
	return nil
}

// formatInvocationStats renders the header of one invocation using tview color tags
func formatInvocationStats(res domain.InvocationResult) string {
	var b strings.Builder
	statusColor := "red"
	if res.Success() {
		statusColor = "green"
	}
	fmt.Fprintf(&b, "[cyan]runner:[white] [yellow]%s[white]  [cyan]test:[white] [yellow]%s[white]\n",
		tview.Escape(res.Runner), tview.Escape(res.Test))
	fmt.Fprintf(&b, "[cyan]status:[white] [%s]%s[white]  [cyan]exit:[white] %d  [cyan]duration:[white] %s\n",
		statusColor, res.Status, res.ExitCode, res.Duration)
	fmt.Fprintf(&b, "[cyan]command:[white] %s\n", tview.Escape(res.Command))
	return b.String()
}

// formatInvocationOutput renders captured output, keeping the last maxOutputLines lines
func formatInvocationOutput(res domain.InvocationResult) string {
	var b strings.Builder
	if res.Err != nil {
		fmt.Fprintf(&b, "[red]%s[white]\n\n", tview.Escape(res.Err.Error()))
	}
	output := strings.TrimRight(stripansi.Strip(res.Output()), "\n")
	if output == "" {
		b.WriteString("[gray](no output)[white]")
		return b.String()
	}
	lines := strings.Split(output, "\n")
	if len(lines) > maxOutputLines {
		fmt.Fprintf(&b, "[gray]... %d earlier line(s) omitted[white]\n", len(lines)-maxOutputLines)
		lines = lines[len(lines)-maxOutputLines:]
	}
	b.WriteString(tview.Escape(strings.Join(lines, "\n")))
	return b.String()
}
