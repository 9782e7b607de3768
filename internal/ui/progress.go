package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"tfd/internal/domain"
)

// ProgressBar shows invocation progress and observes a dispatch
type ProgressBar struct {
	out    io.Writer
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

// NewProgressBar creates a progress bar writing to stderr. The bar itself is created
// when the dispatch starts and the number of tests is known.
func NewProgressBar() *ProgressBar {
	return &ProgressBar{out: os.Stderr}
}

// NewProgressBarTo is NewProgressBar writing to out
func NewProgressBarTo(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

// Started creates the bar for total invocations
func (p *ProgressBar) Started(total int) {
	p.passed, p.failed = 0, 0
	out := p.out
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Invoked updates the bar with one finished invocation
func (p *ProgressBar) Invoked(result domain.InvocationResult) {
	if result.Success() {
		p.passed++
	} else {
		p.failed++
	}
	if p.bar == nil {
		return
	}
	// Batching runners may issue more invocations than tests.
	if done := p.passed + p.failed; done > p.bar.GetMax() {
		p.bar.ChangeMax(done)
	}
	_ = p.bar.Set(p.passed + p.failed)
	p.bar.Describe(describe(p.passed, p.failed))
}

// Finished completes the bar
func (p *ProgressBar) Finished() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Counts returns the passed and failed invocations seen so far
func (p *ProgressBar) Counts() (passed, failed int) {
	return p.passed, p.failed
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}
