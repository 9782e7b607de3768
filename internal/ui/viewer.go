package ui

import "tfd/internal/dispatch"

// Viewer displays the invocations of a dispatch interactively
type Viewer interface {
	View(report *dispatch.Report) error
}
