package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows transient status text on the left and the installed/update
// counts plus activity indicator on the right.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	countsLabel *widget.Label
	progress    *widget.ProgressBarInfinite
}

func NewStatusBar() *StatusBar {
	statusBar := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		countsLabel: widget.NewLabel(""),
		progress:    widget.NewProgressBarInfinite(),
	}

	statusBar.progress.Hide()

	right := container.NewHBox(
		statusBar.countsLabel,
		statusBar.progress,
	)

	statusBar.container = container.NewBorder(
		widget.NewSeparator(), nil,
		statusBar.statusLabel,
		right,
	)

	return statusBar
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) SetCounts(installed, updates int) {
	text := fmt.Sprintf("%d apps installed", installed)
	if updates > 0 {
		text = fmt.Sprintf("%s | %d updates available", text, updates)
	}
	sb.countsLabel.SetText(text)
}

func (sb *StatusBar) ShowProgress(visible bool) {
	if visible {
		sb.progress.Show()
		sb.progress.Start()
		return
	}
	sb.progress.Stop()
	sb.progress.Hide()
}
