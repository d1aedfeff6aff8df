package gui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const iconDisplaySize = 64

// DetailPanel shows the selected application: icon, name, version, summary
// and the Install/Remove button pair. Button state follows installed-set
// membership of the record's identifier.
type DetailPanel struct {
	container *fyne.Container

	icon         *canvas.Image
	nameLabel    *widget.Label
	versionLabel *widget.Label
	summaryLabel *widget.Label

	installButton *widget.Button
	removeButton  *widget.Button
}

func NewDetailPanel(onInstall, onUninstall func()) *DetailPanel {
	panel := &DetailPanel{}

	panel.icon = canvas.NewImageFromImage(nil)
	panel.icon.FillMode = canvas.ImageFillContain
	panel.icon.SetMinSize(fyne.NewSize(iconDisplaySize, iconDisplaySize))

	panel.nameLabel = widget.NewLabel("Select an app")
	panel.nameLabel.TextStyle = fyne.TextStyle{Bold: true}

	panel.versionLabel = widget.NewLabel("")

	panel.summaryLabel = widget.NewLabel("")
	panel.summaryLabel.Wrapping = fyne.TextWrapWord

	panel.installButton = widget.NewButton("Install", func() {
		if onInstall != nil {
			onInstall()
		}
	})
	panel.installButton.Importance = widget.HighImportance
	panel.installButton.Disable()

	panel.removeButton = widget.NewButton("Remove", func() {
		if onUninstall != nil {
			onUninstall()
		}
	})
	panel.removeButton.Disable()

	buttons := container.NewHBox(panel.installButton, panel.removeButton)

	panel.container = container.NewVBox(
		container.NewCenter(panel.icon),
		panel.nameLabel,
		panel.versionLabel,
		panel.summaryLabel,
		buttons,
	)

	return panel
}

func (dp *DetailPanel) GetContainer() *fyne.Container {
	return dp.container
}

// Show renders one application in the panel.
func (dp *DetailPanel) Show(view DetailView) {
	app := view.App

	dp.nameLabel.SetText(app.DisplayName())

	version := app.Version
	if version == "" {
		version = "Unknown"
	}
	dp.versionLabel.SetText(fmt.Sprintf("Version: %s", version))

	summary := app.Summary
	if summary == "" {
		summary = "No description available"
	}
	dp.summaryLabel.SetText(summary)

	dp.SetIcon(view.Icon)

	switch {
	case view.Busy:
		dp.installButton.SetText("Install")
		dp.installButton.Disable()
		dp.removeButton.Disable()
	case view.Installed:
		dp.installButton.SetText("Installed")
		dp.installButton.Disable()
		dp.removeButton.Enable()
	default:
		dp.installButton.SetText("Install")
		dp.installButton.Enable()
		dp.removeButton.Disable()
	}
}

// Clear resets the panel to its no-selection state.
func (dp *DetailPanel) Clear() {
	dp.nameLabel.SetText("Select an app")
	dp.versionLabel.SetText("")
	dp.summaryLabel.SetText("")
	dp.SetIcon(nil)

	dp.installButton.SetText("Install")
	dp.installButton.Disable()
	dp.removeButton.Disable()
}

// SetIcon replaces the icon image; nil clears it.
func (dp *DetailPanel) SetIcon(img image.Image) {
	dp.icon.Image = img
	dp.icon.Refresh()
}
