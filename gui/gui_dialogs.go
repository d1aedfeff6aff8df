package gui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"flathaven/catalog"
	"flathaven/internal/config"
)

// DialogKind tags the dialog variants. All variants deliver their outcome
// through the same DialogResult contract.
type DialogKind int

const (
	// DialogConfirm asks a yes/no question.
	DialogConfirm DialogKind = iota
	// DialogErrorRetry shows a failure with its detail and offers a retry.
	DialogErrorRetry
	// DialogBatch collects application identifiers, one per line.
	DialogBatch
	// DialogSettings shows remotes and edits the persisted settings.
	DialogSettings
)

// DialogRequest describes one dialog to show.
type DialogRequest struct {
	Kind    DialogKind
	Title   string
	Message string
	Detail  string

	Remotes  []catalog.Remote
	Settings config.Settings
}

// DialogResult is the single result contract for every dialog variant.
type DialogResult struct {
	Accepted bool
	IDs      []string
	Settings config.Settings
}

// ShowDialog displays the requested dialog and calls onResult exactly once
// when it is dismissed.
func ShowDialog(window fyne.Window, req DialogRequest, onResult func(DialogResult)) {
	switch req.Kind {
	case DialogErrorRetry:
		showErrorRetry(window, req, onResult)
	case DialogBatch:
		showBatch(window, req, onResult)
	case DialogSettings:
		showSettings(window, req, onResult)
	default:
		dialog.ShowConfirm(req.Title, req.Message, func(accepted bool) {
			onResult(DialogResult{Accepted: accepted})
		}, window)
	}
}

func showErrorRetry(window fyne.Window, req DialogRequest, onResult func(DialogResult)) {
	message := widget.NewLabel(req.Message)
	message.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(message)
	if req.Detail != "" {
		detail := widget.NewLabel(req.Detail)
		detail.Wrapping = fyne.TextWrapWord
		detail.TextStyle = fyne.TextStyle{Italic: true}
		content.Add(detail)
	}

	dialog.ShowCustomConfirm(req.Title, "Retry", "Dismiss", content, func(accepted bool) {
		onResult(DialogResult{Accepted: accepted})
	}, window)
}

func showBatch(window fyne.Window, req DialogRequest, onResult func(DialogResult)) {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("com.example.App1\ncom.example.App2")
	entry.SetMinRowsVisible(8)

	content := container.NewVBox(
		widget.NewLabel("Enter Flatpak app IDs (one per line):"),
		entry,
	)

	dialog.ShowCustomConfirm(req.Title, "Install", "Cancel", content, func(accepted bool) {
		if !accepted {
			onResult(DialogResult{})
			return
		}
		onResult(DialogResult{Accepted: true, IDs: splitIDs(entry.Text)})
	}, window)
}

func showSettings(window fyne.Window, req DialogRequest, onResult func(DialogResult)) {
	remotesList := widget.NewList(
		func() int { return len(req.Remotes) },
		func() fyne.CanvasObject { return widget.NewLabel("remote") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			remote := req.Remotes[id]
			state := "enabled"
			if !remote.Enabled {
				state = "disabled"
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  %s  (%s)", remote.Name, remote.URL, state))
		},
	)

	urlEntry := widget.NewEntry()
	urlEntry.SetText(req.Settings.CatalogURL)

	remoteEntry := widget.NewEntry()
	remoteEntry.SetText(req.Settings.Remote)

	debounceEntry := widget.NewEntry()
	debounceEntry.SetText(strconv.Itoa(req.Settings.DebounceMillis))

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(strconv.Itoa(req.Settings.UpdateCheckMins))

	form := widget.NewForm(
		widget.NewFormItem("Catalog URL", urlEntry),
		widget.NewFormItem("Install remote", remoteEntry),
		widget.NewFormItem("Search delay (ms)", debounceEntry),
		widget.NewFormItem("Update check (min)", intervalEntry),
	)

	content := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Flatpak Remotes**"),
		remotesList,
		widget.NewSeparator(),
		form,
	)

	dialog.ShowCustomConfirm(req.Title, "Save", "Cancel", content, func(accepted bool) {
		if !accepted {
			onResult(DialogResult{})
			return
		}

		settings := req.Settings
		settings.CatalogURL = strings.TrimSpace(urlEntry.Text)
		settings.Remote = strings.TrimSpace(remoteEntry.Text)
		if value, err := strconv.Atoi(strings.TrimSpace(debounceEntry.Text)); err == nil && value > 0 {
			settings.DebounceMillis = value
		}
		if value, err := strconv.Atoi(strings.TrimSpace(intervalEntry.Text)); err == nil && value > 0 {
			settings.UpdateCheckMins = value
		}

		onResult(DialogResult{Accepted: true, Settings: settings})
	}, window)
}

// splitIDs parses the batch-dialog text area: one identifier per line,
// blank lines dropped.
func splitIDs(text string) []string {
	lines := strings.Split(text, "\n")
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
