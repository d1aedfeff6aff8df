package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Categories shown in the browse panel. Only "All Apps" and "Installed Apps"
// change the query source; the catalog API has no category endpoint.
var Categories = []string{
	"All Apps", "Installed Apps", "Audio & Video", "Development", "Education",
	"Games", "Graphics & Photography", "Internet", "Office",
	"Science", "System", "Utilities",
}

// LayoutManager assembles the main window: header on top, browse panel and
// detail panel split in the middle, status bar at the bottom.
type LayoutManager struct {
	mainContainer *fyne.Container
	header        *Header
	appList       *AppList
	detailPanel   *DetailPanel
	statusBar     *StatusBar
}

func NewLayoutManager(callbacks Callbacks) *LayoutManager {
	header := NewHeader(callbacks.OnSearchChanged, callbacks.OnSearchSubmitted)
	appList := NewAppList(callbacks.OnAppSelected)
	detailPanel := NewDetailPanel(callbacks.OnInstall, callbacks.OnUninstall)
	statusBar := NewStatusBar()

	categoriesList := widget.NewList(
		func() int { return len(Categories) },
		func() fyne.CanvasObject { return widget.NewLabel("category") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(Categories[id])
		},
	)
	categoriesList.OnSelected = func(id widget.ListItemID) {
		if callbacks.OnCategorySelected != nil {
			callbacks.OnCategorySelected(Categories[id])
		}
	}

	leftPanel := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Browse Applications**"),
		container.NewVBox(
			widget.NewRichTextFromMarkdown("**Categories**"),
			categoriesList,
		),
		nil, nil,
		appList.GetContainer(),
	)

	updateButton := widget.NewButton("Update All", func() {
		if callbacks.OnUpdateAll != nil {
			callbacks.OnUpdateAll()
		}
	})
	refreshButton := widget.NewButton("Refresh", func() {
		if callbacks.OnRefresh != nil {
			callbacks.OnRefresh()
		}
	})
	advancedButton := widget.NewButton("Advanced...", func() {
		if callbacks.OnShowSettings != nil {
			callbacks.OnShowSettings()
		}
	})

	controls := container.NewHBox(updateButton, refreshButton, advancedButton)

	rightPanel := container.NewBorder(
		widget.NewRichTextFromMarkdown("**App Details**"),
		container.NewPadded(controls),
		nil, nil,
		detailPanel.GetContainer(),
	)

	split := container.NewHSplit(leftPanel, rightPanel)
	split.SetOffset(0.38)

	mainContainer := container.NewBorder(
		header.GetContainer(),
		statusBar.GetContainer(),
		nil, nil,
		split,
	)

	return &LayoutManager{
		mainContainer: mainContainer,
		header:        header,
		appList:       appList,
		detailPanel:   detailPanel,
		statusBar:     statusBar,
	}
}

func (lm *LayoutManager) GetMainContainer() *fyne.Container {
	return lm.mainContainer
}
