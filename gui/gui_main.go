// Package gui builds the main window content and exposes a narrow facade the
// application controller drives. Widgets are only touched from the Fyne event
// thread; the controller wraps worker results in fyne.Do before calling in.
package gui

import (
	"image"

	"fyne.io/fyne/v2"

	"flathaven/catalog"
)

// Callbacks carries the user-action hooks the controller wires in.
type Callbacks struct {
	OnSearchChanged    func(text string)
	OnSearchSubmitted  func(text string)
	OnAppSelected      func(index int)
	OnCategorySelected func(category string)
	OnInstall          func()
	OnUninstall        func()
	OnUpdateAll        func()
	OnRefresh          func()
	OnShowSettings     func()
}

// DetailView is everything the detail panel needs to render one application.
type DetailView struct {
	App       catalog.App
	Installed bool
	Icon      image.Image
	Busy      bool
}

type MainInterface struct {
	window        fyne.Window
	layoutManager *LayoutManager
}

func NewMainInterface(window fyne.Window, callbacks Callbacks) *MainInterface {
	return &MainInterface{
		window:        window,
		layoutManager: NewLayoutManager(callbacks),
	}
}

func (gui *MainInterface) GetMainContainer() *fyne.Container {
	return gui.layoutManager.GetMainContainer()
}

// SetApps replaces the rendered application list.
func (gui *MainInterface) SetApps(apps []catalog.App) {
	gui.layoutManager.appList.SetApps(apps)
}

// ClearSelection drops the current list selection and resets the detail panel
// to its empty state. Called whenever the rendered listing is replaced.
func (gui *MainInterface) ClearSelection() {
	gui.layoutManager.appList.ClearSelection()
	gui.layoutManager.detailPanel.Clear()
}

// ShowDetails renders the detail panel for one application.
func (gui *MainInterface) ShowDetails(view DetailView) {
	gui.layoutManager.detailPanel.Show(view)
}

// SetDetailIcon swaps in a late-arriving icon without rebuilding the panel.
func (gui *MainInterface) SetDetailIcon(img image.Image) {
	gui.layoutManager.detailPanel.SetIcon(img)
}

// SetStatus updates the status-bar message.
func (gui *MainInterface) SetStatus(status string) {
	gui.layoutManager.statusBar.SetStatus(status)
}

// SetCounts updates the installed/updates summary on the status bar.
func (gui *MainInterface) SetCounts(installed, updates int) {
	gui.layoutManager.statusBar.SetCounts(installed, updates)
}

// ShowProgress toggles the indeterminate activity indicator.
func (gui *MainInterface) ShowProgress(visible bool) {
	gui.layoutManager.statusBar.ShowProgress(visible)
}

// SearchText returns the current contents of the search entry.
func (gui *MainInterface) SearchText() string {
	return gui.layoutManager.header.SearchText()
}
