package main

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

const projectURL = "https://github.com/flathaven/flathaven"

func (browser *BrowserApp) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Batch Download...", func() {
			browser.showBatchDownload()
		}),
		fyne.NewMenuItem("Install from .flatpakref...", func() {
			browser.installFromFile()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			browser.cleanup()
			browser.fyneApp.Quit()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Project Page", func() {
			browser.openURL(projectURL)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("About", func() {
			browser.showAbout()
		}),
	)

	browser.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (browser *BrowserApp) openURL(raw string) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return
	}
	if err := browser.fyneApp.OpenURL(parsed); err != nil {
		browser.log.Warn("app", "could not open URL", map[string]interface{}{"url": raw, "error": err.Error()})
	}
}

func (browser *BrowserApp) showAbout() {
	dialog.ShowInformation("About "+AppName,
		AppName+" v"+AppVersion+"\n\n"+
			"A Flathub-like browser for Flatpaks.\n\n"+
			"Browse and search Flathub applications,\n"+
			"install and uninstall Flatpak packages,\n"+
			"batch download, and .flatpakref support.",
		browser.window)
}
