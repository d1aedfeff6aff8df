package main

import (
	"fmt"
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"flathaven/catalog"
	"flathaven/debounce"
	"flathaven/gui"
	"flathaven/icons"
	"flathaven/internal/config"
	"flathaven/ops"
)

// --- search ---

func (browser *BrowserApp) handleSearchChanged(text string) {
	browser.searcher.Change(text)
}

func (browser *BrowserApp) handleSearchSubmitted(text string) {
	browser.searcher.Flush(text)
}

// performSearch issues one catalog query on a worker goroutine. Each search
// gets a sequence number; results carrying a stale sequence are discarded so
// overlapping searches cannot clobber a newer listing. The client is captured
// on the event thread; workers never read controller fields that applySettings
// may swap underneath them.
func (browser *BrowserApp) performSearch(query string) {
	browser.searchSeq++
	seq := browser.searchSeq
	browser.lastQuery = query

	browser.mainGUI.SetStatus("Loading applications...")
	browser.mainGUI.ShowProgress(true)

	client := browser.client
	go func() {
		apps := client.Search(query)
		errDetail := client.LastError()

		browser.dispatch(func() {
			browser.handleSearchResult(seq, query, apps, errDetail)
		})
	}()
}

func (browser *BrowserApp) handleSearchResult(seq uint64, query string, apps []catalog.App, errDetail string) {
	if !browser.alive {
		return
	}
	if seq != browser.searchSeq {
		browser.log.Debug("app", "discarding stale search result", map[string]interface{}{"query": query})
		return
	}

	browser.mainGUI.ShowProgress(false)

	if errDetail != "" {
		browser.mainGUI.SetStatus("Search failed")
		browser.showRetryDialog("Search Failed",
			"Could not load applications from the catalog.", errDetail,
			func() { browser.performSearch(query) })
		return
	}

	browser.showApps(apps)
	browser.mainGUI.SetStatus("Ready")
}

// showApps replaces the rendered list and prefetches icons for every record,
// gated per identifier by the cache and the in-flight set.
func (browser *BrowserApp) showApps(apps []catalog.App) {
	browser.currentApps = apps
	browser.selected = nil
	browser.mainGUI.ClearSelection()
	browser.mainGUI.SetApps(apps)

	for _, app := range apps {
		if app.IconURL != "" {
			browser.requestIcon(app.ID, app.IconURL)
		}
	}
}

// --- icons ---

// requestIcon starts at most one fetch per identifier per session.
func (browser *BrowserApp) requestIcon(id, url string) {
	if id == "" {
		return
	}
	if _, cached := browser.iconCache[id]; cached {
		return
	}
	if _, inFlight := browser.iconInFlight[id]; inFlight {
		return
	}

	browser.iconInFlight[id] = struct{}{}
	browser.fetcher.Fetch(id, url)
}

func (browser *BrowserApp) handleIconLoaded(id string, img image.Image) {
	if !browser.alive {
		return
	}

	delete(browser.iconInFlight, id)
	browser.iconCache[id] = img

	if browser.selected != nil && browser.selected.ID == id {
		browser.mainGUI.SetDetailIcon(img)
	}
}

func (browser *BrowserApp) handleIconFailed(id string) {
	if !browser.alive {
		return
	}
	// Dropping the in-flight mark allows a later listing to retry.
	delete(browser.iconInFlight, id)
}

// --- selection and details ---

func (browser *BrowserApp) handleAppSelected(index int) {
	if index < 0 || index >= len(browser.currentApps) {
		return
	}

	selected := browser.currentApps[index]
	browser.selected = &selected
	browser.updateDetails()

	// Installed-list rows carry no summary or icon; fill them in from the
	// catalog detail endpoint without blocking the selection.
	if selected.Summary == "" && selected.ID != "" {
		go browser.fetchDetails(browser.client, selected.ID)
	}
}

func (browser *BrowserApp) fetchDetails(client *catalog.Client, id string) {
	detail, ok := client.AppDetails(id)
	if !ok {
		return
	}

	browser.dispatch(func() {
		if !browser.alive || browser.selected == nil || browser.selected.ID != id {
			return
		}

		if detail.Summary != "" {
			browser.selected.Summary = detail.Summary
		}
		if detail.Version != "" && browser.selected.Version == "" {
			browser.selected.Version = detail.Version
		}
		if detail.IconURL != "" {
			browser.selected.IconURL = detail.IconURL
		}
		browser.updateDetails()
	})
}

// updateDetails re-renders the detail panel for the current selection,
// recomputing installed state from the latest snapshot.
func (browser *BrowserApp) updateDetails() {
	if browser.selected == nil {
		return
	}

	app := *browser.selected
	icon := browser.iconCache[app.ID]

	browser.mainGUI.ShowDetails(gui.DetailView{
		App:       app,
		Installed: browser.isInstalled(app.ID),
		Icon:      icon,
		Busy:      browser.opRunning,
	})

	if icon == nil && app.IconURL != "" {
		browser.requestIcon(app.ID, app.IconURL)
	}
}

func (browser *BrowserApp) isInstalled(id string) bool {
	_, ok := browser.installedSet[id]
	return ok
}

// --- installed snapshot ---

// refreshInstalled refetches the installed list on a worker and replaces the
// snapshot wholesale. The snapshot is never merged or patched in place.
func (browser *BrowserApp) refreshInstalled() {
	client := browser.client
	go func() {
		installed := client.ListInstalled(browser.ctx)

		browser.dispatch(func() {
			if !browser.alive {
				return
			}

			browser.installedApps = installed
			browser.installedSet = make(map[string]struct{}, len(installed))
			for _, app := range installed {
				browser.installedSet[app.ID] = struct{}{}
			}

			browser.mainGUI.SetCounts(len(installed), browser.updatesCount)
			browser.updateDetails()
		})
	}()
}

// --- lifecycle operations ---

func (browser *BrowserApp) handleInstall() {
	if browser.selected == nil || browser.selected.ID == "" {
		return
	}
	browser.startOperation(ops.KindInstall, browser.selected.ID)
}

func (browser *BrowserApp) handleUninstall() {
	if browser.selected == nil || browser.selected.ID == "" {
		return
	}

	app := *browser.selected
	gui.ShowDialog(browser.window, gui.DialogRequest{
		Kind:    gui.DialogConfirm,
		Title:   "Confirm Uninstall",
		Message: fmt.Sprintf("Are you sure you want to uninstall %s?", app.DisplayName()),
	}, func(result gui.DialogResult) {
		if result.Accepted {
			browser.startOperation(ops.KindUninstall, app.ID)
		}
	})
}

func (browser *BrowserApp) handleUpdateAll() {
	browser.startOperation(ops.KindUpdateAll, "")
}

func (browser *BrowserApp) startOperation(kind ops.Kind, target string) {
	browser.opRunning = true
	browser.lastOpKind = kind
	browser.lastOpTarget = target

	browser.mainGUI.ShowProgress(true)
	browser.updateDetails()
	browser.runner.Run(browser.ctx, kind, target)
}

func (browser *BrowserApp) handleOperationProgress(message string) {
	if !browser.alive {
		return
	}
	browser.mainGUI.SetStatus(message)
}

// handleOperationDone consumes the terminal signal of one operation. Success
// triggers exactly one snapshot refetch; failure leaves the snapshot alone
// and offers a retry of the same operation.
func (browser *BrowserApp) handleOperationDone(success bool, kind ops.Kind) {
	if !browser.alive {
		return
	}

	browser.opRunning = false
	browser.mainGUI.ShowProgress(false)

	if success {
		browser.mainGUI.SetStatus("Operation completed successfully")
		browser.refreshInstalled()
		return
	}

	browser.mainGUI.SetStatus("Operation failed")
	browser.updateDetails()

	kindRetry := browser.lastOpKind
	targetRetry := browser.lastOpTarget
	browser.showRetryDialog("Operation Failed",
		fmt.Sprintf("The %s operation failed.", kind), browser.client.LastError(),
		func() { browser.startOperation(kindRetry, targetRetry) })
}

func (browser *BrowserApp) showRetryDialog(title, message, detail string, retry func()) {
	gui.ShowDialog(browser.window, gui.DialogRequest{
		Kind:    gui.DialogErrorRetry,
		Title:   title,
		Message: message,
		Detail:  detail,
	}, func(result gui.DialogResult) {
		if result.Accepted {
			retry()
		}
	})
}

// --- refresh, categories ---

func (browser *BrowserApp) handleRefresh() {
	browser.refreshInstalled()
	browser.performSearch(browser.mainGUI.SearchText())
}

// handleCategorySelected switches the list source. "Installed Apps" is served
// from the local snapshot, filtered by the current search text; the catalog
// has no category endpoint, so every other category shows the full listing.
func (browser *BrowserApp) handleCategorySelected(category string) {
	if category == "Installed Apps" {
		browser.showApps(catalog.FilterLocal(browser.installedApps, browser.mainGUI.SearchText()))
		browser.mainGUI.SetStatus("Showing installed applications")
		return
	}

	browser.performSearch("")
}

// --- batch install and .flatpakref ---

func (browser *BrowserApp) showBatchDownload() {
	gui.ShowDialog(browser.window, gui.DialogRequest{
		Kind:  gui.DialogBatch,
		Title: "Batch Download",
	}, func(result gui.DialogResult) {
		if !result.Accepted || len(result.IDs) == 0 {
			return
		}

		browser.opRunning = true
		browser.lastOpKind = ops.KindBatch
		browser.mainGUI.ShowProgress(true)
		browser.runner.RunBatch(browser.ctx, result.IDs)
	})
}

func (browser *BrowserApp) installFromFile() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		browser.startOperation(ops.KindInstallRef, path)
	}, browser.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{flatpakrefExt}))
	fileDialog.Show()
}

// promptInstallRef handles a .flatpakref path passed on the command line.
func (browser *BrowserApp) promptInstallRef(path string) {
	gui.ShowDialog(browser.window, gui.DialogRequest{
		Kind:    gui.DialogConfirm,
		Title:   "Install Application",
		Message: fmt.Sprintf("Do you want to install the application from %s?", path),
	}, func(result gui.DialogResult) {
		if result.Accepted {
			browser.startOperation(ops.KindInstallRef, path)
		}
	})
}

// --- settings ---

func (browser *BrowserApp) handleShowSettings() {
	client := browser.client
	go func() {
		remotes := client.Remotes(browser.ctx)

		browser.dispatch(func() {
			if !browser.alive {
				return
			}

			gui.ShowDialog(browser.window, gui.DialogRequest{
				Kind:     gui.DialogSettings,
				Title:    "Advanced Settings",
				Remotes:  remotes,
				Settings: browser.settings,
			}, browser.applySettings)
		})
	}()
}

func (browser *BrowserApp) applySettings(result gui.DialogResult) {
	if !result.Accepted {
		return
	}

	browser.settings = result.Settings
	if err := config.Save(browser.settingsPath, browser.settings); err != nil {
		browser.log.Warn("app", "could not persist settings", map[string]interface{}{"error": err.Error()})
	}

	// Rebuild the pieces that bake settings in at construction time.
	browser.client = catalog.NewClient(browser.settings.CatalogURL, browser.settings.Remote,
		browser.settings.RequestTimeout(), browser.log)
	browser.runner = ops.NewRunner(browser.client, browser.dispatch,
		browser.handleOperationProgress, browser.handleOperationDone)

	// Aborted fetches signal failed through dispatch, which clears their
	// in-flight marks, so a later listing can retry them on the new fetcher.
	browser.fetcher.Close()
	browser.fetcher = icons.NewFetcher(browser.settings.IconSize, browser.settings.MaxIconFetches,
		browser.settings.RequestTimeout(), browser.log, browser.dispatch,
		browser.handleIconLoaded, browser.handleIconFailed)

	browser.searcher.Stop()
	browser.searcher = debounce.New(browser.settings.DebounceDelay(), func(query string) {
		browser.dispatch(func() { browser.performSearch(query) })
	})

	browser.mainGUI.SetStatus("Settings saved")
}

// --- periodic update check ---

// updateCheckLoop ticks until shutdown. The loop itself only schedules: each
// tick hops to the event thread, which captures the current client and spawns
// the actual check, so the loop never reads fields applySettings may replace.
func (browser *BrowserApp) updateCheckLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-browser.stopUpdates:
			return
		case <-ticker.C:
			browser.dispatch(func() {
				if !browser.alive {
					return
				}
				browser.checkUpdates()
			})
		}
	}
}

// checkUpdates polls the pending-update count on a worker. Check failures are
// non-critical: PendingUpdates logs at debug level and the badge keeps its
// last value.
func (browser *BrowserApp) checkUpdates() {
	client := browser.client
	go func() {
		count, ok := client.PendingUpdates(browser.ctx)
		if !ok {
			return
		}

		browser.dispatch(func() {
			if !browser.alive {
				return
			}
			browser.updatesCount = count
			browser.mainGUI.SetCounts(len(browser.installedApps), count)
		})
	}()
}
