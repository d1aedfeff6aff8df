package main

import (
	"context"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"flathaven/catalog"
	"flathaven/debounce"
	"flathaven/gui"
	"flathaven/icons"
	"flathaven/internal/config"
	"flathaven/internal/logger"
	"flathaven/ops"
)

const (
	AppName      = "Flathaven"
	AppID        = "io.flathaven.Flathaven"
	AppVersion   = "1.0.0"
	WindowWidth  = 1200
	WindowHeight = 800
)

// iconFetcher is the slice of the icon fetcher the controller drives; tests
// substitute a recording fake.
type iconFetcher interface {
	Fetch(id, url string)
	Close()
	Wait()
}

// BrowserApp is the application controller. All fields below the comment are
// touched only on the Fyne event thread; workers report back through the
// dispatch function (fyne.Do in production) so no locking is needed.
type BrowserApp struct {
	fyneApp fyne.App
	window  fyne.Window
	mainGUI *gui.MainInterface

	client   *catalog.Client
	fetcher  iconFetcher
	runner   *ops.Runner
	searcher *debounce.Debouncer
	dispatch func(func())

	settings     config.Settings
	settingsPath string
	refPath      string
	log          *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Event-thread state.
	currentApps   []catalog.App
	installedApps []catalog.App
	installedSet  map[string]struct{}
	updatesCount  int
	selected      *catalog.App
	iconCache     map[string]image.Image
	iconInFlight  map[string]struct{}
	searchSeq     uint64
	lastQuery     string
	opRunning     bool
	lastOpKind    ops.Kind
	lastOpTarget  string
	alive         bool

	stopUpdates chan struct{}
}

func NewBrowserApp(settings config.Settings, settingsPath, refPath string, log *logger.Logger) *BrowserApp {
	fyneApp := app.NewWithID(AppID)

	client := catalog.NewClient(settings.CatalogURL, settings.Remote, settings.RequestTimeout(), log)

	return newBrowserApp(fyneApp, client, settings, settingsPath, refPath, log, fyne.Do)
}

// newBrowserApp wires the controller against explicit collaborators; tests
// pass a test Fyne app, a faked catalog client and an inline dispatch.
func newBrowserApp(fyneApp fyne.App, client *catalog.Client, settings config.Settings,
	settingsPath, refPath string, log *logger.Logger, dispatch func(func())) *BrowserApp {

	window := fyneApp.NewWindow(AppName + " - Flathub Browser")
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	ctx, cancel := context.WithCancel(context.Background())

	browser := &BrowserApp{
		fyneApp:      fyneApp,
		window:       window,
		client:       client,
		dispatch:     dispatch,
		settings:     settings,
		settingsPath: settingsPath,
		refPath:      refPath,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
		installedSet: map[string]struct{}{},
		iconCache:    map[string]image.Image{},
		iconInFlight: map[string]struct{}{},
		alive:        true,
		stopUpdates:  make(chan struct{}),
	}

	browser.mainGUI = gui.NewMainInterface(window, gui.Callbacks{
		OnSearchChanged:    browser.handleSearchChanged,
		OnSearchSubmitted:  browser.handleSearchSubmitted,
		OnAppSelected:      browser.handleAppSelected,
		OnCategorySelected: browser.handleCategorySelected,
		OnInstall:          browser.handleInstall,
		OnUninstall:        browser.handleUninstall,
		OnUpdateAll:        browser.handleUpdateAll,
		OnRefresh:          browser.handleRefresh,
		OnShowSettings:     browser.handleShowSettings,
	})

	browser.fetcher = icons.NewFetcher(settings.IconSize, settings.MaxIconFetches,
		settings.RequestTimeout(), log, dispatch,
		browser.handleIconLoaded, browser.handleIconFailed)

	browser.runner = ops.NewRunner(browser.client, dispatch,
		browser.handleOperationProgress, browser.handleOperationDone)

	browser.searcher = debounce.New(settings.DebounceDelay(), func(query string) {
		dispatch(func() { browser.performSearch(query) })
	})

	return browser
}

func (browser *BrowserApp) Run() {
	browser.setupMenus()
	browser.window.SetContent(browser.mainGUI.GetMainContainer())

	browser.window.SetCloseIntercept(func() {
		browser.cleanup()
		browser.window.Close()
	})

	// Initial population and the periodic update check.
	browser.refreshInstalled()
	browser.performSearch("")
	go browser.updateCheckLoop(browser.settings.UpdateCheckInterval())

	if browser.refPath != "" {
		browser.promptInstallRef(browser.refPath)
	}

	browser.window.ShowAndRun()
}

// cleanup tears down timers and workers. The alive flag makes any callback
// that slips in afterwards a no-op instead of a write into a dead window, and
// guards against a second invocation when the Quit menu item fires alongside
// the close intercept.
func (browser *BrowserApp) cleanup() {
	if !browser.alive {
		return
	}

	browser.alive = false
	browser.searcher.Stop()
	close(browser.stopUpdates)
	browser.cancel()
	browser.fetcher.Close()
	browser.fetcher.Wait()

	browser.log.Info("app", "shutdown complete", nil)
}
