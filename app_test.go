package main

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flathaven/catalog"
	"flathaven/gui"
	"flathaven/internal/config"
	"flathaven/internal/logger"
	"flathaven/ops"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   map[string]int
	outputs map[string]string
}

func (r *fakeRunner) CombinedOutput(_ context.Context, _ string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[args[0]]++
	return []byte(r.outputs[args[0]]), nil
}

func (r *fakeRunner) LookPath(string) (string, error) {
	return "/usr/bin/flatpak", nil
}

func (r *fakeRunner) count(subcommand string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[subcommand]
}

type recordingFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	closed bool
}

func (f *recordingFetcher) Fetch(id, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
}

func (f *recordingFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *recordingFetcher) Wait() {}

func (f *recordingFetcher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type browserHarness struct {
	browser *BrowserApp
	runner  *fakeRunner
	fetcher *recordingFetcher
	mu      sync.Mutex
}

// newBrowserHarness wires a controller against a test Fyne app, a canned
// catalog server and a fake subprocess runner. Dispatch runs callbacks inline
// under the harness mutex; tests read controller state through onEventThread
// so workers and assertions never race.
func newBrowserHarness(t *testing.T, handler http.Handler) *browserHarness {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	harness := &browserHarness{
		runner:  &fakeRunner{calls: map[string]int{}, outputs: map[string]string{}},
		fetcher: &recordingFetcher{calls: map[string]int{}},
	}

	client := catalog.NewClient(server.URL, "flathub", time.Second, logger.Nop(),
		catalog.WithRunner(harness.runner))

	harness.browser = newBrowserApp(test.NewApp(), client, config.Default(),
		filepath.Join(t.TempDir(), "settings.toml"), "", logger.Nop(), harness.onEventThread)
	harness.browser.fetcher = harness.fetcher

	return harness
}

func (h *browserHarness) onEventThread(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn()
}

func emptyCatalog() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("[]"))
	})
}

func TestIconFetchGatedPerIdentifier(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	apps := []catalog.App{
		{ID: "com.example.A", Name: "A", Summary: "a", IconURL: "https://icons/a.png"},
		{ID: "com.example.B", Name: "B", Summary: "b", IconURL: "https://icons/b.png"},
	}

	h.onEventThread(func() {
		h.browser.showApps(apps)
		// A second listing with the same records must not refetch anything
		// still in flight.
		h.browser.showApps(apps)
	})

	assert.Equal(t, 1, h.fetcher.count("com.example.A"))
	assert.Equal(t, 1, h.fetcher.count("com.example.B"))

	h.onEventThread(func() {
		h.browser.handleIconLoaded("com.example.A", image.NewRGBA(image.Rect(0, 0, 1, 1)))
		h.browser.requestIcon("com.example.A", "https://icons/a.png")

		h.browser.handleIconFailed("com.example.B")
		h.browser.requestIcon("com.example.B", "https://icons/b.png")
	})

	// Cached icons are never refetched; failed ones may be retried.
	assert.Equal(t, 1, h.fetcher.count("com.example.A"))
	assert.Equal(t, 2, h.fetcher.count("com.example.B"))
}

func TestStaleSearchResultDiscarded(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	h.onEventThread(func() {
		h.browser.searchSeq = 2
		h.browser.handleSearchResult(1, "old", []catalog.App{{ID: "stale"}}, "")
	})

	h.onEventThread(func() {
		assert.Empty(t, h.browser.currentApps)
	})

	h.onEventThread(func() {
		h.browser.handleSearchResult(2, "new", []catalog.App{{ID: "fresh"}}, "")
	})

	h.onEventThread(func() {
		require.Len(t, h.browser.currentApps, 1)
		assert.Equal(t, "fresh", h.browser.currentApps[0].ID)
	})
}

func TestSearchPopulatesListing(t *testing.T) {
	h := newBrowserHarness(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"flatpakAppId":"org.gimp.GIMP","name":"GIMP"}]`))
	}))

	h.onEventThread(func() {
		h.browser.performSearch("")
	})

	require.Eventually(t, func() bool {
		var ids []string
		h.onEventThread(func() {
			for _, app := range h.browser.currentApps {
				ids = append(ids, app.ID)
			}
		})
		return len(ids) == 1 && ids[0] == "org.gimp.GIMP"
	}, time.Second, 10*time.Millisecond)
}

func TestFailedOperationKeepsSnapshot(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	h.onEventThread(func() {
		h.browser.installedApps = []catalog.App{{ID: "com.example.A"}}
		h.browser.installedSet = map[string]struct{}{"com.example.A": {}}
		h.browser.opRunning = true
		h.browser.lastOpKind = ops.KindInstall
		h.browser.lastOpTarget = "com.example.B"

		h.browser.handleOperationDone(false, ops.KindInstall)
	})

	h.onEventThread(func() {
		assert.False(t, h.browser.opRunning)
		assert.Len(t, h.browser.installedApps, 1)
		assert.Contains(t, h.browser.installedSet, "com.example.A")
	})

	// A failed operation never triggers a snapshot refetch.
	assert.Equal(t, 0, h.runner.count("list"))
}

func TestSuccessfulOperationRefetchesSnapshotOnce(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())
	h.runner.outputs["list"] = "App A\tcom.example.A\t1.0\tstable\tflathub\n"

	h.onEventThread(func() {
		h.browser.opRunning = true
		h.browser.handleOperationDone(true, ops.KindInstall)
	})

	require.Eventually(t, func() bool {
		var installed bool
		h.onEventThread(func() {
			_, installed = h.browser.installedSet["com.example.A"]
		})
		return installed
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, h.runner.count("list"))
	h.onEventThread(func() {
		assert.False(t, h.browser.opRunning)
	})
}

func TestInstalledStateFollowsIdentifier(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	h.onEventThread(func() {
		h.browser.installedSet = map[string]struct{}{"com.example.A": {}}
		h.browser.currentApps = []catalog.App{
			{ID: "com.example.A", Name: "A", Summary: "installed one"},
			{ID: "com.example.B", Name: "B", Summary: "catalog one"},
		}

		h.browser.handleAppSelected(0)
		assert.True(t, h.browser.isInstalled(h.browser.selected.ID))

		h.browser.handleAppSelected(1)
		assert.False(t, h.browser.isInstalled(h.browser.selected.ID))
	})
}

func TestCleanupIsIdempotent(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	h.onEventThread(func() {
		require.NotPanics(t, func() {
			h.browser.cleanup()
			h.browser.cleanup()
		})
		assert.False(t, h.browser.alive)
	})

	h.fetcher.mu.Lock()
	defer h.fetcher.mu.Unlock()
	assert.True(t, h.fetcher.closed)
}

func TestApplySettingsRebuildsWorkers(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	oldClient := h.browser.client
	oldRunner := h.browser.runner
	oldFetcher := h.browser.fetcher

	settings := config.Default()
	settings.CatalogURL = "https://catalog.example"
	settings.IconSize = 96

	h.onEventThread(func() {
		h.browser.applySettings(gui.DialogResult{Accepted: true, Settings: settings})
	})

	h.onEventThread(func() {
		assert.NotSame(t, oldClient, h.browser.client)
		assert.NotSame(t, oldRunner, h.browser.runner)
		assert.NotSame(t, oldFetcher, h.browser.fetcher)
		assert.Equal(t, "https://catalog.example", h.browser.settings.CatalogURL)
	})

	// The superseded fetcher is shut down so its workers cannot keep
	// downloading with the old timeout.
	h.fetcher.mu.Lock()
	defer h.fetcher.mu.Unlock()
	assert.True(t, h.fetcher.closed)
}

func TestCheckUpdatesSetsBadgeCount(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())
	h.runner.outputs["remote-ls"] = "org.gimp.GIMP\norg.mozilla.firefox\n"

	h.onEventThread(func() {
		h.browser.checkUpdates()
	})

	require.Eventually(t, func() bool {
		var count int
		h.onEventThread(func() { count = h.browser.updatesCount })
		return count == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCategorySwitchServesInstalledFromSnapshot(t *testing.T) {
	h := newBrowserHarness(t, emptyCatalog())

	h.onEventThread(func() {
		h.browser.installedApps = []catalog.App{
			{ID: "com.example.A", Name: "Alpha"},
			{ID: "com.example.B", Name: "Beta"},
		}
		h.browser.handleCategorySelected("Installed Apps")
	})

	h.onEventThread(func() {
		assert.Len(t, h.browser.currentApps, 2)
	})
}
