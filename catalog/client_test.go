package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flathaven/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "flathub", time.Second, logger.Nop())
}

func TestSearchEmptyQueryHitsAppsEndpoint(t *testing.T) {
	t.Parallel()

	var gotPath, gotAgent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"flatpakAppId":"org.mozilla.firefox","name":"Firefox","summary":"Browser"}]`))
	}))

	apps := client.Search("")
	require.Equal(t, "/apps", gotPath)
	require.Equal(t, "Flathaven/1.0", gotAgent)
	require.Empty(t, client.LastError())
	require.Len(t, apps, 1)
	require.Equal(t, "org.mozilla.firefox", apps[0].ID)
	require.Equal(t, "Browser", apps[0].Summary)
}

func TestSearchQueryIsURLEscaped(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))

	client.Search("fire fox")
	require.Equal(t, "/search/fire%20fox", gotPath)
}

func TestSearchToleratesMissingFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"flatpakAppId":"org.gimp.GIMP"},{"name":"Nameless"}]`))
	}))

	apps := client.Search("gimp")
	require.Len(t, apps, 2)
	require.Equal(t, App{ID: "org.gimp.GIMP"}, apps[0])
	require.Equal(t, App{Name: "Nameless"}, apps[1])
}

func TestSearchNonArrayResponseIsEmptyNotError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"unexpected shape"}`))
	}))

	apps := client.Search("")
	require.Empty(t, apps)
	require.Empty(t, client.LastError())
}

func TestSearchServerErrorCapturesDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	apps := client.Search("firefox")
	require.Empty(t, apps)
	require.Contains(t, client.LastError(), "502")
}

func TestSearchUnreachableHostCapturesDetail(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1", "flathub", 200*time.Millisecond, logger.Nop())

	apps := client.Search("")
	require.Empty(t, apps)
	require.NotEmpty(t, client.LastError())
}

func TestLastErrorClearsOnSuccess(t *testing.T) {
	t.Parallel()

	fail := true
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))

	client.Search("")
	require.NotEmpty(t, client.LastError())

	fail = false
	client.Search("")
	require.Empty(t, client.LastError())
}

func TestAppDetails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/apps/org.mozilla.firefox", r.URL.Path)
		w.Write([]byte(`{"flatpakAppId":"org.mozilla.firefox","name":"Firefox","currentReleaseVersion":"120.0"}`))
	}))

	app, ok := client.AppDetails("org.mozilla.firefox")
	require.True(t, ok)
	require.Equal(t, "Firefox", app.Name)
	require.Equal(t, "120.0", app.Version)
}

func TestAppDetailsMalformedBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	_, ok := client.AppDetails("org.gimp.GIMP")
	require.False(t, ok)
	require.NotEmpty(t, client.LastError())
}
