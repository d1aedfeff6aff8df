package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flathaven/internal/logger"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		width, height, bound int
		wantW, wantH         int
	}{
		{name: "landscape scales to bound width", width: 200, height: 100, bound: 64, wantW: 64, wantH: 32},
		{name: "portrait scales to bound height", width: 100, height: 200, bound: 64, wantW: 32, wantH: 64},
		{name: "square scales exactly", width: 512, height: 512, bound: 64, wantW: 64, wantH: 64},
		{name: "small image keeps size", width: 32, height: 48, bound: 64, wantW: 32, wantH: 48},
		{name: "extreme ratio never collapses", width: 10000, height: 3, bound: 64, wantW: 64, wantH: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			gotW, gotH := FitWithin(testCase.width, testCase.height, testCase.bound)
			require.Equal(t, testCase.wantW, gotW)
			require.Equal(t, testCase.wantH, gotH)
		})
	}
}

func TestThumbnailScalesWithinBound(t *testing.T) {
	t.Parallel()

	img, err := Thumbnail(pngBytes(t, 256, 128), 64)
	require.NoError(t, err)

	bounds := img.Bounds()
	require.Equal(t, 64, bounds.Dx())
	require.Equal(t, 32, bounds.Dy())
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Thumbnail([]byte("definitely not an image"), 64)
	require.Error(t, err)
}

type signalRecorder struct {
	mu     sync.Mutex
	loaded []string
	failed []string
}

func (s *signalRecorder) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loaded), len(s.failed)
}

func newTestFetcher(rec *signalRecorder, maxConcurrent int) *Fetcher {
	return NewFetcher(64, maxConcurrent, 2*time.Second, logger.Nop(),
		func(fn func()) { fn() },
		func(id string, _ image.Image) {
			rec.mu.Lock()
			rec.loaded = append(rec.loaded, id)
			rec.mu.Unlock()
		},
		func(id string) {
			rec.mu.Lock()
			rec.failed = append(rec.failed, id)
			rec.mu.Unlock()
		})
}

func TestFetchSignalsLoadedExactlyOnce(t *testing.T) {
	t.Parallel()

	icon := pngBytes(t, 128, 128)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(icon)
	}))
	t.Cleanup(server.Close)

	rec := &signalRecorder{}
	fetcher := newTestFetcher(rec, 2)

	fetcher.Fetch("org.gimp.GIMP", server.URL)
	fetcher.Wait()

	loaded, failed := rec.counts()
	require.Equal(t, 1, loaded)
	require.Zero(t, failed)
	require.Equal(t, "org.gimp.GIMP", rec.loaded[0])
}

func TestFetchSignalsFailedOnHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	rec := &signalRecorder{}
	fetcher := newTestFetcher(rec, 2)

	fetcher.Fetch("org.example.Gone", server.URL)
	fetcher.Wait()

	loaded, failed := rec.counts()
	require.Zero(t, loaded)
	require.Equal(t, 1, failed)
}

func TestFetchSignalsFailedOnUndecodableBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an icon</html>"))
	}))
	t.Cleanup(server.Close)

	rec := &signalRecorder{}
	fetcher := newTestFetcher(rec, 2)

	fetcher.Fetch("org.example.Html", server.URL)
	fetcher.Wait()

	loaded, failed := rec.counts()
	require.Zero(t, loaded)
	require.Equal(t, 1, failed)
}

func TestCloseUnblocksWaitWithQueuedFetches(t *testing.T) {
	t.Parallel()

	// Each request parks until its own context is canceled, so Wait can only
	// return promptly if Close aborts in-flight transfers and drains the queue.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	rec := &signalRecorder{}
	fetcher := newTestFetcher(rec, 2)

	ids := []string{"a", "b", "c", "d", "e", "f"}
	for _, id := range ids {
		fetcher.Fetch(id, server.URL)
	}

	fetcher.Close()

	done := make(chan struct{})
	go func() {
		fetcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Close")
	}

	loaded, failed := rec.counts()
	require.Zero(t, loaded)
	require.Equal(t, len(ids), failed)
}

func TestFetchBoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 2

	var inFlight, peak atomic.Int32
	icon := pngBytes(t, 32, 32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		w.Write(icon)
	}))
	t.Cleanup(server.Close)

	rec := &signalRecorder{}
	fetcher := newTestFetcher(rec, limit)

	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		fetcher.Fetch(id, server.URL)
	}
	fetcher.Wait()

	loaded, failed := rec.counts()
	require.Equal(t, 6, loaded)
	require.Zero(t, failed)
	require.LessOrEqual(t, peak.Load(), int32(limit))
}
