// Package icons downloads application icons and scales them to list
// thumbnails. Decoding goes through OpenCV first with the standard library as
// a fallback; scaling is aspect-preserving area interpolation. Each fetch
// signals exactly one of loaded or failed.
package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gocv.io/x/gocv"

	"flathaven/internal/logger"
)

const userAgent = "Flathaven/1.0"

var errEmptyImage = errors.New("decoded image is empty")

// Fetcher downloads and scales icons on bounded worker goroutines. It does
// not deduplicate requests; the controller owns the per-identifier cache and
// in-flight set.
type Fetcher struct {
	http     *http.Client
	size     int
	sem      chan struct{}
	dispatch func(func())
	log      *logger.Logger

	onLoaded func(id string, img image.Image)
	onFailed func(id string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFetcher(size, maxConcurrent int, timeout time.Duration, log *logger.Logger,
	dispatch func(func()),
	onLoaded func(string, image.Image), onFailed func(string)) *Fetcher {

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Fetcher{
		http:     &http.Client{Timeout: timeout},
		size:     size,
		sem:      make(chan struct{}, maxConcurrent),
		dispatch: dispatch,
		log:      log,
		onLoaded: onLoaded,
		onFailed: onFailed,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Fetch downloads the icon for id on a worker goroutine and reports the
// outcome through the dispatch callback. Exactly one of loaded or failed
// fires per call.
func (f *Fetcher) Fetch(id, url string) {
	f.wg.Add(1)

	go func() {
		defer f.wg.Done()

		select {
		case f.sem <- struct{}{}:
		case <-f.ctx.Done():
			f.dispatch(func() { f.onFailed(id) })
			return
		}
		defer func() { <-f.sem }()

		img, err := f.download(url)
		if err != nil {
			f.log.Debug("icons", "icon fetch failed", map[string]interface{}{"id": id, "error": err.Error()})
			f.dispatch(func() { f.onFailed(id) })
			return
		}

		f.dispatch(func() { f.onLoaded(id, img) })
	}()
}

// Close aborts outstanding downloads. Queued workers signal failed; workers
// mid-transfer have their requests canceled. Call before Wait on shutdown so
// the join does not ride out every pending HTTP exchange.
func (f *Fetcher) Close() {
	f.cancel()
}

// Wait joins all outstanding workers. Called on shutdown.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) download(url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(f.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("icon server returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return Thumbnail(data, f.size)
}

// Thumbnail decodes raw image bytes and scales the result to fit inside a
// size x size square, preserving aspect ratio.
func Thumbnail(data []byte, size int) (image.Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err == nil && !mat.Empty() {
		defer mat.Close()
		return scaleMat(mat, size)
	}
	if err == nil {
		mat.Close()
	}

	// OpenCV could not handle the payload; fall back to the standard library
	// decoders and scale through an intermediate Mat.
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	rgba := toRGBA(img)
	mat, err = gocv.ImageToMatRGBA(rgba)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return scaleMat(mat, size)
}

func scaleMat(mat gocv.Mat, size int) (image.Image, error) {
	width, height := mat.Cols(), mat.Rows()
	if width == 0 || height == 0 {
		return nil, errEmptyImage
	}

	fitW, fitH := FitWithin(width, height, size)
	if fitW == width && fitH == height {
		return mat.ToImage()
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(mat, &dst, image.Pt(fitW, fitH), 0, 0, gocv.InterpolationArea)

	return dst.ToImage()
}

// FitWithin scales width x height down to fit inside a bound x bound square
// while preserving aspect ratio. Images already inside the bound keep their
// size; dimensions never collapse below 1.
func FitWithin(width, height, bound int) (int, int) {
	if width <= bound && height <= bound {
		return width, height
	}

	if width >= height {
		scaled := height * bound / width
		if scaled < 1 {
			scaled = 1
		}
		return bound, scaled
	}

	scaled := width * bound / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, bound
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba
}
