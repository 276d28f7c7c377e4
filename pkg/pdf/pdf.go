// Package pdf counts and rasterizes PDF pages through the pdfium library.
//
// The engine runs pdfium inside a WebAssembly worker pool, so no native
// library needs to be installed. Rendered rasters are cached keyed by the
// source file's fingerprint, page number and DPI.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"

	"github.com/deckgrid/deckgrid/pkg/cache"
	"github.com/deckgrid/deckgrid/pkg/observability"
)

// Default timeout when acquiring a pdfium worker.
const instanceTimeout = 30 * time.Second

// Cached rasters expire after this long.
const rasterTTL = 30 * 24 * time.Hour

// Options configures an Engine.
type Options struct {
	// Cache stores rendered page rasters. Defaults to the null cache.
	Cache cache.Cache

	// Keyer generates raster cache keys. Defaults to the standard keyer.
	Keyer cache.Keyer

	// Logger receives debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// Engine opens PDF documents for page counting and rasterization.
// Safe for concurrent use; pdfium calls are serialized on one worker.
type Engine struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium

	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger

	mu sync.Mutex
}

// New starts a pdfium worker and returns an engine. Callers must Close it.
func New(opts Options) (*Engine, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize pdfium")
	}

	instance, err := pool.GetInstance(instanceTimeout)
	if err != nil {
		_ = pool.Close()
		return nil, errors.Wrap(err, "failed to acquire pdfium worker")
	}

	e := &Engine{
		pool:     pool,
		instance: instance,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		logger:   opts.Logger,
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.keyer == nil {
		e.keyer = cache.NewDefaultKeyer()
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return e, nil
}

// Close releases the pdfium worker and pool.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.instance != nil {
		_ = e.instance.Close()
		e.instance = nil
	}
	if e.pool != nil {
		err := e.pool.Close()
		e.pool = nil
		return err
	}
	return nil
}

// PageCount returns the number of pages in the document at path.
func (e *Engine) PageCount(path string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open PDF document %s", path)
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	countResp, err := e.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get page count")
	}
	return countResp.PageCount, nil
}

// RenderPage rasterizes one page (1-based) to PNG bytes at the given DPI,
// consulting the raster cache first.
func (e *Engine) RenderPage(path string, page int, dpi float64) ([]byte, error) {
	ctx := context.Background()

	fingerprint, err := fileFingerprint(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fingerprint %s", path)
	}
	key := e.keyer.RasterKey(fingerprint, cache.RasterKeyOpts{Page: page, DPI: dpi})

	if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
		e.logger.Debugf("raster cache hit for %s page %d", path, page)
		observability.Cache().OnCacheHit(ctx, "raster")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "raster")

	data, err := e.renderPage(path, page, dpi)
	if err != nil {
		return nil, err
	}

	if err := cache.RetryWithBackoff(ctx, func() error {
		return e.cache.Set(ctx, key, data, rasterTTL)
	}); err != nil {
		e.logger.Warnf("could not cache raster for %s page %d: %v", path, page, err)
	} else {
		observability.Cache().OnCacheSet(ctx, "raster", len(data))
	}
	return data, nil
}

func (e *Engine) renderPage(path string, page int, dpi float64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open PDF document %s", path)
	}
	defer e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	renderResp, err := e.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: int(dpi),
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: doc.Document,
				Index:    page - 1,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render page %d", page)
	}
	defer renderResp.Cleanup()

	var buf bytes.Buffer
	if err := png.Encode(&buf, renderResp.Result.Image); err != nil {
		return nil, errors.Wrap(err, "failed to encode raster")
	}
	return buf.Bytes(), nil
}

// fileFingerprint identifies a file's current contents cheaply by path,
// size and modification time. Good enough to invalidate rasters on edit
// without hashing multi-megabyte documents.
func fileFingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), nil
}
