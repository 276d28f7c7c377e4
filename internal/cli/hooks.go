package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deckgrid/deckgrid/pkg/observability"
)

// logHooks forwards report and cache events to the CLI logger at debug
// level, so --verbose shows per-slide progress and cache behavior.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.ReportHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

// registerHooks installs the logger-backed hooks. Called once per command.
func (c *CLI) registerHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetReportHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnResolveStart(_ context.Context, entries int) {
	h.logger.Debug("resolving content", "entries", entries)
}

func (h *logHooks) OnResolveComplete(_ context.Context, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("content resolution failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("content resolved", "items", items, "duration", d)
}

func (h *logHooks) OnSlideStart(_ context.Context, slideIndex, boxCount int) {
	h.logger.Debug("building slide", "slide", slideIndex, "boxes", boxCount)
}

func (h *logHooks) OnSlideComplete(_ context.Context, slideIndex int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("slide failed", "slide", slideIndex, "error", err)
		return
	}
	h.logger.Debug("slide built", "slide", slideIndex, "duration", d)
}

func (h *logHooks) OnWriteStart(_ context.Context, format string, slideCount int) {
	h.logger.Debug("writing output", "format", format, "slides", slideCount)
}

func (h *logHooks) OnWriteComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("write failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("output written", "format", format, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache store", "type", keyType, "bytes", size)
}
