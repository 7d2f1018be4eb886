package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/angeloszaimis/portfolio-site/internal/metrics"
	"github.com/angeloszaimis/portfolio-site/internal/render"
)

const contentTypeHTML = "text/html; charset=utf-8"

// HomeHandler renders the landing page template with an empty context.
type HomeHandler struct {
	logger           *slog.Logger
	renderer         render.Renderer
	template         string
	metricsCollector *metrics.Collector
}

func NewHomeHandler(logger *slog.Logger, renderer render.Renderer, template string, collector *metrics.Collector) *HomeHandler {
	return &HomeHandler{
		logger:           logger,
		renderer:         renderer,
		template:         template,
		metricsCollector: collector,
	}
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := h.renderer.Render(h.template, map[string]any{})
	if err != nil {
		h.logger.Error("Failed to render template",
			slog.String("template", h.template),
			slog.String("request_id", RequestID(r.Context())),
			slog.Any("err", err))

		h.metricsCollector.Emit(metrics.MetricEvent{
			Type:      metrics.EventRenderFailed,
			Timestamp: time.Now(),
			Template:  h.template,
		})

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("Failed to write response", slog.Any("err", err))
	}
}
