package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/angeloszaimis/portfolio-site/config"
	"github.com/angeloszaimis/portfolio-site/internal/handler"
	"github.com/angeloszaimis/portfolio-site/internal/livereload"
	"github.com/angeloszaimis/portfolio-site/internal/metrics"
	"github.com/angeloszaimis/portfolio-site/internal/site"
	"github.com/angeloszaimis/portfolio-site/internal/static"
)

const (
	routeStatic = "static"
	statsPath   = "/debug/stats"
)

// setupRouter mounts the page route table next to the host endpoints:
// static assets, metrics when collector is non-nil, and live reload when
// reloader is non-nil.
func setupRouter(cfg *config.Config, log *slog.Logger, collector *metrics.Collector, reloader *livereload.Reloader) *http.ServeMux {
	mux := http.NewServeMux()

	var home http.Handler = handler.NewHomeHandler(log, newRenderer(cfg), cfg.Templates.Index, collector)
	if reloader != nil {
		home = livereload.Inject(home, log)
	}

	site.Register(mux, site.Routes(home), func(name string, next http.Handler) http.Handler {
		return handler.WithRequestID(handler.Instrument(name, log, collector, next))
	})

	assets := static.New(os.DirFS(cfg.Static.Dir), cfg.IsDev(), log)
	mux.Handle("GET "+static.Prefix, handler.WithRequestID(
		handler.Instrument(routeStatic, log, collector, http.StripPrefix(static.Prefix, assets))))

	if collector != nil {
		mux.Handle("GET "+cfg.Metrics.Path, collector.PrometheusHandler())
		mux.HandleFunc("GET "+statsPath, collector.Handler())
	}

	if reloader != nil {
		mux.HandleFunc("GET "+livereload.Path, reloader.Handler)
	}

	return mux
}
