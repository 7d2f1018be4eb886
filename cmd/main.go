package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/angeloszaimis/portfolio-site/config"
	"github.com/angeloszaimis/portfolio-site/internal/httpserver"
	"github.com/angeloszaimis/portfolio-site/internal/livereload"
	"github.com/angeloszaimis/portfolio-site/internal/metrics"
	"github.com/angeloszaimis/portfolio-site/internal/render"
	"github.com/angeloszaimis/portfolio-site/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	app := &cli.App{
		Name:   "site",
		Usage:  "Serve the portfolio landing page",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Action: serve,
			},
			{
				Name:   "check",
				Usage:  "Render the landing page once and report template errors",
				Action: check,
			},
			{
				Name:  "render",
				Usage: "Write the rendered landing page to stdout or a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file (default: stdout)",
					},
				},
				Action: renderPage,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("site exited with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metricsBufferSize, log)
		collector.Start(ctx)
	}

	reloader := startLiveReload(ctx, cfg, log)

	mux := setupRouter(cfg, log, collector, reloader)

	srv, err := httpserver.New(cfg.Server.Address, mux,
		httpserver.WithTimeouts(
			config.Duration(cfg.Server.ReadTimeout),
			config.Duration(cfg.Server.WriteTimeout),
			config.Duration(cfg.Server.IdleTimeout),
		),
		httpserver.WithShutdownTimeout(config.Duration(cfg.Server.ShutdownTimeout)),
	)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return err
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Site listening",
		slog.String("addr", srv.Addr()),
		slog.String("templates", cfg.Templates.Dir),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("livereload", reloader != nil))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
			return err
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			return err
		}
	}

	return nil
}

func startLiveReload(ctx context.Context, cfg *config.Config, log *slog.Logger) *livereload.Reloader {
	if !cfg.IsDev() || !cfg.LiveReload.Enabled {
		return nil
	}

	reloader := livereload.NewReloader(log)

	watcher, err := livereload.NewWatcher([]string{cfg.Templates.Dir, cfg.Static.Dir}, reloader.BroadcastReload, log)
	if err != nil {
		log.Warn("Live reload disabled, cannot watch files", slog.Any("err", err))
		return nil
	}

	go watcher.Run(ctx)
	return reloader
}

func check(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	body, err := renderIndex(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(c.App.Writer, "ok: %s rendered (%d bytes)\n", cfg.Templates.Index, len(body))
	return nil
}

func renderPage(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	body, err := renderIndex(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return writeOutput(c.App.Writer, c.String("out"), body)
}

func renderIndex(cfg *config.Config) ([]byte, error) {
	return newRenderer(cfg).Render(cfg.Templates.Index, map[string]any{})
}

func newRenderer(cfg *config.Config) *render.TemplateRenderer {
	return render.New(os.DirFS(cfg.Templates.Dir),
		render.WithAssets(os.DirFS(cfg.Static.Dir)),
		render.WithMinify(cfg.Render.Minify),
	)
}

func writeOutput(stdout io.Writer, path string, body []byte) error {
	if path == "" {
		_, err := stdout.Write(body)
		return err
	}

	return os.WriteFile(path, body, 0o644)
}
