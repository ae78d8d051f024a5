package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetindex/internal/asset/uasset"
	"git.home.luguber.info/inful/assetindex/internal/catalog"
	"git.home.luguber.info/inful/assetindex/internal/config"
	"git.home.luguber.info/inful/assetindex/internal/indexer"
	"git.home.luguber.info/inful/assetindex/internal/linkcheck"
	"git.home.luguber.info/inful/assetindex/internal/logfields"
	"git.home.luguber.info/inful/assetindex/internal/metrics"
	"git.home.luguber.info/inful/assetindex/internal/scan"
	"git.home.luguber.info/inful/assetindex/internal/site"
	"git.home.luguber.info/inful/assetindex/internal/version"
	"git.home.luguber.info/inful/assetindex/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (optional)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Index struct {
		Paths       []string `arg:"" optional:"" help:"Asset files or directories to index"`
		Incremental bool     `short:"i" help:"Skip assets whose catalog hash is unchanged (requires a catalog)"`
	} `cmd:"" default:"withargs" help:"Generate cross-reference sites for the given paths"`

	Watch struct {
		Root        string `arg:"" help:"Directory tree to watch"`
		MetricsAddr string `help:"Listen address for the Prometheus /metrics endpoint (optional)"`
	} `cmd:"" help:"Keep a directory tree's sites up to date as assets change"`

	Verify struct {
		Site string `arg:"" help:"Generated site directory to check"`
	} `cmd:"" help:"Check a generated site for broken relative links"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg := config.Default()
	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}

	switch ctx.Command() {
	case "index", "index <paths>":
		if len(CLI.Index.Paths) == 0 {
			printUsage()
			return
		}
		if err := runIndex(cfg, CLI.Index.Paths, CLI.Index.Incremental); err != nil {
			slog.Error("Indexing finished with errors", logfields.Error(err))
			os.Exit(1)
		}
	case "watch <root>":
		if err := runWatch(cfg, CLI.Watch.Root, CLI.Watch.MetricsAddr); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	case "verify <site>":
		if err := runVerify(CLI.Verify.Site); err != nil {
			slog.Error("Verification failed", logfields.Error(err))
			os.Exit(1)
		}
	case "version":
		fmt.Printf("assetindex %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Please pass in at least one asset. Example:")
	fmt.Fprintln(os.Stderr, "> assetindex path/to/my_asset.uasset")
}

// newIndexer wires the provider, generator, and optional catalog per config.
func newIndexer(cfg *config.Settings, recorder metrics.Recorder) (*indexer.Indexer, func(), error) {
	provider := uasset.NewProvider(cfg.SiblingExtension)
	generator := site.NewGenerator(scan.New(cfg.Marker)).SetRecorder(recorder)
	ix := indexer.New(cfg, provider, generator).SetRecorder(recorder)

	cleanup := func() {}
	if cfg.Catalog.Path != "" {
		cat, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		ix.SetCatalog(cat)
		cleanup = func() {
			if err := cat.Close(); err != nil {
				slog.Warn("Failed to close catalog", logfields.Error(err))
			}
		}
	}
	return ix, cleanup, nil
}

func runIndex(cfg *config.Settings, paths []string, incremental bool) error {
	ix, cleanup, err := newIndexer(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer cleanup()
	ix.SetIncremental(incremental)

	// Each path stands alone: one failing never halts the rest.
	failed := 0
	for _, path := range paths {
		if err := ix.Index(path); err != nil {
			slog.Error("Indexing failed", logfields.Path(path), logfields.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d paths failed", failed, len(paths))
	}
	return nil
}

func runWatch(cfg *config.Settings, root, metricsAddr string) error {
	recorder := metrics.Recorder(metrics.NoopRecorder{})

	if metricsAddr == "" {
		metricsAddr = cfg.Watch.MetricsAddr
	}
	if metricsAddr != "" {
		prom := metrics.NewPrometheusRecorder()
		recorder = prom

		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", slog.String("addr", metricsAddr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	ix, cleanup, err := newIndexer(cfg, recorder)
	if err != nil {
		return err
	}
	defer cleanup()
	ix.SetIncremental(true)

	watcher, err := watch.New(root, ix, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- watcher.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("watcher error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping watcher...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return watcher.Stop(stopCtx)
}

func runVerify(siteDir string) error {
	issues, err := linkcheck.VerifySite(siteDir)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d broken links", len(issues))
	}
	slog.Info("No broken links", logfields.Dir(siteDir))
	return nil
}
