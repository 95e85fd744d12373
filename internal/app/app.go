package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-headlines/internal/config"
	"github.com/samvad-hq/samvad-headlines/internal/gateway"
	"github.com/samvad-hq/samvad-headlines/internal/headlines"
	"github.com/samvad-hq/samvad-headlines/internal/logger"
	"github.com/samvad-hq/samvad-headlines/internal/metrics"
	"github.com/samvad-hq/samvad-headlines/internal/navigation"
	"github.com/samvad-hq/samvad-headlines/internal/preview"
	"github.com/samvad-hq/samvad-headlines/internal/storage"
	"github.com/samvad-hq/samvad-headlines/internal/usecase"
	"github.com/samvad-hq/samvad-headlines/pkg/httpclient"
	"github.com/samvad-hq/samvad-headlines/pkg/locale"
	"github.com/samvad-hq/samvad-headlines/pkg/newsapi"
	"github.com/samvad-hq/samvad-headlines/pkg/publishers"
)

// RunOptions selects what a single Run does.
type RunOptions struct {
	// Watch re-renders on every state change until the context ends.
	Watch bool
	// Retry issues one RetryLoad when the first load ends in an error.
	Retry bool
	// Open selects the Nth headline (1-based) after loading.
	Open int
	// History lists read history instead of loading headlines.
	History      bool
	HistoryLimit int
	// Reload triggers a reload in watch mode; a failed load is retried.
	Reload <-chan os.Signal
}

const (
	hintRetryFlag = "Run again with --retry to try once more."
	hintReload    = "Send SIGHUP to retry."
)

// App wires the headlines pipeline from configuration.
type App struct {
	cfg      *config.Config
	log      logger.Logger
	machine  *headlines.Machine
	renderer *Renderer
	store    storage.Store
	fanout   *publishers.Fanout
	metrics  *http.Server
}

// NewApp builds the runtime. Output is written to out.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)
	if out == nil {
		out = io.Discard
	}

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	countries := locale.NewProvider(cfg.Country)
	gw := gateway.New(newsapi.NewClient(httpClient, cfg.NewsAPIBaseURL), countries, cfg.NewsAPIKey, log)
	loader := usecase.NewGetTopHeadlines(gw)

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	navOpts := navigation.Options{
		Store:     store,
		Publisher: fanout,
		Country:   countries.CountryCode,
		Out:       out,
		Log:       log,
	}
	if cfg.PreviewEnabled {
		navOpts.Preview = preview.NewFetcher(httpClient)
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		machine:  headlines.NewMachine(loader, navigation.New(navOpts), log),
		renderer: NewRenderer(out, store),
		store:    store,
		fanout:   fanout,
	}
	if cfg.MetricsAddr != "" {
		a.metrics = startMetricsServer(cfg.MetricsAddr, log)
	}
	return a, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.DebugObj("no publishers file configured", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

func startMetricsServer(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorObj("metrics server stopped", "error", err.Error())
		}
	}()
	log.InfoObj("metrics server listening", "metrics_addr", addr)
	return srv
}

// Run executes one CLI invocation.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if a == nil || a.machine == nil {
		return fmt.Errorf("app is not initialized")
	}

	switch {
	case opts.History:
		return a.showHistory(opts.HistoryLimit)
	case opts.Watch:
		return a.watch(ctx, opts.Reload)
	default:
		return a.once(ctx, opts)
	}
}

func (a *App) once(ctx context.Context, opts RunOptions) error {
	if !opts.Retry {
		a.renderer.SetErrorHint(hintRetryFlag)
	}
	a.machine.Dispatch(ctx, headlines.LoadOrRefresh{})
	a.machine.Wait()

	if _, failed := a.machine.State().(headlines.Error); failed && opts.Retry {
		a.log.InfoObj("retrying after failed load", "state", headlines.StateName(a.machine.State()))
		a.machine.Dispatch(ctx, headlines.RetryLoad{})
		a.machine.Wait()
	}

	state := a.machine.State()
	if opts.Open <= 0 {
		return a.renderer.Render(state)
	}

	success, ok := state.(headlines.Success)
	if !ok {
		_ = a.renderer.Render(state)
		return fmt.Errorf("no headlines to open")
	}
	if opts.Open > len(success.Articles) {
		return fmt.Errorf("headline %d out of range (1-%d)", opts.Open, len(success.Articles))
	}
	a.machine.Dispatch(ctx, headlines.ArticleSelected{Article: success.Articles[opts.Open-1]})
	return nil
}

func (a *App) watch(ctx context.Context, reload <-chan os.Signal) error {
	a.renderer.SetErrorHint(watchHint(a.cfg.RefreshInterval, reload != nil))

	states, unsubscribe := a.machine.Subscribe()
	defer unsubscribe()

	a.machine.Dispatch(ctx, headlines.LoadOrRefresh{})

	var tick <-chan time.Time
	if a.cfg.RefreshInterval > 0 {
		ticker := time.NewTicker(a.cfg.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	a.log.InfoObj("watching headlines", "watch_config", map[string]any{
		"refresh_interval": a.cfg.RefreshInterval.String(),
		"reload_signal":    reload != nil,
	})

	for {
		select {
		case <-ctx.Done():
			a.log.InfoObj("watch loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-tick:
			a.refresh(ctx)
		case <-reload:
			a.log.InfoObj("reload requested", "state", headlines.StateName(a.machine.State()))
			a.refresh(ctx)
		case s, ok := <-states:
			if !ok {
				return nil
			}
			if err := a.renderer.Render(s); err != nil {
				return err
			}
		}
	}
}

// refresh retries after an error and reloads otherwise.
func (a *App) refresh(ctx context.Context) {
	if _, failed := a.machine.State().(headlines.Error); failed {
		a.machine.Dispatch(ctx, headlines.RetryLoad{})
		return
	}
	a.machine.Dispatch(ctx, headlines.LoadOrRefresh{})
}

func watchHint(interval time.Duration, reload bool) string {
	var parts []string
	if interval > 0 {
		parts = append(parts, fmt.Sprintf("Retrying in %s.", interval))
	}
	if reload {
		parts = append(parts, hintReload)
	}
	return strings.Join(parts, " ")
}

func (a *App) showHistory(limit int) error {
	entries, err := a.store.History(limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return a.renderer.RenderHistory(entries)
}

// Close stops in-flight work and releases resources.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.machine.Close()

	var errs []error
	if a.metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}
	if err := a.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
