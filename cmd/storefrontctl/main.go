package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	storefront "github.com/goliatone/go-storefront/components/storefront"
	"github.com/goliatone/go-storefront/components/storefront/commands"
	"github.com/goliatone/go-storefront/components/storefront/gorouter"
	"github.com/goliatone/go-storefront/components/storefront/httpapi"
	"github.com/goliatone/go-storefront/pkg/catalog"
	"github.com/goliatone/go-storefront/pkg/export"
)

type cli struct {
	Config string `type:"path" help:"Path to a YAML configuration file."`

	Serve  serveCmd  `cmd:"" help:"Run the storefront admin server."`
	Seed   seedCmd   `cmd:"" help:"Seed persisted collections from defaults and the remote catalog."`
	Export exportCmd `cmd:"" help:"Export collections and aggregates to an xlsx workbook."`
}

type serveCmd struct {
	Listen        string `help:"Listen address override (e.g. :8080)."`
	MetricsListen string `help:"Optional secondary address serving Prometheus metrics."`
	Offline       bool   `help:"Skip the remote catalog and run from persisted/default data."`
}

type seedCmd struct {
	Offline bool `help:"Seed from defaults only, without fetching the remote catalog."`
}

type exportCmd struct {
	Out string `default:"storefront.xlsx" type:"path" help:"Output workbook path."`
}

func main() {
	_ = godotenv.Load()
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Storefront admin server and tooling."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background(), root)
	ctx.FatalIfErrorf(err)
}

func loadConfig(path string) (*storefront.Config, error) {
	var cfg *storefront.Config
	if path == "" {
		cfg = storefront.DefaultConfig()
	} else {
		loaded, err := storefront.ReadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets deployment secrets override file-based configuration.
func applyEnv(cfg *storefront.Config) {
	if v := os.Getenv("STOREFRONT_CATALOG_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_CATALOG_API_KEY"); v != "" {
		cfg.Catalog.APIKey = v
	}
	if v := os.Getenv("STOREFRONT_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("STOREFRONT_ADMIN_USER"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("STOREFRONT_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
}

// openKV selects persistence: sqlite when a path is configured, otherwise an
// in-process map that does not survive restarts.
func openKV(cfg *storefront.Config) (storefront.KV, func(), error) {
	if cfg.Storage.Path == "" {
		return storefront.NewMemoryKV(), func() {}, nil
	}
	kv, err := storefront.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() { _ = kv.Close() }, nil
}

func newFetcher(cfg *storefront.Config, offline bool) (storefront.PageFetcher, error) {
	if offline || cfg.Catalog.BaseURL == "" {
		return nil, nil
	}
	return catalog.NewHTTPClient(catalog.HTTPConfig{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
	})
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if cmd.Listen != "" {
		cfg.Listen = cmd.Listen
	}

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	registry := prometheus.NewRegistry()
	telemetry := storefront.NewPrometheusTelemetry(registry)
	hook := storefront.NewBroadcastHook(storefront.WithBroadcastTelemetry(telemetry))

	state := storefront.NewState(storefront.Options{
		Store:       storefront.NewCollectionStore(kv, "storefront"),
		RefreshHook: hook,
		Telemetry:   telemetry,
	})

	fetcher, err := newFetcher(cfg, cmd.Offline)
	if err != nil {
		return err
	}
	if err := storefront.Bootstrap(ctx, state, fetcher); err != nil {
		log.Printf("remote catalog unavailable, serving persisted data: %v", err)
	}

	var searcher *storefront.Searcher
	if fetcher != nil {
		searcher, err = storefront.NewSearcher(storefront.SearcherOptions{
			Fetcher:  fetcher,
			PageSize: cfg.Search.PageSize,
			Debounce: time.Duration(cfg.Search.DebounceMS) * time.Millisecond,
			OnApply: func(ctx context.Context, page storefront.Page) {
				if err := state.ReplaceProducts(ctx, page.Items); err != nil {
					log.Printf("apply catalog page: %v", err)
				}
			},
		})
		if err != nil {
			return err
		}
		defer searcher.Stop()
	}

	controller, err := storefront.NewController(storefront.ControllerOptions{State: state})
	if err != nil {
		return err
	}

	gate := storefront.NewGate(cfg.Auth.Username, cfg.Auth.Password, kv)

	executor := &httpapi.CommandExecutor{
		AddProductCommander:     commands.NewAddProductCommand(state.Products(), telemetry),
		UpdateProductCommander:  commands.NewUpdateProductCommand(state.Products(), telemetry),
		RemoveProductCommander:  commands.NewRemoveProductCommand(state.Products(), telemetry),
		AddCustomerCommander:    commands.NewAddCustomerCommand(state.Customers(), telemetry),
		UpdateCustomerCommander: commands.NewUpdateCustomerCommand(state.Customers(), telemetry),
		RemoveCustomerCommander: commands.NewRemoveCustomerCommand(state.Customers(), telemetry),
		AddOrderCommander:       commands.NewAddOrderCommand(state.Orders(), telemetry),
		UpdateOrderCommander:    commands.NewUpdateOrderCommand(state.Orders(), telemetry),
		RemoveOrderCommander:    commands.NewRemoveOrderCommand(state.Orders(), telemetry),
		RefreshCommander:        commands.NewRefreshSnapshotCommand(state, telemetry),
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Gate:       gate,
		Broadcast:  hook,
		Searcher:   searcher,
		BasePath:   cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	if cmd.MetricsListen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cmd.MetricsListen, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	log.Printf("storefront admin ready: http://localhost%s%s/dashboard", cfg.Listen, cfg.BasePath)
	return server.Serve(cfg.Listen)
}

func (cmd *seedCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	state := storefront.NewState(storefront.Options{
		Store: storefront.NewCollectionStore(kv, "storefront"),
	})
	fetcher, err := newFetcher(cfg, cmd.Offline)
	if err != nil {
		return err
	}
	seed := commands.NewSeedSnapshotCommand(state, fetcher, nil)
	if err := seed.Execute(ctx, commands.SeedSnapshotInput{FetchRemote: fetcher != nil}); err != nil {
		return err
	}
	snap := state.Snapshot()
	fmt.Fprintf(os.Stdout, "✓ Seeded %d products, %d orders, %d customers\n",
		len(snap.Products), len(snap.Orders), len(snap.Customers))
	return nil
}

func (cmd *exportCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	state := storefront.NewState(storefront.Options{
		Store: storefront.NewCollectionStore(kv, "storefront"),
	})
	state.LoadPersisted(ctx, storefront.DefaultSnapshot())

	report := export.NewExcelReport(state.Snapshot(), state.Metrics())
	if err := report.SaveFile(ctx, cmd.Out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote %s\n", cmd.Out)
	return nil
}
