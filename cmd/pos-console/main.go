package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bitbucket.org/mmdatafocus/udhaar_pos/appctx"
	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/workflow"
)

func main() {
	backend := flag.String("backend", "", "Catalog backend: memory or mysql (defaults to POS_CATALOG_BACKEND)")
	lock := flag.String("lock", "", "Stock lock: local or redis (defaults to POS_STOCK_LOCK)")
	seed := flag.Bool("seed", true, "Load the demo products and customers if they are missing")
	terminal := flag.String("terminal", os.Getenv("POS_TERMINAL_ID"), "Terminal id attached to sale logs and traces")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if t := strings.TrimSpace(*terminal); t != "" {
		ctx = appctx.WithTerminalId(ctx, t)
	}

	logger := config.GetLogger()
	settings := config.LoadSettings()
	if v := strings.ToLower(strings.TrimSpace(*backend)); v != "" {
		settings.CatalogBackend = v
	}
	if v := strings.ToLower(strings.TrimSpace(*lock)); v != "" {
		settings.StockLock = v
	}

	store, err := openCatalog(ctx, settings, *seed)
	if err != nil {
		config.LogError(logger, "pos-console", "main", "openCatalog", settings.CatalogBackend, err)
		fmt.Fprintf(os.Stderr, "failed to open catalog: %v\n", err)
		os.Exit(1)
	}

	locker, err := openLocker(ctx, settings)
	if err != nil {
		config.LogError(logger, "pos-console", "main", "openLocker", settings.StockLock, err)
		fmt.Fprintf(os.Stderr, "failed to set up stock lock: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseRedis()

	c := newConsole(store, locker, settings, os.Stdin, os.Stdout)
	c.finalizer.Subscribe(workflow.LogSaleListener{Logger: logger})
	if config.PublishSalesEnabled() {
		c.finalizer.Subscribe(workflow.NewPubSubSalePublisher(settings.SaleTopic))
		defer config.ClosePubSub()
	}

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "console stopped: %v\n", err)
		os.Exit(1)
	}
}

func openCatalog(ctx context.Context, settings config.Settings, seed bool) (catalog.Catalog, error) {
	switch settings.CatalogBackend {
	case config.CatalogBackendMySQL:
		if err := config.ConnectDatabaseWithRetry(ctx); err != nil {
			return nil, err
		}
		store := catalog.NewGormStore(config.GetDB(), settings.PhoneRegion)
		if err := store.MigrateTable(ctx); err != nil {
			return nil, err
		}
		if seed {
			if err := catalog.SeedManager(ctx, store, catalog.DemoProducts(), catalog.DemoCustomers()); err != nil {
				return nil, err
			}
		}
		return store, nil
	case config.CatalogBackendMemory, "":
		store := catalog.NewMemoryStore(settings.PhoneRegion)
		if seed {
			store.Seed(catalog.DemoProducts(), catalog.DemoCustomers())
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", settings.CatalogBackend)
	}
}

func openLocker(ctx context.Context, settings config.Settings) (catalog.Locker, error) {
	switch settings.StockLock {
	case config.StockLockRedis:
		if err := config.ConnectRedisWithRetry(ctx); err != nil {
			return nil, err
		}
		return catalog.NewRedisLocker(config.GetRedisLock(), settings.StockLockTTL), nil
	case config.StockLockLocal, "":
		return catalog.NewLocalLocker(), nil
	default:
		return nil, fmt.Errorf("unknown stock lock %q", settings.StockLock)
	}
}
