package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cellular-usage-report/internal/config"
	"cellular-usage-report/internal/infrastructure/database/postgres"
	"cellular-usage-report/internal/infrastructure/directory"
	"cellular-usage-report/internal/infrastructure/inventory"
	"cellular-usage-report/internal/infrastructure/memory"
	"cellular-usage-report/internal/infrastructure/messaging"
	"cellular-usage-report/internal/infrastructure/oauth"
	"cellular-usage-report/internal/infrastructure/routerapi"
	"cellular-usage-report/internal/logger"
	operatorUsecase "cellular-usage-report/internal/usecase/operator"
	"cellular-usage-report/internal/usecase/report"
	"cellular-usage-report/pkg/mqtt"

	"go.uber.org/zap"
)

// App holds the wired components shared by the HTTP server and the CLI.
type App struct {
	Config    *config.Config
	Directory *directory.Directory
	Reports   *report.Service
	Operators *operatorUsecase.Service
	DB        *postgres.DB

	closers []func() error
}

// New loads the device directory and wires the report pipeline. The
// directory is required: without it no report can name its devices.
func New(cfg *config.Config) (*App, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	a := &App{Config: cfg}

	dir, err := directory.Load(cfg.Directory.Path, cfg.Directory.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("failed to load device directory: %w", err)
	}
	a.Directory = dir
	logger.Info("Device directory loaded",
		zap.String("path", cfg.Directory.Path),
		zap.Int("devices", dir.Len()),
	)

	diagnostics, closeDiagnostics, err := logger.NewDiagnosticLog(cfg.Report.DiagnosticLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostic log: %w", err)
	}
	a.closers = append(a.closers, closeDiagnostics)

	usageHTTP := &http.Client{Timeout: cfg.UsageAPI.Timeout}
	usageTokens := oauth.NewTokenProvider("usage", cfg.UsageAPI.TokenURL,
		cfg.UsageAPI.ClientID, cfg.UsageAPI.ClientSecret, usageHTTP, diagnostics)
	usageSource := routerapi.NewClient(usageHTTP, cfg.UsageAPI.UsageURL(), cfg.UsageAPI.WANID)

	var enricher report.Enricher
	if cfg.InventoryAPI.Enabled() {
		inventoryHTTP := &http.Client{Timeout: cfg.InventoryAPI.Timeout}
		inventoryTokens := oauth.NewTokenProvider("inventory", cfg.InventoryAPI.TokenURL,
			cfg.InventoryAPI.ClientID, cfg.InventoryAPI.ClientSecret, inventoryHTTP, diagnostics)
		enricher = inventory.NewClient(inventoryHTTP, inventoryTokens, cfg.InventoryAPI.LookupURL)
		logger.Info("Location enrichment enabled", zap.String("lookup_url", cfg.InventoryAPI.LookupURL))
	}

	var publisher report.Publisher
	if cfg.MQTT.Enabled() {
		client := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			KeepAlive:            30,
			ConnectTimeout:       10,
			PublishTimeout:       5 * time.Second,
			MaxReconnectInterval: time.Minute,
		})
		if err := client.Connect(); err != nil {
			logger.Warn("MQTT unavailable, reports will not be published", zap.Error(err))
		} else {
			publisher = messaging.NewReportPublisher(client, cfg.MQTT.ReportTopic, cfg.MQTT.QoS)
			a.closers = append(a.closers, func() error {
				client.Disconnect()
				return nil
			})
		}
	}

	a.Reports = report.NewService(usageTokens, usageSource, dir, enricher, publisher, report.Options{
		ThresholdGiB:    cfg.Report.ThresholdGiB,
		MaxLookbackDays: cfg.Report.MaxLookbackDays,
	})

	return a, nil
}

// InitOperators sets up operator storage. Postgres is used when configured
// and seeded from the static table; otherwise the static table is served
// read-only from memory.
func (a *App) InitOperators(ctx context.Context) error {
	seed, err := memory.ParseOperatorTable(a.Config.Operators)
	if err != nil {
		return fmt.Errorf("invalid OPERATORS table: %w", err)
	}

	if !a.Config.Database.Enabled() {
		if len(seed) == 0 {
			logger.Warn("No operators configured, nobody will be able to log in")
		}
		a.Operators = operatorUsecase.NewService(memory.NewOperatorRepository(seed), a.Config.JWT)
		return nil
	}

	db, err := postgres.NewDB(a.Config)
	if err != nil {
		return err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(); err != nil {
		return err
	}

	a.Operators = operatorUsecase.NewService(postgres.NewOperatorRepository(db), a.Config.JWT)

	created, err := a.Operators.Seed(ctx, seed)
	if err != nil {
		return err
	}
	if created > 0 {
		logger.Info("Seeded operators from configuration", zap.Int("created", created))
	}
	return nil
}

// Health reports whether backing stores are reachable.
func (a *App) Health() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Health()
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validate(cfg *config.Config) error {
	var missing []string
	if cfg.UsageAPI.BaseURL == "" {
		missing = append(missing, "USAGE_API_BASE_URL")
	}
	if cfg.UsageAPI.ClientID == "" {
		missing = append(missing, "USAGE_API_CLIENT_ID")
	}
	if cfg.UsageAPI.ClientSecret == "" {
		missing = append(missing, "USAGE_API_CLIENT_SECRET")
	}
	if cfg.Directory.Path == "" {
		missing = append(missing, "DEVICE_DIRECTORY_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}
