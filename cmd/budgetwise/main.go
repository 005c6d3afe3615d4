package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"budgetwise/internal/advisor"
	"budgetwise/internal/amqp"
	"budgetwise/internal/backend"
	"budgetwise/internal/cache"
	"budgetwise/internal/cli"
	"budgetwise/internal/config"
	"budgetwise/internal/events"
	apphttp "budgetwise/internal/http"
	"budgetwise/internal/log"
	"budgetwise/internal/services"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Error("Service stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.GracefulShutdown(context.Background(), logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	be, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	broker := events.NewBroker(logger.WithComponent(log.ComponentEvents).Logger)
	defer broker.Close()

	reportCache := cache.NewLRUCache[any](cfg.CacheSize, cfg.CacheTTL)
	janitor := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	janitor.Register(reportCache)

	reports := services.NewReportService(be.Store, services.ReportOptions{
		Cache:       reportCache,
		YearlyScope: cfg.GoalYearlyScope,
		Logger:      logger.WithComponent(log.ComponentReports).Logger,
	})
	broker.Handle(reports.Notify)
	records := services.NewRecordService(be.Store, broker)
	helpdesk := services.NewHelpDesk(be.Store, broker)

	var budgetAdvisor apphttp.Advisor
	if cfg.GeminiAPIKey != "" {
		model, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.AdvisorModel)
		if err != nil {
			return fmt.Errorf("create advisor: %w", err)
		}
		budgetAdvisor = advisor.New(model, reports, advisor.Options{
			ModelName: cfg.AdvisorModel,
			Timeout:   cfg.AdvisorTimeout,
		})
		logger.Info("Budget advisor enabled", "model", cfg.AdvisorModel)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Records:   records,
		Reports:   reports,
		Advisor:   budgetAdvisor,
		HelpDesk:  helpdesk,
		Changes:   broker,
		Ready:     be.Ping,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	var relay *services.Relay
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect change relay: %w", err)
		}
		defer client.Close()

		instance := uuid.NewString()
		relay = services.NewRelay(client, broker, instance, logger.WithComponent(log.ComponentRelay).Logger)
		logger.Info("Change relay enabled", "exchange", cfg.AMQPExchange, log.FieldOrigin, instance)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx, cfg.ShutdownTimeout) })
	g.Go(func() error { return janitor.Run(ctx, cfg.CacheCleanEvery) })
	if relay != nil {
		g.Go(func() error { return relay.Run(ctx) })
	}

	logger.Info("Budgetwise started",
		"backend", backendCfg.Type.String(),
		"port", cfg.Port,
		"goal_yearly_scope", cfg.GoalYearlyScope)

	return g.Wait()
}
