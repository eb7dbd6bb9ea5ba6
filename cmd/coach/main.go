// Command coach runs the AI career coach API server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/dhruvladia/career-coach-ai/agents"
	"github.com/dhruvladia/career-coach-ai/api"
	"github.com/dhruvladia/career-coach-ai/config"
	"github.com/dhruvladia/career-coach-ai/internal/server"
	"github.com/dhruvladia/career-coach-ai/llm"
	"github.com/dhruvladia/career-coach-ai/persistence"
	"github.com/dhruvladia/career-coach-ai/scraper"
	"github.com/dhruvladia/career-coach-ai/workflow"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "coach:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.NewLoader().WithConfigPath(configPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	stores, err := persistence.NewStores(cfg.StoreSettings(), logger)
	if err != nil {
		return fmt.Errorf("build stores: %w", err)
	}
	defer stores.Close()

	provider := llm.NewOpenRouterProvider(cfg.LLMSettings(), logger)
	profileScraper := scraper.NewApifyScraper(cfg.ScraperSettings(), logger)

	table := workflow.NewDispatchTable()
	stages := map[string]workflow.Stage{
		agents.LabelProfileUpdater:     agents.NewProfileUpdaterAgent(provider, stores.Profile, logger),
		agents.LabelJobFitAnalyst:      agents.NewJobFitAnalyst(provider, logger),
		agents.LabelCareerPath:         agents.NewCareerPathAgent(provider, logger),
		agents.LabelContentEnhancement: agents.NewContentEnhancementAgent(provider, logger),
	}
	for label, stage := range stages {
		if err := table.Register(label, stage); err != nil {
			return fmt.Errorf("register stage %s: %w", label, err)
		}
	}
	table.SetDefault(agents.FallbackLabel)

	engine := workflow.NewEngine(
		agents.NewRouterAgent(provider, logger),
		table,
		stores.State,
		workflow.WithLogger(logger),
		workflow.WithMetrics(workflow.NewMetrics(prometheus.DefaultRegisterer)),
		workflow.WithTracer(otel.Tracer("workflow")),
	)

	handler := api.NewHandler(engine, profileScraper, stores.Profile, stores.History, version, logger)
	mux := api.NewMux(handler, cfg.Server.AllowedOrigin)

	serverCfg := server.DefaultConfig()
	serverCfg.Addr = fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	manager := server.NewManager(mux, serverCfg, logger)
	if err := manager.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	logger.Info("career coach started",
		zap.String("addr", manager.Addr()),
		zap.String("version", version),
		zap.String("model", cfg.LLM.Model),
		zap.String("store_backend", cfg.Store.Backend))

	manager.WaitForShutdown()
	return nil
}
