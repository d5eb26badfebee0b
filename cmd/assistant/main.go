package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"aide/internal/actions/web"
	"aide/internal/cli"
	"aide/internal/config"
	"aide/internal/executor"
	"aide/internal/llm_client"
	"aide/internal/logger"
	"aide/internal/orchestrator"
	"aide/internal/session"
	"aide/internal/store"
)

func main() {
	// A .env file is optional; real env vars still apply without one.
	_ = godotenv.Load()

	cfgPath := os.Getenv("AIDE_CONFIG")
	if cfgPath == "" {
		cfgPath = "aide.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Fatal Error: Could not load config: %v", err)
	}

	if err := logger.Init(cfg.LogFile); err != nil {
		log.Fatalf("Fatal Error: Could not initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := llm_client.Init(llm_client.Config{
		Backend:    cfg.LLM.Backend,
		Model:      cfg.LLM.Model,
		OllamaHost: cfg.LLM.OllamaHost,
	}); err != nil {
		log.Fatalf("Fatal Error: Could not initialize LLM client: %v", err)
	}
	if llm_client.Available() {
		logger.Log.Infof("llm backend %s ready", llm_client.ActiveBackend())
	}
	web.SetTimeout(cfg.FetchTimeout())

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Fatal Error: Could not open mission store: %v", err)
	}
	defer db.Close()

	orc := orchestrator.New(
		session.NewManager(cfg.HistoryLimit),
		executor.New(cfg.DataDir),
		db,
	)
	cli.Execute(orc)
}
