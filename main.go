package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"CourtPrint/app/config"
	"CourtPrint/app/database"
	"CourtPrint/app/services"
	"CourtPrint/app/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// .env overrides are optional
	godotenv.Load()

	logger := services.NewLoggerService()
	defer logger.Close()

	if err := logger.CleanOldLogs(30); err != nil {
		logger.LogWarning("Could not clean old logs", err.Error())
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		logger.LogFatal("Could not load configuration", err)
	}
	applyEnvOverrides(cfg)

	dataDir, err := config.GetConfigDir()
	if err != nil {
		logger.LogFatal("Could not resolve data directory", err)
	}
	if err := database.Initialize(dataDir); err != nil {
		logger.LogFatal("Could not initialize database", err)
	}

	printer := services.NewPrinterService(cfg, logger)

	if detected, err := services.DetectSystemPrinters(); err == nil {
		logger.LogInfo("Printer detection", fmt.Sprintf("%d candidate(s) found", len(detected)))
	}

	server, err := websocket.NewServer(fmt.Sprintf(":%d", cfg.Server.WSPort), printer, logger, cfg.Server.AgentKey)
	if err != nil {
		logger.LogFatal("Could not create print server", err)
	}

	go func() {
		defer logger.RecoverPanic()
		if err := server.Start(); err != nil {
			logger.LogFatal("Print server stopped", err)
		}
	}()

	if cfg.FirstRun {
		cfg.FirstRun = false
		if err := config.SaveConfig(cfg); err != nil {
			logger.LogWarning("Could not persist first-run flag", err.Error())
		}
	}

	logger.LogInfo("Agent started", fmt.Sprintf("listening on :%d", cfg.Server.WSPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.LogInfo("Agent shutting down")
	server.Stop()
}

// applyEnvOverrides lets deployments override the stored config without
// editing config.json
func applyEnvOverrides(cfg *config.AppConfig) {
	if v := os.Getenv("WS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.WSPort = port
		}
	}
	if v := os.Getenv("AGENT_KEY"); v != "" {
		cfg.Server.AgentKey = v
	}
	if v := os.Getenv("ESTABLISHMENT_NAME"); v != "" {
		cfg.Establishment.Name = v
	}
	if v := os.Getenv("ESTABLISHMENT_URL"); v != "" {
		cfg.Establishment.EstablishmentURL = v
	}
	if v := os.Getenv("REVIEW_URL"); v != "" {
		cfg.Establishment.ReviewURL = v
	}
}
