package main

import (
	"go.uber.org/zap"

	"github.com/sirupsen/logrus"

	"backend/internal/agents"
	"backend/internal/config"
	"backend/internal/llm"
	"backend/internal/notifier"
	"backend/internal/repository"
	"backend/internal/server"
	"backend/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	service.SetJWTSecret(cfg.Auth.JWTSecret)

	// Database connection
	db, err := repository.NewSQLiteDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	eventRepo := repository.NewCrisisEventRepository(db, logger)
	crisisService := service.NewCrisisService(eventRepo, logger)

	// Escalation notifier (optional)
	tgNotifier, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		tgNotifier = nil
	}

	// Agent bureau: mood tracker, crisis monitor, conversation coordinator
	agentLog := logrus.New()
	agentLog.SetFormatter(&logrus.JSONFormatter{})
	bus := agents.NewRegistry(agentLog)

	agents.NewMoodTracker(crisisService, bus, cfg.Agents.MoodAlertFloor, agentLog)

	var escalationNotifier agents.EscalationNotifier
	if tgNotifier != nil {
		escalationNotifier = tgNotifier
	}
	agents.NewCrisisMonitor(crisisService, escalationNotifier, bus, agentLog)

	var chat agents.ChatClient
	if cfg.LLM.Enabled {
		chat = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
		logger.Info("LLM chat client enabled", zap.String("model", cfg.LLM.Model))
	}
	coordinator := agents.NewCoordinator(crisisService, chat, bus, agentLog)

	// Initialize and run the server
	srv := server.NewServer(db, cfg, crisisService, bus, coordinator, logger)
	srv.Run(cfg.Server.Port)
}
