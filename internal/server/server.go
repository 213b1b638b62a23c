package server

import (
	"net/http"
	"time"

	"backend/internal/agents"
	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, crisisService service.CrisisService, bus *agents.Registry, coordinator *agents.Coordinator, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes(crisisService, bus, coordinator)

	return s
}

func (s *Server) setupRoutes(crisisService service.CrisisService, bus *agents.Registry, coordinator *agents.Coordinator) {
	authRepo := repository.NewAuthRepository(s.db, s.logger)
	eventRepo := repository.NewCrisisEventRepository(s.db, s.logger)
	moodRepo := repository.NewMoodRepository(s.db, s.logger)
	journalRepo := repository.NewJournalRepository(s.db, s.logger)
	mindfulnessRepo := repository.NewMindfulnessRepository(s.db, s.logger)

	authService := service.NewAuthService(authRepo, time.Duration(s.cfg.Auth.TokenTTLHrs)*time.Hour, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	crisisHandler := handler.NewCrisisHandler(crisisService, eventRepo, s.logger)
	moodHandler := handler.NewMoodHandler(moodRepo, bus, s.logger)
	journalHandler := handler.NewJournalHandler(journalRepo, crisisService, bus, s.logger)
	mindfulnessHandler := handler.NewMindfulnessHandler(mindfulnessRepo, s.logger)
	conversationHandler := handler.NewConversationHandler(coordinator, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)

		authRequired.POST("/crisis/analyze", crisisHandler.Analyze)
		authRequired.POST("/crisis/assess", crisisHandler.Assess)
		authRequired.POST("/crisis/escalate", crisisHandler.Escalate)
		authRequired.GET("/crisis/resources", crisisHandler.Resources)
		authRequired.GET("/crisis/history", crisisHandler.History)
		authRequired.PUT("/crisis/intervention-status/:id", crisisHandler.UpdateInterventionStatus)

		authRequired.POST("/mood", moodHandler.CreateEntry)
		authRequired.GET("/mood", moodHandler.ListEntries)

		authRequired.POST("/journal", journalHandler.CreateEntry)
		authRequired.GET("/journal", journalHandler.ListEntries)

		authRequired.POST("/mindfulness/sessions", mindfulnessHandler.CreateSession)
		authRequired.GET("/mindfulness/sessions", mindfulnessHandler.ListSessions)
		authRequired.GET("/mindfulness/sessions/:id", mindfulnessHandler.GetSession)
		authRequired.PUT("/mindfulness/sessions/:id", mindfulnessHandler.UpdateSession)
		authRequired.DELETE("/mindfulness/sessions/:id", mindfulnessHandler.DeleteSession)
		authRequired.GET("/mindfulness/templates", mindfulnessHandler.Templates)
		authRequired.GET("/mindfulness/analytics", mindfulnessHandler.Analytics)

		authRequired.POST("/conversation/message", conversationHandler.SendMessage)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
