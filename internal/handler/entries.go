package handler

import (
	"net/http"
	"strconv"

	"backend/internal/agents"
	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MoodHandler interface {
	CreateEntry(c *gin.Context)
	ListEntries(c *gin.Context)
}

type JournalHandler interface {
	CreateEntry(c *gin.Context)
	ListEntries(c *gin.Context)
}

type moodHandler struct {
	moodRepo repository.MoodRepository
	bus      *agents.Registry
	logger   *zap.Logger
}

func NewMoodHandler(moodRepo repository.MoodRepository, bus *agents.Registry, logger *zap.Logger) MoodHandler {
	return &moodHandler{moodRepo: moodRepo, bus: bus, logger: logger}
}

type MoodEntryRequest struct {
	Score int    `json:"score" binding:"required,min=1,max=10"`
	Note  string `json:"note"`
}

// CreateEntry handles POST /api/mood. The note is scanned for crisis
// indicators by the mood tracker agent.
func (h *moodHandler) CreateEntry(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req MoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.MoodEntry{UserID: userID, Score: req.Score, Note: req.Note}
	if err := h.moodRepo.SaveEntry(entry); err != nil {
		h.logger.Error("Failed to save mood entry", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mood entry"})
		return
	}

	if h.bus != nil {
		alert := agents.MoodAlert{UserID: userID, Score: req.Score, Note: req.Note}
		if err := h.bus.Dispatch(c.Request.Context(), alert); err != nil {
			h.logger.Error("Failed to dispatch mood alert", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// ListEntries handles GET /api/mood.
func (h *moodHandler) ListEntries(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be between 1 and 200"})
		return
	}

	entries, err := h.moodRepo.GetEntries(userID, limit)
	if err != nil {
		h.logger.Error("Failed to list mood entries", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mood entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

type journalHandler struct {
	journalRepo   repository.JournalRepository
	crisisService service.CrisisService
	bus           *agents.Registry
	logger        *zap.Logger
}

func NewJournalHandler(journalRepo repository.JournalRepository, crisisService service.CrisisService, bus *agents.Registry, logger *zap.Logger) JournalHandler {
	return &journalHandler{journalRepo: journalRepo, crisisService: crisisService, bus: bus, logger: logger}
}

type JournalEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// CreateEntry handles POST /api/journal. The content runs through the crisis
// scanner before the response is returned.
func (h *journalHandler) CreateEntry(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.JournalEntry{UserID: userID, Title: req.Title, Content: req.Content}
	if err := h.journalRepo.SaveEntry(entry); err != nil {
		h.logger.Error("Failed to save journal entry", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save journal entry"})
		return
	}

	assessment := h.crisisService.Assess(c.Request.Context(), userID, req.Content, "journal", nil)
	if assessment.EscalationNeeded && h.bus != nil {
		alert := agents.CrisisAlert{UserID: userID, Assessment: assessment}
		if err := h.bus.Dispatch(c.Request.Context(), alert); err != nil {
			h.logger.Error("Failed to dispatch crisis alert", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	resp := gin.H{"entry": entry}
	if assessment.CrisisLevel != models.CrisisLevelNone {
		resp["crisis_check"] = gin.H{
			"crisis_level":     assessment.CrisisLevel,
			"safety_resources": assessment.SafetyResources,
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// ListEntries handles GET /api/journal.
func (h *journalHandler) ListEntries(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be between 1 and 200"})
		return
	}

	entries, err := h.journalRepo.GetEntries(userID, limit)
	if err != nil {
		h.logger.Error("Failed to list journal entries", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}
