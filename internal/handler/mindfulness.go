package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MindfulnessHandler interface {
	CreateSession(c *gin.Context)
	ListSessions(c *gin.Context)
	GetSession(c *gin.Context)
	UpdateSession(c *gin.Context)
	DeleteSession(c *gin.Context)
	Templates(c *gin.Context)
	Analytics(c *gin.Context)
}

type mindfulnessHandler struct {
	repo   repository.MindfulnessRepository
	logger *zap.Logger
}

func NewMindfulnessHandler(repo repository.MindfulnessRepository, logger *zap.Logger) MindfulnessHandler {
	return &mindfulnessHandler{repo: repo, logger: logger}
}

type CreateSessionRequest struct {
	SessionType     string `json:"session_type" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	MoodBefore      *int   `json:"mood_before" binding:"omitempty,min=1,max=10"`
	StressBefore    *int   `json:"stress_before" binding:"omitempty,min=1,max=10"`
	Notes           string `json:"notes"`
}

// CreateSession handles POST /api/mindfulness/sessions.
func (h *mindfulnessHandler) CreateSession(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateSessionType(req.SessionType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := &models.MindfulnessSession{
		UserID:          userID,
		SessionType:     req.SessionType,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		MoodBefore:      req.MoodBefore,
		StressBefore:    req.StressBefore,
		Notes:           req.Notes,
	}
	if err := h.repo.SaveSession(session); err != nil {
		h.logger.Error("Failed to save mindfulness session", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mindfulness session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions handles GET /api/mindfulness/sessions.
// Query parameters: session_type, completed, limit, offset.
func (h *mindfulnessHandler) ListSessions(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be between 1 and 200"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Offset must not be negative"})
		return
	}

	filter := repository.SessionFilter{
		SessionType: c.Query("session_type"),
		Limit:       limit,
		Offset:      offset,
	}
	if completed := c.Query("completed"); completed != "" {
		val := completed == "true"
		filter.Completed = &val
	}

	sessions, err := h.repo.ListSessions(userID, filter)
	if err != nil {
		h.logger.Error("Failed to list mindfulness sessions", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mindfulness sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetSession handles GET /api/mindfulness/sessions/:id.
func (h *mindfulnessHandler) GetSession(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	session, err := h.repo.GetSessionByID(sessionID, userID)
	if err != nil {
		h.logger.Error("Failed to get mindfulness session", zap.Int64("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get mindfulness session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

type UpdateSessionRequest struct {
	Completed                *bool   `json:"completed"`
	CompletedDurationMinutes *int    `json:"completed_duration_minutes" binding:"omitempty,gt=0"`
	MoodAfter                *int    `json:"mood_after" binding:"omitempty,min=1,max=10"`
	StressAfter              *int    `json:"stress_after" binding:"omitempty,min=1,max=10"`
	EffectivenessRating      *int    `json:"effectiveness_rating" binding:"omitempty,min=1,max=10"`
	Notes                    *string `json:"notes"`
}

// UpdateSession handles PUT /api/mindfulness/sessions/:id, typically to mark
// a session completed with after-practice self-reports.
func (h *mindfulnessHandler) UpdateSession(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.repo.GetSessionByID(sessionID, userID)
	if err != nil {
		h.logger.Error("Failed to get mindfulness session", zap.Int64("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update mindfulness session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if req.Completed != nil {
		session.Completed = *req.Completed
		if *req.Completed && session.CompletedAt == nil {
			now := time.Now().UTC()
			session.CompletedAt = &now
		}
	}
	if req.CompletedDurationMinutes != nil {
		session.CompletedDurationMinutes = req.CompletedDurationMinutes
	}
	if req.MoodAfter != nil {
		session.MoodAfter = req.MoodAfter
	}
	if req.StressAfter != nil {
		session.StressAfter = req.StressAfter
	}
	if req.EffectivenessRating != nil {
		session.EffectivenessRating = req.EffectivenessRating
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	if err := h.repo.UpdateSession(session); err != nil {
		h.logger.Error("Failed to update mindfulness session", zap.Int64("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update mindfulness session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteSession handles DELETE /api/mindfulness/sessions/:id.
func (h *mindfulnessHandler) DeleteSession(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	if err := h.repo.DeleteSession(sessionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.logger.Error("Failed to delete mindfulness session", zap.Int64("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete mindfulness session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// Templates handles GET /api/mindfulness/templates.
func (h *mindfulnessHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": sessionTemplates()})
}

// Analytics handles GET /api/mindfulness/analytics.
// Query parameters: days (1-365, default 30).
func (h *mindfulnessHandler) Analytics(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Days must be between 1 and 365"})
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	sessions, err := h.repo.GetSessionsSince(userID, cutoff)
	if err != nil {
		h.logger.Error("Failed to load sessions for analytics", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	completedAll, err := h.repo.GetCompletedSessions(userID)
	if err != nil {
		h.logger.Error("Failed to load completed sessions for streak", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	analytics := buildAnalytics(sessions, days)
	analytics["streak_days"] = mindfulnessStreak(completedAll, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

// buildAnalytics aggregates the period's sessions: totals, completion rate,
// minutes practiced, average self-reported improvements and a per-type
// breakdown.
func buildAnalytics(sessions []*models.MindfulnessSession, days int) gin.H {
	totalSessions := len(sessions)
	completedSessions := 0
	totalMinutes := 0
	var effectiveness, moodImprovements, stressReductions []int
	sessionTypes := make(map[string]int)

	for _, s := range sessions {
		sessionTypes[s.SessionType]++
		if s.Completed {
			completedSessions++
			if s.CompletedDurationMinutes != nil {
				totalMinutes += *s.CompletedDurationMinutes
			}
		}
		if s.EffectivenessRating != nil {
			effectiveness = append(effectiveness, *s.EffectivenessRating)
		}
		if s.MoodBefore != nil && s.MoodAfter != nil {
			moodImprovements = append(moodImprovements, *s.MoodAfter-*s.MoodBefore)
		}
		if s.StressBefore != nil && s.StressAfter != nil {
			stressReductions = append(stressReductions, *s.StressBefore-*s.StressAfter)
		}
	}

	completionRate := 0.0
	if totalSessions > 0 {
		completionRate = float64(completedSessions) / float64(totalSessions)
	}

	return gin.H{
		"period_days":              days,
		"total_sessions":           totalSessions,
		"completed_sessions":       completedSessions,
		"completion_rate":          completionRate,
		"total_minutes":            totalMinutes,
		"average_effectiveness":    average(effectiveness),
		"average_mood_improvement": average(moodImprovements),
		"average_stress_reduction": average(stressReductions),
		"session_types":            sessionTypes,
	}
}

func average(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return &avg
}

// mindfulnessStreak counts consecutive practice days ending today or
// yesterday. Sessions must be completed ones, newest completion first.
// Multiple sessions on one day count once; a run whose most recent day is
// older than yesterday has lapsed and counts as zero.
func mindfulnessStreak(sessions []*models.MindfulnessSession, now time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	today := day(now)
	current := day(*sessions[0].CompletedAt)
	if current.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for _, s := range sessions[1:] {
		sessionDay := day(*s.CompletedAt)
		if sessionDay.Equal(current) {
			continue
		}
		if sessionDay.Equal(current.AddDate(0, 0, -1)) {
			streak++
			current = sessionDay
			continue
		}
		break
	}
	return streak
}
