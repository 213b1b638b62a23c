package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CrisisHandler interface {
	Analyze(c *gin.Context)
	Assess(c *gin.Context)
	Escalate(c *gin.Context)
	Resources(c *gin.Context)
	History(c *gin.Context)
	UpdateInterventionStatus(c *gin.Context)
}

type crisisHandler struct {
	crisisService service.CrisisService
	eventRepo     repository.CrisisEventRepository
	logger        *zap.Logger
}

func NewCrisisHandler(crisisService service.CrisisService, eventRepo repository.CrisisEventRepository, logger *zap.Logger) CrisisHandler {
	return &crisisHandler{
		crisisService: crisisService,
		eventRepo:     eventRepo,
		logger:        logger,
	}
}

type AnalyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// Analyze handles POST /api/crisis/analyze, a content-only quick analysis.
func (h *crisisHandler) Analyze(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required for analysis"})
		return
	}

	assessment := h.crisisService.Assess(c.Request.Context(), userID, req.Content, "manual_analysis", nil)

	if assessment.CrisisLevel != models.CrisisLevelNone {
		h.logger.Warn("Crisis assessment flagged content",
			zap.Int64("user_id", userID),
			zap.String("crisis_level", string(assessment.CrisisLevel)))
	}

	c.JSON(http.StatusOK, gin.H{
		"risk_level":                assessment.CrisisLevel,
		"confidence":                assessment.Confidence,
		"detected_factors":          factorStrings(assessment.DetectedFactors),
		"recommended_interventions": assessment.RecommendedInterventions,
		"safety_resources":          assessment.SafetyResources,
		"escalation_needed":         assessment.EscalationNeeded,
		"assessment_timestamp":      assessment.AssessmentTimestamp,
	})
}

type AssessRequest struct {
	Content string         `json:"content" binding:"required"`
	Source  string         `json:"source"`
	Context map[string]any `json:"context"`
}

// Assess handles POST /api/crisis/assess, the full risk assessment.
func (h *crisisHandler) Assess(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required for crisis assessment"})
		return
	}
	if req.Source == "" {
		req.Source = "chat"
	}

	assessment := h.crisisService.Assess(c.Request.Context(), userID, req.Content, req.Source, req.Context)

	if assessment.CrisisLevel != models.CrisisLevelNone {
		h.logger.Warn("Crisis assessment flagged content",
			zap.Int64("user_id", userID),
			zap.String("crisis_level", string(assessment.CrisisLevel)))
	}

	c.JSON(http.StatusOK, gin.H{
		"risk_assessment": gin.H{
			"crisis_level":              assessment.CrisisLevel,
			"risk_score":                assessment.RiskScore,
			"confidence":                assessment.Confidence,
			"immediate_action_required": assessment.ImmediateActionRequired,
			"escalation_needed":         assessment.EscalationNeeded,
		},
		"detected_factors":     factorStrings(assessment.DetectedFactors),
		"interventions":        assessment.RecommendedInterventions,
		"safety_resources":     assessment.SafetyResources,
		"assessment_timestamp": assessment.AssessmentTimestamp,
	})
}

type EscalateRequest struct {
	CrisisLevel    string `json:"crisis_level" binding:"required"`
	TriggerContent string `json:"trigger_content"`
	EscalationType string `json:"escalation_type"`
	UserConsent    bool   `json:"user_consent"`
}

// Escalate handles POST /api/crisis/escalate. Unknown crisis levels are
// rejected here, at the boundary, not inside the core.
func (h *crisisHandler) Escalate(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req EscalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EscalationType == "" {
		req.EscalationType = "professional"
	}

	level, err := models.ParseCrisisLevel(req.CrisisLevel)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Consent is implied for critical escalations only.
	if level != models.CrisisLevelCritical && !req.UserConsent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User consent required for escalation"})
		return
	}

	riskScore := 0.9
	if level == models.CrisisLevelHigh {
		riskScore = 0.8
	}
	assessment := &models.RiskAssessment{
		UserID:                  strconv.FormatInt(userID, 10),
		TriggerContent:          req.TriggerContent,
		CrisisLevel:             level,
		RiskScore:               riskScore,
		Confidence:              0.9,
		ImmediateActionRequired: true,
		EscalationNeeded:        true,
	}

	result, err := h.crisisService.Escalate(c.Request.Context(), assessment, req.EscalationType)
	if err != nil {
		h.logger.Error("Crisis escalation failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Crisis escalation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"escalation": result})
}

// Resources handles GET /api/crisis/resources.
// Query parameters: country, type, emergency_only.
func (h *crisisHandler) Resources(c *gin.Context) {
	country := c.DefaultQuery("country", "US")
	resourceType := c.Query("type")
	emergencyOnly := c.Query("emergency_only") == "true"

	var filtered []models.SafetyResource
	for _, r := range h.crisisService.Resources() {
		if r.CountryCode != country {
			continue
		}
		if emergencyOnly && !r.IsEmergency {
			continue
		}
		if resourceType != "" && r.Type != resourceType {
			continue
		}
		filtered = append(filtered, r)
	}

	// Emergency resources first, then by name.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].IsEmergency != filtered[j].IsEmergency {
			return filtered[i].IsEmergency
		}
		return filtered[i].Name < filtered[j].Name
	})

	c.JSON(http.StatusOK, gin.H{
		"resources":   filtered,
		"total_count": len(filtered),
		"filters_applied": gin.H{
			"country":        country,
			"type":           resourceType,
			"emergency_only": emergencyOnly,
		},
	})
}

// History handles GET /api/crisis/history.
// Query parameters: days (1-365, default 30), limit (1-100, default 50).
func (h *crisisHandler) History(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Days must be between 1 and 365"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be between 1 and 100"})
		return
	}

	events, err := h.crisisService.History(c.Request.Context(), userID, days, limit)
	if err != nil {
		h.logger.Error("Failed to get crisis history", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get crisis history"})
		return
	}

	levelSummary := make(map[string]int)
	escalations := 0
	for _, event := range events {
		levelSummary[event.CrisisLevel]++
		if event.ProfessionalNotified {
			escalations++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"events":             events,
		"total_events":       len(events),
		"period_days":        days,
		"level_summary":      levelSummary,
		"recent_escalations": escalations,
	})
}

type InterventionStatusRequest struct {
	UserResponse *string `json:"user_response"`
	Resolved     bool    `json:"resolved"`
}

// UpdateInterventionStatus handles PUT /api/crisis/intervention-status/:id.
func (h *crisisHandler) UpdateInterventionStatus(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req InterventionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.eventRepo.UpdateInterventionStatus(eventID, userID, req.UserResponse, req.Resolved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Crisis event not found"})
			return
		}
		h.logger.Error("Failed to update intervention status", zap.Int64("event_id", eventID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update intervention status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Intervention status updated successfully"})
}

func factorStrings(factors []models.RiskFactor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, string(f))
	}
	return out
}
