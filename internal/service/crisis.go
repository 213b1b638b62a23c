package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// negationTerms dampen a matched pattern's score without zeroing it, a
// deliberate conservative bias toward not under-detecting.
var negationTerms = []string{"not", "don't", "won't", "never", "wouldn't"}

// intentPhrases are first-person declarative phrases that raise confidence.
var intentPhrases = []string{"i want to", "i am going to", "i plan to", "i will"}

// CrisisService performs crisis risk assessment, recommendation generation
// and escalation over free-text content. The pattern and resource catalogs
// are immutable after construction and safe for concurrent use.
type CrisisService interface {
	Assess(ctx context.Context, userID int64, content, triggerSource string, additionalContext map[string]any) *models.RiskAssessment
	Escalate(ctx context.Context, assessment *models.RiskAssessment, escalationType string) (*models.EscalationResult, error)
	History(ctx context.Context, userID int64, days, limit int) ([]*models.CrisisEvent, error)
	Resources() []models.SafetyResource
}

type crisisService struct {
	patterns  []models.CrisisPattern
	resources []models.SafetyResource
	eventRepo repository.CrisisEventRepository
	logger    *zap.Logger
}

func NewCrisisService(eventRepo repository.CrisisEventRepository, logger *zap.Logger) CrisisService {
	return &crisisService{
		patterns:  crisisPatterns(),
		resources: safetyResources(),
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Assess scores content against the pattern catalog and returns a
// RiskAssessment. It never fails: any internal error degrades to the safe
// default NONE assessment so a crisis check can never suppress the
// user-facing response.
func (s *crisisService) Assess(ctx context.Context, userID int64, content, triggerSource string, additionalContext map[string]any) (assessment *models.RiskAssessment) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Crisis assessment failed, returning safe default",
				zap.Int64("user_id", userID), zap.Any("panic", r))
			assessment = s.safeDefaultAssessment(userID, content)
		}
	}()

	contentLower := strings.ToLower(content)
	var detectedFactors []models.RiskFactor
	riskScore := 0.0
	immediateAction := false

	for _, pattern := range s.patterns {
		patternScore := evaluatePattern(contentLower, pattern)
		if patternScore > 0 {
			detectedFactors = append(detectedFactors, pattern.Factor)
			riskScore += patternScore

			if pattern.RequiresImmediateAction && patternScore > 0.7 {
				immediateAction = true
			}
		}
	}

	// Independent risk signals compound, so sum rather than average.
	if riskScore > 1.0 {
		riskScore = 1.0
	}

	crisisLevel := determineCrisisLevel(riskScore, detectedFactors)
	confidence := calculateConfidence(content, detectedFactors, riskScore)
	interventions := generateInterventions(crisisLevel, detectedFactors)
	resources := s.relevantResources(crisisLevel)

	escalationNeeded := crisisLevel == models.CrisisLevelHigh ||
		crisisLevel == models.CrisisLevelCritical ||
		immediateAction ||
		riskScore > 0.8

	assessment = &models.RiskAssessment{
		UserID:                   strconv.FormatInt(userID, 10),
		TriggerContent:           content,
		CrisisLevel:              crisisLevel,
		RiskScore:                riskScore,
		DetectedFactors:          detectedFactors,
		Confidence:               confidence,
		ImmediateActionRequired:  immediateAction,
		RecommendedInterventions: interventions,
		SafetyResources:          resources,
		EscalationNeeded:         escalationNeeded,
		AssessmentTimestamp:      time.Now().UTC(),
	}

	if crisisLevel != models.CrisisLevelNone {
		s.storeEvent(userID, assessment, triggerSource)
	}

	return assessment
}

// evaluatePattern scores one pattern against lower-cased content,
// clamped to [0, 1].
func evaluatePattern(content string, pattern models.CrisisPattern) float64 {
	score := 0.0
	keywordMatches := 0

	for _, keyword := range pattern.Keywords {
		if strings.Contains(content, keyword) {
			keywordMatches++
			score += pattern.SeverityWeight * 0.3 // Base score per keyword
		}
	}

	if keywordMatches == 0 {
		return 0.0
	}

	// Bonus for multiple keyword matches
	if keywordMatches > 1 {
		score += pattern.SeverityWeight * 0.2
	}

	// Context modifier bonus, capped relative to the pattern weight
	contextBonus := 0.0
	for _, modifier := range pattern.ContextModifiers {
		if strings.Contains(content, modifier) {
			contextBonus += 0.1
		}
	}
	if maxBonus := pattern.SeverityWeight * 0.3; contextBonus > maxBonus {
		contextBonus = maxBonus
	}
	score += contextBonus

	// Negation dampens but never zeroes a match.
	for _, neg := range negationTerms {
		if strings.Contains(content, neg) {
			score *= 0.7
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// determineCrisisLevel applies the level decision table, most severe first.
func determineCrisisLevel(riskScore float64, factors []models.RiskFactor) models.CrisisLevel {
	has := func(want models.RiskFactor) bool {
		for _, f := range factors {
			if f == want {
				return true
			}
		}
		return false
	}

	if has(models.FactorSuicidalIdeation) && riskScore > 0.8 {
		return models.CrisisLevelCritical
	}

	if riskScore > 0.7 ||
		has(models.FactorSuicidalIdeation) ||
		has(models.FactorSelfHarm) ||
		(has(models.FactorHopelessness) && riskScore > 0.6) {
		return models.CrisisLevelHigh
	}

	if riskScore > 0.4 || len(factors) >= 2 || has(models.FactorHopelessness) {
		return models.CrisisLevelMedium
	}

	if riskScore > 0.2 || len(factors) >= 1 {
		return models.CrisisLevelLow
	}

	return models.CrisisLevelNone
}

// calculateConfidence is a bounded additive confidence model.
func calculateConfidence(content string, factors []models.RiskFactor, riskScore float64) float64 {
	confidence := 0.5

	trimmed := strings.TrimSpace(content)
	if len(trimmed) > 50 {
		confidence += 0.1
	}
	if len(trimmed) > 100 {
		confidence += 0.1
	}

	factorBonus := float64(len(factors)) * 0.15
	if factorBonus > 0.3 {
		factorBonus = 0.3
	}
	confidence += factorBonus

	confidence += riskScore * 0.2

	contentLower := strings.ToLower(content)
	for _, phrase := range intentPhrases {
		if strings.Contains(contentLower, phrase) {
			confidence += 0.2
			break
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// storeEvent persists the assessment as a crisis event. Failures are logged
// and dropped; the in-memory assessment is still returned to the caller.
func (s *crisisService) storeEvent(userID int64, assessment *models.RiskAssessment, triggerSource string) {
	interventions, err := json.Marshal(assessment.RecommendedInterventions)
	if err != nil {
		s.logger.Error("Failed to encode interventions for crisis event", zap.Error(err))
		interventions = []byte("[]")
	}

	event := &models.CrisisEvent{
		UserID:               userID,
		TriggerSource:        triggerSource,
		CrisisLevel:          string(assessment.CrisisLevel),
		TriggerContent:       assessment.TriggerContent,
		AIConfidence:         assessment.Confidence,
		InterventionTaken:    string(interventions),
		ProfessionalNotified: assessment.EscalationNeeded,
		CreatedAt:            assessment.AssessmentTimestamp,
	}

	if err := s.eventRepo.SaveEvent(event); err != nil {
		s.logger.Error("Failed to store crisis event", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	s.logger.Info("Crisis event stored",
		zap.Int64("user_id", userID),
		zap.String("crisis_level", event.CrisisLevel))
}

func (s *crisisService) safeDefaultAssessment(userID int64, content string) *models.RiskAssessment {
	return &models.RiskAssessment{
		UserID:                   strconv.FormatInt(userID, 10),
		TriggerContent:           content,
		CrisisLevel:              models.CrisisLevelNone,
		RiskScore:                0.0,
		DetectedFactors:          nil,
		Confidence:               0.0,
		ImmediateActionRequired:  false,
		RecommendedInterventions: []string{"Contact support if you need help"},
		SafetyResources: []models.SafetyResource{{
			Name:         "988 Suicide & Crisis Lifeline",
			Type:         "hotline",
			Contact:      "988",
			Availability: "24/7",
			Description:  "24/7 crisis support",
		}},
		EscalationNeeded:    false,
		AssessmentTimestamp: time.Now().UTC(),
	}
}

// History returns the user's crisis events for the past days, newest first.
func (s *crisisService) History(ctx context.Context, userID int64, days, limit int) ([]*models.CrisisEvent, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.eventRepo.GetEventsSince(userID, cutoff, limit)
}

// Resources returns the full static safety resource catalog.
func (s *crisisService) Resources() []models.SafetyResource {
	return s.resources
}
