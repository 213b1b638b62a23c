package models

import (
	"fmt"
	"time"
)

// CrisisLevel is the severity classification of a single assessment.
type CrisisLevel string

const (
	CrisisLevelNone     CrisisLevel = "none"
	CrisisLevelLow      CrisisLevel = "low"
	CrisisLevelMedium   CrisisLevel = "medium"
	CrisisLevelHigh     CrisisLevel = "high"
	CrisisLevelCritical CrisisLevel = "critical"
)

var crisisLevelRank = map[CrisisLevel]int{
	CrisisLevelNone:     0,
	CrisisLevelLow:      1,
	CrisisLevelMedium:   2,
	CrisisLevelHigh:     3,
	CrisisLevelCritical: 4,
}

// Severity returns the rank of the level for ordering comparisons
// (none < low < medium < high < critical).
func (l CrisisLevel) Severity() int {
	return crisisLevelRank[l]
}

// AtLeast reports whether l is at least as severe as other.
func (l CrisisLevel) AtLeast(other CrisisLevel) bool {
	return l.Severity() >= other.Severity()
}

// ParseCrisisLevel validates a crisis level string from an external caller.
func ParseCrisisLevel(s string) (CrisisLevel, error) {
	level := CrisisLevel(s)
	if _, ok := crisisLevelRank[level]; !ok {
		return "", fmt.Errorf("invalid crisis level: %q", s)
	}
	return level, nil
}

// RiskFactor is an independent category of concerning content. Multiple
// factors may co-occur in one assessment.
type RiskFactor string

const (
	FactorSuicidalIdeation   RiskFactor = "suicidal_ideation"
	FactorSelfHarm           RiskFactor = "self_harm"
	FactorSubstanceAbuse     RiskFactor = "substance_abuse"
	FactorIsolation          RiskFactor = "isolation"
	FactorHopelessness       RiskFactor = "hopelessness"
	FactorDepression         RiskFactor = "depression"
	FactorAnxiety            RiskFactor = "anxiety"
	FactorTrauma             RiskFactor = "trauma"
	FactorRelationshipIssues RiskFactor = "relationship_issues"
	FactorFinancialStress    RiskFactor = "financial_stress"
)

// CrisisPattern is one keyword group used to score a risk factor's presence.
// Patterns are built once at startup and never mutated, so they are safe to
// share across concurrent assessments.
type CrisisPattern struct {
	Keywords                []string
	Factor                  RiskFactor
	SeverityWeight          float64 // 0.0 - 1.0, bounds the pattern's score contribution
	RequiresImmediateAction bool
	ContextModifiers        []string
}

// SafetyResource is a static reference entry for a hotline, text line,
// website or app.
type SafetyResource struct {
	Name         string `json:"name"`
	Type         string `json:"type"` // hotline, text, website, app
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
	Description  string `json:"description"`
	CountryCode  string `json:"country_code,omitempty"`
	Language     string `json:"language,omitempty"`
	IsEmergency  bool   `json:"is_emergency,omitempty"`
}

// RiskAssessment is the result of one crisis scan. It is constructed once
// per Assess call and never mutated afterwards.
type RiskAssessment struct {
	UserID                   string           `json:"user_id"`
	TriggerContent           string           `json:"trigger_content"`
	CrisisLevel              CrisisLevel      `json:"crisis_level"`
	RiskScore                float64          `json:"risk_score"`
	DetectedFactors          []RiskFactor     `json:"detected_factors"`
	Confidence               float64          `json:"confidence"`
	ImmediateActionRequired  bool             `json:"immediate_action_required"`
	RecommendedInterventions []string         `json:"recommended_interventions"`
	SafetyResources          []SafetyResource `json:"safety_resources"`
	EscalationNeeded         bool             `json:"escalation_needed"`
	AssessmentTimestamp      time.Time        `json:"assessment_timestamp"`
}

// HasFactor reports whether the given factor was detected.
func (a *RiskAssessment) HasFactor(factor RiskFactor) bool {
	for _, f := range a.DetectedFactors {
		if f == factor {
			return true
		}
	}
	return false
}

// EscalationResult records the outcome of escalating an assessment to
// human follow-up.
type EscalationResult struct {
	Escalated      bool      `json:"escalated"`
	Timestamp      time.Time `json:"timestamp"`
	EscalationType string    `json:"escalation_type"`
	ActionsTaken   []string  `json:"actions_taken"`
	NextSteps      []string  `json:"next_steps"`
}

// CrisisEvent represents a crisis event stored in the 'crisis_events' table.
type CrisisEvent struct {
	ID                   int64      `db:"id" json:"id"`
	UserID               int64      `db:"user_id" json:"user_id"`
	TriggerSource        string     `db:"trigger_source" json:"trigger_source"` // "chat", "mood", "journal", "manual_analysis"
	CrisisLevel          string     `db:"crisis_level" json:"crisis_level"`
	TriggerContent       string     `db:"trigger_content" json:"trigger_content"`
	AIConfidence         float64    `db:"ai_confidence" json:"ai_confidence"`
	InterventionTaken    string     `db:"intervention_taken" json:"intervention_taken"` // JSON list of strings
	ProfessionalNotified bool       `db:"professional_notified" json:"professional_notified"`
	UserResponse         *string    `db:"user_response" json:"user_response,omitempty"`
	ResolvedAt           *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}
