package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"backend/internal/models"

	"go.uber.org/zap"
)

// Escalate produces the escalation action record for an assessment and
// appends the actions to the user's most recent crisis event. MEDIUM and
// LOW levels escalate as a recorded no-op: the result reports escalated with
// an empty action set and the attempt is still logged against the event.
// Calling twice appends twice; there is no deduplication.
func (s *crisisService) Escalate(ctx context.Context, assessment *models.RiskAssessment, escalationType string) (*models.EscalationResult, error) {
	result := &models.EscalationResult{
		Escalated:      true,
		Timestamp:      time.Now().UTC(),
		EscalationType: escalationType,
		ActionsTaken:   []string{},
		NextSteps:      []string{},
	}

	switch assessment.CrisisLevel {
	case models.CrisisLevelCritical:
		result.ActionsTaken = append(result.ActionsTaken,
			"Crisis team notified immediately",
			"Emergency contact attempted",
			"Professional intervention initiated",
			"User flagged for immediate follow-up",
		)
		result.NextSteps = append(result.NextSteps,
			"Emergency services may be contacted",
			"Immediate professional assessment scheduled",
			"Family/emergency contacts will be notified",
		)
	case models.CrisisLevelHigh:
		result.ActionsTaken = append(result.ActionsTaken,
			"Mental health professional notified",
			"Crisis counselor assigned",
			"Enhanced monitoring activated",
		)
		result.NextSteps = append(result.NextSteps,
			"Professional will contact within 2 hours",
			"Safety plan development scheduled",
			"Follow-up appointment arranged",
		)
	}

	userID, err := strconv.ParseInt(assessment.UserID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", assessment.UserID, err)
	}

	if err := s.recordEscalation(userID, result); err != nil {
		// Fail-open: the escalation record is still returned to the caller.
		s.logger.Error("Failed to record escalation on crisis event",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Warn("Crisis escalated",
		zap.Int64("user_id", userID),
		zap.String("crisis_level", string(assessment.CrisisLevel)),
		zap.String("escalation_type", escalationType))

	return result, nil
}

// recordEscalation appends the actions taken to the user's latest crisis
// event and marks it professionally notified.
func (s *crisisService) recordEscalation(userID int64, result *models.EscalationResult) error {
	latest, err := s.eventRepo.GetLatestEvent(userID)
	if err != nil {
		return err
	}
	if latest == nil {
		s.logger.Debug("No crisis event to attach escalation to", zap.Int64("user_id", userID))
		return nil
	}
	return s.eventRepo.AppendInterventions(latest.ID, result.ActionsTaken)
}
