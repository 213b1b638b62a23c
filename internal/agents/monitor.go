package agents

import (
	"context"
	"fmt"

	"backend/internal/models"
	"backend/internal/service"

	"github.com/sirupsen/logrus"
)

// EscalationNotifier forwards an escalation record to human reviewers.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, userID int64, assessment *models.RiskAssessment, result *models.EscalationResult) error
}

// CrisisMonitor reacts to CrisisAlert messages: HIGH and CRITICAL
// assessments are escalated and the result handed to the notifier.
type CrisisMonitor struct {
	crisis   service.CrisisService
	notifier EscalationNotifier
	log      *logrus.Entry
}

func NewCrisisMonitor(crisis service.CrisisService, notifier EscalationNotifier, bus *Registry, log *logrus.Logger) *CrisisMonitor {
	m := &CrisisMonitor{
		crisis:   crisis,
		notifier: notifier,
		log:      log.WithField("agent", "crisis_monitor"),
	}
	bus.Register(TypeCrisisAlert, m.handleCrisisAlert)
	return m
}

func (m *CrisisMonitor) handleCrisisAlert(ctx context.Context, msg Message) error {
	alert, ok := msg.(CrisisAlert)
	if !ok {
		return fmt.Errorf("unexpected message type %T", msg)
	}

	if !alert.Assessment.CrisisLevel.AtLeast(models.CrisisLevelHigh) {
		m.log.WithFields(logrus.Fields{
			"user_id":      alert.UserID,
			"crisis_level": alert.Assessment.CrisisLevel,
		}).Info("Crisis alert below escalation threshold, monitoring only")
		return nil
	}

	result, err := m.crisis.Escalate(ctx, alert.Assessment, "professional")
	if err != nil {
		return fmt.Errorf("escalation failed: %w", err)
	}

	if m.notifier != nil {
		if err := m.notifier.NotifyEscalation(ctx, alert.UserID, alert.Assessment, result); err != nil {
			// Notification is best-effort; the escalation record already exists.
			m.log.WithError(err).Error("Failed to notify reviewers of escalation")
		}
	}

	m.log.WithFields(logrus.Fields{
		"user_id":      alert.UserID,
		"crisis_level": alert.Assessment.CrisisLevel,
		"actions":      len(result.ActionsTaken),
	}).Warn("Crisis alert escalated")

	return nil
}
