package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type CrisisEventRepository interface {
	SaveEvent(event *models.CrisisEvent) error
	GetEventByID(id, userID int64) (*models.CrisisEvent, error)
	GetEventsSince(userID int64, since time.Time, limit int) ([]*models.CrisisEvent, error)
	GetLatestEvent(userID int64) (*models.CrisisEvent, error)
	AppendInterventions(eventID int64, actions []string) error
	UpdateInterventionStatus(id, userID int64, userResponse *string, resolved bool) error
}

type crisisEventRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCrisisEventRepository(db *sqlx.DB, logger *zap.Logger) CrisisEventRepository {
	return &crisisEventRepository{db: db, logger: logger}
}

func (r *crisisEventRepository) SaveEvent(event *models.CrisisEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO crisis_events (user_id, trigger_source, crisis_level, trigger_content, ai_confidence, intervention_taken, professional_notified, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.Exec(query, event.UserID, event.TriggerSource, event.CrisisLevel,
		event.TriggerContent, event.AIConfidence, event.InterventionTaken, event.ProfessionalNotified, event.CreatedAt)
	if err != nil {
		return err
	}
	event.ID, err = res.LastInsertId()
	return err
}

func (r *crisisEventRepository) GetEventByID(id, userID int64) (*models.CrisisEvent, error) {
	var event models.CrisisEvent
	query := `SELECT id, user_id, trigger_source, crisis_level, trigger_content, ai_confidence, intervention_taken, professional_notified, user_response, resolved_at, created_at
	          FROM crisis_events WHERE id = ? AND user_id = ?`
	err := r.db.Get(&event, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// GetEventsSince returns events created at or after the cutoff, newest first.
func (r *crisisEventRepository) GetEventsSince(userID int64, since time.Time, limit int) ([]*models.CrisisEvent, error) {
	var events []*models.CrisisEvent
	query := `SELECT id, user_id, trigger_source, crisis_level, trigger_content, ai_confidence, intervention_taken, professional_notified, user_response, resolved_at, created_at
	          FROM crisis_events WHERE user_id = ? AND created_at >= ? ORDER BY created_at DESC LIMIT ?`
	err := r.db.Select(&events, query, userID, since, limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *crisisEventRepository) GetLatestEvent(userID int64) (*models.CrisisEvent, error) {
	var event models.CrisisEvent
	query := `SELECT id, user_id, trigger_source, crisis_level, trigger_content, ai_confidence, intervention_taken, professional_notified, user_response, resolved_at, created_at
	          FROM crisis_events WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`
	err := r.db.Get(&event, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// AppendInterventions appends actions to the event's intervention log and
// marks the professional as notified. Appending twice records twice.
func (r *crisisEventRepository) AppendInterventions(eventID int64, actions []string) error {
	var current string
	err := r.db.Get(&current, `SELECT intervention_taken FROM crisis_events WHERE id = ?`, eventID)
	if err != nil {
		return err
	}

	var interventions []string
	if current != "" {
		if err := json.Unmarshal([]byte(current), &interventions); err != nil {
			r.logger.Warn("Resetting malformed intervention log", zap.Int64("event_id", eventID), zap.Error(err))
			interventions = nil
		}
	}
	interventions = append(interventions, actions...)

	updated, err := json.Marshal(interventions)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`UPDATE crisis_events SET intervention_taken = ?, professional_notified = 1 WHERE id = ?`,
		string(updated), eventID)
	return err
}

// UpdateInterventionStatus records the user's response and, when resolved is
// true, stamps the resolution time. Resolution is one-way: an update that only
// carries a user response keeps an earlier resolved_at intact.
func (r *crisisEventRepository) UpdateInterventionStatus(id, userID int64, userResponse *string, resolved bool) error {
	var resolvedAt *time.Time
	if resolved {
		now := time.Now().UTC()
		resolvedAt = &now
	}
	res, err := r.db.Exec(`UPDATE crisis_events SET user_response = COALESCE(?, user_response), resolved_at = COALESCE(?, resolved_at) WHERE id = ? AND user_id = ?`,
		userResponse, resolvedAt, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
