package repository

import (
	"database/sql"
	"fmt"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SessionFilter narrows ListSessions. Zero values mean no filtering.
type SessionFilter struct {
	SessionType string
	Completed   *bool
	Limit       int
	Offset      int
}

type MindfulnessRepository interface {
	SaveSession(session *models.MindfulnessSession) error
	GetSessionByID(id, userID int64) (*models.MindfulnessSession, error)
	ListSessions(userID int64, filter SessionFilter) ([]*models.MindfulnessSession, error)
	UpdateSession(session *models.MindfulnessSession) error
	DeleteSession(id, userID int64) error
	GetSessionsSince(userID int64, since time.Time) ([]*models.MindfulnessSession, error)
	GetCompletedSessions(userID int64) ([]*models.MindfulnessSession, error)
}

type mindfulnessRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMindfulnessRepository(db *sqlx.DB, logger *zap.Logger) MindfulnessRepository {
	return &mindfulnessRepository{db: db, logger: logger}
}

const sessionColumns = `id, user_id, session_type, title, description, duration_minutes, completed,
	completed_duration_minutes, mood_before, mood_after, stress_before, stress_after,
	effectiveness_rating, notes, completed_at, created_at`

func (r *mindfulnessRepository) SaveSession(session *models.MindfulnessSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO mindfulness_sessions (user_id, session_type, title, description, duration_minutes, mood_before, stress_before, notes, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.Exec(query, session.UserID, session.SessionType, session.Title, session.Description,
		session.DurationMinutes, session.MoodBefore, session.StressBefore, session.Notes, session.CreatedAt)
	if err != nil {
		return err
	}
	session.ID, err = res.LastInsertId()
	return err
}

func (r *mindfulnessRepository) GetSessionByID(id, userID int64) (*models.MindfulnessSession, error) {
	var session models.MindfulnessSession
	query := `SELECT ` + sessionColumns + ` FROM mindfulness_sessions WHERE id = ? AND user_id = ?`
	err := r.db.Get(&session, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions returns the user's sessions newest first, optionally filtered
// by type and completion status.
func (r *mindfulnessRepository) ListSessions(userID int64, filter SessionFilter) ([]*models.MindfulnessSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM mindfulness_sessions WHERE user_id = ?`
	args := []any{userID}

	if filter.SessionType != "" {
		query += ` AND session_type = ?`
		args = append(args, filter.SessionType)
	}
	if filter.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, *filter.Completed)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, filter.Offset)

	var sessions []*models.MindfulnessSession
	if err := r.db.Select(&sessions, query, args...); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSession writes back the mutable completion fields. The caller owns
// the read-modify-write cycle.
func (r *mindfulnessRepository) UpdateSession(session *models.MindfulnessSession) error {
	query := `UPDATE mindfulness_sessions
	          SET completed = ?, completed_duration_minutes = ?, mood_after = ?, stress_after = ?,
	              effectiveness_rating = ?, notes = ?, completed_at = ?
	          WHERE id = ? AND user_id = ?`
	res, err := r.db.Exec(query, session.Completed, session.CompletedDurationMinutes, session.MoodAfter,
		session.StressAfter, session.EffectivenessRating, session.Notes, session.CompletedAt,
		session.ID, session.UserID)
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

func (r *mindfulnessRepository) DeleteSession(id, userID int64) error {
	res, err := r.db.Exec(`DELETE FROM mindfulness_sessions WHERE id = ? AND user_id = ?`, id, userID)
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

func (r *mindfulnessRepository) GetSessionsSince(userID int64, since time.Time) ([]*models.MindfulnessSession, error) {
	var sessions []*models.MindfulnessSession
	query := `SELECT ` + sessionColumns + ` FROM mindfulness_sessions WHERE user_id = ? AND created_at >= ? ORDER BY created_at DESC`
	if err := r.db.Select(&sessions, query, userID, since); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetCompletedSessions returns completed sessions newest completion first,
// the order the streak calculation walks them in.
func (r *mindfulnessRepository) GetCompletedSessions(userID int64) ([]*models.MindfulnessSession, error) {
	var sessions []*models.MindfulnessSession
	query := `SELECT ` + sessionColumns + ` FROM mindfulness_sessions
	          WHERE user_id = ? AND completed = 1 AND completed_at IS NOT NULL
	          ORDER BY completed_at DESC`
	if err := r.db.Select(&sessions, query, userID); err != nil {
		return nil, err
	}
	return sessions, nil
}
