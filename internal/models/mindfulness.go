package models

import (
	"fmt"
	"time"
)

// MindfulnessSessionTypes are the valid values for a session's type.
var MindfulnessSessionTypes = []string{"breathing", "meditation", "body_scan", "progressive_relaxation"}

// ValidateSessionType rejects unknown mindfulness session types.
func ValidateSessionType(s string) error {
	for _, t := range MindfulnessSessionTypes {
		if s == t {
			return nil
		}
	}
	return fmt.Errorf("invalid session_type: %q", s)
}

// MindfulnessSession represents a practice session stored in the
// 'mindfulness_sessions' table. Before/after mood and stress are optional
// self-reports on a 1-10 scale.
type MindfulnessSession struct {
	ID                       int64      `db:"id" json:"id"`
	UserID                   int64      `db:"user_id" json:"user_id"`
	SessionType              string     `db:"session_type" json:"session_type"`
	Title                    string     `db:"title" json:"title"`
	Description              string     `db:"description" json:"description,omitempty"`
	DurationMinutes          int        `db:"duration_minutes" json:"duration_minutes"`
	Completed                bool       `db:"completed" json:"completed"`
	CompletedDurationMinutes *int       `db:"completed_duration_minutes" json:"completed_duration_minutes,omitempty"`
	MoodBefore               *int       `db:"mood_before" json:"mood_before,omitempty"`
	MoodAfter                *int       `db:"mood_after" json:"mood_after,omitempty"`
	StressBefore             *int       `db:"stress_before" json:"stress_before,omitempty"`
	StressAfter              *int       `db:"stress_after" json:"stress_after,omitempty"`
	EffectivenessRating      *int       `db:"effectiveness_rating" json:"effectiveness_rating,omitempty"`
	Notes                    string     `db:"notes" json:"notes,omitempty"`
	CompletedAt              *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
}

// SessionTemplate is a predefined practice suggestion returned by the
// templates endpoint.
type SessionTemplate struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Instructions    string `json:"instructions"`
}
