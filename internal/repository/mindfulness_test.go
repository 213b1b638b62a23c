package repository

import (
	"database/sql"
	"testing"
	"time"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleSession(sessionType string, createdAt time.Time) *models.MindfulnessSession {
	return &models.MindfulnessSession{
		UserID:          1,
		SessionType:     sessionType,
		Title:           "Practice",
		DurationMinutes: 10,
		CreatedAt:       createdAt,
	}
}

func TestMindfulnessSaveAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewMindfulnessRepository(db, zap.NewNop())

	mood := 4
	session := sampleSession("breathing", time.Now().UTC())
	session.MoodBefore = &mood
	require.NoError(t, repo.SaveSession(session))
	assert.NotZero(t, session.ID)

	got, err := repo.GetSessionByID(session.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "breathing", got.SessionType)
	assert.Equal(t, 10, got.DurationMinutes)
	assert.False(t, got.Completed)
	require.NotNil(t, got.MoodBefore)
	assert.Equal(t, 4, *got.MoodBefore)
	assert.Nil(t, got.CompletedAt)

	// Wrong user never sees the session.
	got, err = repo.GetSessionByID(session.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMindfulnessListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewMindfulnessRepository(db, zap.NewNop())

	now := time.Now().UTC()
	breathing := sampleSession("breathing", now.Add(-2*time.Hour))
	meditation := sampleSession("meditation", now.Add(-time.Hour))
	completed := sampleSession("breathing", now)
	require.NoError(t, repo.SaveSession(breathing))
	require.NoError(t, repo.SaveSession(meditation))
	require.NoError(t, repo.SaveSession(completed))

	completed.Completed = true
	completed.CompletedAt = &now
	require.NoError(t, repo.UpdateSession(completed))

	sessions, err := repo.ListSessions(1, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, completed.ID, sessions[0].ID, "newest first")

	sessions, err = repo.ListSessions(1, SessionFilter{SessionType: "meditation"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, meditation.ID, sessions[0].ID)

	isDone := true
	sessions, err = repo.ListSessions(1, SessionFilter{Completed: &isDone})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, completed.ID, sessions[0].ID)

	sessions, err = repo.ListSessions(1, SessionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, breathing.ID, sessions[0].ID)
}

func TestMindfulnessCompleteAndAnalyticsQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewMindfulnessRepository(db, zap.NewNop())

	now := time.Now().UTC()
	session := sampleSession("meditation", now)
	require.NoError(t, repo.SaveSession(session))

	rating := 8
	minutes := 9
	session.Completed = true
	session.CompletedAt = &now
	session.CompletedDurationMinutes = &minutes
	session.EffectivenessRating = &rating
	session.Notes = "felt calmer"
	require.NoError(t, repo.UpdateSession(session))

	got, err := repo.GetSessionByID(session.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.EffectivenessRating)
	assert.Equal(t, 8, *got.EffectivenessRating)
	assert.Equal(t, "felt calmer", got.Notes)

	since, err := repo.GetSessionsSince(1, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, since, 1)

	completedSessions, err := repo.GetCompletedSessions(1)
	require.NoError(t, err)
	require.Len(t, completedSessions, 1)
	assert.Equal(t, session.ID, completedSessions[0].ID)
}

func TestMindfulnessUpdateAndDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewMindfulnessRepository(db, zap.NewNop())

	missing := sampleSession("breathing", time.Now().UTC())
	missing.ID = 999
	assert.ErrorIs(t, repo.UpdateSession(missing), sql.ErrNoRows)
	assert.ErrorIs(t, repo.DeleteSession(999, 1), sql.ErrNoRows)

	session := sampleSession("breathing", time.Now().UTC())
	require.NoError(t, repo.SaveSession(session))
	require.NoError(t, repo.DeleteSession(session.ID, 1))

	got, err := repo.GetSessionByID(session.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
