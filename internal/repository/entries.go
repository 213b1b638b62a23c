package repository

import (
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type MoodRepository interface {
	SaveEntry(entry *models.MoodEntry) error
	GetEntries(userID int64, limit int) ([]*models.MoodEntry, error)
}

type JournalRepository interface {
	SaveEntry(entry *models.JournalEntry) error
	GetEntries(userID int64, limit int) ([]*models.JournalEntry, error)
}

type moodRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMoodRepository(db *sqlx.DB, logger *zap.Logger) MoodRepository {
	return &moodRepository{db: db, logger: logger}
}

func (r *moodRepository) SaveEntry(entry *models.MoodEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.Exec(`INSERT INTO mood_entries (user_id, score, note, created_at) VALUES (?, ?, ?, ?)`,
		entry.UserID, entry.Score, entry.Note, entry.CreatedAt)
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

func (r *moodRepository) GetEntries(userID int64, limit int) ([]*models.MoodEntry, error) {
	var entries []*models.MoodEntry
	query := `SELECT id, user_id, score, note, created_at FROM mood_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := r.db.Select(&entries, query, userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

type journalRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewJournalRepository(db *sqlx.DB, logger *zap.Logger) JournalRepository {
	return &journalRepository{db: db, logger: logger}
}

func (r *journalRepository) SaveEntry(entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.Exec(`INSERT INTO journal_entries (user_id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		entry.UserID, entry.Title, entry.Content, entry.CreatedAt)
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

func (r *journalRepository) GetEntries(userID int64, limit int) ([]*models.JournalEntry, error) {
	var entries []*models.JournalEntry
	query := `SELECT id, user_id, title, content, created_at FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := r.db.Select(&entries, query, userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
