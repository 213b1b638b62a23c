package agents

import (
	"context"
	"fmt"
	"sync"

	"backend/internal/models"
	"backend/internal/service"

	"github.com/sirupsen/logrus"
)

const moodWindow = 7 // recent scores considered for the rolling average

// MoodTracker watches mood check-ins, scans notes for crisis indicators and
// raises a CrisisAlert when the note scores above none or the rolling
// average drops below the configured floor.
type MoodTracker struct {
	crisis     service.CrisisService
	bus        *Registry
	alertFloor float64
	log        *logrus.Entry

	mu     sync.Mutex
	recent map[int64][]int
}

func NewMoodTracker(crisis service.CrisisService, bus *Registry, alertFloor float64, log *logrus.Logger) *MoodTracker {
	t := &MoodTracker{
		crisis:     crisis,
		bus:        bus,
		alertFloor: alertFloor,
		log:        log.WithField("agent", "mood_tracker"),
		recent:     make(map[int64][]int),
	}
	bus.Register(TypeMoodAlert, t.handleMoodAlert)
	return t
}

func (t *MoodTracker) handleMoodAlert(ctx context.Context, msg Message) error {
	alert, ok := msg.(MoodAlert)
	if !ok {
		return fmt.Errorf("unexpected message type %T", msg)
	}

	avg := t.trackScore(alert.UserID, alert.Score)

	assessment := t.crisis.Assess(ctx, alert.UserID, alert.Note, "mood", nil)

	lowTrend := avg < t.alertFloor
	if lowTrend {
		t.log.WithFields(logrus.Fields{
			"user_id":     alert.UserID,
			"rolling_avg": avg,
		}).Warn("Mood trend below alert floor")
	}

	if assessment.EscalationNeeded || (lowTrend && assessment.CrisisLevel != models.CrisisLevelNone) {
		return t.bus.Dispatch(ctx, CrisisAlert{UserID: alert.UserID, Assessment: assessment})
	}
	return nil
}

// trackScore appends the score to the user's window and returns the new
// rolling average.
func (t *MoodTracker) trackScore(userID int64, score int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	scores := append(t.recent[userID], score)
	if len(scores) > moodWindow {
		scores = scores[len(scores)-moodWindow:]
	}
	t.recent[userID] = scores

	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
