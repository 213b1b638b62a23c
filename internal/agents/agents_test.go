package agents

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeCrisisService returns canned assessments and records escalations.
type fakeCrisisService struct {
	assessment *models.RiskAssessment
	assessed   []string
	escalated  []*models.RiskAssessment
	escalErr   error
}

func (f *fakeCrisisService) Assess(ctx context.Context, userID int64, content, triggerSource string, additionalContext map[string]any) *models.RiskAssessment {
	f.assessed = append(f.assessed, content)
	a := *f.assessment
	a.TriggerContent = content
	return &a
}

func (f *fakeCrisisService) Escalate(ctx context.Context, assessment *models.RiskAssessment, escalationType string) (*models.EscalationResult, error) {
	if f.escalErr != nil {
		return nil, f.escalErr
	}
	f.escalated = append(f.escalated, assessment)
	return &models.EscalationResult{
		Escalated:      true,
		EscalationType: escalationType,
		ActionsTaken:   []string{"Crisis counselor assigned"},
		Timestamp:      time.Now().UTC(),
	}, nil
}

func (f *fakeCrisisService) History(ctx context.Context, userID int64, days, limit int) ([]*models.CrisisEvent, error) {
	return nil, nil
}

func (f *fakeCrisisService) Resources() []models.SafetyResource { return nil }

func calmAssessment() *models.RiskAssessment {
	return &models.RiskAssessment{
		UserID:      "1",
		CrisisLevel: models.CrisisLevelNone,
	}
}

func highAssessment() *models.RiskAssessment {
	return &models.RiskAssessment{
		UserID:           "1",
		CrisisLevel:      models.CrisisLevelHigh,
		DetectedFactors:  []models.RiskFactor{models.FactorSuicidalIdeation},
		EscalationNeeded: true,
	}
}

type stubChat struct {
	reply string
	err   error
	calls int
}

func (c *stubChat) Reply(ctx context.Context, conversationID, userText string) (string, error) {
	c.calls++
	return c.reply, c.err
}

type stubNotifier struct {
	notified []int64
	err      error
}

func (n *stubNotifier) NotifyEscalation(ctx context.Context, userID int64, assessment *models.RiskAssessment, result *models.EscalationResult) error {
	n.notified = append(n.notified, userID)
	return n.err
}

func TestRegistryDispatchOrder(t *testing.T) {
	bus := NewRegistry(testLogger())

	var seen []string
	bus.Register(TypeMoodAlert, func(ctx context.Context, msg Message) error {
		seen = append(seen, "first")
		return nil
	})
	bus.Register(TypeMoodAlert, func(ctx context.Context, msg Message) error {
		seen = append(seen, "second")
		return nil
	})

	require.NoError(t, bus.Dispatch(context.Background(), MoodAlert{UserID: 1, Score: 5}))
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestRegistryDispatchStopsOnError(t *testing.T) {
	bus := NewRegistry(testLogger())

	called := false
	bus.Register(TypeMoodAlert, func(ctx context.Context, msg Message) error {
		return errors.New("boom")
	})
	bus.Register(TypeMoodAlert, func(ctx context.Context, msg Message) error {
		called = true
		return nil
	})

	err := bus.Dispatch(context.Background(), MoodAlert{UserID: 1, Score: 5})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRegistryDispatchNoHandlers(t *testing.T) {
	bus := NewRegistry(testLogger())
	assert.NoError(t, bus.Dispatch(context.Background(), CrisisAlert{UserID: 1}))
}

func TestMoodTrackerEscalatesOnAssessment(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: highAssessment()}
	notifier := &stubNotifier{}
	NewMoodTracker(crisis, bus, 3.0, testLogger())
	NewCrisisMonitor(crisis, notifier, bus, testLogger())

	err := bus.Dispatch(context.Background(), MoodAlert{UserID: 1, Score: 8, Note: "dark thoughts"})
	require.NoError(t, err)

	assert.Equal(t, []string{"dark thoughts"}, crisis.assessed)
	require.Len(t, crisis.escalated, 1)
	assert.Equal(t, []int64{1}, notifier.notified)
}

func TestMoodTrackerStaysQuietWhenCalm(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: calmAssessment()}
	notifier := &stubNotifier{}
	NewMoodTracker(crisis, bus, 3.0, testLogger())
	NewCrisisMonitor(crisis, notifier, bus, testLogger())

	// High scores, neutral notes: no alert even after several check-ins.
	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Dispatch(context.Background(), MoodAlert{UserID: 1, Score: 8, Note: "fine"}))
	}
	assert.Empty(t, crisis.escalated)
	assert.Empty(t, notifier.notified)
}

func TestMoodTrackerRollingAverage(t *testing.T) {
	tracker := &MoodTracker{recent: make(map[int64][]int)}

	assert.InDelta(t, 4.0, tracker.trackScore(1, 4), 1e-9)
	assert.InDelta(t, 5.0, tracker.trackScore(1, 6), 1e-9)

	// Window keeps only the most recent scores.
	for i := 0; i < 10; i++ {
		tracker.trackScore(2, 2)
	}
	avg := tracker.trackScore(2, 9)
	assert.InDelta(t, (2.0*6+9)/7, avg, 1e-9)
}

func TestCoordinatorShortCircuitsOnEscalation(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: highAssessment()}
	notifier := &stubNotifier{}
	chat := &stubChat{reply: "chatty reply"}
	NewCrisisMonitor(crisis, notifier, bus, testLogger())
	co := NewCoordinator(crisis, chat, bus, testLogger())

	reply, assessment, err := co.Respond(context.Background(), StartConversation{
		UserID:         1,
		ConversationID: "c-1",
		Text:           "I can't go on",
	})
	require.NoError(t, err)

	assert.Equal(t, safetyReply, reply)
	assert.True(t, assessment.EscalationNeeded)
	assert.Zero(t, chat.calls, "the model never gets the last word in a crisis")
	assert.Equal(t, []int64{1}, notifier.notified)
}

func TestCoordinatorUsesChatWhenCalm(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: calmAssessment()}
	chat := &stubChat{reply: "glad to hear it"}
	co := NewCoordinator(crisis, chat, bus, testLogger())

	reply, assessment, err := co.Respond(context.Background(), StartConversation{
		UserID: 1, ConversationID: "c-1", Text: "had a good day",
	})
	require.NoError(t, err)
	assert.Equal(t, "glad to hear it", reply)
	assert.Equal(t, models.CrisisLevelNone, assessment.CrisisLevel)
	assert.Equal(t, 1, chat.calls)
}

func TestCoordinatorFallsBackWithoutChat(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: calmAssessment()}
	co := NewCoordinator(crisis, nil, bus, testLogger())

	reply, _, err := co.Respond(context.Background(), StartConversation{UserID: 1, Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	failing := &stubChat{err: errors.New("llm down")}
	co = NewCoordinator(crisis, failing, bus, testLogger())
	reply, _, err = co.Respond(context.Background(), StartConversation{UserID: 1, Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestMonitorIgnoresLowAlerts(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: calmAssessment()}
	notifier := &stubNotifier{}
	NewCrisisMonitor(crisis, notifier, bus, testLogger())

	alert := CrisisAlert{UserID: 1, Assessment: &models.RiskAssessment{
		UserID:      "1",
		CrisisLevel: models.CrisisLevelMedium,
	}}
	require.NoError(t, bus.Dispatch(context.Background(), alert))
	assert.Empty(t, crisis.escalated)
	assert.Empty(t, notifier.notified)
}

func TestMonitorNotifierFailureIsBestEffort(t *testing.T) {
	bus := NewRegistry(testLogger())
	crisis := &fakeCrisisService{assessment: highAssessment()}
	notifier := &stubNotifier{err: errors.New("telegram down")}
	NewCrisisMonitor(crisis, notifier, bus, testLogger())

	alert := CrisisAlert{UserID: 1, Assessment: highAssessment()}
	require.NoError(t, bus.Dispatch(context.Background(), alert))
	require.Len(t, crisis.escalated, 1)
}
