package agents

import "backend/internal/models"

// Message is an inter-agent message. Each interaction has its own concrete
// type with a fixed schema instead of an opaque payload map, so an agent can
// only be handed fields its message type actually defines.
type Message interface {
	Type() string
}

const (
	TypeStartConversation = "start_conversation"
	TypeMoodAlert         = "mood_alert"
	TypeCrisisAlert       = "crisis_alert"
)

// StartConversation asks the conversation coordinator to handle a user turn.
type StartConversation struct {
	UserID         int64
	ConversationID string
	Text           string
}

func (StartConversation) Type() string { return TypeStartConversation }

// MoodAlert notifies the mood tracker of a new mood check-in.
type MoodAlert struct {
	UserID int64
	Score  int // 1-10
	Note   string
}

func (MoodAlert) Type() string { return TypeMoodAlert }

// CrisisAlert carries an assessment that may need escalation.
type CrisisAlert struct {
	UserID     int64
	Assessment *models.RiskAssessment
}

func (CrisisAlert) Type() string { return TypeCrisisAlert }
