package agents

import (
	"context"

	"backend/internal/models"
	"backend/internal/service"

	"github.com/sirupsen/logrus"
)

// ChatClient generates an empathetic reply for a conversation turn.
type ChatClient interface {
	Reply(ctx context.Context, conversationID, userText string) (string, error)
}

// safetyReply is returned instead of an LLM reply whenever an assessment
// needs escalation. The model never gets the last word in a crisis.
const safetyReply = "I'm really concerned about what you just shared. You deserve support right now. " +
	"please reach out to the 988 Suicide & Crisis Lifeline (call or text 988) or text HOME to 741741. " +
	"If you are in immediate danger, call 911. Would you like me to show you more support options?"

// Coordinator handles conversation turns. Every user message runs through
// the crisis scanner before the LLM is consulted; escalation-worthy content
// short-circuits to safety messaging and raises a CrisisAlert.
type Coordinator struct {
	crisis service.CrisisService
	chat   ChatClient
	bus    *Registry
	log    *logrus.Entry
}

func NewCoordinator(crisis service.CrisisService, chat ChatClient, bus *Registry, log *logrus.Logger) *Coordinator {
	return &Coordinator{
		crisis: crisis,
		chat:   chat,
		bus:    bus,
		log:    log.WithField("agent", "conversation_coordinator"),
	}
}

// Respond produces the reply for one conversation turn along with the
// crisis assessment of the user's text.
func (co *Coordinator) Respond(ctx context.Context, msg StartConversation) (string, *models.RiskAssessment, error) {
	assessment := co.crisis.Assess(ctx, msg.UserID, msg.Text, "chat", nil)

	if assessment.EscalationNeeded {
		co.log.WithFields(logrus.Fields{
			"user_id":      msg.UserID,
			"crisis_level": assessment.CrisisLevel,
		}).Warn("Conversation short-circuited to safety messaging")

		if err := co.bus.Dispatch(ctx, CrisisAlert{UserID: msg.UserID, Assessment: assessment}); err != nil {
			co.log.WithError(err).Error("Failed to dispatch crisis alert")
		}
		return safetyReply, assessment, nil
	}

	if co.chat == nil {
		return "I'm here with you. Tell me more about how you're feeling.", assessment, nil
	}

	reply, err := co.chat.Reply(ctx, msg.ConversationID, msg.Text)
	if err != nil {
		co.log.WithError(err).Error("LLM reply failed, using fallback")
		return "I'm here with you. Tell me more about how you're feeling.", assessment, nil
	}
	return reply, assessment, nil
}
