package notifier

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/models"
)

// TelegramNotifier pushes escalation records to a reviewer chat. It is the
// only downstream dispatch the service performs itself; actual emergency
// response stays with the humans reading the channel.
type TelegramNotifier struct {
	api            *tgbotapi.BotAPI
	reviewerChatID int64
	logger         *zap.Logger
}

// NewTelegramNotifier creates the notifier, or returns (nil, nil) when the
// notifier is disabled in config.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:            botAPI,
		reviewerChatID: cfg.Notifier.ReviewerChatID,
		logger:         logger,
	}, nil
}

// NotifyEscalation sends the escalation record to the reviewer chat. The
// trigger content itself is never included in the notification.
func (n *TelegramNotifier) NotifyEscalation(ctx context.Context, userID int64, assessment *models.RiskAssessment, result *models.EscalationResult) error {
	if n == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 Crisis escalation (%s)\n", result.EscalationType)
	fmt.Fprintf(&b, "User: %d\n", userID)
	fmt.Fprintf(&b, "Level: %s (score %.2f, confidence %.2f)\n",
		assessment.CrisisLevel, assessment.RiskScore, assessment.Confidence)
	if len(result.ActionsTaken) > 0 {
		b.WriteString("Actions taken:\n")
		for _, action := range result.ActionsTaken {
			fmt.Fprintf(&b, "  • %s\n", action)
		}
	}
	if len(result.NextSteps) > 0 {
		b.WriteString("Next steps:\n")
		for _, step := range result.NextSteps {
			fmt.Fprintf(&b, "  • %s\n", step)
		}
	}

	msg := tgbotapi.NewMessage(n.reviewerChatID, b.String())
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send escalation notification: %w", err)
	}

	n.logger.Info("Escalation notification sent",
		zap.Int64("user_id", userID),
		zap.String("crisis_level", string(assessment.CrisisLevel)))
	return nil
}
