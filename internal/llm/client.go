package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a supportive mental-wellness companion. Respond with warmth and " +
	"empathy, reflect what the user is feeling, and gently encourage healthy coping. Never give " +
	"medical advice or diagnoses. Keep replies to a few sentences."

// Client wraps an OpenAI-compatible chat API for the conversation
// coordinator agent.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a chat client. baseURL may point at any
// OpenAI-compatible endpoint; empty means the default OpenAI API.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Reply generates an empathetic reply to the user's text.
func (c *Client) Reply(ctx context.Context, conversationID, userText string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		MaxTokens:   512,
		Temperature: 0.7,
		User:        conversationID,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
