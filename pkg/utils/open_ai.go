package utils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// InsightClientInterface is the opaque text-generation capability. It has no
// side effects on local state and may fail; callers treat failures as a
// dependency error.
type InsightClientInterface interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type OpenAIInsightClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIInsightClient(apiKey, model string) InsightClientInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIInsightClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIInsightClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a cautious health assistant. Offer general wellness insights, never a diagnosis.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
