package habit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// SummaryGenerator turns a week of habit data into a short motivational
// write-up. The production implementation calls OpenAI; tests stub it.
type SummaryGenerator interface {
	WeeklySummary(ctx context.Context, habits []Habit) (string, error)
}

const summaryPrompt = `Here is the user's weekly habit data:
%s

Write a professional, motivating summary of the week, then give 2 or 3
personalized tips for improvement. Finish with a motivational
entrepreneurial quote.`

type OpenAISummarizer struct {
	Client *openai.Client
	Model  string
}

func NewOpenAISummarizer(apiKey string) *OpenAISummarizer {
	return &OpenAISummarizer{
		Client: openai.NewClient(apiKey),
		Model:  openai.GPT4,
	}
}

func (o *OpenAISummarizer) WeeklySummary(ctx context.Context, habits []Habit) (string, error) {
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return "", err
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(summaryPrompt, data)},
		},
		MaxTokens: 400,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
