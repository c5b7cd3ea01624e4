// Package assistant produces AI study help for course material.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	courseModels "learnhub/models/course"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

var (
	ErrDisabled      = errors.New("ai assistant is not configured")
	ErrRateLimited   = errors.New("ai assistant rate limit exceeded")
	ErrEmptyResponse = errors.New("ai assistant returned an empty response")
)

const maxContextChars = 6000

// Default is the assistant used by the HTTP handlers; nil until main sets it.
var Default *Assistant

type Assistant struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// New returns an assistant. Without an API key every call fails with ErrDisabled.
func New(apiKey, baseURL, model string, perMinute int) *Assistant {
	if perMinute < 1 {
		perMinute = 1
	}
	a := &Assistant{
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
	if apiKey == "" {
		return a
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	a.client = openai.NewClientWithConfig(cfg)
	if a.model == "" {
		a.model = openai.GPT4oMini
	}
	return a
}

func (a *Assistant) Enabled() bool {
	return a != nil && a.client != nil
}

// SummarizeCourse writes a study summary from the course outline
func (a *Assistant) SummarizeCourse(ctx context.Context, course courseModels.Course, modules []courseModels.Module, contents []courseModels.CourseContent) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n%s\n", course.Title, course.Description)
	for _, m := range modules {
		fmt.Fprintf(&b, "\nModule: %s\n", m.Title)
		for _, c := range contents {
			if c.ModuleID != m.ID {
				continue
			}
			fmt.Fprintf(&b, "- Day %d, %s (%s): %s\n", c.Day, c.Title, c.ContentType, c.Description)
		}
	}

	return a.complete(ctx,
		"You are a study assistant for an online learning platform. Summarise the course for a learner in a few short paragraphs followed by a bullet list of key skills.",
		truncate(b.String()),
	)
}

// ExplainContent explains one piece of content, optionally answering a question about it
func (a *Assistant) ExplainContent(ctx context.Context, content courseModels.CourseContent, question string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson: %s\n%s\n", content.Title, content.Description)
	if content.TextContent != "" {
		fmt.Fprintf(&b, "\n%s\n", content.TextContent)
	}
	if question = strings.TrimSpace(question); question != "" {
		fmt.Fprintf(&b, "\nLearner question: %s\n", question)
	}

	return a.complete(ctx,
		"You are a patient tutor. Explain the lesson in simple terms with one worked example. Answer the learner's question if there is one.",
		truncate(b.String()),
	)
}

func (a *Assistant) complete(ctx context.Context, system, prompt string) (string, error) {
	if !a.Enabled() {
		return "", ErrDisabled
	}
	if !a.limiter.Allow() {
		return "", ErrRateLimited
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string) string {
	if len(s) <= maxContextChars {
		return s
	}
	return s[:maxContextChars]
}
