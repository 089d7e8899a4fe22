package ai

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/errors"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

// NewOpenAIClient builds the adapter. An empty baseURL keeps the public endpoint.
func NewOpenAIClient(log *slog.Logger, apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

// Complete sends the conversation with the tools exposed and "auto" tool choice.
func (c *OpenAIClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatRequest := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: lo.Map(request.Messages, func(m Message, _ int) openai.ChatCompletionMessage { return toOpenAIMessage(m) }),
	}
	if len(request.Tools) > 0 {
		chatRequest.Tools = lo.Map(request.Tools, func(t Tool, _ int) openai.Tool { return toOpenAITool(t) })
		chatRequest.ToolChoice = "auto"
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatRequest)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("%w: %v", errors.ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return CompletionResponse{}, fmt.Errorf("%w: no choice returned", errors.ErrCompletion)
	}
	c.log.Debug("Completion received",
		"model", resp.Model,
		"duration", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	choice := resp.Choices[0].Message
	return CompletionResponse{
		Content: choice.Content,
		ToolCalls: lo.Map(choice.ToolCalls, func(tc openai.ToolCall, _ int) ToolCall {
			return ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments}
		}),
	}, nil
}

func toOpenAIMessage(m Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = lo.Map(m.ToolCalls, func(tc ToolCall, _ int) openai.ToolCall {
			return openai.ToolCall{
				ID:       tc.ID,
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			}
		})
	}
	return msg
}

func toOpenAITool(t Tool) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}
