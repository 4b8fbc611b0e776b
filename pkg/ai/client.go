// Package ai turns a customer's order history into short shopping insights
// through Azure OpenAI. Without credentials it reports the raw numbers only.
package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

const defaultDeployment = "gpt-35-turbo"

type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

type Client struct {
	api        *openai.Client
	deployment string
	logger     *zap.Logger
}

// NewClient returns a disabled client when the endpoint or key is missing
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		deployment: cfg.Deployment,
		logger:     logger.Named("ai"),
	}
	if c.deployment == "" {
		c.deployment = defaultDeployment
	}

	if cfg.Endpoint == "" || cfg.APIKey == "" {
		c.logger.Info("AI insights disabled, Azure OpenAI credentials not provided")
		return c
	}

	api := openai.NewClient(
		option.WithBaseURL(cfg.Endpoint),
		option.WithAPIKey(cfg.APIKey),
	)
	c.api = &api
	c.logger.Info("AI insights enabled", zap.String("deployment", c.deployment))
	return c
}

// Enabled reports whether completions can be requested
func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

func (c *Client) generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !c.Enabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(600),
		Temperature: openai.Float(0.7),
	})

	if err != nil {
		c.logger.Warn("completion request failed", zap.Error(err))
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
