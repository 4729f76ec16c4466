package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the model produced no text.
var ErrEmptyCompletion = errors.New("completion contained no text")

const promptTemplate = `You are a master storyteller. Rather than recommending the movie %q, pull the reader into its world.
Describe one pivotal moment as if they were living it: what they see, hear and feel.
Make them want to watch it unfold on screen. Keep it vivid and immersive, in a single short paragraph.`

// Client represents an OpenAI-compatible chat completion client
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// NewClient creates a new chat completion client against baseURL
func NewClient(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	config.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &Client{
		api:         openai.NewClientWithConfig(config),
		model:       model,
		temperature: float32(temperature),
	}
}

// Explain returns a short immersive paragraph about the movie title.
func (c *Client) Explain(ctx context.Context, title string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, title)},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
