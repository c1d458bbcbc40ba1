package classify

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultOpenAIBase = "https://api.openai.com/v1"

// Completer sends one prompt to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
}

type CompletionOpts struct {
	Model       string
	Temperature float64
	System      string
}

type CompleterConfig struct {
	Provider          string
	APIKeyEnv         string
	APIBase           string
	RequestsPerMinute int // 0 disables pacing
	Timeout           time.Duration
}

// NewCompleter builds a chat client for the configured provider. It returns
// ErrProviderUnavailable when the provider is unknown or its key is unset.
func NewCompleter(cfg CompleterConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		key := os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s is not set", ErrProviderUnavailable, cfg.APIKeyEnv)
		}
		return NewOpenAICompleter(key, cfg.APIBase, cfg.RequestsPerMinute, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderUnavailable, cfg.Provider)
	}
}

// OpenAICompleter talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAICompleter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewOpenAICompleter(apiKey, baseURL string, requestsPerMinute int, timeout time.Duration) *OpenAICompleter {
	c := &OpenAICompleter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(cmp.Or(baseURL, defaultOpenAIBase), "/"),
		client:  &http.Client{Timeout: cmp.Or(timeout, 60*time.Second)},
	}
	if requestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return c
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	messages := make([]chatMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("chat API error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("empty response from chat API")
	}

	return cmp.Or(strings.TrimSpace(chat.Choices[0].Message.Content), "[]"), nil
}
