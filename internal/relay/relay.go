// Package relay forwards chat message lists to a configured provider's
// completion endpoint and normalizes the reply.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"polychat/internal/config"
	"polychat/internal/models"
	"polychat/internal/utils"
)

// Message is one turn of a conversation in the OpenAI-compatible wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantMessage is the normalized reply returned to the UI.
type AssistantMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// Usage mirrors the provider's token accounting when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply is the outcome of a relayed completion request.
type Reply struct {
	Message AssistantMessage `json:"message"`
	Usage   *Usage           `json:"usage"`

	// Warning is set when the reply is simulated because the upstream
	// call failed.
	Warning string `json:"warning,omitempty"`
}

// Relay sends completion requests to providers. Whether an upstream
// failure surfaces as an error or as a clearly-labeled simulated reply is
// a policy decision carried in the configuration.
type Relay struct {
	client          *http.Client
	simulateOnError bool
	logger          *utils.Logger
}

// NewRelay creates a chat relay.
func NewRelay(cfg config.ChatConfig, logger *utils.Logger) *Relay {
	return &Relay{
		client:          &http.Client{Timeout: cfg.RequestTimeout},
		simulateOnError: cfg.SimulateOnError,
		logger:          logger,
	}
}

// Send forwards the message list to the provider's OpenAI-compatible
// completion endpoint and returns the normalized reply. With
// simulate-on-error enabled, upstream failures produce a labeled simulated
// reply instead of an error, keeping the conversation flowing.
func (r *Relay) Send(ctx context.Context, provider *models.ProviderConfig, model string, messages []Message) (*Reply, error) {
	reply, err := r.send(ctx, provider, model, messages)
	if err == nil {
		return reply, nil
	}

	r.logger.Error("upstream completion failed", "provider", provider.ID, "model", model, "error", err)
	if !r.simulateOnError {
		return nil, err
	}

	return &Reply{
		Message: AssistantMessage{
			Role: "assistant",
			Content: fmt.Sprintf(
				"This is a simulated reply (upstream call failed: %v). Check that the %s API key and base URL are configured correctly.",
				err, provider.ID),
			Model:     model,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Warning: "upstream call failed, returning simulated reply",
	}, nil
}

func (r *Relay) send(ctx context.Context, provider *models.ProviderConfig, model string, messages []Message) (*Reply, error) {
	payload := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": 0.7,
		"max_tokens":  2048,
		"stream":      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(provider.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+provider.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage *Usage `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	return &Reply{
		Message: AssistantMessage{
			Role:      "assistant",
			Content:   parsed.Choices[0].Message.Content,
			Model:     model,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Usage: parsed.Usage,
	}, nil
}
