// internal/assistant/gateway.go
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const systemPrompt = `You are a friendly pediatric nutritionist helping parents and caregivers.

Answer questions about children's nutrition with specific foods, age-appropriate portion sizes
(cups, slices, oz, servings) and a short reason why each food is good for a growing child.
Mention choking hazards for toddlers and common allergens where relevant. Keep answers under
250 words and finish with one practical, fun preparation tip.`

// Generator produces an answer to a nutrition question.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

type GatewayConfig struct {
	ProxyURL    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// GatewayClient asks an OpenRouter gateway, reached through an MCP proxy, for
// completions.
type GatewayClient struct {
	httpClient *http.Client
	cfg        GatewayConfig
	logger     *zap.Logger
}

func NewGatewayClient(cfg GatewayConfig, logger *zap.Logger) *GatewayClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &GatewayClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (c *GatewayClient) Generate(ctx context.Context, question string) (string, error) {
	completionRequest := map[string]interface{}{
		"model":         c.cfg.Model,
		"system_prompt": systemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": question,
			},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}

	start := time.Now()
	output, err := c.callGateway(ctx, "create_completion", completionRequest)
	if err != nil {
		return "", fmt.Errorf("failed to get AI completion: %w", err)
	}
	c.logger.Debug("completion received",
		zap.String("model", c.cfg.Model),
		zap.Duration("elapsed", time.Since(start)))

	return parseCompletion(output)
}

type gatewayRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  gatewayParams `json:"params"`
}

type gatewayParams struct {
	Name      string      `json:"name"`
	Arguments interface{} `json:"arguments"`
}

// gatewayResponse is the JSON-RPC envelope around a tools/call result.
type gatewayResponse struct {
	Result *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// text returns the first text item of the result.
func (r *gatewayResponse) text() (string, error) {
	if r.Error != nil {
		return "", fmt.Errorf("gateway error %d: %s", r.Error.Code, r.Error.Message)
	}
	if r.Result == nil {
		return "", fmt.Errorf("gateway response has no result")
	}
	for _, c := range r.Result.Content {
		if c.Type != "text" {
			continue
		}
		if r.Result.IsError {
			return "", fmt.Errorf("gateway tool failed: %s", c.Text)
		}
		return c.Text, nil
	}
	return "", fmt.Errorf("gateway result has no text content")
}

func (c *GatewayClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", strings.TrimRight(c.cfg.ProxyURL, "/"))

	body, err := json.Marshal(gatewayRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  gatewayParams{Name: toolName, Arguments: args},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var envelope gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return envelope.text()
}

// parseCompletion pulls the answer text out of the gateway's completion JSON.
// Plain text is accepted as the answer itself.
func parseCompletion(output string) (string, error) {
	var completion map[string]interface{}
	if err := json.Unmarshal([]byte(output), &completion); err != nil {
		text := strings.TrimSpace(output)
		if text == "" {
			return "", fmt.Errorf("empty completion")
		}
		return text, nil
	}

	content, ok := completion["content"].(string)
	if !ok || strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("completion has no content")
	}
	return strings.TrimSpace(content), nil
}
