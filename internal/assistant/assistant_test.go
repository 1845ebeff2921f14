package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/knowledge"
	"mcp-kids-nutrition/internal/models"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func canned(t *testing.T, key string) string {
	t.Helper()
	text, ok := knowledge.Default().CannedResponse(key)
	require.True(t, ok)
	return text
}

func TestDemo_Answer(t *testing.T) {
	d := NewDemo(knowledge.Default())

	tests := []struct {
		question string
		key      string
	}{
		{"What's a good BREAKFAST?", "breakfast"},
		{"Breakfast snack?", "breakfast"},
		{"after-school snack ideas", "snack"},
		{"He won't eat vegetables", "vegetables"},
		{"my picky eater", "vegetables"},
		{"How much water?", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, canned(t, tt.key), d.Answer(tt.question))
		})
	}
}

func TestResponder_DemoMode(t *testing.T) {
	r := NewResponder(nil, NewDemo(knowledge.Default()), zap.NewNop())
	reply := r.Respond(context.Background(), "snack ideas")

	assert.Equal(t, models.SourceDemo, reply.Source)
	assert.Equal(t, canned(t, "snack"), reply.Text)
}

func TestResponder_Model(t *testing.T) {
	r := NewResponder(stubGenerator{text: "Try oatmeal."}, NewDemo(knowledge.Default()), zap.NewNop())
	reply := r.Respond(context.Background(), "breakfast?")

	assert.Equal(t, models.SourceModel, reply.Source)
	assert.Equal(t, "Try oatmeal.", reply.Text)
}

func TestResponder_FallbackOnError(t *testing.T) {
	r := NewResponder(stubGenerator{err: errors.New("gateway down")}, NewDemo(knowledge.Default()), zap.NewNop())
	reply := r.Respond(context.Background(), "anything")

	assert.Equal(t, models.SourceFallback, reply.Source)
	assert.Equal(t,
		"Sorry, I encountered an error: gateway down. Let me provide a general response.\n\n"+canned(t, "default"),
		reply.Text)
}

func gatewayServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openrouter-gateway", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tools/call", req["method"])

		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]interface{}{
				"content": []map[string]interface{}{{"type": "text", "text": text}},
			},
		})
	}))
}

func TestGatewayClient_Generate(t *testing.T) {
	srv := gatewayServer(t, http.StatusOK, `{"content":"  Offer yogurt with berries.  "}`)
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{ProxyURL: srv.URL + "/", APIKey: "secret", Model: "m"}, zap.NewNop())
	text, err := c.Generate(context.Background(), "snack?")

	require.NoError(t, err)
	assert.Equal(t, "Offer yogurt with berries.", text)
}

func TestGatewayClient_PlainText(t *testing.T) {
	srv := gatewayServer(t, http.StatusOK, "Offer yogurt.")
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{ProxyURL: srv.URL, APIKey: "secret"}, zap.NewNop())
	text, err := c.Generate(context.Background(), "snack?")

	require.NoError(t, err)
	assert.Equal(t, "Offer yogurt.", text)
}

func TestGatewayClient_HTTPError(t *testing.T) {
	srv := gatewayServer(t, http.StatusBadGateway, "")
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{ProxyURL: srv.URL, APIKey: "secret"}, zap.NewNop())
	_, err := c.Generate(context.Background(), "snack?")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 502"), err.Error())
}

func TestParseCompletion(t *testing.T) {
	_, err := parseCompletion(`{"content":""}`)
	assert.Error(t, err)

	_, err = parseCompletion("   ")
	assert.Error(t, err)
}

func rawGatewayServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestGatewayClient_EnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"rpc error", `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"no such tool"}}`, "gateway error -32601: no such tool"},
		{"tool error", `{"jsonrpc":"2.0","id":1,"result":{"isError":true,"content":[{"type":"text","text":"quota exceeded"}]}}`, "gateway tool failed: quota exceeded"},
		{"no result", `{"jsonrpc":"2.0","id":1}`, "no result"},
		{"no text", `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"image"}]}}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := rawGatewayServer(t, tt.body)
			defer srv.Close()

			c := NewGatewayClient(GatewayConfig{ProxyURL: srv.URL}, zap.NewNop())
			_, err := c.Generate(context.Background(), "snack?")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGatewayClient_SkipsNonTextContent(t *testing.T) {
	srv := rawGatewayServer(t, `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"image"},{"type":"text","text":"Offer pears."}]}}`)
	defer srv.Close()

	c := NewGatewayClient(GatewayConfig{ProxyURL: srv.URL}, zap.NewNop())
	text, err := c.Generate(context.Background(), "snack?")
	require.NoError(t, err)
	assert.Equal(t, "Offer pears.", text)
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("picky eater", "vegetable", "picky"))
	assert.False(t, containsAny("picky eater"))
	assert.False(t, containsAny("water", "snack", "breakfast"))
}
