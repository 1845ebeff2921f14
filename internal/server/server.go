// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/assistant"
	"mcp-kids-nutrition/internal/config"
	"mcp-kids-nutrition/internal/explain"
	"mcp-kids-nutrition/internal/knowledge"
	"mcp-kids-nutrition/internal/metrics"
	"mcp-kids-nutrition/internal/storage"
)

const (
	serverName    = "kids-nutrition"
	serverVersion = "1.0.0"

	maxRequestBytes = 1 << 20
)

// errInvalidParams marks tool failures caused by the caller's arguments.
var errInvalidParams = errors.New("invalid parameters")

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type NutritionServer struct {
	server     *server.Server
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	responder  *assistant.Responder
	explainer  *explain.Explainer
	renderer   explain.Renderer
	kb         *knowledge.Base
	metrics    *metrics.Metrics
	tools      map[string]toolHandler
	logger     *zap.Logger
	config     *config.Config
}

type Option func(*options)

type options struct {
	generator assistant.Generator
	kb        *knowledge.Base
}

// WithGenerator replaces the upstream gateway client built from config.
func WithGenerator(g assistant.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithKnowledge swaps the embedded knowledge tables.
func WithKnowledge(kb *knowledge.Base) Option {
	return func(o *options) { o.kb = kb }
}

func NewNutritionServer(cfg *config.Config, logger *zap.Logger, opts ...Option) (*NutritionServer, error) {
	o := options{kb: knowledge.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generator == nil && cfg.Upstream.Enabled {
		o.generator = assistant.NewGatewayClient(assistant.GatewayConfig{
			ProxyURL:    cfg.Upstream.ProxyURL,
			APIKey:      cfg.Upstream.APIKey,
			Model:       cfg.Upstream.Model,
			MaxTokens:   cfg.Upstream.MaxTokens,
			Temperature: cfg.Upstream.Temperature,
			Timeout:     cfg.Upstream.Timeout,
		}, logger.Named("gateway"))
	}

	stor, err := storage.NewSQLiteStorage(cfg.Storage.DBPath, logger.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	nutritionServer := &NutritionServer{
		storage:   stor,
		responder: assistant.NewResponder(o.generator, assistant.NewDemo(o.kb), logger.Named("assistant")),
		explainer: explain.New(o.kb, explain.WithMaxFactors(cfg.Explain.MaxKeyFactors)),
		renderer:  explain.Renderer{PreviewLength: cfg.Explain.PreviewLength},
		kb:        o.kb,
		metrics:   metrics.New(),
		logger:    logger,
		config:    cfg,
	}

	// Transport is handled here; the MCP server only carries identity.
	mcpServer, err := server.NewServer(
		nil,
		server.WithServerInfo(protocol.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}),
	)
	if err != nil {
		stor.Close()
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	nutritionServer.server = mcpServer
	nutritionServer.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/", nutritionServer.handleHTTP)
	mux.HandleFunc("/healthz", nutritionServer.handleHealth)
	mux.Handle("/metrics", nutritionServer.metrics.Handler())

	nutritionServer.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if o.generator == nil {
		logger.Info("no upstream generator configured, answering from demo responses")
	}
	return nutritionServer, nil
}

// Handler exposes the routed HTTP handler, mainly for tests.
func (s *NutritionServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *NutritionServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	start := time.Now()
	result, err := handler(r.Context(), &request)
	s.metrics.ToolDuration.WithLabelValues(request.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		status, label := http.StatusInternalServerError, "error"
		if errors.Is(err, errInvalidParams) {
			status, label = http.StatusBadRequest, "invalid"
		}
		s.metrics.ToolCalls.WithLabelValues(request.Name, label).Inc()
		s.logger.Warn("tool call failed",
			zap.String("tool", request.Name),
			zap.Int("status", status),
			zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}
	s.metrics.ToolCalls.WithLabelValues(request.Name, "ok").Inc()

	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *NutritionServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status, body := http.StatusOK, "ok"
	if err := s.storage.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		status, body = http.StatusServiceUnavailable, "unavailable"
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": body})
}

func (s *NutritionServer) Start(ctx context.Context) error {
	s.logger.Info("starting kids nutrition server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("transport", s.config.Server.Transport))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *NutritionServer) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.storage != nil {
		if cerr := s.storage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *NutritionServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return s.createTextResponse(string(jsonBytes)), nil
}

func (s *NutritionServer) createTextResponse(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}
