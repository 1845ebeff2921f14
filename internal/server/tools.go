// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/models"
	"mcp-kids-nutrition/internal/storage"
)

const (
	defaultHistoryLimit = 20
	noHistoryMessage    = "No conversation history to explain."

	formatJSON   = "json"
	formatReport = "report"
)

type AskParams struct {
	Question string `json:"question" description:"Nutrition question from a parent or caregiver"`
}

type ExplainParams struct {
	Question string `json:"question" description:"Question that was asked"`
	Response string `json:"response" description:"Answer to analyze"`
	Format   string `json:"format,omitempty" description:"json (default) or report"`
}

type ExplainLastParams struct {
	ExchangeID string `json:"exchange_id,omitempty" description:"Explain this stored exchange instead of the latest one"`
	Format     string `json:"format,omitempty" description:"json (default) or report"`
}

type NutritionFactsParams struct {
	Food string `json:"food" description:"Food to look up, e.g. apple"`
}

type MealPlanParams struct {
	AgeGroup            string `json:"age_group" description:"toddler, preschool or school_age"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty" description:"Free-text restrictions to note on the plan"`
}

type GetHistoryParams struct {
	Limit int `json:"limit,omitempty" description:"Maximum number of exchanges to return"`
}

// extractParams decodes the request arguments into target. Failures wrap
// errInvalidParams.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", errInvalidParams, name)
	}
	return nil
}

func validFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", formatJSON:
		return formatJSON, nil
	case formatReport:
		return formatReport, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", errInvalidParams, format)
	}
}

// handleAsk answers a question and records the exchange in history.
func (s *NutritionServer) handleAsk(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AskParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if err := required("question", params.Question); err != nil {
		return nil, err
	}

	reply := s.responder.Respond(ctx, params.Question)
	s.metrics.Replies.WithLabelValues(string(reply.Source)).Inc()

	exchange := &models.Exchange{
		Question: params.Question,
		Response: reply.Text,
		Source:   reply.Source,
	}
	if err := s.storage.SaveExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to save exchange: %w", err)
	}

	s.logger.Info("question answered",
		zap.String("exchange_id", exchange.ID),
		zap.String("source", string(exchange.Source)))
	return s.createJSONResponse(exchange)
}

func (s *NutritionServer) handleExplain(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ExplainParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if err := required("question", params.Question); err != nil {
		return nil, err
	}
	if err := required("response", params.Response); err != nil {
		return nil, err
	}
	format, err := validFormat(params.Format)
	if err != nil {
		return nil, err
	}

	return s.explainResult(params.Question, params.Response, format)
}

// handleExplainLast explains the most recent stored exchange, or the one named
// by exchange_id.
func (s *NutritionServer) handleExplainLast(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ExplainLastParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	format, err := validFormat(params.Format)
	if err != nil {
		return nil, err
	}

	if id := strings.TrimSpace(params.ExchangeID); id != "" {
		ex, err := s.storage.GetExchange(id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown exchange_id %q", errInvalidParams, id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load exchange: %w", err)
		}
		return s.explainResult(ex.Question, ex.Response, format)
	}

	last, err := s.storage.LatestExchange()
	if errors.Is(err, storage.ErrNotFound) {
		return s.createTextResponse(noHistoryMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last exchange: %w", err)
	}

	return s.explainResult(last.Question, last.Response, format)
}

func (s *NutritionServer) explainResult(question, response, format string) (*protocol.CallToolResult, error) {
	explanation := s.explainer.Explain(question, response)
	s.metrics.Explanations.WithLabelValues(string(explanation.Reasoning.QuestionType)).Inc()
	s.metrics.Confidence.Observe(explanation.ConfidenceScore)

	if format == formatReport {
		return s.createTextResponse(s.renderer.Render(explanation)), nil
	}
	return s.createJSONResponse(explanation)
}

func (s *NutritionServer) handleNutritionFacts(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params NutritionFactsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if err := required("food", params.Food); err != nil {
		return nil, err
	}

	facts, ok := s.kb.LookupFood(params.Food)
	if !ok {
		return s.createTextResponse(unknownFoodMessage(params.Food, s.kb.KnownFoods())), nil
	}
	return s.createJSONResponse(facts)
}

func (s *NutritionServer) handleMealPlan(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealPlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if err := required("age_group", params.AgeGroup); err != nil {
		return nil, err
	}

	plan, ok := s.kb.MealPlan(params.AgeGroup)
	if !ok {
		return s.createTextResponse(unknownAgeGroupMessage(s.kb.MealPlanGroups())), nil
	}
	return s.createTextResponse(renderMealPlan(plan, params.DietaryRestrictions)), nil
}

func (s *NutritionServer) handleGetHistory(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetHistoryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = defaultHistoryLimit
	}

	exchanges, err := s.storage.GetExchanges(params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve history: %w", err)
	}
	return s.createJSONResponse(exchanges)
}

func (s *NutritionServer) registerTools() {
	s.tools = map[string]toolHandler{
		"ask":             s.handleAsk,
		"explain":         s.handleExplain,
		"explain_last":    s.handleExplainLast,
		"nutrition_facts": s.handleNutritionFacts,
		"meal_plan":       s.handleMealPlan,
		"get_history":     s.handleGetHistory,
	}
	for name := range s.tools {
		s.logger.Debug("registered tool", zap.String("tool", name))
	}
}
