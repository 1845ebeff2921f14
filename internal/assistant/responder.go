// internal/assistant/responder.go
package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/knowledge"
	"mcp-kids-nutrition/internal/models"
)

// Demo answers questions with canned responses picked by keyword.
type Demo struct {
	kb *knowledge.Base
}

func NewDemo(kb *knowledge.Base) *Demo {
	return &Demo{kb: kb}
}

var demoRules = []struct {
	key   string
	words []string
}{
	{"breakfast", []string{"breakfast"}},
	{"snack", []string{"snack"}},
	{"vegetables", []string{"vegetable", "picky"}},
}

func (d *Demo) Answer(question string) string {
	q := strings.ToLower(question)
	key := "default"
	for _, r := range demoRules {
		if containsAny(q, r.words...) {
			key = r.key
			break
		}
	}
	answer, _ := d.kb.CannedResponse(key)
	return answer
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// Reply is an answer together with where it came from.
type Reply struct {
	Text   string
	Source models.ReplySource
}

// Responder answers with the generator when one is configured and falls back to
// the demo answers otherwise. Generator failures never surface as errors.
type Responder struct {
	gen    Generator
	demo   *Demo
	logger *zap.Logger
}

// NewResponder builds a Responder; gen may be nil for demo mode.
func NewResponder(gen Generator, demo *Demo, logger *zap.Logger) *Responder {
	return &Responder{gen: gen, demo: demo, logger: logger}
}

func (r *Responder) Respond(ctx context.Context, question string) Reply {
	if r.gen == nil {
		return Reply{Text: r.demo.Answer(question), Source: models.SourceDemo}
	}

	text, err := r.gen.Generate(ctx, question)
	if err != nil {
		r.logger.Warn("generation failed, using canned response", zap.Error(err))
		return Reply{
			Text: fmt.Sprintf("Sorry, I encountered an error: %v. Let me provide a general response.\n\n%s",
				err, r.demo.Answer(question)),
			Source: models.SourceFallback,
		}
	}
	return Reply{Text: text, Source: models.SourceModel}
}
