package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/utils"
	"go.uber.org/zap"
)

// ContentGenerator is the subset of *genai.GenerativeModel the reviewer needs
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Reviewer is an implementation of core.DomainReviewer using Google Gemini
type Reviewer struct {
	model         ContentGenerator
	modelName     string
	closer        func() error
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a new Gemini reviewer around a configured model
func NewReviewer(model ContentGenerator, modelName string, logger *zap.Logger, textProcessor *utils.TextProcessor) *Reviewer {
	return &Reviewer{
		model:         model,
		modelName:     modelName,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close releases the underlying client
func (r *Reviewer) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

// ReviewDomain asks the model whether a domain serves disposable mailboxes
func (r *Reviewer) ReviewDomain(ctx context.Context, domain string) (*core.DomainReview, error) {
	resp, err := r.model.GenerateContent(ctx, genai.Text(utils.DomainPrompt(domain)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	r.logger.Debug("Gemini review response",
		zap.String("domain", domain),
		zap.Int("parts", len(resp.Candidates[0].Content.Parts)))

	return r.textProcessor.ParseReview(sb.String(), domain, r.modelName, "")
}
