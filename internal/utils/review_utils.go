package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/email-domain-verifier/internal/core"
)

// MaxExplanationSize bounds the explanation kept from a model reply
const MaxExplanationSize = 512

// ReviewSystemPrompt is sent as the system turn where the provider supports one
const ReviewSystemPrompt = "You are a disposable email domain classifier. Respond only with JSON."

const reviewPromptFormat = `You are a disposable email domain classifier. Decide whether the following
domain belongs to a temporary, throwaway or disposable email service.
Respond with a JSON object containing:
- is_disposable: boolean (true if the domain serves disposable mailboxes)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (one or two sentences explaining the verdict)

Domain: %s

Respond only with the JSON object and nothing else.`

// ReviewResponse is the JSON object reviewers ask their model for
type ReviewResponse struct {
	IsDisposable bool    `json:"is_disposable"`
	Confidence   float64 `json:"confidence"`
	Explanation  string  `json:"explanation"`
}

// DomainPrompt builds the user prompt for a domain
func DomainPrompt(domain string) string {
	return fmt.Sprintf(reviewPromptFormat, domain)
}

// ParseReview decodes a model reply into a DomainReview. processingID may be
// empty, in which case a random one is assigned.
func (tp *TextProcessor) ParseReview(text, domain, model, processingID string) (*core.DomainReview, error) {
	text = tp.SanitizeUTF8(text)

	var resp ReviewResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		jsonStr, extractErr := ExtractJSON(text)
		if extractErr != nil {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", extractErr)
		}
		if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	confidence := resp.Confidence
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	if processingID == "" {
		processingID = uuid.NewString()
	}

	return &core.DomainReview{
		Domain:       domain,
		IsDisposable: resp.IsDisposable,
		Confidence:   confidence,
		Explanation:  tp.ProcessText(resp.Explanation, MaxExplanationSize),
		ReviewedAt:   time.Now().UTC(),
		ModelUsed:    model,
		ProcessingID: processingID,
	}, nil
}
