package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-domain-verifier/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (m *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if text, ok := parts[0].(genai.Text); ok {
			m.prompt = string(text)
		}
	}
	return m.resp, m.err
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func newTestReviewer(model ContentGenerator) *Reviewer {
	logger := zap.NewNop()
	return NewReviewer(model, "gemini-pro", logger, utils.NewTextProcessor(logger))
}

func TestReviewer_ReviewDomain(t *testing.T) {
	model := &fakeModel{resp: textResponse(
		genai.Text(`{"is_disposable": true, `),
		genai.Text(`"confidence": 0.85, "explanation": "Temporary inbox."}`),
	)}
	reviewer := newTestReviewer(model)

	review, err := reviewer.ReviewDomain(context.Background(), "quickinbox.example")
	require.NoError(t, err)
	assert.True(t, review.IsDisposable)
	assert.InDelta(t, 0.85, review.Confidence, 1e-9)
	assert.Equal(t, "gemini-pro", review.ModelUsed)
	assert.NotEmpty(t, review.ProcessingID)
	assert.Contains(t, model.prompt, "Domain: quickinbox.example")
	assert.NoError(t, reviewer.Close())
}

func TestReviewer_Errors(t *testing.T) {
	_, err := newTestReviewer(&fakeModel{err: errors.New("quota")}).ReviewDomain(context.Background(), "a.example")
	assert.ErrorContains(t, err, "quota")

	_, err = newTestReviewer(&fakeModel{resp: &genai.GenerateContentResponse{}}).ReviewDomain(context.Background(), "a.example")
	assert.ErrorContains(t, err, "empty response")

	_, err = newTestReviewer(&fakeModel{resp: textResponse(genai.Text("no idea"))}).ReviewDomain(context.Background(), "a.example")
	assert.ErrorIs(t, err, utils.ErrNoJSON)
}
