package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/email-domain-verifier/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	body  []byte
	err   error
	input *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func newTestReviewer(client ModelInvoker, modelID string) *Reviewer {
	logger := zap.NewNop()
	return NewReviewer(client, modelID, 300, 0.1, 0.9, logger, utils.NewTextProcessor(logger))
}

func TestReviewer_Claude(t *testing.T) {
	client := &fakeInvoker{body: []byte(`{"content":[{"type":"text","text":"{\"is_disposable\":true,\"confidence\":0.97,\"explanation\":\"Disposable service.\"}"}]}`)}
	reviewer := newTestReviewer(client, "anthropic.claude-3-haiku-20240307-v1:0")

	review, err := reviewer.ReviewDomain(context.Background(), "quickinbox.example")
	require.NoError(t, err)
	assert.True(t, review.IsDisposable)
	assert.InDelta(t, 0.97, review.Confidence, 1e-9)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", review.ModelUsed)

	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", aws.ToString(client.input.ModelId))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(client.input.Body, &payload))
	assert.Equal(t, anthropicVersion, payload["anthropic_version"])
	assert.Contains(t, payload, "messages")
}

func TestReviewer_Titan(t *testing.T) {
	client := &fakeInvoker{body: []byte(`{"results":[{"outputText":"Answer: {\"is_disposable\":false,\"confidence\":0.6,\"explanation\":\"ISP.\"}"}]}`)}
	reviewer := newTestReviewer(client, "amazon.titan-text-express-v1")

	review, err := reviewer.ReviewDomain(context.Background(), "isp.example")
	require.NoError(t, err)
	assert.False(t, review.IsDisposable)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(client.input.Body, &payload))
	assert.Contains(t, payload["inputText"], "Domain: isp.example")
}

func TestReviewer_Generic(t *testing.T) {
	client := &fakeInvoker{body: []byte(`{"generation":"{\"is_disposable\":true,\"confidence\":0.4}"}`)}
	review, err := newTestReviewer(client, "meta.llama3-8b-instruct-v1:0").ReviewDomain(context.Background(), "a.example")
	require.NoError(t, err)
	assert.True(t, review.IsDisposable)
	assert.InDelta(t, 0.4, review.Confidence, 1e-9)
}

func TestReviewer_Errors(t *testing.T) {
	_, err := newTestReviewer(&fakeInvoker{err: errors.New("throttled")}, "anthropic.claude-v2").ReviewDomain(context.Background(), "a.example")
	assert.ErrorContains(t, err, "throttled")

	_, err = newTestReviewer(&fakeInvoker{body: []byte(`{"content":[]}`)}, "anthropic.claude-v2").ReviewDomain(context.Background(), "a.example")
	assert.ErrorContains(t, err, "empty response")

	_, err = newTestReviewer(&fakeInvoker{body: []byte(`{"results":[]}`)}, "amazon.titan-text-lite-v1").ReviewDomain(context.Background(), "a.example")
	assert.ErrorContains(t, err, "empty response")
}
