package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReviewer struct {
	reviews map[string]*DomainReview
	calls   []string
}

func (r *fakeReviewer) ReviewDomain(ctx context.Context, domain string) (*DomainReview, error) {
	r.calls = append(r.calls, domain)
	review, ok := r.reviews[domain]
	if !ok {
		return nil, errors.New("model timeout")
	}
	return review, nil
}

func TestReviewService_Review(t *testing.T) {
	store := newFakeStore("mailinator.com")
	reviewer := &fakeReviewer{reviews: map[string]*DomainReview{
		"quickinbox.example": {Domain: "quickinbox.example", IsDisposable: true, Confidence: 0.93, ModelUsed: "gpt-4"},
		"maybe.example":      {Domain: "maybe.example", IsDisposable: true, Confidence: 0.55, ModelUsed: "gpt-4"},
		"bank.example":       {Domain: "bank.example", IsDisposable: false, Confidence: 0.99, ModelUsed: "gpt-4"},
	}}
	svc := NewReviewService(reviewer, store, zap.NewNop(), 0.8, true)

	outcomes, err := svc.Review(context.Background(), []string{
		"quickinbox.example", "maybe.example", "bank.example", "Mailinator.com", "not a domain", "flaky.example",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 6)

	assert.Equal(t, ReviewStatusReviewed, outcomes[0].Status)
	assert.True(t, outcomes[0].Applied)
	assert.Equal(t, ReviewStatusReviewed, outcomes[1].Status)
	assert.False(t, outcomes[1].Applied, "below the confidence threshold")
	assert.False(t, outcomes[2].Applied)
	assert.Equal(t, ReviewStatusKnown, outcomes[3].Status)
	assert.Equal(t, "mailinator.com", outcomes[3].Domain)
	assert.Equal(t, ReviewStatusInvalid, outcomes[4].Status)
	assert.Equal(t, ReviewStatusFailed, outcomes[5].Status)
	assert.Equal(t, "model timeout", outcomes[5].Error)

	assert.NotContains(t, reviewer.calls, "mailinator.com")
	require.Contains(t, store.domains, "quickinbox.example")
	assert.Equal(t, "review:gpt-4", store.domains["quickinbox.example"].Source)
	assert.NotContains(t, store.domains, "maybe.example")
}

func TestReviewService_DryRunDoesNotWrite(t *testing.T) {
	store := newFakeStore()
	reviewer := &fakeReviewer{reviews: map[string]*DomainReview{
		"quickinbox.example": {IsDisposable: true, Confidence: 1, ModelUsed: "gemini"},
	}}
	svc := NewReviewService(reviewer, store, zap.NewNop(), 0.8, false)

	outcomes, err := svc.Review(context.Background(), []string{"quickinbox.example"})
	require.NoError(t, err)
	assert.False(t, outcomes[0].Applied)
	assert.Empty(t, store.domains)
}

func TestReviewService_NoReviewer(t *testing.T) {
	svc := NewReviewService(nil, newFakeStore(), zap.NewNop(), 0.8, true)
	_, err := svc.Review(context.Background(), []string{"a.example"})
	assert.ErrorIs(t, err, ErrNoReviewer)
}

func TestReviewService_StoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("down")
	svc := NewReviewService(&fakeReviewer{}, store, zap.NewNop(), 0.8, true)

	_, err := svc.Review(context.Background(), []string{"a.example"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
