package core

import (
	"time"
)

// Result messages, one per verdict category
const (
	MessageInvalid    = "invalid email format"
	MessageDisposable = "disposable email domain detected"
	MessageSuspicious = "email domain looks suspicious"
	MessageLegitimate = "email domain appears legitimate"
)

// VerificationResult represents the verdict for a single email address
type VerificationResult struct {
	Email        string   `json:"email"`
	Domain       string   `json:"domain"`
	IsValid      bool     `json:"is_valid"`
	IsDisposable bool     `json:"is_disposable"`
	IsSuspicious bool     `json:"is_suspicious"`
	Message      string   `json:"message"`
	Reasons      []string `json:"reasons,omitempty"`
}

// BulkVerificationResult aggregates the verdicts for a batch of addresses.
// Results[i] always corresponds to the i-th input address.
type BulkVerificationResult struct {
	Total           int                   `json:"total"`
	ValidCount      int                   `json:"valid_count"`
	DisposableCount int                   `json:"disposable_count"`
	SuspiciousCount int                   `json:"suspicious_count"`
	Results         []*VerificationResult `json:"results"`
}

// DisposableDomainRecord is a known disposable domain held by a DomainStore
type DisposableDomainRecord struct {
	Domain    string    `json:"domain"`
	Source    string    `json:"source"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PopulateResult reports the outcome of a population run
type PopulateResult struct {
	RunID    string `json:"run_id"`
	Added    int    `json:"added"`
	Existing int    `json:"existing"`
	Skipped  int    `json:"skipped"`
}

// StoreStatus describes the reference store for status reporting
type StoreStatus struct {
	DomainCount int  `json:"domain_count"`
	Ready       bool `json:"ready"`
}

// DomainReview is a reviewer's opinion on whether a domain is disposable
type DomainReview struct {
	Domain       string    `json:"domain"`
	IsDisposable bool      `json:"is_disposable"`
	Confidence   float64   `json:"confidence"`
	Explanation  string    `json:"explanation"`
	ReviewedAt   time.Time `json:"reviewed_at"`
	ModelUsed    string    `json:"model_used"`
	ProcessingID string    `json:"processing_id,omitempty"`
}

// ReviewOutcome is the result of reviewing one candidate domain
type ReviewOutcome struct {
	Input   string        `json:"input"`
	Domain  string        `json:"domain"`
	Status  ReviewStatus  `json:"status"`
	Review  *DomainReview `json:"review,omitempty"`
	Applied bool          `json:"applied"`
	Error   string        `json:"error,omitempty"`
}

// ReviewStatus classifies what happened to a reviewed domain
type ReviewStatus string

const (
	ReviewStatusInvalid  ReviewStatus = "invalid"
	ReviewStatusKnown    ReviewStatus = "known"
	ReviewStatusReviewed ReviewStatus = "reviewed"
	ReviewStatusFailed   ReviewStatus = "failed"
)
