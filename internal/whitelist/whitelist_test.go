package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_IsTrusted(t *testing.T) {
	c := NewChecker([]string{" Tempo.IO ", "*.corp.example", "@spamhaus.org", ""}, zap.NewNop())
	assert.Equal(t, 3, c.Len())

	tests := []struct {
		domain string
		want   bool
	}{
		{"tempo.io", true},
		{"mail.tempo.io", true},
		{"corp.example", true},
		{"eu.mail.corp.example", true},
		{"spamhaus.org", true},
		{"nottempo.io", false},
		{"tempo.io.evil.com", false},
		{"gmail.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTrusted(tt.domain))
		})
	}
}

func TestChecker_Empty(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.False(t, c.IsTrusted("tempo.io"))
	assert.Equal(t, 0, c.Len())
}
