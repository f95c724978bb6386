package source

import "context"

// StaticSource serves a fixed list, typically seeded from configuration
type StaticSource struct {
	name    string
	domains []string
}

// NewStaticSource creates a static source
func NewStaticSource(name string, domains []string) *StaticSource {
	return &StaticSource{name: name, domains: domains}
}

// Name returns the source name
func (s *StaticSource) Name() string { return s.name }

// Fetch returns a copy of the configured domains
func (s *StaticSource) Fetch(ctx context.Context) ([]string, error) {
	out := make([]string, len(s.domains))
	copy(out, s.domains)
	return out, nil
}
