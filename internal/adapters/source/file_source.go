package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a domain list from a local file
type FileSource struct {
	path string
}

// NewFileSource creates a file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source name
func (s *FileSource) Name() string { return "file:" + s.path }

// Fetch reads and parses the file
func (s *FileSource) Fetch(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open domain list: %w", err)
	}
	defer f.Close()

	return ParseList(f)
}
