package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseList reads a newline separated domain list.
// Blank lines and lines starting with "#" are ignored; trailing "#" comments are stripped.
// Entries are returned as written so that malformed ones are counted during population.
func ParseList(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read domain list: %w", err)
	}
	return entries, nil
}
