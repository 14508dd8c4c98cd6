// Package textfile extracts email addresses from plain-text list files: the
// "Name <email>" pair format and the one-address-per-line format.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"extractmail/internal/models"
)

// ExtractPairs reads comma- or newline-separated "Name <email>" entries from
// each path and returns the set of bracketed addresses. Entries without a
// well-formed bracketed address are skipped; a missing file is fatal.
func ExtractPairs(logger *slog.Logger, paths []string) (models.EmailSet, error) {
	set := models.NewEmailSet()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", models.ErrNotFound, path)
			}
			return nil, fmt.Errorf("failed to read name/email file %s: %w", path, err)
		}

		found := 0
		for _, entry := range splitEntries(string(data)) {
			addr, ok := bracketedAddress(entry)
			if !ok {
				logger.Debug("Entry has no bracketed address, skipping.", "path", path, "entry", entry)
				continue
			}
			if !set.Add(addr) {
				logger.Debug("Bracketed token is not an email address, skipping.", "path", path, "token", addr)
				continue
			}
			found++
		}
		logger.Info("Parsed name/email file.", "path", path, "addresses", found)
	}
	return set, nil
}

// ExtractLines reads one address per line from path. Blank lines are ignored
// and lines that do not look like an address are skipped.
func ExtractLines(logger *slog.Logger, path string) (models.EmailSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open email list file %s: %w", path, err)
	}
	defer f.Close()

	set := models.NewEmailSet()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !set.Add(line) {
			logger.Debug("Line is not an email address, skipping.", "path", path, "line", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read email list file %s: %w", path, err)
	}
	logger.Info("Parsed newline email file.", "path", path, "addresses", set.Len())
	return set, nil
}

// splitEntries tokenizes pair-file content on commas and line breaks and
// drops empty tokens.
func splitEntries(content string) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	entries := fields[:0]
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			entries = append(entries, field)
		}
	}
	return entries
}

// bracketedAddress returns the substring between the first '<' and the next
// '>' in entry, and whether such a pair exists.
func bracketedAddress(entry string) (string, bool) {
	open := strings.Index(entry, "<")
	if open < 0 {
		return "", false
	}
	rest := entry[open+1:]
	end := strings.Index(rest, ">")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
