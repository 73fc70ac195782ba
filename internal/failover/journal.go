package failover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileJournal appends one line per remote failure to a text file:
//
//	[2025-01-02T15:04:05Z] AI failure #2: generate content: deadline exceeded
type FileJournal struct {
	mu   sync.Mutex
	path string
}

func NewFileJournal(path string) *FileJournal {
	return &FileJournal{path: strings.TrimSpace(path)}
}

func (j *FileJournal) Path() string {
	return j.path
}

func (j *FileJournal) Record(at time.Time, failure int, message string) error {
	if j.path == "" {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEntry(at, failure, message)); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// FormatEntry renders a journal line, newline included. Line breaks in
// message are flattened so every failure stays on one line.
func FormatEntry(at time.Time, failure int, message string) string {
	message = strings.Join(strings.Fields(message), " ")
	return fmt.Sprintf("[%s] AI failure #%d: %s\n", at.UTC().Format(time.RFC3339), failure, message)
}
