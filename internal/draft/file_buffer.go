package draft

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const draftFilePrefix = "draft_"

// FileBuffer keeps each chat's draft in its own plain text file. Every
// field is followed by a line holding only the separator token.
type FileBuffer struct {
	dir       string
	separator string
	mu        sync.Mutex
}

func NewFileBuffer(dir, separator string) (*FileBuffer, error) {
	if separator == "" {
		return nil, errors.New("draft: separator must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create draft directory: %w", err)
	}
	return &FileBuffer{dir: dir, separator: separator}, nil
}

func (b *FileBuffer) path(chatID int64) string {
	return filepath.Join(b.dir, draftFilePrefix+strconv.FormatInt(chatID, 10)+".txt")
}

func (b *FileBuffer) Append(chatID int64, field string) error {
	if b.hasSeparatorLine(field) {
		return ErrSeparatorInField
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := os.OpenFile(b.path(chatID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open draft file: %w", err)
	}
	if _, err := f.WriteString(field + "\n" + b.separator + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("could not write draft field: %w", err)
	}
	return f.Close()
}

func (b *FileBuffer) hasSeparatorLine(field string) bool {
	for _, line := range strings.Split(field, "\n") {
		if strings.TrimSuffix(line, "\r") == b.separator {
			return true
		}
	}
	return false
}

func (b *FileBuffer) ReadAll(chatID int64) (string, error) {
	fields, err := b.Fields(chatID)
	if err != nil {
		return "", err
	}
	return strings.Join(fields, "\n"), nil
}

func (b *FileBuffer) Fields(chatID int64) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := os.Open(b.path(chatID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open draft file: %w", err)
	}
	defer f.Close()

	var fields []string
	var current []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == b.separator {
			fields = append(fields, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read draft file: %w", err)
	}
	// A trailing field without its separator line was cut short by a failed write.
	return fields, nil
}

func (b *FileBuffer) Clear(chatID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Truncate(b.path(chatID), 0); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not clear draft file: %w", err)
	}
	return nil
}

func (b *FileBuffer) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("could not list draft directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), draftFilePrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(b.dir, entry.Name())); err != nil {
			return fmt.Errorf("could not remove draft %s: %w", entry.Name(), err)
		}
	}
	return nil
}
