package draft

import (
	"strings"
	"sync"
)

// MemoryBuffer is a Buffer that lives only as long as the process.
type MemoryBuffer struct {
	mu     sync.Mutex
	drafts map[int64][]string
}

func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{drafts: make(map[int64][]string)}
}

func (b *MemoryBuffer) Append(chatID int64, field string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts[chatID] = append(b.drafts[chatID], field)
	return nil
}

func (b *MemoryBuffer) ReadAll(chatID int64) (string, error) {
	fields, _ := b.Fields(chatID)
	return strings.Join(fields, "\n"), nil
}

func (b *MemoryBuffer) Fields(chatID int64) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fields := b.drafts[chatID]
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out, nil
}

func (b *MemoryBuffer) Clear(chatID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drafts, chatID)
	return nil
}

func (b *MemoryBuffer) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts = make(map[int64][]string)
	return nil
}
