// Package draft holds in-progress post submissions and turns a finished
// draft into a Post.
package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequiredFields is the number of leading fields every draft has:
// title, place, author and body. Anything after them is an address.
const RequiredFields = 4

var (
	ErrIncomplete = errors.New("draft: not enough fields")
	// ErrSeparatorInField is returned by Append when a field has a line
	// equal to the separator token.
	ErrSeparatorInField = errors.New("draft: field contains the separator line")
)

// Buffer stores the ordered text fields of one draft per chat.
type Buffer interface {
	Append(chatID int64, field string) error
	// ReadAll returns the fields joined by newlines, separators stripped.
	ReadAll(chatID int64) (string, error)
	Fields(chatID int64) ([]string, error)
	Clear(chatID int64) error
	// Reset drops every draft in the buffer.
	Reset() error
}

type Post struct {
	ID          string
	ChatID      int64
	AuthorID    int64
	Title       string
	Place       string
	Author      string
	Body        string
	Addresses   []string
	ConfirmedBy int64
	ConfirmedAt time.Time
}

// NewPost maps buffered fields onto a Post with a fresh ID.
func NewPost(chatID int64, fields []string) (*Post, error) {
	if len(fields) < RequiredFields {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrIncomplete, len(fields), RequiredFields)
	}
	addresses := make([]string, len(fields)-RequiredFields)
	copy(addresses, fields[RequiredFields:])
	return &Post{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Title:     fields[0],
		Place:     fields[1],
		Author:    fields[2],
		Body:      fields[3],
		Addresses: addresses,
	}, nil
}
