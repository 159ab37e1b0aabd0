// Package roster answers whether a Telegram user may confirm drafts.
package roster

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
)

type Roster interface {
	IsAdmin(userID int64) bool
}

// FileRoster re-reads its file on every lookup, so edits take effect
// without a restart. A missing file means nobody is an admin.
type FileRoster struct {
	path string
}

func NewFileRoster(path string) *FileRoster {
	return &FileRoster{path: path}
}

func (r *FileRoster) IsAdmin(userID int64) bool {
	ids, err := r.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Admin list %s does not exist! Create it and fill it with Telegram admin ids", r.path)
		} else {
			log.Printf("Could not read admin list %s: %v", r.path, err)
		}
		return false
	}
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *FileRoster) Load() ([]int64, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseIDs(f)
}

// ParseIDs reads whitespace-separated integer ids. Tokens that are not
// integers are logged and skipped.
func ParseIDs(r io.Reader) ([]int64, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, token := range strings.Fields(string(content)) {
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			log.Printf("Skipping invalid admin id %q", token)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type StaticRoster map[int64]struct{}

func NewStaticRoster(ids ...int64) StaticRoster {
	r := make(StaticRoster, len(ids))
	for _, id := range ids {
		r[id] = struct{}{}
	}
	return r
}

func (r StaticRoster) IsAdmin(userID int64) bool {
	_, ok := r[userID]
	return ok
}

// Union reports a user as admin if any of its rosters does.
type Union []Roster

func (u Union) IsAdmin(userID int64) bool {
	for _, r := range u {
		if r != nil && r.IsAdmin(userID) {
			return true
		}
	}
	return false
}
