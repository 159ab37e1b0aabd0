package draft

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeparator = "~~~"

func newFileBuffer(t *testing.T) (*FileBuffer, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "drafts")
	b, err := NewFileBuffer(dir, testSeparator)
	require.NoError(t, err)
	return b, dir
}

func buffers(t *testing.T) map[string]Buffer {
	fb, _ := newFileBuffer(t)
	return map[string]Buffer{
		"file":   fb,
		"memory": NewMemoryBuffer(),
	}
}

func TestBuffer_ReadAllStripsSeparators(t *testing.T) {
	for name, b := range buffers(t) {
		t.Run(name, func(t *testing.T) {
			fields := []string{"Title A", "Place B", "Author C", "Body D", "Addr1"}
			for _, f := range fields {
				require.NoError(t, b.Append(7, f))
			}

			got, err := b.ReadAll(7)
			require.NoError(t, err)
			assert.Equal(t, "Title A\nPlace B\nAuthor C\nBody D\nAddr1", got)
			assert.NotContains(t, got, testSeparator)

			gotFields, err := b.Fields(7)
			require.NoError(t, err)
			assert.Equal(t, fields, gotFields)
		})
	}
}

func TestBuffer_ClearEmptiesOnlyThatChat(t *testing.T) {
	for name, b := range buffers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Append(1, "one"))
			require.NoError(t, b.Append(2, "two"))

			require.NoError(t, b.Clear(1))

			got, err := b.ReadAll(1)
			require.NoError(t, err)
			assert.Empty(t, got)

			other, err := b.Fields(2)
			require.NoError(t, err)
			assert.Equal(t, []string{"two"}, other)
		})
	}
}

func TestBuffer_ClearUnknownChat(t *testing.T) {
	for name, b := range buffers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Clear(99))
			fields, err := b.Fields(99)
			require.NoError(t, err)
			assert.Empty(t, fields)
		})
	}
}

func TestBuffer_Reset(t *testing.T) {
	for name, b := range buffers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Append(1, "one"))
			require.NoError(t, b.Append(2, "two"))

			require.NoError(t, b.Reset())

			for _, chatID := range []int64{1, 2} {
				fields, err := b.Fields(chatID)
				require.NoError(t, err)
				assert.Empty(t, fields)
			}
		})
	}
}

func TestFileBuffer_MultiLineField(t *testing.T) {
	b, _ := newFileBuffer(t)
	body := "first paragraph\n\nsecond paragraph"
	require.NoError(t, b.Append(3, "title"))
	require.NoError(t, b.Append(3, body))

	fields, err := b.Fields(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", body}, fields)
}

func TestFileBuffer_AppendRejectsSeparatorLine(t *testing.T) {
	b, _ := newFileBuffer(t)
	require.NoError(t, b.Append(4, "title"))

	for _, field := range []string{"intro\n~~~\nrest", "~~~", "intro\r\n~~~\r\nrest"} {
		assert.ErrorIs(t, b.Append(4, field), ErrSeparatorInField)
	}
	require.NoError(t, b.Append(4, "inline ~~~ is fine"))

	fields, err := b.Fields(4)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "inline ~~~ is fine"}, fields)
}

func TestFileBuffer_FileFormat(t *testing.T) {
	b, dir := newFileBuffer(t)
	require.NoError(t, b.Append(5, "alpha"))
	require.NoError(t, b.Append(5, "beta"))

	raw, err := os.ReadFile(filepath.Join(dir, "draft_5.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha\n~~~\nbeta\n~~~\n", string(raw))

	require.NoError(t, b.Clear(5))
	raw, err = os.ReadFile(filepath.Join(dir, "draft_5.txt"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestFileBuffer_ResetKeepsForeignFiles(t *testing.T) {
	b, dir := newFileBuffer(t)
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0644))
	require.NoError(t, b.Append(1, "x"))

	require.NoError(t, b.Reset())

	_, err := os.Stat(other)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "draft_1.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileBuffer_EmptySeparator(t *testing.T) {
	_, err := NewFileBuffer(t.TempDir(), "")
	assert.Error(t, err)
}

func TestNewPost(t *testing.T) {
	post, err := NewPost(10, []string{"T", "P", "A", "B", "addr1", "addr2"})
	require.NoError(t, err)

	_, err = uuid.Parse(post.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), post.ChatID)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "P", post.Place)
	assert.Equal(t, "A", post.Author)
	assert.Equal(t, "B", post.Body)
	assert.Equal(t, []string{"addr1", "addr2"}, post.Addresses)
}

func TestNewPost_NoAddresses(t *testing.T) {
	post, err := NewPost(10, []string{"T", "P", "A", "B"})
	require.NoError(t, err)
	assert.Empty(t, post.Addresses)
}

func TestNewPost_Incomplete(t *testing.T) {
	_, err := NewPost(10, []string{"T", "P"})
	assert.ErrorIs(t, err, ErrIncomplete)
}
