package bubbletea

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	t.Parallel()

	t.Run("short text stays on one line", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"hello"}, wrapText("hello", 10))
	})

	t.Run("wraps at word boundaries", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"hello", "world"}, wrapText("hello world", 5))
	})

	t.Run("preserves existing newlines", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"one", "two"}, wrapText("one\ntwo", 20))
	})

	t.Run("empty string yields one empty line", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{""}, wrapText("", 10))
	})

	t.Run("non-positive width returns input unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"hello world"}, wrapText("hello world", 0))
	})

	t.Run("wide characters wrap by display cells", func(t *testing.T) {
		t.Parallel()
		// Each Hangul syllable occupies two cells, so four cells fit two.
		assert.Equal(t, []string{"안녕", "하세", "요"}, wrapText("안녕하세요", 4))
	})

	t.Run("wide words wrap like narrow words", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"안녕", "세계"}, wrapText("안녕 세계", 5))
	})

	t.Run("breaks long words at cluster boundaries", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"abcde", "fghij"}, wrapText("abcdefghij", 5))
	})

	t.Run("combining sequences stay intact", func(t *testing.T) {
		t.Parallel()
		// e + combining acute accent is one grapheme cluster.
		word := "cafés"
		lines := wrapText(word, 3)
		assert.Equal(t, []string{"caf", "és"}, lines)
	})
}
