package main_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	main "github.com/fwojciec/chatstream/cmd/chatstream"
	"github.com/fwojciec/chatstream/sse"
)

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	t.Run("flag wins over env", func(t *testing.T) {
		t.Parallel()
		got := main.ResolveBaseURL("http://flag:1234", "http://env:5678")
		assert.Equal(t, "http://flag:1234", got)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Parallel()
		got := main.ResolveBaseURL("", "http://env:5678")
		assert.Equal(t, "http://env:5678", got)
	})

	t.Run("default when nothing set", func(t *testing.T) {
		t.Parallel()
		got := main.ResolveBaseURL("", "")
		assert.Equal(t, sse.DefaultBaseURL, got)
	})
}
