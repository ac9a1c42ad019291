package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("sess")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "sess-"))
	// Default NanoID is 21 characters.
	assert.Len(t, got, len("sess-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate("tok")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate ID generated: %s", got)
		seen[got] = true
	}
}

func TestNewUUID_Valid(t *testing.T) {
	got := NewUUID()
	assert.True(t, IsUUID(got))
}

func TestIsUUID_RejectsGarbage(t *testing.T) {
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
}

func TestMustGenerate_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustGenerate("test")
	})
}
