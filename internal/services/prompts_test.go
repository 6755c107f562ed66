package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedPromptsLoad(t *testing.T) {
	ps, err := loadPrompts(promptsYAML)
	require.NoError(t, err)
	assert.Contains(t, ps.Layout.User, "at least 2 full sentences")
	assert.Contains(t, ps.Chapter.User, "HTML")

	got := ps.Layout.userPrompt(`{"name":"Go"}`)
	assert.Contains(t, got, "User Input:\n{\"name\":\"Go\"}")
}

func TestLoadPromptsRejectsIncomplete(t *testing.T) {
	_, err := loadPrompts([]byte("layout:\n  system: x\n  user: y\n"))
	require.Error(t, err)
	_, err = loadPrompts([]byte(":::"))
	require.Error(t, err)
}
