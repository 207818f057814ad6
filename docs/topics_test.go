package docs

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestReadmeListsTopics checks that the readme lists every topic, and only existing ones.
func TestReadmeListsTopics(t *testing.T) {
	content, err := os.ReadFile(Index + ".md")
	require.NoError(t, err)

	var listed []string
	for _, m := range regexp.MustCompile(`(?m)^\*\s+([^:]+):`).FindAllSubmatch(content, -1) {
		listed = append(listed, string(m[1]))
	}
	assert.ElementsMatch(t, Topics(), listed)
}

// TestTopicsHaveTitle checks that every topic starts with a level one heading.
func TestTopicsHaveTitle(t *testing.T) {
	for _, topic := range append(Topics(), Index) {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			require.NoError(t, err)
			source := []byte(content)
			doc := goldmark.DefaultParser().Parse(text.NewReader(source))
			h, ok := doc.FirstChild().(*ast.Heading)
			require.True(t, ok, "first block is not a heading")
			assert.Equal(t, 1, h.Level)
		})
	}
}

func TestGetTopics(t *testing.T) {
	one, err := GetTopic(" Stops ")
	require.NoError(t, err)
	assert.Contains(t, one, "# Stops")

	all, err := GetTopics("*")
	require.NoError(t, err)
	assert.Contains(t, all, "# Valuation")
	assert.Contains(t, all, "# Quotes")
	assert.NotContains(t, all, "# lsdesk")

	_, err = GetTopics("valuation", "nope")
	assert.Error(t, err)
}
