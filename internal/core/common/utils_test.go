package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title"`
}

func TestParseJSONPlain(t *testing.T) {
	got, err := ParseJSON[sample](`{"title": "Toad Harbor"}`)
	require.NoError(t, err)
	assert.Equal(t, "Toad Harbor", got.Title)
}

func TestParseJSONWithFencing(t *testing.T) {
	raw := "```json\n{\"title\": \"Toad Harbor\"}\n```"
	got, err := ParseJSON[sample](raw)
	require.NoError(t, err)
	assert.Equal(t, "Toad Harbor", got.Title)
}

func TestParseJSONWithSurroundingProse(t *testing.T) {
	raw := "Here is your world:\n{\"title\": \"Toad Harbor\"}\nEnjoy!"
	got, err := ParseJSON[sample](raw)
	require.NoError(t, err)
	assert.Equal(t, "Toad Harbor", got.Title)
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseJSON[sample]("no json here")
	assert.Error(t, err)
}

func TestStripFencesLeavesPlainText(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripFences(`{"a": 1}`))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Noir Detective City", "noir-detective-city"},
		{"  ancient gods, in a tech dystopia!  ", "ancient-gods-in-a-tech-dystopia"},
		{"under_scores and--dashes", "under-scores-and-dashes"},
		{"a very long prompt that keeps going well past the slug limit", "a-very-long-prompt-that-keeps-going-well"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "input: %q", tt.input)
	}
}
