package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object string into a type T.
// It handles common LLM quirks like markdown fencing or surrounding prose.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := StripFences(response)

	// Find first '{' and last '}'
	start := strings.IndexByte(jsonStr, '{')
	end := strings.LastIndexByte(jsonStr, '}')
	if start == -1 || end == -1 || start >= end {
		return zero, fmt.Errorf("no JSON object found in response")
	}
	jsonStr = jsonStr[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}
	return result, nil
}

var (
	fenceOpen  = regexp.MustCompile("^```[a-z]*\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

// StripFences removes accidental markdown code fencing around a model response.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a prompt into a filesystem- and id-safe slug, capped at 40 chars.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	if len(s) > 40 {
		s = s[:40]
	}
	return strings.Trim(s, "-")
}
