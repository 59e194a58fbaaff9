package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldkit/worldgen/internal/core/model"
	"github.com/worldkit/worldgen/internal/store"
)

type MockLLM struct {
	Response   string
	LastSystem string
	LastPrompt string
}

func (m *MockLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.LastSystem = system
	m.LastPrompt = prompt
	return m.Response, nil
}

func testCorpus() *model.Corpus {
	return &model.Corpus{
		Universes: []model.Universe{
			{ID: "univ:nouns", Name: "Nouns", License: model.License{Type: "CC0-1.0", EvidenceID: "evid:nouns-license"}},
			{ID: "univ:cryptoadz", Name: "CrypToadz", License: model.License{Type: "CC0-1.0"}},
		},
	}
}

func newTestEngine(t *testing.T, mock *MockLLM) *Engine {
	t.Helper()
	dir := t.TempDir()
	fileStore, err := store.NewFileStore(filepath.Join(dir, "worlds"), filepath.Join(dir, "refusal-log.jsonl"))
	require.NoError(t, err)
	return NewEngine(mock, testCorpus(), fileStore, nil)
}

const worldJSON = `{
	"world_bible": {
		"title": "Toad Harbor",
		"logline": "A noir port city of amphibian smugglers.",
		"characters": [
			{"id": "char:dock-boss", "name": "Dock Boss", "evidence_id": "evid:toadz-001"}
		],
		"factions": []
	},
	"compliance_manifest": {
		"universes_used": ["univ:cryptoadz"],
		"evidence_used": ["evid:toadz-001"],
		"risk_flags": ["meme_derivative:medium"],
		"commercial_confidence": "high"
	}
}`

func TestGenerateWorld(t *testing.T) {
	mock := &MockLLM{Response: worldJSON}
	engine := newTestEngine(t, mock)

	doc, err := engine.Generate(context.Background(), "noir detective city")
	require.NoError(t, err)

	// Server-side stamping, never model values.
	datePart := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, "world:"+datePart+":noir-detective-city", doc.ID)
	assert.Equal(t, "noir detective city", doc.Prompt)
	assert.NotEmpty(t, doc.GeneratedAt)
	assert.NotEmpty(t, doc.SavedTo)

	// The medium flag contradicts the stated "high", so the validator
	// corrected the manifest and left a warning behind.
	assert.Equal(t, model.ConfidenceMedium, doc.ComplianceManifest.CommercialConfidence)
	assert.True(t, doc.ComplianceManifest.ConfidenceCorrected)
	require.Len(t, doc.ValidationWarnings, 1)
	assert.Contains(t, doc.ValidationWarnings[0], "commercial_confidence mismatch")

	// Persisted copy carries the corrected confidence.
	data, err := os.ReadFile(doc.SavedTo)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"commercial_confidence": "medium"`)
}

func TestGeneratePromptsCarryCorpus(t *testing.T) {
	mock := &MockLLM{Response: worldJSON}
	engine := newTestEngine(t, mock)

	_, err := engine.Generate(context.Background(), "noir detective city")
	require.NoError(t, err)

	assert.Contains(t, mock.LastSystem, "univ:nouns")
	assert.Contains(t, mock.LastSystem, "univ:cryptoadz")
	assert.Contains(t, mock.LastSystem, "raw JSON only")
	assert.Contains(t, mock.LastPrompt, "Genre/theme: noir detective city")
}

func TestGenerateRefusal(t *testing.T) {
	mock := &MockLLM{Response: "```json\n" + `{
		"refusal": {
			"reason": "branded IP cannot be served from the corpus",
			"closest_possible": "a CC0 masked-vigilante city",
			"corpus_gap": "superhero archetypes"
		}
	}` + "\n```"}
	engine := newTestEngine(t, mock)

	doc, err := engine.Generate(context.Background(), "marvel heroes")
	require.NoError(t, err)

	assert.True(t, doc.IsRefusal())
	assert.True(t, strings.HasPrefix(doc.ID, "refusal:"))
	assert.Empty(t, doc.ValidationWarnings)

	// The refusal also lands in the JSONL log.
	logData, err := os.ReadFile(filepath.Join(filepath.Dir(filepath.Dir(doc.SavedTo)), "refusal-log.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "branded IP cannot be served")
}

func TestGenerateRejectsNonJSON(t *testing.T) {
	mock := &MockLLM{Response: "I cannot do that."}
	engine := newTestEngine(t, mock)

	_, err := engine.Generate(context.Background(), "noir detective city")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}
