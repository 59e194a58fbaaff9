package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldkit/worldgen/internal/core/model"
)

func cleanWorld() *model.WorldDocument {
	return &model.WorldDocument{
		WorldBible: &model.WorldBible{
			Title:   "Toad Harbor",
			Logline: "A noir port city of amphibian smugglers.",
			Characters: []model.Asset{
				{ID: "char:dock-boss", Name: "Dock Boss", EvidenceID: "evid:toadz-001"},
			},
			Factions: []model.Asset{
				{ID: "fact:fog-union", Name: "Fog Union", EvidenceID: "evid:nouns-002"},
			},
		},
		ComplianceManifest: &model.ComplianceManifest{
			UniversesUsed:        []string{"univ:cryptoadz", "univ:nouns"},
			EvidenceUsed:         []string{"evid:toadz-001", "evid:nouns-002"},
			CommercialConfidence: model.ConfidenceHigh,
		},
	}
}

func TestValidateCleanWorld(t *testing.T) {
	violations := Validate(cleanWorld())
	assert.Empty(t, violations)
}

func TestRefusalShapeExclusivity(t *testing.T) {
	doc := &model.WorldDocument{
		Refusal:    &model.Refusal{Reason: "branded IP"},
		WorldBible: &model.WorldBible{Title: "should not be here"},
	}

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "world_bible")
	// No other rule fires: the world bible's missing evidence_ids are not reported.
	for _, v := range violations {
		assert.NotContains(t, v, "evidence_id")
	}
}

func TestRefusalWithBothForbiddenKeys(t *testing.T) {
	doc := &model.WorldDocument{
		Refusal:            &model.Refusal{Reason: "branded IP"},
		WorldBible:         &model.WorldBible{},
		ComplianceManifest: &model.ComplianceManifest{},
	}

	violations := Validate(doc)

	require.Len(t, violations, 2)
	assert.Contains(t, violations[0], "world_bible")
	assert.Contains(t, violations[1], "compliance_manifest")
}

func TestCleanRefusal(t *testing.T) {
	doc := &model.WorldDocument{
		Refusal: &model.Refusal{
			Reason:          "corpus has no branded superheroes",
			ClosestPossible: "a CC0 masked-vigilante city",
			CorpusGap:       "superhero archetypes",
		},
	}

	assert.Empty(t, Validate(doc))
}

func TestMissingSectionsAreFatal(t *testing.T) {
	doc := &model.WorldDocument{
		ComplianceManifest: &model.ComplianceManifest{},
	}
	violations := Validate(doc)
	require.Len(t, violations, 1)
	assert.Equal(t, "Missing world_bible", violations[0])

	doc = &model.WorldDocument{
		WorldBible: &model.WorldBible{
			Characters: []model.Asset{{ID: "char:x"}}, // would violate Rule 2 if it ran
		},
	}
	violations = Validate(doc)
	require.Len(t, violations, 1)
	assert.Equal(t, "Missing compliance_manifest", violations[0])
}

func TestMissingEvidenceID(t *testing.T) {
	doc := cleanWorld()
	doc.WorldBible.Characters = append(doc.WorldBible.Characters, model.Asset{Name: "Nameless Extra"})

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, "Character 'Nameless Extra' missing evidence_id", violations[0])
}

func TestMissingEvidenceIDUsesIDOverName(t *testing.T) {
	doc := cleanWorld()
	doc.WorldBible.Factions = append(doc.WorldBible.Factions, model.Asset{ID: "fact:ghosts", Name: "Ghosts"})

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "'fact:ghosts'")
}

func TestDanglingEvidenceReference(t *testing.T) {
	doc := cleanWorld()
	doc.WorldBible.Factions = []model.Asset{
		{ID: "fact:fog-union", EvidenceID: "evid:x"},
	}
	doc.ComplianceManifest.EvidenceUsed = []string{"evid:y", "evid:toadz-001"}

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, "Faction 'fact:fog-union' evidence_id 'evid:x' not in compliance_manifest evidence", violations[0])
}

func TestDeclaredEvidenceFallbackToAssetClearances(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.EvidenceUsed = nil
	doc.ComplianceManifest.AssetClearances = []model.AssetClearance{
		{Universe: "univ:cryptoadz", EvidenceID: "evid:toadz-001"},
		{Universe: "univ:nouns", EvidenceID: "evid:nouns-002"},
	}

	assert.Empty(t, Validate(doc))
}

func TestDeclaredEvidenceFallbackOrder(t *testing.T) {
	// asset_clearances wins over assets_used when both are present.
	doc := cleanWorld()
	doc.ComplianceManifest.EvidenceUsed = nil
	doc.ComplianceManifest.AssetClearances = []model.AssetClearance{
		{EvidenceID: "evid:toadz-001"},
		{EvidenceID: "evid:nouns-002"},
	}
	doc.ComplianceManifest.AssetsUsed = []model.AssetClearance{
		{EvidenceID: "evid:unrelated"},
	}

	assert.Empty(t, Validate(doc))
}

func TestConfidenceMismatchAutoCorrects(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.RiskFlags = []string{"meme_derivative:medium"}
	doc.ComplianceManifest.CommercialConfidence = model.ConfidenceHigh

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "commercial_confidence mismatch")
	assert.Contains(t, violations[0], "'high'")
	assert.Contains(t, violations[0], "'medium'")
	assert.Contains(t, violations[0], "meme_derivative:medium")

	assert.Equal(t, model.ConfidenceMedium, doc.ComplianceManifest.CommercialConfidence)
	assert.True(t, doc.ComplianceManifest.ConfidenceCorrected)
}

func TestConfidenceIdempotence(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.RiskFlags = []string{"trademark:medium"}
	doc.ComplianceManifest.CommercialConfidence = model.ConfidenceHigh

	first := Validate(doc)
	require.Len(t, first, 1)

	// The correction sticks: a second pass reports nothing new.
	second := Validate(doc)
	for _, v := range second {
		assert.NotContains(t, v, "commercial_confidence mismatch")
	}
	assert.Empty(t, second)
}

func TestHighFlagDominatesMedium(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.RiskFlags = []string{
		"meme_derivative:medium",
		"trademark:high",
		"jurisdiction:medium",
	}
	doc.ComplianceManifest.CommercialConfidence = model.ConfidenceMedium

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ConfidenceLow, doc.ComplianceManifest.CommercialConfidence)
}

func TestPerAssetFlagsJoinManifestFlags(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.EvidenceUsed = nil
	doc.ComplianceManifest.AssetClearances = []model.AssetClearance{
		{EvidenceID: "evid:toadz-001", RiskFlags: []string{"trademark:high"}},
		{EvidenceID: "evid:nouns-002"},
	}

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ConfidenceLow, doc.ComplianceManifest.CommercialConfidence)
	assert.Contains(t, violations[0], "trademark:high")
}

func TestUnsuppressedFlagsPreferredOverRiskFlags(t *testing.T) {
	doc := cleanWorld()
	doc.ComplianceManifest.UnsuppressedFlags = []string{"style_echo:low"}
	doc.ComplianceManifest.RiskFlags = []string{"trademark:high"} // shadowed

	assert.Empty(t, Validate(doc))
	assert.Equal(t, model.ConfidenceHigh, doc.ComplianceManifest.CommercialConfidence)
}

func TestNoClearanceEvidenceFailsClosed(t *testing.T) {
	// No flags at all, but also no evidence declared anywhere: a clean bill
	// of health is impossible to claim, so the computed confidence is low.
	doc := cleanWorld()
	doc.WorldBible.Characters = nil
	doc.WorldBible.Factions = nil
	doc.ComplianceManifest.EvidenceUsed = nil

	violations := Validate(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ConfidenceLow, doc.ComplianceManifest.CommercialConfidence)
	assert.True(t, doc.ComplianceManifest.ConfidenceCorrected)
}
