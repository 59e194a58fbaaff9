package compliance

import (
	"fmt"
	"strings"

	"github.com/worldkit/worldgen/internal/core/model"
)

// Validate checks a world document against the five provenance invariants and
// returns the violations found. Empty list = valid.
//
// The only mutation permitted is Rule 4's confidence auto-correction: when the
// stated commercial_confidence disagrees with the value computed from risk
// flags, the manifest is rewritten with the computed value and marked
// ConfidenceCorrected. A second pass over the corrected document reports no
// new confidence violation.
//
// The generator's own compliance claims are never trusted; every rule works
// from the document contents alone.
func Validate(doc *model.WorldDocument) []string {
	var violations []string

	if doc.IsRefusal() {
		// Refusal path: must not also carry world output.
		if doc.WorldBible != nil {
			violations = append(violations, "Refusal output must not contain 'world_bible'")
		}
		if doc.ComplianceManifest != nil {
			violations = append(violations, "Refusal output must not contain 'compliance_manifest'")
		}
		return violations
	}

	// World path: the remaining rules index into both sections, so a missing
	// section is fatal to further checking.
	wb := doc.WorldBible
	cm := doc.ComplianceManifest
	if wb == nil {
		return append(violations, "Missing world_bible")
	}
	if cm == nil {
		return append(violations, "Missing compliance_manifest")
	}

	violations = append(violations, checkEvidencePresence(wb)...)
	violations = append(violations, checkEvidenceDeclared(wb, cm)...)
	violations = append(violations, recomputeConfidence(cm)...)

	return violations
}

// checkEvidencePresence enforces that every character and faction carries a
// non-empty evidence_id.
func checkEvidencePresence(wb *model.WorldBible) []string {
	var violations []string
	for _, c := range wb.Characters {
		if c.EvidenceID == "" {
			violations = append(violations, fmt.Sprintf("Character '%s' missing evidence_id", c.Label()))
		}
	}
	for _, f := range wb.Factions {
		if f.EvidenceID == "" {
			violations = append(violations, fmt.Sprintf("Faction '%s' missing evidence_id", f.Label()))
		}
	}
	return violations
}

// declaredAccessor pulls one candidate declared-evidence list from a manifest.
type declaredAccessor func(*model.ComplianceManifest) []string

// declaredEvidenceChain is the fixed priority order for resolving the declared
// evidence set. The generator may emit a flat evidence_used list or derive-able
// per-asset clearance lists; the first non-empty result wins.
var declaredEvidenceChain = []declaredAccessor{
	func(cm *model.ComplianceManifest) []string { return cm.EvidenceUsed },
	func(cm *model.ComplianceManifest) []string { return clearanceEvidenceIDs(cm.AssetClearances) },
	func(cm *model.ComplianceManifest) []string { return clearanceEvidenceIDs(cm.AssetsUsed) },
}

func clearanceEvidenceIDs(clearances []model.AssetClearance) []string {
	var ids []string
	for _, a := range clearances {
		if a.EvidenceID != "" {
			ids = append(ids, a.EvidenceID)
		}
	}
	return ids
}

// declaredEvidence resolves the declared evidence set via the fallback chain.
func declaredEvidence(cm *model.ComplianceManifest) map[string]bool {
	declared := make(map[string]bool)
	for _, accessor := range declaredEvidenceChain {
		ids := accessor(cm)
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			declared[id] = true
		}
		break
	}
	return declared
}

// checkEvidenceDeclared enforces that every evidence_id used by a character or
// faction appears in the manifest's declared evidence set.
func checkEvidenceDeclared(wb *model.WorldBible, cm *model.ComplianceManifest) []string {
	declared := declaredEvidence(cm)

	var violations []string
	check := func(kind string, assets []model.Asset) {
		for _, a := range assets {
			if a.EvidenceID != "" && !declared[a.EvidenceID] {
				violations = append(violations, fmt.Sprintf(
					"%s '%s' evidence_id '%s' not in compliance_manifest evidence",
					kind, a.Label(), a.EvidenceID))
			}
		}
	}
	check("Character", wb.Characters)
	check("Faction", wb.Factions)
	return violations
}

// recomputeConfidence derives the expected commercial_confidence from the full
// risk-flag set and auto-corrects the manifest on mismatch. Strict precedence:
// any high-severity flag, or no clearance evidence at all, forces low; any
// medium-severity flag forces medium; otherwise high.
func recomputeConfidence(cm *model.ComplianceManifest) []string {
	flags := gatherFlags(cm)

	var hasHigh, hasMedium bool
	for _, f := range flags {
		switch {
		case strings.HasSuffix(f, ":high"):
			hasHigh = true
		case strings.HasSuffix(f, ":medium"):
			hasMedium = true
		}
	}

	// An empty declared set with no clearance list present means the document
	// claims nothing about asset provenance. That can never be a clean bill of
	// health, so it fails closed to low.
	hasClearances := len(cm.AssetClearances) > 0 || len(cm.AssetsUsed) > 0 ||
		len(declaredEvidence(cm)) > 0

	var expected string
	switch {
	case hasHigh || !hasClearances:
		expected = model.ConfidenceLow
	case hasMedium:
		expected = model.ConfidenceMedium
	default:
		expected = model.ConfidenceHigh
	}

	if cm.CommercialConfidence == expected {
		return nil
	}

	violation := fmt.Sprintf(
		"commercial_confidence mismatch: model said '%s', computed '%s' from risk flags %v",
		cm.CommercialConfidence, expected, flags)

	// Auto-correct rather than fail hard.
	cm.CommercialConfidence = expected
	cm.ConfidenceCorrected = true

	return []string{violation}
}

// gatherFlags collects manifest-level flags (unsuppressed_flags, falling back
// to risk_flags when absent) plus any per-asset flags not already present,
// order-preserving and deduplicated by first occurrence.
func gatherFlags(cm *model.ComplianceManifest) []string {
	base := cm.UnsuppressedFlags
	if base == nil {
		base = cm.RiskFlags
	}

	flags := make([]string, 0, len(base))
	seen := make(map[string]bool, len(base))
	for _, f := range base {
		seen[f] = true
		flags = append(flags, f)
	}

	clearances := cm.AssetClearances
	if clearances == nil {
		clearances = cm.AssetsUsed
	}
	for _, asset := range clearances {
		for _, f := range asset.RiskFlags {
			if !seen[f] {
				seen[f] = true
				flags = append(flags, f)
			}
		}
	}

	return flags
}
