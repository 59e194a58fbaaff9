package model

// Confidence levels for the commercial_confidence rating. The value is always
// recomputed server-side from risk flags; a model-emitted value is advisory only.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// WorldDocument is the candidate output under validation. Exactly one of two
// shapes: a world (WorldBible + ComplianceManifest set) or a refusal (Refusal set).
// Pointer fields distinguish "absent" from "present but empty".
type WorldDocument struct {
	ID                 string              `json:"id,omitempty"`
	Prompt             string              `json:"prompt,omitempty"`
	GeneratedAt        string              `json:"generated_at,omitempty"`
	WorldBible         *WorldBible         `json:"world_bible,omitempty"`
	ComplianceManifest *ComplianceManifest `json:"compliance_manifest,omitempty"`
	Refusal            *Refusal            `json:"refusal,omitempty"`

	// Populated by the pipeline, never by the generator.
	ValidationWarnings []string `json:"_validation_warnings,omitempty"`
	SavedTo            string   `json:"_saved_to,omitempty"`
}

func (d *WorldDocument) IsRefusal() bool {
	return d.Refusal != nil
}

type WorldBible struct {
	Title          string                 `json:"title"`
	Logline        string                 `json:"logline"`
	Setting        map[string]interface{} `json:"setting,omitempty"`
	Tone           string                 `json:"tone,omitempty"`
	Characters     []Asset                `json:"characters,omitempty"`
	Factions       []Asset                `json:"factions,omitempty"`
	VisualLanguage string                 `json:"visual_language,omitempty"`
}

// Asset is a character or faction entry in the world bible. Every asset must
// trace to a corpus evidence record via EvidenceID.
type Asset struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Universe    string   `json:"universe,omitempty"`
	EvidenceID  string   `json:"evidence_id,omitempty"`
	Description string   `json:"description,omitempty"`
	RiskFlags   []string `json:"risk_flags,omitempty"`
}

// Label returns the id-or-name used in violation messages.
func (a Asset) Label() string {
	if a.ID != "" {
		return a.ID
	}
	if a.Name != "" {
		return a.Name
	}
	return "?"
}

// ComplianceManifest is the provenance/risk declaration accompanying a world
// bible. The generator may emit declared evidence under any of three field
// names (EvidenceUsed, AssetClearances, AssetsUsed); the validator resolves
// them in that priority order.
type ComplianceManifest struct {
	UniversesUsed        []string         `json:"universes_used,omitempty"`
	AssetClearances      []AssetClearance `json:"asset_clearances,omitempty"`
	AssetsUsed           []AssetClearance `json:"assets_used,omitempty"`
	EvidenceUsed         []string         `json:"evidence_used,omitempty"`
	RiskFlags            []string         `json:"risk_flags,omitempty"`
	UnsuppressedFlags    []string         `json:"unsuppressed_flags,omitempty"`
	CommercialConfidence string           `json:"commercial_confidence,omitempty"`
	Rationale            string           `json:"rationale,omitempty"`

	// ConfidenceCorrected marks that the validator overwrote the stated
	// commercial_confidence with the computed value.
	ConfidenceCorrected bool `json:"_confidence_corrected,omitempty"`
}

// AssetClearance is one per-asset license clearance in the manifest.
type AssetClearance struct {
	Universe    string   `json:"universe,omitempty"`
	Asset       string   `json:"asset,omitempty"`
	EvidenceID  string   `json:"evidence_id,omitempty"`
	LicenseType string   `json:"license_type,omitempty"`
	RiskFlags   []string `json:"risk_flags,omitempty"`
}

// Refusal is emitted when the prompt cannot be served safely from the corpus.
type Refusal struct {
	Reason          string `json:"reason"`
	ClosestPossible string `json:"closest_possible,omitempty"`
	CorpusGap       string `json:"corpus_gap,omitempty"`
}
