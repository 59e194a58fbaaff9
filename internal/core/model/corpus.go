package model

// CorpusCap is the hard limit on locked universes. The v0 corpus is five
// universes and no universe is added without primary-source evidence capture.
const CorpusCap = 5

// Corpus is the fixed set of verified CC0/public-domain universes that every
// generation is constrained to. Immutable for the lifetime of a request.
type Corpus struct {
	Universes []Universe `json:"universes"`
}

type Universe struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Kind                 string                 `json:"kind,omitempty"`
	License              License                `json:"license"`
	CommercialConfidence string                 `json:"commercial_confidence,omitempty"`
	RiskFlags            []string               `json:"risk_flags,omitempty"`
	CanonicalRefs        []string               `json:"canonical_refs,omitempty"`
	Evidence             map[string]interface{} `json:"evidence,omitempty"`
}

// License is the license record backing a universe's inclusion in the corpus.
type License struct {
	Type       string `json:"type"`
	EvidenceID string `json:"evidence_id,omitempty"`
}

// UniverseByID returns the universe with the given id, or nil.
func (c *Corpus) UniverseByID(id string) *Universe {
	for i := range c.Universes {
		if c.Universes[i].ID == id {
			return &c.Universes[i]
		}
	}
	return nil
}
