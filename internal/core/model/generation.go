package model

// GenerationRecord is one historical generation event recorded on the
// Worldkit registry contract for a token. Reconstructed from the chain-query
// tool's textual output; identifier, hash and address fields are carried as
// trimmed strings because the decoder never assumes numeric validity.
type GenerationRecord struct {
	TokenID              string   `json:"token_id"`
	Generator            string   `json:"generator"`
	WorldHash            string   `json:"world_hash"`
	ManifestHash         string   `json:"manifest_hash"`
	StorageCID           string   `json:"storage_cid"`
	UniversesUsed        []string `json:"universes_used"`
	CommercialConfidence string   `json:"commercial_confidence"`
	BlockHeight          string   `json:"block_height"`
	Timestamp            string   `json:"timestamp"`
}
