package registry

import (
	"strconv"
	"time"

	"github.com/worldkit/worldgen/internal/core/model"
)

// UniverseRef is a decoded universe reference enriched with corpus metadata.
type UniverseRef struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	LicenseType      string `json:"license_type,omitempty"`
	CorpusConfidence string `json:"corpus_confidence,omitempty"`
}

// GenerationView is a generation record prepared for display: universe ids
// resolved against the corpus and the timestamp rendered leniently.
type GenerationView struct {
	model.GenerationRecord
	Universes   []UniverseRef `json:"universes"`
	GeneratedAt string        `json:"generated_at"`
}

// MergeCorpus joins decoded records with corpus compliance data. Universe ids
// unknown to the corpus are kept with the id as name, so history remains
// complete even after a corpus revision.
func MergeCorpus(records []model.GenerationRecord, corpus *model.Corpus) []GenerationView {
	views := make([]GenerationView, 0, len(records))
	for _, rec := range records {
		view := GenerationView{
			GenerationRecord: rec,
			GeneratedAt:      formatTimestamp(rec.Timestamp),
		}
		for _, id := range rec.UniversesUsed {
			ref := UniverseRef{ID: id, Name: id}
			if corpus != nil {
				if u := corpus.UniverseByID(id); u != nil {
					ref.Name = u.Name
					ref.LicenseType = u.License.Type
					ref.CorpusConfidence = u.CommercialConfidence
				}
			}
			view.Universes = append(view.Universes, ref)
		}
		views = append(views, view)
	}
	return views
}

// formatTimestamp renders a unix timestamp string; non-positive or
// unparseable values come back as "unknown".
func formatTimestamp(s string) string {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ts <= 0 {
		return "unknown"
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
