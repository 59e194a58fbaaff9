package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/worldkit/worldgen/internal/core/model"
)

// ProvenanceIndex mirrors generated documents into the graph so traceability
// can be queried with Cypher (which worlds drew on which universes). It is an
// index, not the system of record: the file store remains authoritative and
// index failures never block generation.
type ProvenanceIndex struct {
	Driver GraphDriver
}

func NewProvenanceIndex(d GraphDriver) *ProvenanceIndex {
	return &ProvenanceIndex{Driver: d}
}

func (p *ProvenanceIndex) BuildIndices(ctx context.Context) error {
	return p.Driver.BuildIndices(ctx)
}

// IndexWorld records a world node, the universes it declares, and USES edges.
func (p *ProvenanceIndex) IndexWorld(ctx context.Context, doc *model.WorldDocument, corpus *model.Corpus) error {
	if doc.IsRefusal() {
		return p.indexRefusal(ctx, doc)
	}

	cm := doc.ComplianceManifest
	title := ""
	if doc.WorldBible != nil {
		title = doc.WorldBible.Title
	}
	confidence := ""
	corrected := false
	if cm != nil {
		confidence = cm.CommercialConfidence
		corrected = cm.ConfidenceCorrected
	}

	_, err := p.Driver.ExecuteQuery(ctx, SaveWorldNodeQuery, map[string]interface{}{
		"id":                    doc.ID,
		"prompt":                doc.Prompt,
		"generated_at":          doc.GeneratedAt,
		"title":                 title,
		"commercial_confidence": confidence,
		"confidence_corrected":  corrected,
	})
	if err != nil {
		return fmt.Errorf("failed to index world node: %w", err)
	}

	if cm == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, universeID := range cm.UniversesUsed {
		params := map[string]interface{}{
			"id":                    universeID,
			"name":                  universeID,
			"license_type":          "",
			"commercial_confidence": "",
		}
		if u := corpus.UniverseByID(universeID); u != nil {
			params["name"] = u.Name
			params["license_type"] = u.License.Type
			params["commercial_confidence"] = u.CommercialConfidence
		}
		if _, err := p.Driver.ExecuteQuery(ctx, SaveUniverseNodeQuery, params); err != nil {
			return fmt.Errorf("failed to index universe '%s': %w", universeID, err)
		}

		_, err := p.Driver.ExecuteQuery(ctx, SaveUsesEdgeQuery, map[string]interface{}{
			"world_id":    doc.ID,
			"universe_id": universeID,
			"recorded_at": now,
		})
		if err != nil {
			return fmt.Errorf("failed to link world to universe '%s': %w", universeID, err)
		}
	}

	return nil
}

func (p *ProvenanceIndex) indexRefusal(ctx context.Context, doc *model.WorldDocument) error {
	_, err := p.Driver.ExecuteQuery(ctx, SaveRefusalNodeQuery, map[string]interface{}{
		"id":           doc.ID,
		"prompt":       doc.Prompt,
		"generated_at": doc.GeneratedAt,
		"reason":       doc.Refusal.Reason,
		"corpus_gap":   doc.Refusal.CorpusGap,
	})
	if err != nil {
		return fmt.Errorf("failed to index refusal node: %w", err)
	}
	return nil
}
