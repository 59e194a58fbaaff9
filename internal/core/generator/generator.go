package generator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/worldkit/worldgen/internal/core/common"
	"github.com/worldkit/worldgen/internal/core/compliance"
	"github.com/worldkit/worldgen/internal/core/model"
	"github.com/worldkit/worldgen/internal/driver"
	"github.com/worldkit/worldgen/internal/llm"
	"github.com/worldkit/worldgen/internal/store"
)

// Engine runs the full generation pipeline: prompt assembly, model call,
// JSON parse, compliance validation with confidence auto-correction, and
// persistence. The validator's output is attached to the document as
// warnings; a document with violations is still returned so a reviewer can
// decide disposition.
type Engine struct {
	LLM    llm.LLMClient
	Corpus *model.Corpus
	Store  *store.FileStore
	Index  *driver.ProvenanceIndex // optional
}

func NewEngine(llmClient llm.LLMClient, corpus *model.Corpus, fileStore *store.FileStore, index *driver.ProvenanceIndex) *Engine {
	return &Engine{
		LLM:    llmClient,
		Corpus: corpus,
		Store:  fileStore,
		Index:  index,
	}
}

func (e *Engine) Generate(ctx context.Context, genre string) (*model.WorldDocument, error) {
	system, err := SystemPrompt(e.Corpus)
	if err != nil {
		return nil, err
	}

	raw, err := e.LLM.Generate(ctx, system, UserPrompt(genre))
	if err != nil {
		return nil, fmt.Errorf("failed to generate world: %w", err)
	}

	doc, err := common.ParseJSON[model.WorldDocument](raw)
	if err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}

	// Validate and auto-correct confidence. Violations are surfaced, not fatal.
	if violations := compliance.Validate(&doc); len(violations) > 0 {
		doc.ValidationWarnings = violations
	}

	// Stamp id, prompt and generated_at server-side; model-emitted values are discarded.
	now := time.Now().UTC()
	prefix := "world"
	if doc.IsRefusal() {
		prefix = "refusal"
	}
	slug := common.Slugify(genre)
	doc.ID = fmt.Sprintf("%s:%s:%s", prefix, now.Format("2006-01-02"), slug)
	doc.Prompt = genre
	doc.GeneratedAt = now.Format(time.RFC3339)

	if doc.IsRefusal() {
		if err := e.Store.AppendRefusal(&doc); err != nil {
			log.Printf("Warning: failed to log refusal: %v", err)
		}
	}

	path, err := e.Store.Save(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to save world: %w", err)
	}
	doc.SavedTo = path

	if e.Index != nil {
		if err := e.Index.IndexWorld(ctx, &doc, e.Corpus); err != nil {
			log.Printf("Warning: failed to index provenance for %s: %v", doc.ID, err)
		}
	}

	return &doc, nil
}
