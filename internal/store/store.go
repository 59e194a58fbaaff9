package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/worldkit/worldgen/internal/core/model"
)

// ErrNotFound is returned when no stored document matches the requested id.
var ErrNotFound = errors.New("world not found")

// FileStore persists generated documents as one JSON file per world under a
// worlds directory, plus an append-only JSONL refusal log. Filenames follow
// {world|refusal}-YYYY-MM-DD-{slug}.json.
type FileStore struct {
	worldsDir  string
	refusalLog string
}

func NewFileStore(worldsDir, refusalLog string) (*FileStore, error) {
	if err := os.MkdirAll(worldsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create worlds dir '%s': %w", worldsDir, err)
	}
	if dir := filepath.Dir(refusalLog); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create refusal log dir '%s': %w", dir, err)
		}
	}
	return &FileStore{
		worldsDir:  worldsDir,
		refusalLog: refusalLog,
	}, nil
}

// Save writes the document under a filename derived from its id. The caller
// (the pipeline) has already stamped ID and GeneratedAt server-side.
func (s *FileStore) Save(doc *model.WorldDocument) (string, error) {
	if doc.ID == "" {
		return "", fmt.Errorf("document has no id")
	}
	filename := strings.ReplaceAll(doc.ID, ":", "-") + ".json"
	path := filepath.Join(s.worldsDir, filename)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal world: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write world file: %w", err)
	}
	return path, nil
}

// Summary is the listing entry for a stored document.
type Summary struct {
	ID                   string `json:"id"`
	Prompt               string `json:"prompt"`
	GeneratedAt          string `json:"generated_at"`
	IsRefusal            bool   `json:"is_refusal"`
	Title                string `json:"title,omitempty"`
	Logline              string `json:"logline,omitempty"`
	CommercialConfidence string `json:"commercial_confidence,omitempty"`
	Reason               string `json:"reason,omitempty"`
}

// List returns summaries of all stored documents, newest first. Unreadable
// files are skipped.
func (s *FileStore) List() ([]Summary, error) {
	paths, err := filepath.Glob(filepath.Join(s.worldsDir, "*.json"))
	if err != nil {
		return nil, err
	}
	// Filenames embed the date, so reverse-lexical is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	summaries := make([]Summary, 0, len(paths))
	for _, p := range paths {
		doc, err := readDocument(p)
		if err != nil {
			continue
		}
		entry := Summary{
			ID:          doc.ID,
			Prompt:      doc.Prompt,
			GeneratedAt: doc.GeneratedAt,
			IsRefusal:   doc.IsRefusal(),
		}
		if doc.IsRefusal() {
			entry.Reason = truncate(doc.Refusal.Reason, 120)
		} else {
			if doc.WorldBible != nil {
				entry.Title = doc.WorldBible.Title
				entry.Logline = doc.WorldBible.Logline
			}
			if doc.ComplianceManifest != nil {
				entry.CommercialConfidence = doc.ComplianceManifest.CommercialConfidence
			}
		}
		summaries = append(summaries, entry)
	}
	return summaries, nil
}

// Find locates a stored document by id ("world:2026-02-19:noir-city") or by
// its slug filename form ("world-2026-02-19-noir-city").
func (s *FileStore) Find(id string) (*model.WorldDocument, error) {
	paths, err := filepath.Glob(filepath.Join(s.worldsDir, "*.json"))
	if err != nil {
		return nil, err
	}

	slug := strings.ReplaceAll(id, ":", "-")
	for _, p := range paths {
		stem := strings.TrimSuffix(filepath.Base(p), ".json")
		if stem == slug || stem == id {
			return readDocument(p)
		}
	}

	// Fallback: match on the id field inside each file.
	for _, p := range paths {
		doc, err := readDocument(p)
		if err != nil {
			continue
		}
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

// RefusalEntry is one line of the refusal log.
type RefusalEntry struct {
	Timestamp string `json:"timestamp"`
	Prompt    string `json:"prompt"`
	Reason    string `json:"reason"`
	CorpusGap string `json:"corpus_gap"`
}

// AppendRefusal records a refusal for roadmap tracking of corpus gaps.
func (s *FileStore) AppendRefusal(doc *model.WorldDocument) error {
	if doc.Refusal == nil {
		return fmt.Errorf("document is not a refusal")
	}
	entry := RefusalEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Prompt:    doc.Prompt,
		Reason:    doc.Refusal.Reason,
		CorpusGap: doc.Refusal.CorpusGap,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.refusalLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open refusal log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append refusal: %w", err)
	}
	return nil
}

func readDocument(path string) (*model.WorldDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc model.WorldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
