package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/worldkit/worldgen/internal/config"
	"github.com/worldkit/worldgen/internal/core/generator"
	"github.com/worldkit/worldgen/internal/corpus"
	"github.com/worldkit/worldgen/internal/llm"
	"github.com/worldkit/worldgen/internal/store"
)

// worldgen generates one world bible from the command line:
//
//	worldgen "noir detective city"
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, `Usage: worldgen "your genre or theme prompt"`)
		os.Exit(1)
	}
	genre := strings.Join(os.Args[1:], " ")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}

	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	c, err := corpus.Load(cfg.Paths.Corpus)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	fileStore, err := store.NewFileStore(cfg.Paths.WorldsDir, cfg.Paths.RefusalLog)
	if err != nil {
		log.Fatalf("Failed to initialize world store: %v", err)
	}

	fmt.Printf("Generating world for: '%s'\n", genre)

	engine := generator.NewEngine(llmClient, c, fileStore, nil)
	doc, err := engine.Generate(ctx, genre)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	for _, w := range doc.ValidationWarnings {
		fmt.Printf("  WARNING: %s\n", w)
	}

	if doc.IsRefusal() {
		fmt.Println("\nREFUSED")
		fmt.Printf("Reason: %s\n", doc.Refusal.Reason)
		fmt.Printf("Closest possible: %s\n", doc.Refusal.ClosestPossible)
		fmt.Printf("Saved to: %s\n", doc.SavedTo)
		return
	}

	cm := doc.ComplianceManifest
	title := "Untitled"
	logline := ""
	if doc.WorldBible != nil {
		title = doc.WorldBible.Title
		logline = doc.WorldBible.Logline
	}
	fmt.Printf("\nWorld generated: %s\n", title)
	fmt.Printf("  Logline: %s\n", logline)
	if cm != nil {
		fmt.Printf("  Universes: %s\n", strings.Join(cm.UniversesUsed, ", "))
		fmt.Printf("  Risk flags: %d\n", len(cm.RiskFlags))
		fmt.Printf("  commercial_confidence: %s\n", cm.CommercialConfidence)
		if cm.ConfidenceCorrected {
			fmt.Println("  (confidence was auto-corrected from model output)")
		}
	}
	fmt.Printf("  Saved to: %s\n", doc.SavedTo)
}
