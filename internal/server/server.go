package server

import (
	"context"
	"log"
	"os"

	"github.com/worldkit/worldgen/internal/config"
	"github.com/worldkit/worldgen/internal/core/generator"
	"github.com/worldkit/worldgen/internal/core/model"
	"github.com/worldkit/worldgen/internal/corpus"
	"github.com/worldkit/worldgen/internal/driver"
	"github.com/worldkit/worldgen/internal/llm"
	"github.com/worldkit/worldgen/internal/registry"
	"github.com/worldkit/worldgen/internal/store"
)

type Server struct {
	Engine   *generator.Engine
	Store    *store.FileStore
	Corpus   *model.Corpus
	Registry *registry.Client // nil when the chain read side is disabled

	jobs *jobStore
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults.", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars override file config.
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if envCorpus := os.Getenv("CORPUS_PATH"); envCorpus != "" {
		cfg.Paths.Corpus = envCorpus
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
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

	var index *driver.ProvenanceIndex
	if cfg.Graph.Enabled {
		d, err := driver.NewMemgraphDriver(cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password)
		if err != nil {
			log.Fatalf("Failed to connect to provenance graph: %v", err)
		}
		index = driver.NewProvenanceIndex(d)
		if err := index.BuildIndices(context.Background()); err != nil {
			log.Printf("Warning: failed to build graph indices: %v", err)
		}
	}

	var reg *registry.Client
	if cfg.Chain.Enabled {
		reg = registry.NewClient(cfg.Chain)
	}

	return &Server{
		Engine:   generator.NewEngine(llmClient, c, fileStore, index),
		Store:    fileStore,
		Corpus:   c,
		Registry: reg,
		jobs:     newJobStore(),
	}
}
