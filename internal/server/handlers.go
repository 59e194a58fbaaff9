package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/worldkit/worldgen/internal/core/compliance"
	"github.com/worldkit/worldgen/internal/core/model"
	"github.com/worldkit/worldgen/internal/registry"
	"github.com/worldkit/worldgen/internal/store"
)

const maxPromptLength = 300

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/generate", s.Generate)
	r.GET("/status/:job_id", s.Status)
	r.GET("/worlds", s.ListWorlds)
	r.GET("/api/world/*id", s.GetWorld)
	r.POST("/validate", s.ValidateWorld)
	r.GET("/corpus", s.GetCorpus)
	r.GET("/generations/:token_id", s.GetGenerations)

	return r
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	if len(prompt) > maxPromptLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt must be 300 characters or fewer"})
		return
	}

	jobID := s.jobs.create(prompt)
	go s.runGeneration(jobID, prompt)

	c.JSON(http.StatusOK, gin.H{"job_id": jobID})
}

// runGeneration executes the pipeline for one job. It deliberately uses a
// fresh context: the request that enqueued the job has already returned.
func (s *Server) runGeneration(jobID, prompt string) {
	s.jobs.update(jobID, func(j *Job) { j.Status = jobRunning })

	doc, err := s.Engine.Generate(context.Background(), prompt)
	if err != nil {
		log.Printf("Generation failed for job %s: %v", jobID, err)
		s.jobs.update(jobID, func(j *Job) {
			j.Status = jobError
			j.Error = err.Error()
		})
		return
	}

	s.jobs.update(jobID, func(j *Job) {
		j.Status = jobDone
		j.WorldID = doc.ID
		j.IsRefusal = doc.IsRefusal()
	})
}

func (s *Server) Status(c *gin.Context) {
	job, ok := s.jobs.get(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) ListWorlds(c *gin.Context) {
	summaries, err := s.Store.List()
	if err != nil {
		log.Printf("Failed to list worlds: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list worlds"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) GetWorld(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	doc, err := s.Store.Find(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("Failed to read world %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read world"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ValidateWorld checks a caller-supplied document against the provenance
// invariants. Binding gives us our own copy, so the auto-corrected document
// can be returned without touching anything the caller holds.
func (s *Server) ValidateWorld(c *gin.Context) {
	var doc model.WorldDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	warnings := compliance.Validate(&doc)
	if warnings == nil {
		warnings = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    len(warnings) == 0,
		"warnings": warnings,
		"world":    doc,
	})
}

func (s *Server) GetCorpus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"universes":  s.Corpus.Universes,
		"count":      len(s.Corpus.Universes),
		"corpus_cap": model.CorpusCap,
	})
}

func (s *Server) GetGenerations(c *gin.Context) {
	if s.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chain registry not configured"})
		return
	}

	tokenID := c.Param("token_id")
	records, err := s.Registry.Generations(c.Request.Context(), tokenID)
	if err != nil {
		log.Printf("Chain query failed for token %s: %v", tokenID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain query failed"})
		return
	}

	views := registry.MergeCorpus(records, s.Corpus)
	c.JSON(http.StatusOK, gin.H{
		"token_id":    tokenID,
		"generations": views,
		"count":       len(views),
	})
}
