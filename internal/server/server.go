package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/caduceus/internal/config"
	"github.com/agenthands/caduceus/internal/core"
	"github.com/agenthands/caduceus/internal/core/bayes"
	"github.com/agenthands/caduceus/internal/core/extraction"
	"github.com/agenthands/caduceus/internal/store"
)

type Server struct {
	System *core.System
	Corpus core.FileCorpus
	Log    *logrus.Logger
}

// New wires the store, classifier and coordinator from config. A store
// that cannot be reached at boot degrades to the in-memory store so the
// probabilistic engine still answers.
func New(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	var graphStore store.GraphStore
	memgraph, err := store.NewMemgraphStore(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		logger.WithError(err).Warn("graph store unreachable, falling back to in-memory store")
		graphStore = store.NewMemoryStore()
	} else {
		graphStore = store.NewBreakerStore(memgraph, logger)
	}

	classifier, err := extraction.NewClassifierFromConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	system := core.NewSystem(graphStore, classifier, bayes.BuildConfig{
		BaseRate:   cfg.Model.BaseRate,
		PriorMin:   cfg.Model.PriorMin,
		PriorMax:   cfg.Model.PriorMax,
		ParentWarn: cfg.Model.ParentWarn,
	}, logger)

	return &Server{
		System: system,
		Corpus: core.FileCorpus{Path: cfg.Knowledge.Path},
		Log:    logger,
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/knowledge/reload", s.ReloadKnowledge)
	r.POST("/knowledge/facts", s.AddFact)
	r.POST("/diagnose", s.Diagnose)
	r.GET("/diseases", s.ListDiseases)
	r.GET("/symptoms", s.ListSymptoms)
	r.GET("/healthz", s.Health)

	return r
}

func (s *Server) ReloadKnowledge(c *gin.Context) {
	summary, err := s.System.RebuildFromCorpus(c.Request.Context(), s.Corpus)
	if err != nil {
		s.Log.WithError(err).Error("knowledge reload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type AddFactRequest struct {
	Disease  string   `json:"disease"`
	Symptoms []string `json:"symptoms"`
}

func (s *Server) AddFact(c *gin.Context) {
	var req AddFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	summary, err := s.System.AddFact(c.Request.Context(), s.Corpus, req.Disease, req.Symptoms)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type DiagnoseRequest struct {
	Symptoms []string `json:"symptoms"`
}

func (s *Server) Diagnose(c *gin.Context) {
	var req DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Symptoms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.System.Diagnose(c.Request.Context(), req.Symptoms)
	if err != nil {
		var unknown *bayes.UnknownVariableError
		switch {
		case errors.Is(err, core.ErrNotLoaded):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &unknown), errors.Is(err, bayes.ErrInconsistentEvidence):
			// The graph half may still have answered; surface it next
			// to the probabilistic failure.
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": report})
		default:
			s.Log.WithError(err).Error("diagnosis failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to diagnose"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) ListDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"diseases": s.System.Diseases()})
}

func (s *Server) ListSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symptoms": s.System.Symptoms()})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"generation": s.System.Generation(),
	})
}
