package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/caduceus/internal/core/bayes"
	"github.com/agenthands/caduceus/internal/core/extraction"
	"github.com/agenthands/caduceus/internal/core/graph"
	"github.com/agenthands/caduceus/internal/core/model"
	"github.com/agenthands/caduceus/internal/store"
)

// ErrNotLoaded is returned for queries before the first successful
// knowledge-base build.
var ErrNotLoaded = errors.New("knowledge base not loaded")

const reportCacheSize = 256

// snapshotBundle pairs one generation of derived artifacts. Bundles are
// immutable; Rebuild publishes a fresh one atomically so in-flight queries
// keep reading the old generation until they finish.
type snapshotBundle struct {
	generation uint64
	graph      *graph.Snapshot
	engine     *bayes.Engine
	summary    extraction.LoadSummary
}

// System is the diagnosis coordinator. It owns exactly one active snapshot
// at a time and runs both engines per query, surfacing their result lists
// independently.
type System struct {
	store     store.GraphStore
	extractor *extraction.Extractor
	matcher   *graph.Matcher
	buildCfg  bayes.BuildConfig
	log       *logrus.Logger

	cache *lru.Cache[string, *model.Report]

	mu       sync.Mutex // serializes rebuilds
	snapshot atomic.Pointer[snapshotBundle]
}

func NewSystem(st store.GraphStore, classifier extraction.Classifier, cfg bayes.BuildConfig, logger *logrus.Logger) *System {
	cache, _ := lru.New[string, *model.Report](reportCacheSize)
	return &System{
		store:     st,
		extractor: extraction.NewExtractor(classifier),
		matcher:   graph.NewMatcher(st),
		buildCfg:  cfg,
		log:       logger,
		cache:     cache,
	}
}

// Rebuild loads a knowledge corpus, compiles both derived structures and
// swaps them in. Parse failures are recovered and reported in the summary;
// a model build failure aborts the load and keeps the previous snapshot.
func (s *System) Rebuild(ctx context.Context, corpus io.Reader) (extraction.LoadSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx, corpus)
}

// rebuildLocked is the body of Rebuild; callers hold s.mu.
func (s *System) rebuildLocked(ctx context.Context, corpus io.Reader) (extraction.LoadSummary, error) {
	facts, summary, err := s.extractor.Extract(corpus)
	if err != nil {
		return summary, err
	}

	snap, err := graph.Compile(facts)
	if err != nil {
		return summary, fmt.Errorf("compiling graph: %w", err)
	}
	net, err := bayes.Build(snap, s.buildCfg, s.log)
	if err != nil {
		return summary, err
	}

	if err := graph.Publish(ctx, s.store, snap); err != nil {
		if !errors.Is(err, store.ErrStoreUnavailable) {
			return summary, err
		}
		// The probabilistic engine works without the store; the graph
		// engine will report unavailable until the store recovers.
		s.log.WithError(err).Warn("graph store unreachable during publish")
	}

	var generation uint64 = 1
	if old := s.snapshot.Load(); old != nil {
		generation = old.generation + 1
	}
	s.snapshot.Store(&snapshotBundle{
		generation: generation,
		graph:      snap,
		engine:     bayes.NewEngine(net),
		summary:    summary,
	})
	s.cache.Purge()

	s.log.WithFields(logrus.Fields{
		"generation": generation,
		"lines":      summary.Lines,
		"facts":      summary.Facts,
		"failures":   len(summary.Failures),
		"diseases":   len(snap.Diseases()),
		"symptoms":   len(snap.Symptoms()),
	}).Info("knowledge base rebuilt")

	return summary, nil
}

// Diagnose runs both engines for one query. A store outage degrades the
// graph half (GraphUnavailable) without failing the call. A probabilistic
// query error aborts with that error; the returned report still carries
// whatever the graph engine produced, so callers can surface both.
func (s *System) Diagnose(ctx context.Context, symptoms []string) (*model.Report, error) {
	bundle := s.snapshot.Load()
	if bundle == nil {
		return nil, ErrNotLoaded
	}

	key := cacheKey(bundle.generation, symptoms)
	if report, ok := s.cache.Get(key); ok {
		return report, nil
	}

	report := &model.Report{}

	graphResults, err := s.matcher.Match(ctx, symptoms)
	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		report.GraphUnavailable = true
		s.log.WithError(err).Warn("graph engine unavailable, answering with probabilistic engine only")
	case err != nil:
		return nil, err
	default:
		report.GraphResults = graphResults
	}

	evidence := make(map[string]bayes.State, len(symptoms))
	for _, name := range symptoms {
		symptom, ok := bundle.graph.Resolve(name, model.KindSymptom)
		if !ok {
			return report, &bayes.UnknownVariableError{Name: name}
		}
		evidence[symptom.ID] = bayes.StatePresent
	}

	probResults, err := bundle.engine.Diagnose(evidence)
	if err != nil {
		return report, err
	}
	report.ProbabilisticResults = probResults

	if !report.GraphUnavailable {
		s.cache.Add(key, report)
	}
	return report, nil
}

// Diseases lists the compiled disease entities in insertion order.
func (s *System) Diseases() []model.Entity {
	if bundle := s.snapshot.Load(); bundle != nil {
		return bundle.graph.Diseases()
	}
	return nil
}

// Symptoms lists the compiled symptom entities in insertion order.
func (s *System) Symptoms() []model.Entity {
	if bundle := s.snapshot.Load(); bundle != nil {
		return bundle.graph.Symptoms()
	}
	return nil
}

// Summary reports the last load's extraction statistics.
func (s *System) Summary() (extraction.LoadSummary, bool) {
	if bundle := s.snapshot.Load(); bundle != nil {
		return bundle.summary, true
	}
	return extraction.LoadSummary{}, false
}

// Generation returns the active snapshot's generation counter, 0 before
// the first load.
func (s *System) Generation() uint64 {
	if bundle := s.snapshot.Load(); bundle != nil {
		return bundle.generation
	}
	return 0
}

func cacheKey(generation uint64, symptoms []string) string {
	normalized := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		normalized = append(normalized, model.NormalizeName(s))
	}
	sort.Strings(normalized)
	return fmt.Sprintf("%d|%s", generation, strings.Join(normalized, "\x1f"))
}
