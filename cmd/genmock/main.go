// Command genmock generates deterministic evaluation request fixtures and, when
// asked, the results the service produces for them. It runs the real evaluation
// path so the fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -n 4 -seed 7 \
//	  -requests-out data/mock/generated_requests.jsonl \
//	  -results-out data/mock/generated_results.jsonl
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/observability"
	"github.com/couchcryptid/flood-elevation-service/internal/pipeline"
	json "github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
)

var evaluatedAt = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

var families = []string{domain.FamilyGEV, domain.FamilyGumbel, domain.FamilyNormal, domain.FamilyLogNormal}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 4, "number of requests to generate")
	seed := flag.Uint64("seed", 7, "random seed")
	requestsOut := flag.String("requests-out", "", "output path for request JSONL fixture")
	resultsOut := flag.String("results-out", "", "optional output path for result JSONL fixture")
	flag.Parse()

	if *requestsOut == "" || *n <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flag: -requests-out")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	requests := make([]domain.EvaluationRequest, *n)
	for i := range requests {
		requests[i] = generateRequest(rng, i)
	}

	if err := writeJSONL(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote %d requests: %s", len(requests), *requestsOut)

	if *resultsOut == "" {
		return nil
	}

	// Fixed clock for reproducible EvaluatedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(evaluatedAt))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transformer := pipeline.NewEvaluationTransformer(nil, domain.DefaultGrid, 0, logger, observability.NewMetricsForTesting())

	results := make([]domain.EvaluationResult, len(requests))
	for i, req := range requests {
		res, err := transformer.Evaluate(context.Background(), req)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", req.ID, err)
		}
		results[i] = res
	}

	if err := writeJSONL(*resultsOut, results); err != nil {
		return fmt.Errorf("writing result fixture: %w", err)
	}
	log.Printf("wrote %d results: %s", len(results), *resultsOut)
	return nil
}

func generateRequest(rng *rand.Rand, i int) domain.EvaluationRequest {
	years := generateYears(rng)
	family := families[i%len(families)]

	req := domain.EvaluationRequest{
		ID: fmt.Sprintf("gen-%04d", i+1),
		Structure: domain.StructureSpec{
			Value:            round(150000+rng.Float64()*450000, 1000),
			Area:             round(900+rng.Float64()*2100, 50),
			HeightAboveGauge: round(-2+rng.Float64()*8, 0.5),
			DamageCurve:      generateCurve(rng),
		},
		Years:         years,
		Hazard:        generateHazard(rng, family),
		Heights:       []float64{0, 2, 4, 6, 8, 10, 12, 14},
		IncludeAnnual: i%3 == 1,
	}

	scenarios := 2 + rng.IntN(3)
	for s := range scenarios {
		req.Scenarios = append(req.Scenarios, generateScenario(rng, s, len(years)))
	}
	return req
}

// generateYears returns 2 to 5 ascending years starting in 2025.
func generateYears(rng *rand.Rand) []int {
	n := 2 + rng.IntN(4)
	step := 5 + 5*rng.IntN(2)
	years := make([]int, n)
	for i := range years {
		years[i] = 2025 + i*step
	}
	return years
}

// generateCurve returns a monotone depth-damage curve capped at 100%.
func generateCurve(rng *rand.Rand) *domain.CurveSpec {
	depths := []float64{-2, 0, 2, 4, 8, 12, 16}
	damages := make([]float64, len(depths))
	damage := 0.0
	for i := range damages {
		if i > 0 {
			damage = math.Min(100, damage+round(2+rng.Float64()*18, 0.5))
		}
		damages[i] = damage
	}
	return &domain.CurveSpec{Depths: depths, Damages: damages}
}

func generateHazard(rng *rand.Rand, family string) domain.HazardSpec {
	switch family {
	case domain.FamilyLogNormal:
		return domain.HazardSpec{Family: family, Location: round(0.8+rng.Float64()*0.8, 0.05), Scale: round(0.2+rng.Float64()*0.3, 0.05)}
	case domain.FamilyGEV:
		return domain.HazardSpec{Family: family, Location: round(3+rng.Float64()*3, 0.1), Scale: round(0.8+rng.Float64(), 0.1), Shape: round(rng.Float64()*0.2, 0.01)}
	default:
		return domain.HazardSpec{Family: family, Location: round(2+rng.Float64()*3, 0.1), Scale: round(0.5+rng.Float64(), 0.1)}
	}
}

// generateScenario returns a non-decreasing SLR trajectory.
func generateScenario(rng *rand.Rand, s, years int) domain.ScenarioSpec {
	slr := make([]float64, years)
	level := round(rng.Float64()*0.4, 0.05)
	for i := range slr {
		slr[i] = level
		level += round(0.1+rng.Float64()*0.5, 0.05)
	}
	return domain.ScenarioSpec{
		ID:           fmt.Sprintf("slr-%d", s),
		SLR:          slr,
		DiscountRate: round(0.01+rng.Float64()*0.05, 0.005),
	}
}

func round(v, step float64) float64 {
	return math.Round(v/step) * step
}

func writeJSONL[T any](path string, items []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return w.Flush()
}
