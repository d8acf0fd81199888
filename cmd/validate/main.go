// Command validate checks evaluation result fixtures against their requests. It
// verifies result counts, outcome ordering, cost arithmetic, per-height summaries
// and that a fresh evaluation reproduces the stored numbers.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -requests data/mock/generated_requests.jsonl \
//	  -results data/mock/generated_results.jsonl
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/observability"
	"github.com/couchcryptid/flood-elevation-service/internal/pipeline"
	json "github.com/goccy/go-json"
)

const tolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	requestsPath := flag.String("requests", "", "path to request JSONL fixture")
	resultsPath := flag.String("results", "", "path to result JSONL fixture")
	flag.Parse()

	if *requestsPath == "" || *resultsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*requestsPath, *resultsPath); code != 0 {
		os.Exit(code)
	}
}

func run(requestsPath, resultsPath string) int {
	fmt.Println("=== Flood Elevation Result Validation ===")
	fmt.Println()

	requests, err := loadJSONL[domain.EvaluationRequest](requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load requests: %v\n", err)
		return 1
	}
	results, err := loadJSONL[domain.EvaluationResult](resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load results: %v\n", err)
		return 1
	}

	byID := make(map[string]domain.EvaluationResult, len(results))
	for _, r := range results {
		byID[r.RequestID] = r
	}

	phases := []*phase{
		validatePairing(requests, byID),
		validateOutcomes(requests, byID),
		validateSummaries(requests, byID),
		validateReproducible(requests, byID),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d requests, %d results\n", len(requests), len(results))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []T
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(sc.Bytes(), &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, sc.Err()
}

// ── Phase 1: every request has exactly one result ──

func validatePairing(requests []domain.EvaluationRequest, results map[string]domain.EvaluationResult) *phase {
	p := &phase{name: "Request/result pairing"}
	seen := make(map[string]bool, len(requests))
	for _, req := range requests {
		if seen[req.ID] {
			p.errorf("duplicate request ID %s", req.ID)
		}
		seen[req.ID] = true
		if _, ok := results[req.ID]; !ok {
			p.errorf("no result for request %s", req.ID)
		}
	}
	for id := range results {
		if !seen[id] {
			p.errorf("result %s has no matching request", id)
		}
	}
	return p
}

// ── Phase 2: outcome layout and cost arithmetic ──

func validateOutcomes(requests []domain.EvaluationRequest, results map[string]domain.EvaluationResult) *phase {
	p := &phase{name: "Outcome ordering and arithmetic"}
	for _, req := range requests {
		res, ok := results[req.ID]
		if !ok {
			continue
		}
		want := len(req.Scenarios) * len(req.Heights)
		if len(res.Outcomes) != want {
			p.errorf("%s: %d outcomes, want %d", req.ID, len(res.Outcomes), want)
			continue
		}
		for slot, o := range res.Outcomes {
			checkOutcome(p, req, slot, o)
		}
		checkInvestmentMonotone(p, req, res.Outcomes)
	}
	return p
}

// checkInvestmentMonotone requires investment not to fall as the raise height
// grows within one scenario.
func checkInvestmentMonotone(p *phase, req domain.EvaluationRequest, outcomes []domain.PolicyOutcome) {
	n := len(req.Heights)
	for i := range req.Scenarios {
		row := outcomes[i*n : (i+1)*n]
		for j := 1; j < n; j++ {
			prev, cur := row[j-1], row[j]
			if prev.Error != "" || cur.Error != "" || cur.RaiseHeightFt <= prev.RaiseHeightFt {
				continue
			}
			if cur.Investment+tolerance < prev.Investment {
				p.errorf("%s scenario %s: investment falls from %g at %g ft to %g at %g ft",
					req.ID, cur.ScenarioID, prev.Investment, prev.RaiseHeightFt, cur.Investment, cur.RaiseHeightFt)
			}
		}
	}
}

func checkOutcome(p *phase, req domain.EvaluationRequest, slot int, o domain.PolicyOutcome) {
	h := req.Heights[slot%len(req.Heights)]
	if o.RaiseHeightFt != h {
		p.errorf("%s[%d]: height %g, want %g", req.ID, slot, o.RaiseHeightFt, h)
	}
	if o.Error != "" {
		return
	}
	if !floatEq(o.TotalCost, o.Investment+o.ExpectedDamage) {
		p.errorf("%s[%d]: total %g != investment %g + damage %g", req.ID, slot, o.TotalCost, o.Investment, o.ExpectedDamage)
	}
	if o.ExpectedDamage < 0 {
		p.errorf("%s[%d]: negative expected damage %g", req.ID, slot, o.ExpectedDamage)
	}
	if h == 0 && o.Investment != 0 {
		p.errorf("%s[%d]: zero raise has investment %g", req.ID, slot, o.Investment)
	}
	if h > 0 && o.Investment < domain.BaselineFee {
		p.errorf("%s[%d]: investment %g below baseline fee", req.ID, slot, o.Investment)
	}
	if req.IncludeAnnual {
		if len(o.Annual) != len(req.Years) {
			p.errorf("%s[%d]: %d annual rows, want %d", req.ID, slot, len(o.Annual), len(req.Years))
		}
		var sum float64
		for _, a := range o.Annual {
			sum += a.Discounted
		}
		if !floatEq(sum, o.ExpectedDamage) {
			p.errorf("%s[%d]: annual sum %g != expected damage %g", req.ID, slot, sum, o.ExpectedDamage)
		}
	}
}

// ── Phase 3: per-height summaries ──

func validateSummaries(requests []domain.EvaluationRequest, results map[string]domain.EvaluationResult) *phase {
	p := &phase{name: "Height summaries"}
	for _, req := range requests {
		res, ok := results[req.ID]
		if !ok {
			continue
		}
		if len(res.Summaries) != len(req.Heights) {
			p.errorf("%s: %d summaries, want %d", req.ID, len(res.Summaries), len(req.Heights))
			continue
		}
		for j, s := range res.Summaries {
			if s.Scenarios+s.Failed != len(req.Scenarios) {
				p.errorf("%s height %g: %d ok + %d failed != %d scenarios", req.ID, s.RaiseHeightFt, s.Scenarios, s.Failed, len(req.Scenarios))
			}
			if s.Scenarios > 0 && (s.MinTotalCost > s.MeanTotalCost+tolerance || s.MeanTotalCost > s.MaxTotalCost+tolerance) {
				p.errorf("%s height %g: mean %g outside [%g, %g]", req.ID, req.Heights[j], s.MeanTotalCost, s.MinTotalCost, s.MaxTotalCost)
			}
		}
	}
	return p
}

// ── Phase 4: re-evaluation reproduces stored numbers ──

func validateReproducible(requests []domain.EvaluationRequest, results map[string]domain.EvaluationResult) *phase {
	p := &phase{name: "Reproducible evaluation"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transformer := pipeline.NewEvaluationTransformer(nil, domain.DefaultGrid, 0, logger, observability.NewMetricsForTesting())

	for _, req := range requests {
		stored, ok := results[req.ID]
		if !ok {
			continue
		}
		fresh, err := transformer.Evaluate(context.Background(), req)
		if err != nil {
			p.errorf("%s: re-evaluate: %v", req.ID, err)
			continue
		}
		if len(fresh.Outcomes) != len(stored.Outcomes) {
			continue // reported by the outcome phase
		}
		for i := range fresh.Outcomes {
			a, b := fresh.Outcomes[i], stored.Outcomes[i]
			if a.Error != b.Error || !floatEq(a.TotalCost, b.TotalCost) {
				p.errorf("%s[%d]: stored total %g (%q), fresh %g (%q)", req.ID, i, b.TotalCost, b.Error, a.TotalCost, a.Error)
			}
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
