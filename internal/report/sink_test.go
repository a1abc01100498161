package report

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contextlab/internal/core/domain"
	"contextlab/internal/infrastructure/storage/localfs"
)

func testReport() *domain.ComparisonReport {
	return &domain.ComparisonReport{
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Dataset:     "builtin",
		Rows: []domain.ComparisonRow{
			{Label: "baseline", SuccessRate: 0.29, TotalScore: 2, MaxScore: 7, TotalTokens: 420, Efficiency: 0.69},
			{Label: "few_shot", SuccessRate: 0.86, TotalScore: 6, MaxScore: 7, TotalTokens: 1750, Efficiency: 0.49,
				Cases: []domain.CaseResult{
					{CaseIndex: 0, Input: "Good mouse.", Strategy: domain.StrategyFewShot, Score: 1, EstimatedTokens: 250},
				},
			},
		},
		BestAccuracy:   "few_shot",
		BestEfficiency: "baseline",
		MostEconomical: "baseline",
	}
}

func newTestSink(t *testing.T) (*Sink, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := localfs.New(dir)
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	return NewSink(store), dir
}

func TestWriteJSONRoundTrips(t *testing.T) {
	sink, dir := newTestSink(t)

	path, err := sink.WriteJSON(testReport())
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written outside store: %s", path)
	}

	store, _ := localfs.New(dir)
	f, err := store.Open(filepath.Base(path))
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded domain.ComparisonReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if len(decoded.Rows) != 2 || decoded.BestAccuracy != "few_shot" {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
}

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	sink, _ := newTestSink(t)

	path, err := sink.WriteXLSX(testReport())
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") {
		t.Fatalf("unexpected extension: %s", path)
	}
}

func TestStrategyCountLine(t *testing.T) {
	counts := map[domain.Strategy]int{
		domain.StrategyFewShot:    3,
		domain.StrategyRulesBased: 4,
	}
	got := StrategyCountLine(counts)
	if got != "few_shot=3, rules_based=4" {
		t.Fatalf("unexpected line: %q", got)
	}
	if StrategyCountLine(nil) != "" {
		t.Fatalf("expected empty line for nil counts")
	}
}
