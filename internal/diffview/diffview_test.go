package diffview

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"contextlab/internal/core/domain"
)

func TestDiffShowsChangedLines(t *testing.T) {
	v := NewVisualizer()
	v.Add("v1", "You are an assistant.\nReturn JSON.\n", "")
	v.Add("v2", "You are an assistant.\nReturn strict JSON only.\n", "")

	text, err := v.Diff("v1", "v2")
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(text, "-Return JSON.") || !strings.Contains(text, "+Return strict JSON only.") {
		t.Fatalf("unexpected diff output:\n%s", text)
	}
}

func TestDiffUnknownSnapshot(t *testing.T) {
	v := NewVisualizer()
	v.Add("v1", "hello", "")

	_, err := v.Diff("v1", "missing")
	if err == nil {
		t.Fatalf("expected error for unknown snapshot")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSimilarityBounds(t *testing.T) {
	if got := Ratio("abc", "abc"); got != 1 {
		t.Fatalf("identical strings: got %f", got)
	}
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint strings: got %f", got)
	}
	if got := Ratio("", ""); got != 1 {
		t.Fatalf("empty strings: got %f", got)
	}

	partial := Ratio("藍牙常常斷線", "藍牙偶爾斷線")
	if partial <= 0 || partial >= 1 {
		t.Fatalf("expected partial similarity in (0,1), got %f", partial)
	}
}

func TestAddStrategyUsesBuiltPrompt(t *testing.T) {
	v := NewVisualizer()
	snap := v.AddStrategy(domain.StrategyFewShot, "The keyboard feels great.")

	if snap.Tokens == 0 {
		t.Fatalf("expected nonzero token estimate")
	}
	if !strings.Contains(snap.Content, "The keyboard feels great.") {
		t.Fatalf("prompt does not embed sentence")
	}
}

func TestWriteEvolutionTable(t *testing.T) {
	v := NewVisualizer()
	v.AddStrategy(domain.StrategyBaseline, "Good mouse.")
	v.AddStrategy(domain.StrategyRulesBased, "Good mouse.")
	v.AddStrategy(domain.StrategyFewShot, "Good mouse.")

	var buf bytes.Buffer
	if err := v.WriteEvolution(&buf); err != nil {
		t.Fatalf("WriteEvolution() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "baseline", "rules_based", "few_shot"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEvolutionEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewVisualizer().WriteEvolution(&buf); err == nil {
		t.Fatalf("expected error for empty visualizer")
	}
}

func TestAddResponseAndTable(t *testing.T) {
	v := NewVisualizer()
	v.AddStrategy(domain.StrategyRulesBased, "滑鼠不錯但藍牙會斷")

	resp, err := v.AddResponse("rules_based", `{"sentiment":"negative","product":"mouse","issue":"bluetooth drops"}`, 1, "")
	if err != nil {
		t.Fatalf("AddResponse() error = %v", err)
	}
	if resp.Tokens == 0 {
		t.Fatalf("expected nonzero token estimate for response")
	}

	if _, err := v.AddResponse("missing", "x", 0, "no snapshot"); err == nil {
		t.Fatalf("expected error for unknown snapshot")
	} else if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	var buf bytes.Buffer
	if err := v.WriteResponses(&buf); err != nil {
		t.Fatalf("WriteResponses() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SNAPSHOT") || !strings.Contains(out, "rules_based") {
		t.Fatalf("unexpected response table:\n%s", out)
	}
}

func TestWriteResponsesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewVisualizer().WriteResponses(&buf); err == nil {
		t.Fatalf("expected error when no responses recorded")
	}
}

func TestExportJSON(t *testing.T) {
	v := NewVisualizer()
	v.Add("v1", "alpha", "first")
	v.Add("v2", "alphabet", "second")

	var buf bytes.Buffer
	if err := v.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var payload struct {
		Snapshots []Snapshot `json:"snapshots"`
		Links     []struct {
			From       string  `json:"from"`
			To         string  `json:"to"`
			Similarity float64 `json:"similarity"`
		} `json:"links"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(payload.Snapshots) != 2 || len(payload.Links) != 1 {
		t.Fatalf("unexpected export shape: %+v", payload)
	}
	if payload.Links[0].Similarity <= 0 {
		t.Fatalf("expected positive similarity, got %f", payload.Links[0].Similarity)
	}
}
