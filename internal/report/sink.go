package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"contextlab/internal/core/domain"
	"contextlab/internal/infrastructure/storage/localfs"
)

// Sink renders comparison reports and hands the bytes to artifact storage.
type Sink struct {
	store *localfs.Storage
	now   func() time.Time
}

func NewSink(store *localfs.Storage) *Sink {
	return &Sink{store: store, now: time.Now}
}

func (s *Sink) WriteJSON(report *domain.ComparisonReport) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return s.store.Save(s.filename("json"), &buf)
}

func (s *Sink) WriteXLSX(report *domain.ComparisonReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Strategy", "Success Rate", "Score", "Max Score", "Tokens", "Efficiency"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(summary, cell, h); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	for r, row := range report.Rows {
		values := []any{
			row.Label,
			row.SuccessRate,
			row.TotalScore,
			row.MaxScore,
			row.TotalTokens,
			row.Efficiency,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return "", fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := s.writeCaseSheets(f, report); err != nil {
		return "", err
	}
	if err := s.writeVerdict(f, summary, report); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("serialize workbook: %w", err)
	}
	return s.store.Save(s.filename("xlsx"), &buf)
}

func (s *Sink) writeCaseSheets(f *excelize.File, report *domain.ComparisonReport) error {
	for _, row := range report.Rows {
		if len(row.Cases) == 0 {
			continue
		}
		sheet := sheetName(row.Label)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		headers := []string{"#", "Input", "Strategy", "Score", "Reason", "Tokens"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fmt.Errorf("case header: %w", err)
			}
		}
		for r, c := range row.Cases {
			values := []any{c.CaseIndex + 1, c.Input, string(c.Strategy), c.Score, c.Reason, c.EstimatedTokens}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("case row: %w", err)
				}
			}
		}
	}
	return nil
}

func (s *Sink) writeVerdict(f *excelize.File, sheet string, report *domain.ComparisonReport) error {
	base := len(report.Rows) + 3
	lines := []string{
		fmt.Sprintf("Best accuracy: %s", report.BestAccuracy),
		fmt.Sprintf("Best efficiency: %s", report.BestEfficiency),
		fmt.Sprintf("Most economical: %s", report.MostEconomical),
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, base+i)
		if err != nil {
			return fmt.Errorf("verdict cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, line); err != nil {
			return fmt.Errorf("write verdict: %w", err)
		}
	}
	return nil
}

func (s *Sink) filename(ext string) string {
	return fmt.Sprintf("comparison-%s.%s", s.now().UTC().Format("20060102-150405"), ext)
}

// sheetName keeps labels within the 31-char sheet name limit.
func sheetName(label string) string {
	if len(label) > 31 {
		return label[:31]
	}
	return label
}

// StrategyCountLine flattens a strategy histogram into a stable string
// for logs and CLI output.
func StrategyCountLine(counts map[domain.Strategy]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=%d", k, counts[domain.Strategy(k)])
	}
	return buf.String()
}
