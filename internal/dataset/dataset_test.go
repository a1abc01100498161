package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"contextlab/internal/core/domain"
)

func TestBuiltinDataset(t *testing.T) {
	src := NewSource()

	sentences, err := src.Sentences(BuiltinName)
	if err != nil {
		t.Fatalf("Sentences() error = %v", err)
	}
	if len(sentences) != 7 {
		t.Fatalf("expected 7 builtin sentences, got %d", len(sentences))
	}
}

func TestEmptyNameFallsBackToBuiltin(t *testing.T) {
	src := NewSource()

	sentences, err := src.Sentences("")
	if err != nil {
		t.Fatalf("Sentences() error = %v", err)
	}
	if len(sentences) == 0 {
		t.Fatalf("expected builtin sentences")
	}
}

func TestFileDatasetSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.txt")
	content := "# sample reviews\nGood product\n\n這支耳機音質不錯，但藍牙常常斷線。\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sentences, err := NewSource().Sentences(path)
	if err != nil {
		t.Fatalf("Sentences() error = %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
}

func TestEmptyFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# only a comment\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := NewSource().Sentences(path)
	if err == nil {
		t.Fatalf("expected error for empty dataset")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
