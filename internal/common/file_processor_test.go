package common

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"recruitflow/internal/errors"
)

func TestReadCandidateInput(t *testing.T) {
	fp := NewFileProcessor(nil)

	input, err := fp.ReadCandidateInput(filepath.Join("testdata", "candidate.json"))
	if err != nil {
		t.Fatalf("ReadCandidateInput() unexpected error: %v", err)
	}

	if input.Name != "Alice Johnson" {
		t.Errorf("Name = %q, expected Alice Johnson", input.Name)
	}
	if input.ExperienceYears != 5 {
		t.Errorf("ExperienceYears = %v, expected 5", input.ExperienceYears)
	}
	if len(input.Skills) != 6 {
		t.Errorf("Skills length = %d, expected 6", len(input.Skills))
	}
	if !strings.Contains(input.Resume, "Python developer") {
		t.Errorf("Resume text not loaded:\n%s", input.Resume)
	}
}

func TestReadJobCatalog(t *testing.T) {
	fp := NewFileProcessor(nil)

	catalog, err := fp.ReadJobCatalog(filepath.Join("testdata", "jobs.json"))
	if err != nil {
		t.Fatalf("ReadJobCatalog() unexpected error: %v", err)
	}

	if len(catalog) != 3 {
		t.Fatalf("catalog length = %d, expected 3", len(catalog))
	}
	// Catalog order must survive parsing; it is the match tie-break order
	if catalog[0].ID != "job_001" || catalog[2].ID != "job_003" {
		t.Errorf("catalog order not preserved: %v, %v", catalog[0].ID, catalog[2].ID)
	}
	if catalog[1].YearsExperienceRequired != 2 {
		t.Errorf("YearsExperienceRequired = %v, expected 2", catalog[1].YearsExperienceRequired)
	}
}

func TestReadJobCatalogInvalidJSON(t *testing.T) {
	fp := NewFileProcessor(nil)

	_, err := fp.ReadJobCatalog(filepath.Join("testdata", "job_description.txt"))
	if err == nil {
		t.Fatal("expected error for non-JSON catalog")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("Code = %q, expected %q", appErr.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestReadFileNotFound(t *testing.T) {
	fp := NewFileProcessor(nil)

	_, err := fp.ReadFile(filepath.Join("testdata", "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeFileNotFound {
		t.Errorf("Code = %q, expected %q", appErr.Code, errors.ErrCodeFileNotFound)
	}
}

func TestValidateAndReadFiles(t *testing.T) {
	fp := NewFileProcessor(nil)

	contents, err := fp.ValidateAndReadFiles(
		filepath.Join("testdata", "job_description.txt"),
		filepath.Join("testdata", "candidate.json"),
	)
	if err != nil {
		t.Fatalf("ValidateAndReadFiles() unexpected error: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("contents length = %d, expected 2", len(contents))
	}
	if !strings.Contains(contents[0], "Senior Python Developer") {
		t.Errorf("first file content wrong:\n%s", contents[0])
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	fp := NewFileProcessor(nil)

	target := filepath.Join(t.TempDir(), "nested", "out.txt")
	if err := fp.WriteFile(target, "hello"); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	content, err := fp.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if content != "hello" {
		t.Errorf("content = %q, expected hello", content)
	}
}
