package roster_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jlambert/stancewatch/internal/roster"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeRoster(t, `{
		"persons": [
			{"slug": "jane-doe", "name": "Jane Doe", "office": "mp", "riding": "Outremont"},
			{"slug": "marc-tremblay", "name": "Marc Tremblay", "office": "mna"}
		],
		"cohorts": {
			"quebec": ["marc-tremblay"]
		}
	}`)

	r, err := roster.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if r.Size() != 2 {
		t.Errorf("size: got %d, want 2", r.Size())
	}

	p, ok := r.Find("jane-doe")
	if !ok {
		t.Fatal("jane-doe not found")
	}
	if p.Name != "Jane Doe" || p.Office != "mp" {
		t.Errorf("unexpected person: %+v", p)
	}

	if got := r.Slugs(); !slices.Equal(got, []string{"jane-doe", "marc-tremblay"}) {
		t.Errorf("slugs out of file order: %v", got)
	}

	cohort, ok := r.Cohort("quebec")
	if !ok || !slices.Equal(cohort, []string{"marc-tremblay"}) {
		t.Errorf("cohort: got %v ok=%v", cohort, ok)
	}

	if got := r.CohortNames(); !slices.Equal(got, []string{"quebec"}) {
		t.Errorf("cohort names: got %v", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty persons", `{"persons": []}`},
		{"missing slug", `{"persons": [{"name": "Jane Doe"}]}`},
		{"duplicate slug", `{"persons": [{"slug": "jane-doe"}, {"slug": "jane-doe"}]}`},
		{"unknown cohort member", `{"persons": [{"slug": "jane-doe"}], "cohorts": {"x": ["ghost"]}}`},
		{"malformed json", `{"persons": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRoster(t, tt.content)
			if _, err := roster.Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := roster.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
