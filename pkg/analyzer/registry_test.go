package analyzer

import (
	"testing"

	"JPEGProbe/pkg/models"
)

type stubAnalyzer struct {
	BaseAnalyzer
}

func (s *stubAnalyzer) Analyze(filePath string, options AnalysisOptions) (*models.Report, error) {
	return models.NewReport(filePath, 0), nil
}

// TestRegistry registers an analyzer under each of its formats and finds it
// again.
func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	stub := &stubAnalyzer{
		BaseAnalyzer: NewBaseAnalyzer("Stub", "test double", []string{"jpg", "jpeg"}),
	}
	registry.Register(stub)

	for _, format := range []string{"jpg", "jpeg"} {
		analyzers := registry.GetAnalyzersForFormat(format)
		if len(analyzers) != 1 {
			t.Fatalf("GetAnalyzersForFormat(%q) returned %d analyzers, want 1", format, len(analyzers))
		}
		if analyzers[0].Name() != "Stub" {
			t.Errorf("analyzer name = %q, want Stub", analyzers[0].Name())
		}
	}

	if got := registry.GetAnalyzersForFormat("png"); len(got) != 0 {
		t.Errorf("GetAnalyzersForFormat(png) returned %d analyzers, want 0", len(got))
	}

	formats := registry.GetSupportedFormats()
	if len(formats) != 2 {
		t.Errorf("GetSupportedFormats() = %v, want two entries", formats)
	}
}

// TestBaseAnalyzer checks the format predicate and accessors.
func TestBaseAnalyzer(t *testing.T) {
	base := NewBaseAnalyzer("Name", "Description", []string{"jpg"})

	if !base.CanAnalyze("jpg") {
		t.Error("CanAnalyze(jpg) = false, want true")
	}
	if base.CanAnalyze("gif") {
		t.Error("CanAnalyze(gif) = true, want false")
	}
	if base.Name() != "Name" || base.Description() != "Description" {
		t.Errorf("accessors returned %q / %q", base.Name(), base.Description())
	}
}
