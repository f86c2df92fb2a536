// Package tamper applies the metadata heuristics that flag a JPEG as
// possibly edited. The checks are deliberately simple: they look at which
// metadata markers are present and whether the quantization tables matched
// a known camera profile.
package tamper

import (
	"JPEGProbe/pkg/jpeg"
	"JPEGProbe/pkg/models"
)

// Reason strings reported in the assessment, one per heuristic.
const (
	ReasonMissingExif      = "EXIF block missing; metadata may have been stripped or altered."
	ReasonAdobeMarker      = "Adobe marker detected; file may have been edited."
	ReasonNoSignatureMatch = "Quantization signature not matched to a known camera profile."
	ReasonClean            = "No metadata anomalies detected."
)

// Summary strings for the two verdicts.
const (
	SummarySuspected = "Tampering suspected"
	SummaryClean     = "No obvious tampering detected"
)

// Assess runs the heuristics over the marker presence flags and the number
// of signature matches. Any firing heuristic marks the file as suspected;
// a clean file gets the single ReasonClean entry.
func Assess(flags jpeg.PresenceFlags, matchCount int) models.TamperAssessment {
	var reasons []string
	if !flags.Exif {
		reasons = append(reasons, ReasonMissingExif)
	}
	if flags.Adobe {
		reasons = append(reasons, ReasonAdobeMarker)
	}
	if matchCount == 0 {
		reasons = append(reasons, ReasonNoSignatureMatch)
	}

	if len(reasons) > 0 {
		return models.TamperAssessment{
			Suspected: true,
			Summary:   SummarySuspected,
			Reasons:   reasons,
		}
	}
	return models.TamperAssessment{
		Suspected: false,
		Summary:   SummaryClean,
		Reasons:   []string{ReasonClean},
	}
}
