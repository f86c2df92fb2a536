package jpeg

import (
	"fmt"

	"JPEGProbe/pkg/analyzer"
	"JPEGProbe/pkg/exif"
	"JPEGProbe/pkg/filehandler"
	"JPEGProbe/pkg/jpeg"
	"JPEGProbe/pkg/models"
	"JPEGProbe/pkg/signature"
	"JPEGProbe/pkg/tamper"
)

// JPEGAnalyzer implements structural analysis for JPEG images
type JPEGAnalyzer struct {
	analyzer.BaseAnalyzer
	store *signature.Store
}

// NewJPEGAnalyzer creates a new JPEG analyzer backed by the given signature store
func NewJPEGAnalyzer(store *signature.Store) *JPEGAnalyzer {
	return &JPEGAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"JPEG Structure Analyzer",
			"Analyzes JPEG marker structure, quantization tables and camera signatures",
			[]string{"jpeg", "jpg"},
		),
		store: store,
	}
}

// Analyze parses a JPEG file and builds the full structural report
func (a *JPEGAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.Report, error) {
	if !filehandler.FileExists(filePath) {
		return nil, &filehandler.NotFoundError{Path: filePath}
	}

	data, err := filehandler.ReadFileBytes(filePath)
	if err != nil {
		return nil, err
	}

	res, err := jpeg.Parse(data)
	if err != nil {
		return nil, err
	}

	report := models.NewReport(filePath, int64(len(data)))
	report.JPEG = models.JPEGInfo{
		Width:          res.Frame.Width,
		Height:         res.Frame.Height,
		ComponentCount: res.Frame.Components,
		Precision:      res.Frame.Precision,
		HasExif:        res.Flags.Exif,
		HasJFIF:        res.Flags.JFIF,
		HasAdobe:       res.Flags.Adobe,
		TrailingBytes:  res.TrailingBytes,
	}

	for _, t := range res.Tables {
		values := make([]int, len(t.Values))
		for i, v := range t.Values {
			values[i] = int(v)
		}
		report.AddTable(models.QuantTableInfo{
			ID:            t.ID,
			Precision:     t.Precision,
			Values:        values,
			MD5:           t.Digest(),
			ApproxQuality: jpeg.EstimateQuality(&t),
		})
	}

	pairs := signature.BuildPairs(res.Tables)
	for _, rec := range a.store.Lookup(pairs) {
		report.AddMatch(models.SignatureMatch{
			Make:     rec.Make,
			Model:    rec.Model,
			Notes:    rec.Notes,
			Layout:   rec.Layout,
			Software: rec.Software,
			Extra:    rec.Extra,
		})
	}

	// EXIF decoding is best effort: a broken APP1 payload degrades to the
	// presence flag alone.
	if res.ExifPayload != nil {
		if info, err := exif.Parse(res.ExifPayload); err == nil {
			report.Exif = &models.ExifInfo{
				Make:         info.Make,
				Model:        info.Model,
				Software:     info.Software,
				DateTime:     info.DateTime,
				Orientation:  info.Orientation,
				HasThumbnail: info.ThumbOffset > 0 && info.ThumbLength > 0,
			}
		}
	}

	report.Tampering = tamper.Assess(res.Flags, len(report.SignatureMatches))

	if options.ShowMarkers {
		for _, seg := range res.Segments {
			report.Markers = append(report.Markers, models.MarkerInfo{
				Marker: fmt.Sprintf("0x%04X", seg.Marker),
				Name:   jpeg.MarkerName(seg.Marker),
				Offset: seg.Offset,
				Length: seg.Length,
			})
		}
	}

	return report, nil
}
