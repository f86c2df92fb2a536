package jpeg

import (
	"path/filepath"
	"strings"

	"JPEGProbe/pkg/exif"
	"JPEGProbe/pkg/extractor"
	"JPEGProbe/pkg/filehandler"
	"JPEGProbe/pkg/jpeg"
	"JPEGProbe/pkg/models"
)

// ThumbnailExtractor recovers the thumbnail image embedded in a JPEG's EXIF
// data. Edited files often keep the original capture's thumbnail, so the
// extracted image can show what the picture looked like before editing.
type ThumbnailExtractor struct {
	extractor.BaseExtractor
}

// NewThumbnailExtractor creates a new thumbnail extractor
func NewThumbnailExtractor() *ThumbnailExtractor {
	return &ThumbnailExtractor{
		BaseExtractor: extractor.NewBaseExtractor(
			"EXIF Thumbnail Extractor",
			[]string{"jpeg", "jpg"},
		),
	}
}

// Extract locates the EXIF thumbnail and writes it to the output directory
// as <name>_thumb.jpg, byte for byte.
func (e *ThumbnailExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	data, err := filehandler.ReadFileBytes(filePath)
	if err != nil {
		return nil, err
	}

	res, err := jpeg.Parse(data)
	if err != nil {
		return nil, err
	}
	if res.ExifPayload == nil {
		return nil, exif.ErrNoThumbnail
	}

	thumb, err := exif.Thumbnail(res.ExifPayload)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	outputPath := filepath.Join(options.OutputDir, base+"_thumb.jpg")
	if err := filehandler.SaveFile(thumb, outputPath); err != nil {
		return nil, err
	}

	return &models.ExtractionResult{
		SourcePath: filePath,
		OutputPath: outputPath,
		SizeBytes:  len(thumb),
		Note:       "EXIF IFD1 thumbnail",
	}, nil
}
