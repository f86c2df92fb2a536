package models

// Report is the full structural analysis of one JPEG file. Field order
// matches the JSON output shape.
type Report struct {
	File               FileInfo         `json:"file"`
	JPEG               JPEGInfo         `json:"jpeg"`
	Exif               *ExifInfo        `json:"exif,omitempty"`
	QuantizationTables []QuantTableInfo `json:"quantizationTables"`
	SignatureMatches   []SignatureMatch `json:"signatureMatches"`
	Tampering          TamperAssessment `json:"tamperingAssessment"`
	Markers            []MarkerInfo     `json:"markers,omitempty"`
}

// FileInfo identifies the analyzed file on disk.
type FileInfo struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
}

// JPEGInfo summarizes the frame header and metadata marker presence.
type JPEGInfo struct {
	Width          int  `json:"width"`
	Height         int  `json:"height"`
	ComponentCount int  `json:"componentCount"`
	Precision      int  `json:"precision"`
	HasExif        bool `json:"hasExif"`
	HasJFIF        bool `json:"hasJFIF"`
	HasAdobe       bool `json:"hasAdobe"`
	TrailingBytes  int  `json:"trailingBytes"`
}

// ExifInfo carries the camera identity fields decoded from the APP1
// segment. Present only when the file has parseable EXIF data.
type ExifInfo struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Software     string `json:"software,omitempty"`
	DateTime     string `json:"dateTime,omitempty"`
	Orientation  int    `json:"orientation,omitempty"`
	HasThumbnail bool   `json:"hasThumbnail"`
}

// QuantTableInfo is one quantization table with its canonical digest.
type QuantTableInfo struct {
	ID            int    `json:"id"`
	Precision     int    `json:"precision"`
	Values        []int  `json:"values"`
	MD5           string `json:"md5"`
	ApproxQuality int    `json:"approxQuality"`
}

// SignatureMatch is one camera/software profile whose table digests match
// the file.
type SignatureMatch struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Notes    string `json:"notes"`
	Layout   string `json:"layout"`
	Software string `json:"software"`
	Extra    string `json:"extra"`
}

// TamperAssessment is the verdict of the metadata heuristics.
type TamperAssessment struct {
	Suspected bool     `json:"suspected"`
	Summary   string   `json:"summary"`
	Reasons   []string `json:"reasons"`
}

// MarkerInfo describes one marker segment for the optional marker listing.
// Length is the payload size without the two length bytes; standalone
// markers report zero.
type MarkerInfo struct {
	Marker string `json:"marker"`
	Name   string `json:"name,omitempty"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// ErrorReport is the JSON shape emitted when analysis fails.
type ErrorReport struct {
	Error string `json:"error"`
}

// ExtractionResult records one artifact written by an extractor.
type ExtractionResult struct {
	SourcePath string `json:"sourcePath"`
	OutputPath string `json:"outputPath"`
	SizeBytes  int    `json:"sizeBytes"`
	Note       string `json:"note,omitempty"`
}

// NewReport creates a report for the given file with the collection fields
// initialized, so empty results marshal as [] rather than null.
func NewReport(path string, sizeBytes int64) *Report {
	return &Report{
		File:               FileInfo{Path: path, SizeBytes: sizeBytes},
		QuantizationTables: []QuantTableInfo{},
		SignatureMatches:   []SignatureMatch{},
	}
}

// AddTable appends a quantization table entry.
func (r *Report) AddTable(t QuantTableInfo) {
	r.QuantizationTables = append(r.QuantizationTables, t)
}

// AddMatch appends a signature match.
func (r *Report) AddMatch(m SignatureMatch) {
	r.SignatureMatches = append(r.SignatureMatches, m)
}
