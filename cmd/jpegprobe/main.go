package main

import (
	"JPEGProbe/pkg/analyzer"
	jpeganalyzer "JPEGProbe/pkg/analyzer/image/jpeg"
	"JPEGProbe/pkg/extractor"
	jpegextractor "JPEGProbe/pkg/extractor/image/jpeg"
	"JPEGProbe/pkg/filehandler"
	"JPEGProbe/pkg/models"
	"JPEGProbe/pkg/signature"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/golang/glog"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func printAlert(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

func main() {
	// Parse command line arguments
	var (
		filePath    = flag.String("file", "", "Path to a single JPEG file for analysis")
		dirPath     = flag.String("dir", "", "Path to directory of files for analysis")
		urlPath     = flag.String("url", "", "URL to download and analyze")
		urlFilePath = flag.String("urlfile", "", "Path to file containing URLs to download and analyze")
		outputDir   = flag.String("outdir", "jpegprobe_output", "Directory to store downloads and extracted artifacts")
		sigPath     = flag.String("sig", "", "Path to the camera signature database (.inl)")
		format      = flag.String("format", "auto", "Force specific format analysis (jpg, jpeg)")
		jsonOut     = flag.Bool("json", false, "Emit results as JSON, one document per file")
		showMarkers = flag.Bool("markers", false, "Include the full marker listing in results")
		extractFlag = flag.Bool("extract", false, "Extract embedded EXIF thumbnails")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		recursive   = flag.Bool("recursive", false, "Walk subdirectories when analyzing a directory")
		listFormats = flag.Bool("listformats", false, "List all supported file formats")
	)

	flag.Parse()
	defer glog.Flush()

	// Banner and version info
	if !*jsonOut {
		fmt.Println("JPEGProbe v1.0.0")
		fmt.Println("A JPEG structure and camera signature analysis tool")
		fmt.Println("---------------------------------")
	}

	// Load the signature database before anything else; the analyzer
	// cannot run without it.
	store, dbPath, err := loadSignatures(*sigPath)
	if err != nil {
		fail(*jsonOut, "Failed to load signature database: %v", err)
	}
	if !*jsonOut {
		printInfo("Loaded %d camera signatures from %s", store.Len(), dbPath)
	}

	// Create registries and register the JPEG handlers
	registry := analyzer.NewRegistry()
	registry.Register(jpeganalyzer.NewJPEGAnalyzer(store))

	extractors := extractor.NewRegistry()
	extractors.Register(jpegextractor.NewThumbnailExtractor())

	// Handle list formats flag
	if *listFormats {
		fmt.Println("Supported file formats:")
		for _, format := range registry.GetSupportedFormats() {
			analyzers := registry.GetAnalyzersForFormat(format)
			names := make([]string, 0, len(analyzers))
			for _, a := range analyzers {
				names = append(names, a.Name())
			}
			fmt.Printf("- %s: %s\n", format, strings.Join(names, ", "))
		}
		return
	}

	// Ensure we have at least one input method
	if *filePath == "" && *dirPath == "" && *urlPath == "" && *urlFilePath == "" {
		fmt.Println("Usage:")
		fmt.Println("  jpegprobe -file <filepath>")
		fmt.Println("  jpegprobe -dir <directory>")
		fmt.Println("  jpegprobe -url <url>")
		fmt.Println("  jpegprobe -urlfile <file-with-urls>")
		flag.PrintDefaults()
		exit(1)
	}

	opts := analyzer.AnalysisOptions{
		Verbose:     *verbose,
		Format:      *format,
		ShowMarkers: *showMarkers,
		Extract:     *extractFlag,
		OutputDir:   *outputDir,
	}

	// Single files and URLs are always parsed as JPEG, so a mislabeled or
	// corrupt file reports a format error instead of being skipped.
	if opts.Format == "auto" {
		opts.Format = "jpg"
	}

	failedRuns := 0

	// Process URL file if specified
	if *urlFilePath != "" {
		if !*jsonOut {
			printInfo("Processing URLs from file: %s", *urlFilePath)
		}
		urls, err := filehandler.ReadLines(*urlFilePath)
		if err != nil {
			fail(*jsonOut, "Failed to read URL file: %v", err)
		}

		for _, url := range urls {
			url = strings.TrimSpace(url)
			if url == "" || strings.HasPrefix(url, "#") {
				continue // Skip empty lines and comments
			}

			downloadDir := filepath.Join(*outputDir, "downloads")
			if !*jsonOut {
				printInfo("Downloading from %s", url)
			}
			downloaded, err := filehandler.DownloadFromURL(url, downloadDir)
			if err != nil {
				if *jsonOut {
					emitJSON(models.ErrorReport{Error: fmt.Sprintf("failed to download %s: %v", url, err)})
				} else {
					printError("Failed to download from %s: %v", url, err)
				}
				failedRuns++
				continue
			}
			if !*jsonOut {
				printSuccess("Downloaded to %s", downloaded)
			}

			if _, err := analyzeFile(downloaded, registry, extractors, opts, *jsonOut); err != nil {
				reportFailure(downloaded, err, *jsonOut)
				failedRuns++
			}
		}
	}

	// Process single URL if specified
	if *urlPath != "" {
		if !*jsonOut {
			printInfo("Downloading from URL: %s", *urlPath)
		}
		downloadDir := filepath.Join(*outputDir, "downloads")
		downloaded, err := filehandler.DownloadFromURL(*urlPath, downloadDir)
		if err != nil {
			fail(*jsonOut, "Failed to download from URL: %v", err)
		}
		if !*jsonOut {
			printSuccess("Downloaded to %s", downloaded)
		}

		if _, err := analyzeFile(downloaded, registry, extractors, opts, *jsonOut); err != nil {
			reportFailure(downloaded, err, *jsonOut)
			exit(1)
		}
	}

	// Process single file if specified
	if *filePath != "" {
		if !*jsonOut {
			printInfo("Analyzing file: %s", *filePath)
		}
		if _, err := analyzeFile(*filePath, registry, extractors, opts, *jsonOut); err != nil {
			reportFailure(*filePath, err, *jsonOut)
			exit(1)
		}
	}

	// Process directory if specified
	if *dirPath != "" {
		if !*jsonOut {
			printInfo("Analyzing directory: %s", *dirPath)
		}

		var files []string
		if *recursive {
			files, err = filehandler.FilesInDirectory(*dirPath, nil)
		} else {
			files, err = filehandler.GatherFiles(*dirPath)
		}
		if err != nil {
			fail(*jsonOut, "Failed to read directory: %v", err)
		}

		if !*jsonOut {
			printInfo("Found %d files to analyze", len(files))
		}

		var reports []models.Report
		failed := 0

		for _, file := range files {
			// Extension first, then content sniffing, so a JPEG behind a
			// wrong extension is still analyzed.
			if !filehandler.IsJPEGFile(file) {
				detected, err := filehandler.DetectFileFormat(file)
				if err != nil || (detected != "jpg" && detected != "jpeg") {
					if !*jsonOut {
						if kind, w, h, cerr := filehandler.ClassifyImage(file); cerr == nil {
							printInfo("Skipping %s (%s, %dx%d)", file, kind, w, h)
						} else if *verbose {
							printInfo("Skipping %s (not a JPEG)", file)
						}
					}
					continue
				}
			}

			report, err := analyzeFile(file, registry, extractors, opts, *jsonOut)
			if err != nil {
				reportFailure(file, err, *jsonOut)
				failed++
				continue
			}
			reports = append(reports, *report)
		}

		if !*jsonOut {
			printSummary(reports, failed)
		}
		failedRuns += failed
	}

	if failedRuns > 0 {
		exit(1)
	}
}

// loadSignatures resolves the database path and loads it. Without an
// explicit -sig flag it looks in the working directory, then next to the
// executable.
func loadSignatures(flagPath string) (*signature.Store, string, error) {
	path := flagPath
	if path == "" {
		path = "signatures.inl"
		if !filehandler.FileExists(path) {
			if exe, err := os.Executable(); err == nil {
				path = filepath.Join(filepath.Dir(exe), "signatures.inl")
			}
		}
	}

	store, err := signature.Load(path)
	if err != nil {
		return nil, path, err
	}
	return store, path, nil
}

func analyzeFile(filePath string, registry *analyzer.Registry, extractors *extractor.Registry, opts analyzer.AnalysisOptions, jsonOut bool) (*models.Report, error) {
	// Get appropriate analyzers
	analyzers := registry.GetAnalyzersForFormat(opts.Format)
	if len(analyzers) == 0 {
		return nil, fmt.Errorf("no analyzers available for format: %s", opts.Format)
	}

	if !jsonOut {
		printInfo("Analyzing %s as %s format", filePath, opts.Format)
	}
	startTime := time.Now()

	var report *models.Report
	var lastErr error

	for _, a := range analyzers {
		r, err := a.Analyze(filePath, opts)
		if err != nil {
			lastErr = err
			continue
		}
		report = r
		break
	}
	if report == nil {
		return nil, lastErr
	}

	if jsonOut {
		emitJSON(report)
	} else {
		displayReport(report, opts)
		printInfo("Analysis completed in %v", time.Since(startTime))
	}

	if opts.Extract {
		runExtractors(filePath, extractors, opts, jsonOut)
	}

	return report, nil
}

func runExtractors(filePath string, extractors *extractor.Registry, opts analyzer.AnalysisOptions, jsonOut bool) {
	for _, e := range extractors.GetExtractorsForFormat(opts.Format) {
		res, err := e.Extract(filePath, extractor.ExtractionOptions{
			OutputDir: opts.OutputDir,
			Verbose:   opts.Verbose,
		})
		if err != nil {
			if !jsonOut {
				printWarning("%s: %v", e.Name(), err)
			}
			continue
		}
		if !jsonOut {
			printSuccess("%s wrote %s (%d bytes)", e.Name(), res.OutputPath, res.SizeBytes)
		}
	}
}

func displayReport(report *models.Report, opts analyzer.AnalysisOptions) {
	fmt.Println("\n--- Analysis Results ---")

	// Basic info
	fmt.Printf("File: %s (%d bytes)\n", report.File.Path, report.File.SizeBytes)
	fmt.Printf("Dimensions: %dx%d, %d components, %d-bit precision\n",
		report.JPEG.Width, report.JPEG.Height, report.JPEG.ComponentCount, report.JPEG.Precision)
	fmt.Printf("Metadata: EXIF=%s JFIF=%s Adobe=%s\n",
		yesNo(report.JPEG.HasExif), yesNo(report.JPEG.HasJFIF), yesNo(report.JPEG.HasAdobe))

	if report.Exif != nil {
		if camera := strings.TrimSpace(report.Exif.Make + " " + report.Exif.Model); camera != "" {
			fmt.Printf("Camera: %s\n", camera)
		}
		if report.Exif.Software != "" {
			fmt.Printf("Software: %s\n", report.Exif.Software)
		}
		if report.Exif.DateTime != "" {
			fmt.Printf("Captured: %s\n", report.Exif.DateTime)
		}
	}

	// Quantization tables
	if len(report.QuantizationTables) > 0 {
		fmt.Println("\nQuantization tables:")
		for i, t := range report.QuantizationTables {
			fmt.Printf("%d. id=%d precision=%d quality=~%d md5=%s\n",
				i+1, t.ID, t.Precision, t.ApproxQuality, t.MD5)
			if opts.Verbose {
				for row := 0; row < 8; row++ {
					fmt.Print("   ")
					for col := 0; col < 8; col++ {
						fmt.Printf("%4d", t.Values[row*8+col])
					}
					fmt.Println()
				}
			}
		}
	}

	// Signature matches
	if len(report.SignatureMatches) > 0 {
		fmt.Println("\nSignature matches:")
		for i, m := range report.SignatureMatches {
			line := strings.TrimSpace(m.Make + " " + m.Model)
			if m.Notes != "" {
				line += " (" + m.Notes + ")"
			}
			fmt.Printf("%d. %s\n", i+1, line)
			if opts.Verbose && m.Software != "" {
				fmt.Printf("   Software: %s\n", m.Software)
			}
		}
	} else {
		printWarning("No signature matches found")
	}

	// Tampering assessment
	fmt.Println()
	if report.Tampering.Suspected {
		printAlert("%s", report.Tampering.Summary)
	} else {
		printSuccess("%s", report.Tampering.Summary)
	}
	for _, reason := range report.Tampering.Reasons {
		fmt.Printf("- %s\n", reason)
	}

	if report.JPEG.TrailingBytes > 0 {
		printWarning("Found %d bytes of trailing data after the EOI marker", report.JPEG.TrailingBytes)
	}

	// Marker listing
	if len(report.Markers) > 0 {
		fmt.Println("\nMarkers:")
		for _, m := range report.Markers {
			if m.Length > 0 {
				fmt.Printf("%s %-5s offset=%-8d length=%d\n", m.Marker, m.Name, m.Offset, m.Length)
			} else {
				fmt.Printf("%s %-5s offset=%d\n", m.Marker, m.Name, m.Offset)
			}
		}
	}

	fmt.Println("-------------------------")
}

func printSummary(reports []models.Report, failed int) {
	var clean, suspected int
	for _, r := range reports {
		if r.Tampering.Suspected {
			suspected++
		} else {
			clean++
		}
	}

	fmt.Println("\n=== Analysis Summary ===")
	fmt.Printf("Total files analyzed: %d\n", len(reports))
	fmt.Printf("%s Clean files: %d\n", successColor("[+]"), clean)

	if suspected > 0 {
		fmt.Printf("%s Tampering suspected: %d\n", alertColor("[!!!]"), suspected)

		fmt.Println("\nFiles with suspected tampering:")
		for _, r := range reports {
			if r.Tampering.Suspected {
				fmt.Printf("- %s\n", r.File.Path)
			}
		}
	}

	if failed > 0 {
		fmt.Printf("%s Failed to analyze: %d\n", errorColor("[-]"), failed)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func emitJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Println(`{"error":"failed to encode result"}`)
		return
	}
	fmt.Println(string(data))
}

// reportFailure prints an analysis error in the active output mode.
func reportFailure(filePath string, err error, jsonOut bool) {
	if jsonOut {
		emitJSON(models.ErrorReport{Error: err.Error()})
	} else {
		printError("Failed to analyze %s: %v", filePath, err)
	}
}

// fail reports a fatal setup error and exits.
func fail(jsonOut bool, format string, args ...interface{}) {
	if jsonOut {
		emitJSON(models.ErrorReport{Error: fmt.Sprintf(format, args...)})
	} else {
		printError(format, args...)
	}
	exit(1)
}

// exit flushes buffered log output before terminating; deferred calls do not
// run past os.Exit.
func exit(code int) {
	glog.Flush()
	os.Exit(code)
}
