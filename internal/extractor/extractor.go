package extractor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"extractmail/internal/ics"
	"extractmail/internal/models"
	"extractmail/internal/textfile"

	"github.com/google/uuid"
)

// Config holds everything a single extraction run needs. It is populated
// from CLI flags in cmd/main.go and passed in explicitly; the pipeline reads
// no ambient state.
type Config struct {
	ICSFile          string   // Required calendar input.
	StartDate        string   // Optional YYYY-MM-DD, inclusive.
	EndDate          string   // Optional YYYY-MM-DD, inclusive.
	NameEmailFiles   []string // Optional "Name <email>" pair files.
	NewlineEmailFile string   // Optional one-address-per-line file.
	OutputFile       string   // Required destination for the merged list.
	ReportFile       string   // Optional JSON run report.
	DryRun           bool     // Parse and merge, but write nothing.
}

// Report is the JSON run summary written next to the output when
// Config.ReportFile is set.
type Report struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	CalendarEmails int       `json:"calendar_emails"`
	PairEmails     int       `json:"pair_emails"`
	NewlineEmails  int       `json:"newline_emails"`
	UniqueEmails   int       `json:"unique_emails"`
	OutputFile     string    `json:"output_file"`
}

// Extractor orchestrates the extraction pipeline: parse each source in turn,
// merge the results, write the output.
type Extractor struct {
	logger *slog.Logger
	cfg    Config
	runID  string
}

// New creates a new Extractor. Each run gets a fresh ID so log lines and the
// report can be correlated.
func New(logger *slog.Logger, cfg Config) *Extractor {
	runID := uuid.New().String()
	return &Extractor{
		logger: logger.With("runID", runID),
		cfg:    cfg,
		runID:  runID,
	}
}

// Run executes one extraction cycle. Any parser or write failure aborts the
// run; there is no partial-output mode.
func (e *Extractor) Run() error {
	e.logger.Info("Starting extraction run.")

	rng, err := models.ParseDateRange(e.cfg.StartDate, e.cfg.EndDate)
	if err != nil {
		return fmt.Errorf("invalid date filter: %w", err)
	}

	calSet, err := ics.NewParser(e.logger).Extract(e.cfg.ICSFile, rng)
	if err != nil {
		return fmt.Errorf("calendar stage failed: %w", err)
	}

	pairSet := models.NewEmailSet()
	if len(e.cfg.NameEmailFiles) > 0 {
		pairSet, err = textfile.ExtractPairs(e.logger, e.cfg.NameEmailFiles)
		if err != nil {
			return fmt.Errorf("name/email stage failed: %w", err)
		}
	}

	lineSet := models.NewEmailSet()
	if e.cfg.NewlineEmailFile != "" {
		lineSet, err = textfile.ExtractLines(e.logger, e.cfg.NewlineEmailFile)
		if err != nil {
			return fmt.Errorf("newline email stage failed: %w", err)
		}
	}

	merged := models.Union(calSet, pairSet, lineSet)
	e.logger.Info("Merged address sets.",
		"calendar", calSet.Len(),
		"pairs", pairSet.Len(),
		"newline", lineSet.Len(),
		"unique", merged.Len())

	if e.cfg.DryRun {
		e.logger.Info("[DRY RUN] Would write merged email list.", "file", e.cfg.OutputFile, "addresses", merged.Len())
		return nil
	}

	if err := e.writeOutput(merged); err != nil {
		return fmt.Errorf("output stage failed: %w", err)
	}

	if e.cfg.ReportFile != "" {
		if err := e.writeReport(calSet, pairSet, lineSet, merged); err != nil {
			return fmt.Errorf("report stage failed: %w", err)
		}
	}

	e.logger.Info("Email list saved.", "file", e.cfg.OutputFile, "addresses", merged.Len())
	return nil
}

// writeOutput writes the merged set, one address per line in lexicographic
// order, overwriting any existing file.
func (e *Extractor) writeOutput(merged models.EmailSet) error {
	content := strings.Join(merged.Sorted(), "\n") + "\n"
	if err := os.WriteFile(e.cfg.OutputFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrWrite, e.cfg.OutputFile, err)
	}
	return nil
}

// writeReport writes the JSON run summary.
func (e *Extractor) writeReport(calSet, pairSet, lineSet, merged models.EmailSet) error {
	report := Report{
		RunID:          e.runID,
		GeneratedAt:    time.Now().UTC(),
		CalendarEmails: calSet.Len(),
		PairEmails:     pairSet.Len(),
		NewlineEmails:  lineSet.Len(),
		UniqueEmails:   merged.Len(),
		OutputFile:     e.cfg.OutputFile,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(e.cfg.ReportFile, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrWrite, e.cfg.ReportFile, err)
	}
	return nil
}
