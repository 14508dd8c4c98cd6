package extractor

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"extractmail/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func minimalICS(attendees ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//extractmail//EN",
		"BEGIN:VEVENT",
		"UID:event-1",
		"DTSTAMP:20230801T000000Z",
		"DTSTART:20230810T100000Z",
		"SUMMARY:Mini sessions",
	}
	for _, a := range attendees {
		lines = append(lines, "ATTENDEE:mailto:"+a)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestRunMergesAndSortsAllSources(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:          writeFile(t, dir, "invite.ics", minimalICS("timcook@gmail.com")),
		NameEmailFiles:   []string{writeFile(t, dir, "pairs.txt", "Tim Cook <timcook@gmail.com>,\nEileen Dover <eileendover@live.com>,\n")},
		NewlineEmailFile: writeFile(t, dir, "newline.txt", "timcook@gmail.com\nsomeoneelse@x.com\n"),
		OutputFile:       filepath.Join(dir, "out.txt"),
	}

	if err := New(testLogger(), cfg).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "eileendover@live.com\nsomeoneelse@x.com\ntimcook@gmail.com\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestRunIsStableAcrossRepeatedRuns(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:    writeFile(t, dir, "invite.ics", minimalICS("b@x.com", "a@x.com", "c@x.com")),
		OutputFile: filepath.Join(dir, "out.txt"),
	}

	var first string
	for i := 0; i < 3; i++ {
		if err := New(testLogger(), cfg).Run(); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		data, err := os.ReadFile(cfg.OutputFile)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if i == 0 {
			first = string(data)
			continue
		}
		if string(data) != first {
			t.Fatalf("run %d output = %q, want %q", i, data, first)
		}
	}
	if first != "a@x.com\nb@x.com\nc@x.com\n" {
		t.Errorf("output = %q, want sorted addresses", first)
	}
}

func TestRunCalendarOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:    writeFile(t, dir, "invite.ics", minimalICS("only@x.com")),
		OutputFile: filepath.Join(dir, "out.txt"),
	}

	if err := New(testLogger(), cfg).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "only@x.com\n" {
		t.Errorf("output = %q, want %q", data, "only@x.com\n")
	}
}

func TestRunDateFilterValidation(t *testing.T) {
	dir := t.TempDir()
	icsPath := writeFile(t, dir, "invite.ics", minimalICS("a@x.com"))

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"malformed start date", "not-a-date", "2024-01-01", models.ErrInvalidDate},
		{"inverted range", "2024-01-01", "2023-01-01", models.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				ICSFile:    icsPath,
				StartDate:  tt.start,
				EndDate:    tt.end,
				OutputFile: filepath.Join(dir, "out.txt"),
			}
			err := New(testLogger(), cfg).Run()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:    writeFile(t, dir, "invite.ics", minimalICS("a@x.com")),
		OutputFile: filepath.Join(dir, "out.txt"),
		ReportFile: filepath.Join(dir, "report.json"),
		DryRun:     true,
	}

	if err := New(testLogger(), cfg).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, path := range []string{cfg.OutputFile, cfg.ReportFile} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Stat(%s) error = %v, want not-exist", path, err)
		}
	}
}

func TestRunWriteFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:    writeFile(t, dir, "invite.ics", minimalICS("a@x.com")),
		OutputFile: filepath.Join(dir, "no-such-dir", "out.txt"),
	}

	err := New(testLogger(), cfg).Run()
	if !errors.Is(err, models.ErrWrite) {
		t.Errorf("Run() error = %v, want ErrWrite", err)
	}
}

func TestRunMissingInputAborts(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:          writeFile(t, dir, "invite.ics", minimalICS("a@x.com")),
		NewlineEmailFile: filepath.Join(dir, "missing.txt"),
		OutputFile:       filepath.Join(dir, "out.txt"),
	}

	err := New(testLogger(), cfg).Run()
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Run() error = %v, want ErrNotFound", err)
	}
	if _, statErr := os.Stat(cfg.OutputFile); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("output file written despite a failed stage, want no partial output")
	}
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ICSFile:          writeFile(t, dir, "invite.ics", minimalICS("shared@x.com", "cal@x.com")),
		NameEmailFiles:   []string{writeFile(t, dir, "pairs.txt", "Shared <shared@x.com>")},
		NewlineEmailFile: writeFile(t, dir, "newline.txt", "line@x.com\n"),
		OutputFile:       filepath.Join(dir, "out.txt"),
		ReportFile:       filepath.Join(dir, "report.json"),
	}

	if err := New(testLogger(), cfg).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if report.RunID == "" {
		t.Error("report.RunID is empty")
	}
	if report.CalendarEmails != 2 || report.PairEmails != 1 || report.NewlineEmails != 1 {
		t.Errorf("report counts = %d/%d/%d, want 2/1/1",
			report.CalendarEmails, report.PairEmails, report.NewlineEmails)
	}
	if report.UniqueEmails != 3 {
		t.Errorf("report.UniqueEmails = %d, want 3", report.UniqueEmails)
	}
	if report.OutputFile != cfg.OutputFile {
		t.Errorf("report.OutputFile = %q, want %q", report.OutputFile, cfg.OutputFile)
	}
}
