package main

import (
	"log/slog"
	"os"
	"strings"

	"extractmail/internal/extractor"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "extractmail",
		Usage: "Extract unique email addresses from calendar and text files.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ics-file",
				Usage:    "Path to the .ics calendar file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "start-date",
				Usage: "Start date for the calendar event filter (YYYY-MM-DD, inclusive)",
			},
			&cli.StringFlag{
				Name:  "end-date",
				Usage: "End date for the calendar event filter (YYYY-MM-DD, inclusive)",
			},
			&cli.StringSliceFlag{
				Name:  "name-email-file",
				Usage: "Path(s) to text file(s) with 'Name <email>' pairs",
			},
			&cli.StringFlag{
				Name:  "newline-email-file",
				Usage: "Path to a text file with one email address per line",
			},
			&cli.StringFlag{
				Name:     "output-file",
				Usage:    "Path to the output file for the merged email list",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "report-file",
				Usage: "Optional path for a JSON run report",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Parse and merge without writing any files",
			},
		},
		Action: func(c *cli.Context) error {
			logLevel := os.Getenv("LOG_LEVEL")
			if logLevel == "" {
				logLevel = "info"
			}
			logger := setupLogger(logLevel)

			if c.Bool("dry-run") {
				logger.Info("Performing a dry run. No files will be written.")
			}

			cfg := extractor.Config{
				ICSFile:          c.String("ics-file"),
				StartDate:        c.String("start-date"),
				EndDate:          c.String("end-date"),
				NameEmailFiles:   c.StringSlice("name-email-file"),
				NewlineEmailFile: c.String("newline-email-file"),
				OutputFile:       c.String("output-file"),
				ReportFile:       c.String("report-file"),
				DryRun:           c.Bool("dry-run"),
			}

			return extractor.New(logger, cfg).Run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
