/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/courseport/internal/engine"
	"github.com/fulmenhq/courseport/internal/report"
	"github.com/fulmenhq/courseport/internal/transform"
	"github.com/fulmenhq/courseport/pkg/exitcode"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/spf13/cobra"
)

// convertCmd runs the full migration pipeline.
var convertCmd = &cobra.Command{
	Use:   "convert <course-directory>",
	Short: "Convert a Canvas export to a Tutor LMS import bundle",
	Long: `Convert runs the full pipeline against an unpacked IMS-CC export:
validation, parsing, orphan recovery, transformation and export. The output
directory receives tutor_course.json, per-topic HTML files, copied assets
and the migration reports.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output directory (default: <course-directory>/tutor_lms_output)")
	convertCmd.Flags().String("asset-base", "", "Base path prepended to rewritten asset links")
	convertCmd.Flags().String("settings", "", "YAML file overriding quiz and assignment option defaults")
	convertCmd.Flags().String("format", "both", "Migration report format (json|html|both)")
	convertCmd.Flags().Int("concurrency", 0, "Parser goroutine cap (0 = one per content family, 1 = sequential)")
	convertCmd.Flags().Bool("summary", true, "Print the boxed run summary")
}

func runConvert(cmd *cobra.Command, args []string) error {
	courseDir := args[0]
	outputDir, _ := cmd.Flags().GetString("output")
	assetBase, _ := cmd.Flags().GetString("asset-base")
	settingsFile, _ := cmd.Flags().GetString("settings")
	format, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	showSummary, _ := cmd.Flags().GetBool("summary")

	if format != "json" && format != "html" && format != "both" {
		logger.Error("invalid report format", logger.String("format", format))
		os.Exit(exitcode.ConfigError)
	}

	if info, err := os.Stat(courseDir); err != nil || !info.IsDir() {
		logger.Error("course directory not found", logger.String("path", courseDir))
		os.Exit(exitcode.FileSystemError)
	}

	var settings *transform.Settings
	if settingsFile != "" {
		var err error
		settings, err = transform.LoadSettings(settingsFile)
		if err != nil {
			logger.Error("invalid settings file", logger.Err(err))
			os.Exit(exitcode.ConfigError)
		}
	}

	eng := engine.New(engine.Options{
		CourseDir:    courseDir,
		OutputDir:    outputDir,
		AssetBase:    assetBase,
		Settings:     settings,
		ReportFormat: format,
		Concurrency:  concurrency,
	})

	rep, err := eng.Run(cmd.Context())
	if showSummary && rep != nil {
		fmt.Fprintln(cmd.OutOrStdout(), rep.Summary())
	}
	if err != nil {
		logger.Error("migration failed", logger.Err(err))
		os.Exit(exitcode.MigrationError)
	}
	if rep.Status == report.StatusFailure {
		os.Exit(exitcode.MigrationError)
	}
	return nil
}
