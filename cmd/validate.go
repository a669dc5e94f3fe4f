/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/courseport/internal/engine"
	"github.com/fulmenhq/courseport/internal/validate"
	"github.com/fulmenhq/courseport/pkg/exitcode"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/spf13/cobra"
)

// validateCmd runs only the structure-validation stage.
var validateCmd = &cobra.Command{
	Use:   "validate <course-directory>",
	Short: "Validate a Canvas export without converting it",
	Long: `Validate checks the export structure, builds a file inventory,
verifies every manifest-referenced file exists and reports orphaned
content, without writing any conversion output.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("json", false, "Print the validation report as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	courseDir := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	outputDir := filepath.Join(courseDir, engine.DefaultOutputDirName)
	rep, diags := validate.New(courseDir, outputDir).Validate()

	if asJSON {
		payload := struct {
			Report   *validate.Report `json:"report"`
			Findings interface{}      `json:"findings"`
		}{rep, diags}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		totals := diags.Summarize()
		fmt.Fprintf(cmd.OutOrStdout(), "Validation: passed=%v\n", rep.Passed)
		fmt.Fprintf(cmd.OutOrStdout(), "  Referenced files: %d (missing: %d)\n",
			rep.TotalReferencedFiles, len(rep.MissingFiles))
		fmt.Fprintf(cmd.OutOrStdout(), "  Inventory: %d files (%d xml, %d html, %d images, %d documents)\n",
			len(rep.Inventory.AllFiles), rep.Inventory.XMLFiles, rep.Inventory.HTMLFiles,
			rep.Inventory.Images, rep.Inventory.Documents)
		fmt.Fprintf(cmd.OutOrStdout(), "  Orphaned content files: %d\n", len(rep.Inventory.OrphanedFiles))
		fmt.Fprintf(cmd.OutOrStdout(), "  Findings: %d critical, %d errors, %d warnings, %d info\n",
			totals.Critical, totals.Errors, totals.Warnings, totals.Info)
	}

	if !rep.Passed {
		logger.Error("validation failed", logger.String("path", courseDir))
		os.Exit(exitcode.ValidationError)
	}
	return nil
}
