/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"os"
	"strings"

	"github.com/fulmenhq/courseport/pkg/buildinfo"
	"github.com/fulmenhq/courseport/pkg/exitcode"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courseport",
		Short: "Convert Canvas IMS-CC course exports to Tutor LMS",
		Long: `Courseport converts an unpacked Canvas IMS-CC course export into a
Tutor LMS import bundle: structure validation, content parsing, orphan
recovery, schema transformation and JSON/HTML export.

Examples:
   courseport validate ./my_course_export     # Check the export structure
   courseport convert ./my_course_export      # Run the full conversion
   courseport upload ./out/tutor_course.json  # Push a converted course to MongoDB
   courseport version                         # Show version`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Accept --log_level style spellings as their dashed equivalents.
	cmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("courseport {{.Version}}\n")

	return cmd
}

func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(convertCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(uploadCmd)
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(envinfoCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "courseport",
	}

	if err := logger.Initialize(config); err != nil {
		// Fall back to stderr if logger init fails
		cmd.PrintErrf("Failed to initialize logger: %v\n", err)
	}
}
