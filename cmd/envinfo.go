/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fulmenhq/courseport/pkg/buildinfo"
	"github.com/spf13/cobra"
)

// envinfoCmd prints environment details useful when filing issues.
var envinfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Show environment information for troubleshooting",
	RunE:  runEnvinfo,
}

func init() {
	envinfoCmd.Flags().Bool("json", false, "Output environment information in JSON format")
}

type envData struct {
	Version   string            `json:"version"`
	GoVersion string            `json:"goVersion"`
	Platform  string            `json:"platform"`
	Arch      string            `json:"arch"`
	NumCPU    int               `json:"numCPU"`
	Variables map[string]string `json:"variables"`
}

func runEnvinfo(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	variables := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, "COURSEPORT_") {
			continue
		}
		// Never echo credentials embedded in connection strings.
		if strings.Contains(strings.ToLower(key), "uri") {
			value = "<set>"
		}
		variables[key] = value
	}

	data := envData{
		Version:   buildinfo.BinaryVersion,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Variables: variables,
	}

	if asJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "courseport %s\n", data.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "go:       %s\n", data.GoVersion)
	fmt.Fprintf(cmd.OutOrStdout(), "platform: %s/%s (%d cpus)\n", data.Platform, data.Arch, data.NumCPU)
	if len(data.Variables) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "environment:")
		for key, value := range data.Variables {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s=%s\n", key, value)
		}
	}
	return nil
}
