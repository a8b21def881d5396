package main

import (
	"fmt"
	"os"

	"github.com/gh-ovd/addin-manifestchk/src/internal/runner"
	"github.com/gh-ovd/addin-manifestchk/src/pkg/service"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command, parse args from CLI
func newRootCmd() *cobra.Command {
	opts := &runner.Options{}

	cmd := &cobra.Command{
		Use:   "addin-manifestchk",
		Short: "Validate an Office add-in manifest against the add-in checking service",
		Long: `addin-manifestchk submits an add-in XML manifest to the remote validation
service and renders the verdict (errors, warnings, infos, supported platforms)
as a console report. In github mode the report is also posted as a PR comment.`,
		Version: fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	// Run mode
	cmd.Flags().StringVar(&opts.RunMode, "run-mode", "local", "Run mode: local or github")

	// Common flags
	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "Path to the add-in XML manifest (required)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", service.DefaultEndpoint,
		"Validation service endpoint")
	cmd.Flags().IntVar(&opts.TimeoutSeconds, "timeout", 0,
		"Client-side timeout in seconds for the service call (0 = no timeout)")
	cmd.Flags().StringVar(&opts.PoliciesPath, "policies-path", "",
		"Path to report policy directory (contains gate-config.yaml); empty disables the gate")
	cmd.Flags().StringVar(&opts.TemplatesPath, "templates-path", "./templates",
		"Path to templates directory")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Debug mode")

	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "./output",
		"Output directory in case the tool needs to export files.")
	cmd.Flags().BoolVar(&opts.EnableExportReport, "enable-export-report", false, "Enable export report (json file to output dir)")
	cmd.Flags().BoolVar(&opts.EnableExportPerformanceReport, "enable-export-performance-report", false, "Enable export performance report (json file to output dir)")

	// GitHub mode flags
	cmd.Flags().StringVar(&opts.GhRepo, "gh-repo", "",
		"GitHub repository (e.g., org/repo) [github mode]")
	cmd.Flags().IntVar(&opts.GhPrNumber, "gh-pr-number", 0,
		"GitHub PR number [github mode]")

	// Mark required flags
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
