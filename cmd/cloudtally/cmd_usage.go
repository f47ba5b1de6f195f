package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	awsprov "github.com/cloudtally/cloudtally/providers/aws"
	"github.com/cloudtally/cloudtally/report"
	"github.com/cloudtally/cloudtally/types"
	"github.com/cloudtally/cloudtally/usage"
)

var (
	usageDays    int
	usageWorkers int
)

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Classify CodeBuild projects as USED, UNUSED or EMPTY",
	Long: `Classify every CodeBuild project in the scanned regions by how
recently it has run:

- USED:   last build is within the threshold
- UNUSED: has configuration or old builds, nothing recent
- EMPTY:  never built and nothing declared

A project failure is recorded and never stops the scan; a region failure
skips that region. The command fails only when no region could be listed.`,
	Example: `  cloudtally usage                          # All enabled regions, 30 day threshold
  cloudtally usage --regions us-east-1      # One region
  cloudtally usage --days 90 --workers 20   # Slower teams, faster scan
  cloudtally usage --format table           # Print instead of writing files`,
	RunE: runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)

	usageCmd.Flags().IntVar(&usageDays, "days", 30, "Builds older than this many days count as unused")
	usageCmd.Flags().IntVar(&usageWorkers, "workers", 10, "Concurrent project lookups per region")
}

func runUsage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("days") {
		cfg.ThresholdDays = usageDays
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = usageWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	regions, err := resolveRegions(ctx, cfg)
	if err != nil {
		return err
	}
	logAccount(ctx, cfg, regions[0])

	open := func(ctx context.Context, region string) (usage.ProjectAPI, error) {
		clients, err := awsprov.New(ctx, awsprov.Config{Region: region, Profile: cfg.Profile})
		if err != nil {
			return nil, err
		}
		return awsprov.NewProjectClient(clients.CodeBuild, region), nil
	}

	runner := usage.NewRunner(open, usage.Options{
		Regions:       regions,
		ThresholdDays: cfg.ThresholdDays,
		Workers:       cfg.Workers,
	})

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	records := make([]types.Record, len(result.Classifications))
	for i, c := range result.Classifications {
		records[i] = c
	}

	writer := report.NewWriter(cfg.OutputPrefix)
	files, err := writeReport(writer, out, cfg.Format, "codebuild_usage", usage.Classification{}.Header(), records, result.Classifications)
	if err != nil {
		return err
	}

	if cfg.Format == "table" {
		if len(result.Errors) > 0 {
			errRecords := make([]types.Record, len(result.Errors))
			for i, e := range result.Errors {
				errRecords[i] = e
			}
			fmt.Fprintf(out, "\n== errors ==\n")
			if err := report.WriteTable(out, errRecords); err != nil {
				return err
			}
		}
	} else {
		errFiles, err := writeErrors(writer, "codebuild_usage", result.Errors)
		if err != nil {
			return err
		}
		files = append(files, errFiles...)
	}

	printUsageSummary(out, result, files)

	if cfg.S3Bucket != "" && len(files) > 0 {
		if err := uploadReports(ctx, cfg, regions[0], files); err != nil {
			return err
		}
	}
	return nil
}

// printUsageSummary prints the run totals a human actually reads.
func printUsageSummary(out io.Writer, result *usage.Result, files []string) {
	counts := result.CountByStatus()

	fmt.Fprintf(out, "\nScanned %d region(s)", result.RegionsScanned)
	if result.RegionsFailed > 0 {
		fmt.Fprintf(out, ", %d failed", result.RegionsFailed)
	}
	fmt.Fprintf(out, ": %d project(s)\n", len(result.Classifications))
	fmt.Fprintf(out, "  USED:   %d\n", counts[usage.StatusUsed])
	fmt.Fprintf(out, "  UNUSED: %d\n", counts[usage.StatusUnused])
	fmt.Fprintf(out, "  EMPTY:  %d\n", counts[usage.StatusEmpty])
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "  errors: %d\n", len(result.Errors))
	}
	for _, f := range files {
		fmt.Fprintf(out, "wrote %s\n", f)
	}
}
