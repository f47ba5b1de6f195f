package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudtally/cloudtally/cost"
	"github.com/cloudtally/cloudtally/inventory"
	awsprov "github.com/cloudtally/cloudtally/providers/aws"
	"github.com/cloudtally/cloudtally/report"
)

var inventoryServices []string

// inventoryCmd represents the inventory command
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Collect resource inventory reports",
	Long: `Collect inventory reports across the scanned regions. One report
file per service:

- ec2:        instances with attached volume details
- rds:        database instances
- s3:         buckets with versioning and encryption state (account-wide)
- s3sec:      bucket security grades (account-wide)
- iam:        users with groups, policies and key usage (account-wide)
- iamcatalog: groups, roles and managed policies (account-wide)
- ecr:        critical and high image scan findings
- audit:      idle and stopped resources with cost estimates`,
	Example: `  cloudtally inventory                       # Everything, all regions
  cloudtally inventory --services ec2,audit  # Just those two
  cloudtally inventory --format table        # Print instead of writing files`,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringSliceVar(&inventoryServices, "services", nil, "Comma-separated services to collect (default: all)")
}

func runInventory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := awsprov.NewCollectorRegistry(cost.NewEstimator())
	if err := validateServices(registry, inventoryServices); err != nil {
		return err
	}

	regions, err := resolveRegions(ctx, cfg)
	if err != nil {
		return err
	}
	logAccount(ctx, cfg, regions[0])

	open := func(ctx context.Context, region string) (*awsprov.Clients, error) {
		return awsprov.New(ctx, awsprov.Config{Region: region, Profile: cfg.Profile})
	}

	runner := inventory.NewRunner(open, registry.Collectors(inventoryServices), inventory.Options{
		Regions: regions,
	})

	outputs, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writer := report.NewWriter(cfg.OutputPrefix)

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	var files []string
	for _, name := range names {
		output := outputs[name]

		reportFiles, err := writeReport(writer, out, cfg.Format, name, output.Header, output.Records, output.Records)
		if err != nil {
			return err
		}
		files = append(files, reportFiles...)

		if cfg.Format != "table" {
			errFiles, err := writeErrors(writer, name, output.Errors)
			if err != nil {
				return err
			}
			files = append(files, errFiles...)
		}

		fmt.Fprintf(out, "%s: %d record(s), %d warning(s)\n", name, len(output.Records), len(output.Errors))
	}
	for _, f := range files {
		fmt.Fprintf(out, "wrote %s\n", f)
	}

	if cfg.S3Bucket != "" && len(files) > 0 {
		if err := uploadReports(ctx, cfg, regions[0], files); err != nil {
			return err
		}
	}
	return nil
}

// validateServices rejects service names no collector answers to.
func validateServices(registry *awsprov.CollectorRegistry, services []string) error {
	known := registry.Names()
	for _, s := range services {
		found := false
		for _, k := range known {
			if s == k {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown service %q (known: %s)", s, strings.Join(known, ", "))
		}
	}
	return nil
}
