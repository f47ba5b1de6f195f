package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cloudtally/cloudtally/config"
	awsprov "github.com/cloudtally/cloudtally/providers/aws"
	"github.com/cloudtally/cloudtally/report"
)

var (
	version = "0.1.0"

	flagConfig       string
	flagRegions      []string
	flagProfile      string
	flagOutputPrefix string
	flagFormat       string
	flagS3Bucket     string
	flagDebug        bool

	rootCmd = &cobra.Command{
		Use:   "cloudtally",
		Short: "AWS usage and inventory reports",
		Long: `Cloudtally - AWS usage and inventory reports

Cloudtally scans your AWS account and produces deterministic reports:
which CodeBuild projects are actually used, which resources exist in
each region, and what idle resources are costing you.

Reports are written as timestamped CSV and JSON files, optionally
uploaded to S3.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			if flagDebug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		},
	}
)

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`Cloudtally {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringSliceVarP(&flagRegions, "regions", "r", nil, "Regions to scan (default: all enabled regions)")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "AWS shared credentials profile")
	rootCmd.PersistentFlags().StringVar(&flagOutputPrefix, "output-prefix", "", "Prefix for report file names")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format: csv, json, both, table")
	rootCmd.PersistentFlags().StringVar(&flagS3Bucket, "s3-bucket", "", "Upload report files to this S3 bucket")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

// loadConfig builds the effective configuration: file values over defaults,
// flag values over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("regions") {
		cfg.Regions = flagRegions
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("output-prefix") {
		cfg.OutputPrefix = flagOutputPrefix
	}
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("s3-bucket") {
		cfg.S3Bucket = flagS3Bucket
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRegions returns the configured regions, or discovers every enabled
// region when none were configured.
func resolveRegions(ctx context.Context, cfg *config.Config) ([]string, error) {
	if len(cfg.Regions) > 0 {
		return cfg.Regions, nil
	}

	clients, err := awsprov.New(ctx, awsprov.Config{Region: "us-east-1", Profile: cfg.Profile})
	if err != nil {
		return nil, fmt.Errorf("discover regions: %w", err)
	}
	regions, err := awsprov.EnumerateRegions(ctx, clients.EC2, nil)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("no enabled regions found")
	}
	return regions, nil
}

// logAccount identifies the scanned account up front so reports are
// attributable. Best effort: identity lookup failure is not fatal.
func logAccount(ctx context.Context, cfg *config.Config, region string) {
	clients, err := awsprov.New(ctx, awsprov.Config{Region: region, Profile: cfg.Profile})
	if err != nil {
		log.Warn().Err(err).Msg("could not open identity client")
		return
	}
	account, err := clients.AccountID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not resolve account id")
		return
	}
	log.Info().Str("account", account).Msg("scanning account")
}

// uploadReports copies finished report files to the configured bucket.
func uploadReports(ctx context.Context, cfg *config.Config, region string, files []string) error {
	clients, err := awsprov.New(ctx, awsprov.Config{Region: region, Profile: cfg.Profile})
	if err != nil {
		return fmt.Errorf("open upload client: %w", err)
	}

	uploader := report.NewUploader(clients.S3, cfg.S3Bucket)
	for _, path := range files {
		if err := uploader.Upload(ctx, path); err != nil {
			return err
		}
		log.Info().Str("file", path).Str("bucket", cfg.S3Bucket).Msg("report uploaded")
	}
	return nil
}
