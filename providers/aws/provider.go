// Package aws implements the provider adapters for all reports.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// maxRetryAttempts is the standard-mode retry budget for every client.
const maxRetryAttempts = 5

// Config selects the region and optional shared credentials profile.
type Config struct {
	Region  string
	Profile string
}

// Clients bundles the per-region service clients behind narrow interfaces.
// Lifecycle is owned by the caller; nothing here holds global state.
type Clients struct {
	Region string

	CodeBuild CodeBuildAPI
	EC2       EC2API
	RDS       RDSAPI
	IAM       IAMAPI
	S3        S3API
	ECR       ECRAPI
	ELB       ELBAPI
	ELBV2     ELBV2API
	STS       STSAPI
}

// New builds the client bundle for one region.
func New(ctx context.Context, cfg Config) (*Clients, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = maxRetryAttempts
			})
		}),
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Clients{
		Region:    cfg.Region,
		CodeBuild: codebuild.NewFromConfig(awsCfg),
		EC2:       ec2.NewFromConfig(awsCfg),
		RDS:       rds.NewFromConfig(awsCfg),
		IAM:       iam.NewFromConfig(awsCfg),
		S3:        s3.NewFromConfig(awsCfg),
		ECR:       ecr.NewFromConfig(awsCfg),
		ELB:       elasticloadbalancing.NewFromConfig(awsCfg),
		ELBV2:     elasticloadbalancingv2.NewFromConfig(awsCfg),
		STS:       sts.NewFromConfig(awsCfg),
	}, nil
}

// AccountID resolves the caller's account ID.
func (c *Clients) AccountID(ctx context.Context) (string, error) {
	output, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	return aws.ToString(output.Account), nil
}
