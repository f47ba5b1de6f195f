package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/cloudtally/cloudtally/types"
)

// RDSCollector inventories RDS database instances.
type RDSCollector struct{}

func (l *RDSCollector) Name() string     { return "rds" }
func (l *RDSCollector) Global() bool     { return false }
func (l *RDSCollector) Header() []string { return types.RDSInstance{}.Header() }

func (l *RDSCollector) Collect(ctx context.Context, c *Clients, now time.Time) ([]types.Record, []types.ReportError, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := c.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{Marker: marker})
		if err != nil {
			return nil, nil, fmt.Errorf("describe db instances: %w", err)
		}

		for _, instance := range output.DBInstances {
			records = append(records, convertRDSInstance(c.Region, instance, now))
		}

		if output.Marker == nil {
			break
		}
		marker = output.Marker
	}

	return records, nil, nil
}

func convertRDSInstance(region string, instance rdstypes.DBInstance, now time.Time) types.RDSInstance {
	rec := types.RDSInstance{
		Region:        region,
		Identifier:    aws.ToString(instance.DBInstanceIdentifier),
		Engine:        aws.ToString(instance.Engine),
		EngineVersion: aws.ToString(instance.EngineVersion),
		Status:        aws.ToString(instance.DBInstanceStatus),
		InstanceClass: aws.ToString(instance.DBInstanceClass),
		StorageGiB:    aws.ToInt32(instance.AllocatedStorage),
		StorageType:   aws.ToString(instance.StorageType),
		MultiAZ:       aws.ToBool(instance.MultiAZ),
	}
	if instance.Endpoint != nil {
		rec.Endpoint = fmt.Sprintf("%s:%d",
			aws.ToString(instance.Endpoint.Address),
			aws.ToInt32(instance.Endpoint.Port))
	}
	if instance.InstanceCreateTime != nil {
		created := instance.InstanceCreateTime.UTC()
		rec.CreateTime = &created
		rec.AgeDays = int(now.Sub(created).Hours() / 24)
	}
	return rec
}
