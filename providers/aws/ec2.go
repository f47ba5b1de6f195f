package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudtally/cloudtally/types"
)

// EC2Collector inventories EC2 instances joined with their attached volumes.
type EC2Collector struct{}

func (l *EC2Collector) Name() string     { return "ec2" }
func (l *EC2Collector) Global() bool     { return false }
func (l *EC2Collector) Header() []string { return types.EC2Instance{}.Header() }

func (l *EC2Collector) Collect(ctx context.Context, c *Clients, now time.Time) ([]types.Record, []types.ReportError, error) {
	var warnings []types.ReportError

	// Volume join is secondary detail: a failure degrades the report, it
	// does not abort it.
	volumes, err := volumesByInstance(ctx, c.EC2)
	if err != nil {
		warnings = append(warnings, types.ReportError{
			Scope:   c.Region,
			Message: fmt.Sprintf("volume join unavailable: %v", err),
		})
		volumes = nil
	}

	var records []types.Record
	var nextToken *string

	for {
		output, err := c.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{NextToken: nextToken})
		if err != nil {
			return nil, warnings, fmt.Errorf("describe instances: %w", err)
		}

		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				records = append(records, convertEC2Instance(c.Region, instance, volumes, now))
			}
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, warnings, nil
}

type volumeInfo struct {
	count   int
	sizeGiB int32
}

// volumesByInstance sums attached volume count and size per instance.
func volumesByInstance(ctx context.Context, client EC2API) (map[string]volumeInfo, error) {
	byInstance := make(map[string]volumeInfo)
	var nextToken *string

	for {
		output, err := client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("describe volumes: %w", err)
		}

		for _, vol := range output.Volumes {
			for _, att := range vol.Attachments {
				id := aws.ToString(att.InstanceId)
				if id == "" {
					continue
				}
				info := byInstance[id]
				info.count++
				info.sizeGiB += aws.ToInt32(vol.Size)
				byInstance[id] = info
			}
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return byInstance, nil
}

func convertEC2Instance(region string, instance ec2types.Instance, volumes map[string]volumeInfo, now time.Time) types.EC2Instance {
	id := aws.ToString(instance.InstanceId)
	rec := types.EC2Instance{
		Region:       region,
		InstanceID:   id,
		Name:         nameTag(instance.Tags),
		InstanceType: string(instance.InstanceType),
		PrivateIP:    aws.ToString(instance.PrivateIpAddress),
		PublicIP:     aws.ToString(instance.PublicIpAddress),
		Tags:         convertEC2Tags(instance.Tags),
	}
	if instance.State != nil {
		rec.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		rec.AZ = aws.ToString(instance.Placement.AvailabilityZone)
	}
	if instance.LaunchTime != nil {
		launch := instance.LaunchTime.UTC()
		rec.LaunchTime = &launch
		rec.AgeDays = int(now.Sub(launch).Hours() / 24)
	}
	if info, ok := volumes[id]; ok {
		rec.VolumeCount = info.count
		rec.VolumeGiB = info.sizeGiB
	}
	return rec
}
