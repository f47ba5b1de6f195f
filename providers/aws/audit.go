package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/cloudtally/cloudtally/cost"
	"github.com/cloudtally/cloudtally/types"
)

// snapshotAgeDays is how old a snapshot must be to count as forgotten.
const snapshotAgeDays = 90

// largeRDSStorageGiB is the allocated storage above which an RDS instance
// is worth a closer look.
const largeRDSStorageGiB = 100

// AuditCollector finds idle resources that still cost money: unattached
// EBS volumes, old snapshots, unassociated Elastic IPs, stopped EC2
// instances, load balancers with nothing behind them, and RDS instances
// reviewed by status and size.
type AuditCollector struct {
	Estimator *cost.Estimator
}

func (l *AuditCollector) Name() string     { return "audit" }
func (l *AuditCollector) Global() bool     { return false }
func (l *AuditCollector) Header() []string { return types.UnusedResource{}.Header() }

func (l *AuditCollector) Collect(ctx context.Context, c *Clients, now time.Time) ([]types.Record, []types.ReportError, error) {
	var records []types.Record
	var warnings []types.ReportError

	volumes, err := l.unattachedVolumes(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	records = append(records, volumes...)

	// The remaining checks are independent: one failing degrades the
	// report rather than aborting it.
	checks := []struct {
		what string
		run  func(context.Context, *Clients) ([]types.Record, error)
	}{
		{"snapshot audit", func(ctx context.Context, c *Clients) ([]types.Record, error) {
			return l.oldSnapshots(ctx, c, now)
		}},
		{"elastic ip audit", l.idleElasticIPs},
		{"stopped instance audit", l.stoppedInstances},
		{"load balancer audit", l.unusedLoadBalancers},
		{"rds audit", l.rdsReview},
	}

	for _, check := range checks {
		rows, err := check.run(ctx, c)
		if err != nil {
			warnings = append(warnings, types.ReportError{
				Scope:   c.Region,
				Message: fmt.Sprintf("%s: %v", check.what, err),
			})
			continue
		}
		records = append(records, rows...)
	}

	return records, warnings, nil
}

func (l *AuditCollector) unattachedVolumes(ctx context.Context, c *Clients) ([]types.Record, error) {
	var records []types.Record
	var nextToken *string

	input := &ec2.DescribeVolumesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("status"), Values: []string{"available"}},
		},
	}

	for {
		input.NextToken = nextToken
		output, err := c.EC2.DescribeVolumes(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("describe volumes: %w", err)
		}

		for _, vol := range output.Volumes {
			size := aws.ToInt32(vol.Size)
			records = append(records, types.UnusedResource{
				Region:       c.Region,
				ResourceType: "EBS Volume",
				ResourceID:   aws.ToString(vol.VolumeId),
				Name:         nameTag(vol.Tags),
				Details: fmt.Sprintf("Size=%dGiB, Type=%s, AZ=%s",
					size, string(vol.VolumeType), aws.ToString(vol.AvailabilityZone)),
				Severity:       "High",
				MonthlyCostUSD: l.Estimator.VolumeMonthly(string(vol.VolumeType), size),
			})
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, nil
}

func (l *AuditCollector) oldSnapshots(ctx context.Context, c *Clients, now time.Time) ([]types.Record, error) {
	cutoff := now.UTC().AddDate(0, 0, -snapshotAgeDays)

	var records []types.Record
	var nextToken *string

	for {
		output, err := c.EC2.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
			OwnerIds:  []string{"self"},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("describe snapshots: %w", err)
		}

		for _, snap := range output.Snapshots {
			if snap.StartTime == nil || !snap.StartTime.Before(cutoff) {
				continue
			}
			size := aws.ToInt32(snap.VolumeSize)
			records = append(records, types.UnusedResource{
				Region:       c.Region,
				ResourceType: "EBS Snapshot",
				ResourceID:   aws.ToString(snap.SnapshotId),
				Name:         nameTag(snap.Tags),
				Details: fmt.Sprintf("Volume=%s, Size=%dGiB, Started=%s",
					aws.ToString(snap.VolumeId), size, snap.StartTime.UTC().Format("2006-01-02")),
				Severity:       "Medium",
				MonthlyCostUSD: l.Estimator.SnapshotMonthly(size),
			})
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, nil
}

func (l *AuditCollector) idleElasticIPs(ctx context.Context, c *Clients) ([]types.Record, error) {
	output, err := c.EC2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses: %w", err)
	}

	var records []types.Record
	for _, addr := range output.Addresses {
		if addr.AssociationId != nil {
			continue
		}
		records = append(records, types.UnusedResource{
			Region:         c.Region,
			ResourceType:   "Elastic IP",
			ResourceID:     aws.ToString(addr.AllocationId),
			Name:           aws.ToString(addr.PublicIp),
			Details:        fmt.Sprintf("Domain=%s", string(addr.Domain)),
			Severity:       "High",
			MonthlyCostUSD: l.Estimator.ElasticIPMonthly(),
		})
	}

	return records, nil
}

func (l *AuditCollector) stoppedInstances(ctx context.Context, c *Clients) ([]types.Record, error) {
	var records []types.Record
	var nextToken *string

	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"stopped"}},
		},
	}

	for {
		input.NextToken = nextToken
		output, err := c.EC2.DescribeInstances(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}

		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				az := ""
				if instance.Placement != nil {
					az = aws.ToString(instance.Placement.AvailabilityZone)
				}
				records = append(records, types.UnusedResource{
					Region:       c.Region,
					ResourceType: "EC2 Instance",
					ResourceID:   aws.ToString(instance.InstanceId),
					Name:         nameTag(instance.Tags),
					Details: fmt.Sprintf("Type=%s, AZ=%s, State=stopped",
						string(instance.InstanceType), az),
					Severity: "Medium",
				})
			}
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return records, nil
}

// unusedLoadBalancers flags classic ELBs with no instances attached and
// ALB/NLBs whose target groups have no registered targets.
func (l *AuditCollector) unusedLoadBalancers(ctx context.Context, c *Clients) ([]types.Record, error) {
	records, err := l.idleClassicELBs(ctx, c)
	if err != nil {
		return nil, err
	}

	v2, err := l.idleV2LoadBalancers(ctx, c)
	if err != nil {
		return nil, err
	}
	return append(records, v2...), nil
}

func (l *AuditCollector) idleClassicELBs(ctx context.Context, c *Clients) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := c.ELB.DescribeLoadBalancers(ctx, &elasticloadbalancing.DescribeLoadBalancersInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("describe classic load balancers: %w", err)
		}

		for _, lb := range output.LoadBalancerDescriptions {
			if len(lb.Instances) > 0 {
				continue
			}
			records = append(records, types.UnusedResource{
				Region:       c.Region,
				ResourceType: "Classic ELB",
				ResourceID:   aws.ToString(lb.LoadBalancerName),
				Name:         aws.ToString(lb.LoadBalancerName),
				Details:      "No instances attached",
				Severity:     "High",
			})
		}

		if output.NextMarker == nil {
			break
		}
		marker = output.NextMarker
	}

	return records, nil
}

func (l *AuditCollector) idleV2LoadBalancers(ctx context.Context, c *Clients) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := c.ELBV2.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("describe load balancers: %w", err)
		}

		for _, lb := range output.LoadBalancers {
			reason, err := l.v2IdleReason(ctx, c, aws.ToString(lb.LoadBalancerArn))
			if err != nil {
				return nil, err
			}
			if reason == "" {
				continue
			}
			records = append(records, types.UnusedResource{
				Region:       c.Region,
				ResourceType: fmt.Sprintf("%s Load Balancer", string(lb.Type)),
				ResourceID:   aws.ToString(lb.LoadBalancerArn),
				Name:         aws.ToString(lb.LoadBalancerName),
				Details:      reason,
				Severity:     "High",
			})
		}

		if output.NextMarker == nil {
			break
		}
		marker = output.NextMarker
	}

	return records, nil
}

// v2IdleReason returns why the load balancer counts as unused, or ""
// when any of its target groups has a registered target.
func (l *AuditCollector) v2IdleReason(ctx context.Context, c *Clients, lbArn string) (string, error) {
	groups, err := c.ELBV2.DescribeTargetGroups(ctx, &elasticloadbalancingv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbArn),
	})
	if err != nil {
		return "", fmt.Errorf("describe target groups: %w", err)
	}
	if len(groups.TargetGroups) == 0 {
		return "No target groups", nil
	}

	for _, tg := range groups.TargetGroups {
		health, err := c.ELBV2.DescribeTargetHealth(ctx, &elasticloadbalancingv2.DescribeTargetHealthInput{
			TargetGroupArn: tg.TargetGroupArn,
		})
		if err != nil {
			return "", fmt.Errorf("describe target health: %w", err)
		}
		if len(health.TargetHealthDescriptions) > 0 {
			return "", nil
		}
	}
	return "No targets registered", nil
}

// rdsReview rows every database instance so the audit shows where the
// RDS spend sits. Severity grades the row: not-available status first,
// then large allocated storage.
func (l *AuditCollector) rdsReview(ctx context.Context, c *Clients) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := c.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("describe db instances: %w", err)
		}

		for _, instance := range output.DBInstances {
			status := aws.ToString(instance.DBInstanceStatus)
			storage := aws.ToInt32(instance.AllocatedStorage)

			severity := "Low"
			switch {
			case status != "available":
				severity = "Medium"
			case storage > largeRDSStorageGiB:
				severity = "High"
			}

			records = append(records, types.UnusedResource{
				Region:       c.Region,
				ResourceType: "RDS Instance",
				ResourceID:   aws.ToString(instance.DBInstanceIdentifier),
				Name:         aws.ToString(instance.DBInstanceIdentifier),
				Details: fmt.Sprintf("%s %s Status=%s Storage=%dGiB",
					aws.ToString(instance.Engine), aws.ToString(instance.DBInstanceClass),
					status, storage),
				Severity: severity,
			})
		}

		if output.Marker == nil {
			break
		}
		marker = output.Marker
	}

	return records, nil
}
