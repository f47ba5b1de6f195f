package aws

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var errNotImplemented = errors.New("not implemented in mock")

// collectNow is the fixed run timestamp used across collector tests.
var collectNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// mockEC2 implements EC2API with injectable behavior.
type mockEC2 struct {
	describeInstancesFunc func(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	describeVolumesFunc   func(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	describeSnapshotsFunc func(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	describeAddressesFunc func(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	describeRegionsFunc   func(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

func (m *mockEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if m.describeInstancesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeInstancesFunc(ctx, params, optFns...)
}

func (m *mockEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if m.describeVolumesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeVolumesFunc(ctx, params, optFns...)
}

func (m *mockEC2) DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	if m.describeSnapshotsFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeSnapshotsFunc(ctx, params, optFns...)
}

func (m *mockEC2) DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if m.describeAddressesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeAddressesFunc(ctx, params, optFns...)
}

func (m *mockEC2) DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if m.describeRegionsFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeRegionsFunc(ctx, params, optFns...)
}

// mockRDS implements RDSAPI with injectable behavior.
type mockRDS struct {
	describeDBInstancesFunc func(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

func (m *mockRDS) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if m.describeDBInstancesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeDBInstancesFunc(ctx, params, optFns...)
}

// mockELB implements ELBAPI with injectable behavior.
type mockELB struct {
	describeLoadBalancersFunc func(ctx context.Context, params *elasticloadbalancing.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancing.Options)) (*elasticloadbalancing.DescribeLoadBalancersOutput, error)
}

func (m *mockELB) DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancing.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancing.Options)) (*elasticloadbalancing.DescribeLoadBalancersOutput, error) {
	if m.describeLoadBalancersFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeLoadBalancersFunc(ctx, params, optFns...)
}

// mockELBV2 implements ELBV2API with injectable behavior.
type mockELBV2 struct {
	describeLoadBalancersFunc func(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	describeTargetGroupsFunc  func(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error)
	describeTargetHealthFunc  func(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetHealthInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error)
}

func (m *mockELBV2) DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	if m.describeLoadBalancersFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeLoadBalancersFunc(ctx, params, optFns...)
}

func (m *mockELBV2) DescribeTargetGroups(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error) {
	if m.describeTargetGroupsFunc == nil {
		return &elasticloadbalancingv2.DescribeTargetGroupsOutput{}, nil
	}
	return m.describeTargetGroupsFunc(ctx, params, optFns...)
}

func (m *mockELBV2) DescribeTargetHealth(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetHealthInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error) {
	if m.describeTargetHealthFunc == nil {
		return &elasticloadbalancingv2.DescribeTargetHealthOutput{}, nil
	}
	return m.describeTargetHealthFunc(ctx, params, optFns...)
}

// mockIAM implements IAMAPI with injectable behavior.
type mockIAM struct {
	listUsersFunc                func(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	listGroupsForUserFunc        func(ctx context.Context, params *iam.ListGroupsForUserInput, optFns ...func(*iam.Options)) (*iam.ListGroupsForUserOutput, error)
	listAttachedUserPoliciesFunc func(ctx context.Context, params *iam.ListAttachedUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedUserPoliciesOutput, error)
	listAccessKeysFunc           func(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
	getAccessKeyLastUsedFunc     func(ctx context.Context, params *iam.GetAccessKeyLastUsedInput, optFns ...func(*iam.Options)) (*iam.GetAccessKeyLastUsedOutput, error)
	listGroupsFunc               func(ctx context.Context, params *iam.ListGroupsInput, optFns ...func(*iam.Options)) (*iam.ListGroupsOutput, error)
	listAttachedGroupPolsFunc    func(ctx context.Context, params *iam.ListAttachedGroupPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedGroupPoliciesOutput, error)
	listGroupPoliciesFunc        func(ctx context.Context, params *iam.ListGroupPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListGroupPoliciesOutput, error)
	listRolesFunc                func(ctx context.Context, params *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error)
	listAttachedRolePolsFunc     func(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error)
	listRolePoliciesFunc         func(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error)
	listPoliciesFunc             func(ctx context.Context, params *iam.ListPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListPoliciesOutput, error)
}

func (m *mockIAM) ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error) {
	if m.listUsersFunc == nil {
		return nil, errNotImplemented
	}
	return m.listUsersFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListGroupsForUser(ctx context.Context, params *iam.ListGroupsForUserInput, optFns ...func(*iam.Options)) (*iam.ListGroupsForUserOutput, error) {
	if m.listGroupsForUserFunc == nil {
		return &iam.ListGroupsForUserOutput{}, nil
	}
	return m.listGroupsForUserFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListAttachedUserPolicies(ctx context.Context, params *iam.ListAttachedUserPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedUserPoliciesOutput, error) {
	if m.listAttachedUserPoliciesFunc == nil {
		return &iam.ListAttachedUserPoliciesOutput{}, nil
	}
	return m.listAttachedUserPoliciesFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error) {
	if m.listAccessKeysFunc == nil {
		return &iam.ListAccessKeysOutput{}, nil
	}
	return m.listAccessKeysFunc(ctx, params, optFns...)
}

func (m *mockIAM) GetAccessKeyLastUsed(ctx context.Context, params *iam.GetAccessKeyLastUsedInput, optFns ...func(*iam.Options)) (*iam.GetAccessKeyLastUsedOutput, error) {
	if m.getAccessKeyLastUsedFunc == nil {
		return &iam.GetAccessKeyLastUsedOutput{}, nil
	}
	return m.getAccessKeyLastUsedFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListGroups(ctx context.Context, params *iam.ListGroupsInput, optFns ...func(*iam.Options)) (*iam.ListGroupsOutput, error) {
	if m.listGroupsFunc == nil {
		return &iam.ListGroupsOutput{}, nil
	}
	return m.listGroupsFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListAttachedGroupPolicies(ctx context.Context, params *iam.ListAttachedGroupPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedGroupPoliciesOutput, error) {
	if m.listAttachedGroupPolsFunc == nil {
		return &iam.ListAttachedGroupPoliciesOutput{}, nil
	}
	return m.listAttachedGroupPolsFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListGroupPolicies(ctx context.Context, params *iam.ListGroupPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListGroupPoliciesOutput, error) {
	if m.listGroupPoliciesFunc == nil {
		return &iam.ListGroupPoliciesOutput{}, nil
	}
	return m.listGroupPoliciesFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListRoles(ctx context.Context, params *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error) {
	if m.listRolesFunc == nil {
		return &iam.ListRolesOutput{}, nil
	}
	return m.listRolesFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	if m.listAttachedRolePolsFunc == nil {
		return &iam.ListAttachedRolePoliciesOutput{}, nil
	}
	return m.listAttachedRolePolsFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListRolePolicies(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error) {
	if m.listRolePoliciesFunc == nil {
		return &iam.ListRolePoliciesOutput{}, nil
	}
	return m.listRolePoliciesFunc(ctx, params, optFns...)
}

func (m *mockIAM) ListPolicies(ctx context.Context, params *iam.ListPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListPoliciesOutput, error) {
	if m.listPoliciesFunc == nil {
		return &iam.ListPoliciesOutput{}, nil
	}
	return m.listPoliciesFunc(ctx, params, optFns...)
}

// mockS3 implements S3API with injectable behavior.
type mockS3 struct {
	listBucketsFunc         func(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	getBucketLocationFunc   func(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	getBucketVersioningFunc func(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	getBucketEncryptionFunc func(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
	getBucketTaggingFunc    func(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
	getPolicyStatusFunc     func(ctx context.Context, params *s3.GetBucketPolicyStatusInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyStatusOutput, error)
	getBucketAclFunc        func(ctx context.Context, params *s3.GetBucketAclInput, optFns ...func(*s3.Options)) (*s3.GetBucketAclOutput, error)
	getBucketLoggingFunc    func(ctx context.Context, params *s3.GetBucketLoggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketLoggingOutput, error)
	putObjectFunc           func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if m.listBucketsFunc == nil {
		return nil, errNotImplemented
	}
	return m.listBucketsFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	if m.getBucketLocationFunc == nil {
		return &s3.GetBucketLocationOutput{}, nil
	}
	return m.getBucketLocationFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	if m.getBucketVersioningFunc == nil {
		return &s3.GetBucketVersioningOutput{}, nil
	}
	return m.getBucketVersioningFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error) {
	if m.getBucketEncryptionFunc == nil {
		return &s3.GetBucketEncryptionOutput{}, nil
	}
	return m.getBucketEncryptionFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error) {
	if m.getBucketTaggingFunc == nil {
		return &s3.GetBucketTaggingOutput{}, nil
	}
	return m.getBucketTaggingFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketPolicyStatus(ctx context.Context, params *s3.GetBucketPolicyStatusInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyStatusOutput, error) {
	if m.getPolicyStatusFunc == nil {
		return &s3.GetBucketPolicyStatusOutput{}, nil
	}
	return m.getPolicyStatusFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketAcl(ctx context.Context, params *s3.GetBucketAclInput, optFns ...func(*s3.Options)) (*s3.GetBucketAclOutput, error) {
	if m.getBucketAclFunc == nil {
		return &s3.GetBucketAclOutput{}, nil
	}
	return m.getBucketAclFunc(ctx, params, optFns...)
}

func (m *mockS3) GetBucketLogging(ctx context.Context, params *s3.GetBucketLoggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketLoggingOutput, error) {
	if m.getBucketLoggingFunc == nil {
		return &s3.GetBucketLoggingOutput{}, nil
	}
	return m.getBucketLoggingFunc(ctx, params, optFns...)
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObjectFunc == nil {
		return nil, errNotImplemented
	}
	return m.putObjectFunc(ctx, params, optFns...)
}

// mockECR implements ECRAPI with injectable behavior.
type mockECR struct {
	describeRepositoriesFunc      func(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	describeImagesFunc            func(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
	describeImageScanFindingsFunc func(ctx context.Context, params *ecr.DescribeImageScanFindingsInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImageScanFindingsOutput, error)
}

func (m *mockECR) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	if m.describeRepositoriesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeRepositoriesFunc(ctx, params, optFns...)
}

func (m *mockECR) DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	if m.describeImagesFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeImagesFunc(ctx, params, optFns...)
}

func (m *mockECR) DescribeImageScanFindings(ctx context.Context, params *ecr.DescribeImageScanFindingsInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImageScanFindingsOutput, error) {
	if m.describeImageScanFindingsFunc == nil {
		return nil, errNotImplemented
	}
	return m.describeImageScanFindingsFunc(ctx, params, optFns...)
}
