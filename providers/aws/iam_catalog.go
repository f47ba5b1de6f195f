package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/cloudtally/cloudtally/types"
)

// awsManagedPolicyPrefix identifies policies owned by AWS rather than
// the account.
const awsManagedPolicyPrefix = "arn:aws:iam::aws:policy/"

// IAMCatalogCollector inventories the account's groups, roles and
// managed policies in one flat report. IAM is account-global, so this
// runs once per run.
type IAMCatalogCollector struct{}

func (l *IAMCatalogCollector) Name() string     { return "iamcatalog" }
func (l *IAMCatalogCollector) Global() bool     { return true }
func (l *IAMCatalogCollector) Header() []string { return types.IAMEntity{}.Header() }

func (l *IAMCatalogCollector) Collect(ctx context.Context, c *Clients, _ time.Time) ([]types.Record, []types.ReportError, error) {
	var records []types.Record
	var warnings []types.ReportError

	warn := func(err error, resource, what string) {
		warnings = append(warnings, types.ReportError{
			Scope:    "iamcatalog",
			Resource: resource,
			Message:  fmt.Sprintf("%s: %v", what, err),
		})
	}

	groups, err := l.groups(ctx, c.IAM, warn)
	if err != nil {
		return nil, nil, err
	}
	records = append(records, groups...)

	roles, err := l.roles(ctx, c.IAM, warn)
	if err != nil {
		return nil, nil, err
	}
	records = append(records, roles...)

	policies, err := l.policies(ctx, c.IAM)
	if err != nil {
		return nil, nil, err
	}
	records = append(records, policies...)

	return records, warnings, nil
}

func (l *IAMCatalogCollector) groups(ctx context.Context, client IAMAPI, warn func(error, string, string)) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := client.ListGroups(ctx, &iam.ListGroupsInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}

		for _, group := range output.Groups {
			name := aws.ToString(group.GroupName)
			rec := types.IAMEntity{
				EntityType: "group",
				Name:       name,
				ARN:        aws.ToString(group.Arn),
			}
			if group.CreateDate != nil {
				created := group.CreateDate.UTC()
				rec.CreateDate = &created
			}

			// Policy joins are best-effort detail.
			attached, err := client.ListAttachedGroupPolicies(ctx, &iam.ListAttachedGroupPoliciesInput{
				GroupName: group.GroupName,
			})
			if err != nil {
				warn(err, name, "list attached group policies")
			} else {
				for _, p := range attached.AttachedPolicies {
					rec.ManagedPolicies = append(rec.ManagedPolicies, aws.ToString(p.PolicyName))
				}
			}

			inline, err := client.ListGroupPolicies(ctx, &iam.ListGroupPoliciesInput{
				GroupName: group.GroupName,
			})
			if err != nil {
				warn(err, name, "list group policies")
			} else {
				rec.InlinePolicies = inline.PolicyNames
			}

			records = append(records, rec)
		}

		if !output.IsTruncated {
			break
		}
		marker = output.Marker
	}

	return records, nil
}

func (l *IAMCatalogCollector) roles(ctx context.Context, client IAMAPI, warn func(error, string, string)) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := client.ListRoles(ctx, &iam.ListRolesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("list roles: %w", err)
		}

		for _, role := range output.Roles {
			name := aws.ToString(role.RoleName)
			rec := types.IAMEntity{
				EntityType: "role",
				Name:       name,
				ARN:        aws.ToString(role.Arn),
				Details:    fmt.Sprintf("Path=%s", aws.ToString(role.Path)),
			}
			if role.CreateDate != nil {
				created := role.CreateDate.UTC()
				rec.CreateDate = &created
			}

			attached, err := client.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
				RoleName: role.RoleName,
			})
			if err != nil {
				warn(err, name, "list attached role policies")
			} else {
				for _, p := range attached.AttachedPolicies {
					rec.ManagedPolicies = append(rec.ManagedPolicies, aws.ToString(p.PolicyName))
				}
			}

			inline, err := client.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
				RoleName: role.RoleName,
			})
			if err != nil {
				warn(err, name, "list role policies")
			} else {
				rec.InlinePolicies = inline.PolicyNames
			}

			records = append(records, rec)
		}

		if !output.IsTruncated {
			break
		}
		marker = output.Marker
	}

	return records, nil
}

func (l *IAMCatalogCollector) policies(ctx context.Context, client IAMAPI) ([]types.Record, error) {
	var records []types.Record
	var marker *string

	for {
		output, err := client.ListPolicies(ctx, &iam.ListPoliciesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("list policies: %w", err)
		}

		for _, policy := range output.Policies {
			arn := aws.ToString(policy.Arn)
			rec := types.IAMEntity{
				EntityType: "policy",
				Name:       aws.ToString(policy.PolicyName),
				ARN:        arn,
				Details: fmt.Sprintf("Path=%s, Attachments=%d, Version=%s, AWSManaged=%t",
					aws.ToString(policy.Path),
					aws.ToInt32(policy.AttachmentCount),
					aws.ToString(policy.DefaultVersionId),
					strings.HasPrefix(arn, awsManagedPolicyPrefix)),
			}
			if policy.CreateDate != nil {
				created := policy.CreateDate.UTC()
				rec.CreateDate = &created
			}
			records = append(records, rec)
		}

		if !output.IsTruncated {
			break
		}
		marker = output.Marker
	}

	return records, nil
}
