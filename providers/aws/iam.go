package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/cloudtally/cloudtally/types"
)

// IAMCollector inventories IAM users with groups, policies and key usage.
// IAM is account-global, so this runs once per run.
type IAMCollector struct{}

func (l *IAMCollector) Name() string     { return "iam" }
func (l *IAMCollector) Global() bool     { return true }
func (l *IAMCollector) Header() []string { return types.IAMUser{}.Header() }

func (l *IAMCollector) Collect(ctx context.Context, c *Clients, _ time.Time) ([]types.Record, []types.ReportError, error) {
	users, err := listAllUsers(ctx, c.IAM)
	if err != nil {
		return nil, nil, err
	}

	var records []types.Record
	var warnings []types.ReportError

	for _, user := range users {
		rec, warns := l.enrichUser(ctx, c.IAM, user)
		records = append(records, rec)
		warnings = append(warnings, warns...)
	}

	return records, warnings, nil
}

// enrichUser joins the per-user secondary lookups. Each lookup is
// best-effort: a failure leaves the field empty and records a warning.
func (l *IAMCollector) enrichUser(ctx context.Context, client IAMAPI, user iamtypes.User) (types.IAMUser, []types.ReportError) {
	name := aws.ToString(user.UserName)
	rec := types.IAMUser{
		UserName: name,
		ARN:      aws.ToString(user.Arn),
	}
	if user.CreateDate != nil {
		created := user.CreateDate.UTC()
		rec.CreateDate = &created
	}
	if user.PasswordLastUsed != nil {
		used := user.PasswordLastUsed.UTC()
		rec.PasswordLastUsed = &used
	}

	var warnings []types.ReportError
	warn := func(err error, what string) {
		warnings = append(warnings, types.ReportError{
			Scope:    "iam",
			Resource: name,
			Message:  fmt.Sprintf("%s: %v", what, err),
		})
	}

	groups, err := client.ListGroupsForUser(ctx, &iam.ListGroupsForUserInput{UserName: user.UserName})
	if err != nil {
		warn(err, "list groups")
	} else {
		for _, g := range groups.Groups {
			rec.Groups = append(rec.Groups, aws.ToString(g.GroupName))
		}
	}

	policies, err := client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{UserName: user.UserName})
	if err != nil {
		warn(err, "list attached policies")
	} else {
		for _, p := range policies.AttachedPolicies {
			rec.AttachedPolicies = append(rec.AttachedPolicies, aws.ToString(p.PolicyName))
		}
	}

	keys, err := client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{UserName: user.UserName})
	if err != nil {
		warn(err, "list access keys")
		return rec, warnings
	}

	rec.AccessKeyCount = len(keys.AccessKeyMetadata)
	rec.AccessKeyLastUsed = l.latestKeyUse(ctx, client, keys.AccessKeyMetadata, warn)

	return rec, warnings
}

// latestKeyUse returns the most recent last-used time across all access keys.
func (l *IAMCollector) latestKeyUse(
	ctx context.Context,
	client IAMAPI,
	keys []iamtypes.AccessKeyMetadata,
	warn func(error, string),
) *time.Time {
	var latest *time.Time
	for _, key := range keys {
		output, err := client.GetAccessKeyLastUsed(ctx, &iam.GetAccessKeyLastUsedInput{
			AccessKeyId: key.AccessKeyId,
		})
		if err != nil {
			warn(err, "get key last used")
			continue
		}
		if output.AccessKeyLastUsed == nil || output.AccessKeyLastUsed.LastUsedDate == nil {
			continue
		}
		used := output.AccessKeyLastUsed.LastUsedDate.UTC()
		if latest == nil || used.After(*latest) {
			latest = &used
		}
	}
	return latest
}

func listAllUsers(ctx context.Context, client IAMAPI) ([]iamtypes.User, error) {
	var users []iamtypes.User
	var marker *string

	for {
		output, err := client.ListUsers(ctx, &iam.ListUsersInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}

		users = append(users, output.Users...)

		if !output.IsTruncated {
			break
		}
		marker = output.Marker
	}

	return users, nil
}
