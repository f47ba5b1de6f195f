// Package types defines the flat record model shared by all reports.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one row of a tabular report.
type Record interface {
	Header() []string
	Row() []string
}

// EC2Instance is one row of the EC2 inventory report.
type EC2Instance struct {
	Region       string            `json:"region"`
	InstanceID   string            `json:"instance_id"`
	Name         string            `json:"name"`
	State        string            `json:"state"`
	InstanceType string            `json:"instance_type"`
	AZ           string            `json:"az"`
	PrivateIP    string            `json:"private_ip"`
	PublicIP     string            `json:"public_ip,omitempty"`
	LaunchTime   *time.Time        `json:"launch_time,omitempty"`
	AgeDays      int               `json:"age_days"`
	VolumeCount  int               `json:"volume_count"`
	VolumeGiB    int32             `json:"volume_gib"`
	Tags         map[string]string `json:"tags,omitempty"`
}

func (r EC2Instance) Header() []string {
	return []string{"Region", "InstanceId", "Name", "State", "InstanceType", "AZ",
		"PrivateIP", "PublicIP", "LaunchTime", "AgeDays", "VolumeCount", "VolumeGiB", "Tags"}
}

func (r EC2Instance) Row() []string {
	return []string{r.Region, r.InstanceID, r.Name, r.State, r.InstanceType, r.AZ,
		r.PrivateIP, r.PublicIP, formatTime(r.LaunchTime), strconv.Itoa(r.AgeDays),
		strconv.Itoa(r.VolumeCount), strconv.Itoa(int(r.VolumeGiB)), FlattenTags(r.Tags)}
}

// RDSInstance is one row of the RDS inventory report.
type RDSInstance struct {
	Region        string     `json:"region"`
	Identifier    string     `json:"identifier"`
	Engine        string     `json:"engine"`
	EngineVersion string     `json:"engine_version"`
	Status        string     `json:"status"`
	InstanceClass string     `json:"instance_class"`
	StorageGiB    int32      `json:"storage_gib"`
	StorageType   string     `json:"storage_type"`
	MultiAZ       bool       `json:"multi_az"`
	Endpoint      string     `json:"endpoint,omitempty"`
	CreateTime    *time.Time `json:"create_time,omitempty"`
	AgeDays       int        `json:"age_days"`
}

func (r RDSInstance) Header() []string {
	return []string{"Region", "DBInstanceIdentifier", "Engine", "EngineVersion", "Status",
		"InstanceClass", "StorageGiB", "StorageType", "MultiAZ", "Endpoint", "CreateTime", "AgeDays"}
}

func (r RDSInstance) Row() []string {
	return []string{r.Region, r.Identifier, r.Engine, r.EngineVersion, r.Status,
		r.InstanceClass, strconv.Itoa(int(r.StorageGiB)), r.StorageType,
		strconv.FormatBool(r.MultiAZ), r.Endpoint, formatTime(r.CreateTime), strconv.Itoa(r.AgeDays)}
}

// IAMUser is one row of the IAM users inventory report.
type IAMUser struct {
	UserName          string     `json:"user_name"`
	ARN               string     `json:"arn"`
	CreateDate        *time.Time `json:"create_date,omitempty"`
	PasswordLastUsed  *time.Time `json:"password_last_used,omitempty"`
	Groups            []string   `json:"groups,omitempty"`
	AttachedPolicies  []string   `json:"attached_policies,omitempty"`
	AccessKeyCount    int        `json:"access_key_count"`
	AccessKeyLastUsed *time.Time `json:"access_key_last_used,omitempty"`
}

func (r IAMUser) Header() []string {
	return []string{"UserName", "Arn", "CreateDate", "PasswordLastUsed",
		"Groups", "AttachedPolicies", "AccessKeyCount", "AccessKeyLastUsed"}
}

func (r IAMUser) Row() []string {
	return []string{r.UserName, r.ARN, formatTime(r.CreateDate), formatTime(r.PasswordLastUsed),
		strings.Join(r.Groups, ";"), strings.Join(r.AttachedPolicies, ";"),
		strconv.Itoa(r.AccessKeyCount), formatTime(r.AccessKeyLastUsed)}
}

// S3Bucket is one row of the S3 inventory report.
type S3Bucket struct {
	Bucket     string            `json:"bucket"`
	Region     string            `json:"region"`
	CreateDate *time.Time        `json:"create_date,omitempty"`
	Versioning string            `json:"versioning"`
	Encryption string            `json:"encryption"`
	Tags       map[string]string `json:"tags,omitempty"`
}

func (r S3Bucket) Header() []string {
	return []string{"Bucket", "Region", "CreateDate", "Versioning", "Encryption", "Tags"}
}

func (r S3Bucket) Row() []string {
	return []string{r.Bucket, r.Region, formatTime(r.CreateDate),
		r.Versioning, r.Encryption, FlattenTags(r.Tags)}
}

// S3SecurityFinding is one row of the bucket security report.
type S3SecurityFinding struct {
	Bucket       string `json:"bucket"`
	PublicAccess string `json:"public_access"`
	ACLPublic    bool   `json:"acl_public"`
	PolicyPublic bool   `json:"policy_public"`
	Encryption   string `json:"encryption"`
	Versioning   string `json:"versioning"`
	Logging      string `json:"logging"`
	Severity     string `json:"severity"`
}

func (r S3SecurityFinding) Header() []string {
	return []string{"Bucket", "PublicAccess", "ACLPublic", "PolicyPublic",
		"Encryption", "Versioning", "Logging", "Severity"}
}

func (r S3SecurityFinding) Row() []string {
	return []string{r.Bucket, r.PublicAccess, strconv.FormatBool(r.ACLPublic),
		strconv.FormatBool(r.PolicyPublic), r.Encryption, r.Versioning, r.Logging, r.Severity}
}

// IAMEntity is one row of the IAM catalog report. Groups, roles and
// managed policies share the flat shape; Details carries the fields
// specific to one entity kind.
type IAMEntity struct {
	EntityType      string     `json:"entity_type"`
	Name            string     `json:"name"`
	ARN             string     `json:"arn"`
	CreateDate      *time.Time `json:"create_date,omitempty"`
	ManagedPolicies []string   `json:"managed_policies,omitempty"`
	InlinePolicies  []string   `json:"inline_policies,omitempty"`
	Details         string     `json:"details,omitempty"`
}

func (r IAMEntity) Header() []string {
	return []string{"EntityType", "Name", "Arn", "CreateDate",
		"ManagedPolicies", "InlinePolicies", "Details"}
}

func (r IAMEntity) Row() []string {
	return []string{r.EntityType, r.Name, r.ARN, formatTime(r.CreateDate),
		strings.Join(r.ManagedPolicies, ";"), strings.Join(r.InlinePolicies, ";"), r.Details}
}

// ECRFinding is one image scan finding flattened to a row.
type ECRFinding struct {
	Region         string `json:"region"`
	Repository     string `json:"repository"`
	ImageDigest    string `json:"image_digest"`
	Severity       string `json:"severity"`
	FindingName    string `json:"finding_name"`
	PackageName    string `json:"package_name,omitempty"`
	PackageVersion string `json:"package_version,omitempty"`
	URI            string `json:"uri,omitempty"`
}

func (r ECRFinding) Header() []string {
	return []string{"Region", "Repository", "ImageDigest", "Severity",
		"Finding", "PackageName", "PackageVersion", "URI"}
}

func (r ECRFinding) Row() []string {
	return []string{r.Region, r.Repository, r.ImageDigest, r.Severity,
		r.FindingName, r.PackageName, r.PackageVersion, r.URI}
}

// UnusedResource is one row of the cleanup audit report.
type UnusedResource struct {
	Region         string  `json:"region"`
	ResourceType   string  `json:"resource_type"`
	ResourceID     string  `json:"resource_id"`
	Name           string  `json:"name,omitempty"`
	Details        string  `json:"details"`
	Severity       string  `json:"severity"`
	MonthlyCostUSD float64 `json:"monthly_cost_usd"`
}

func (r UnusedResource) Header() []string {
	return []string{"Region", "ResourceType", "ResourceId", "Name", "Details", "Severity", "MonthlyCostUSD"}
}

func (r UnusedResource) Row() []string {
	return []string{r.Region, r.ResourceType, r.ResourceID, r.Name, r.Details,
		r.Severity, fmt.Sprintf("%.2f", r.MonthlyCostUSD)}
}

// ReportError is a scope- or resource-level failure, reported next to the
// result table rather than aborting the run.
type ReportError struct {
	Scope    string `json:"scope"`
	Resource string `json:"resource,omitempty"` // empty for scope-level failures
	Message  string `json:"message"`
}

func (e ReportError) Header() []string {
	return []string{"Scope", "Resource", "Error"}
}

func (e ReportError) Row() []string {
	resource := e.Resource
	if resource == "" {
		resource = "-"
	}
	return []string{e.Scope, resource, e.Message}
}

// FlattenTags renders a tag map as "k=v;k=v" with stable key order.
func FlattenTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+tags[k])
	}
	return strings.Join(parts, ";")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format(time.RFC3339)
}
