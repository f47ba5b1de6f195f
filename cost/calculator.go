// Package cost estimates monthly cost of idle resources from a static
// price table. Figures are us-east-1 list prices; they rank cleanup
// candidates, they are not a bill.
package cost

// PricingInfo is a static per-unit price.
type PricingInfo struct {
	ResourceType string  `json:"resource_type"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	Currency     string  `json:"currency"`
}

// hoursPerMonth converts hourly rates to monthly estimates.
const hoursPerMonth = 730

// Estimator looks up prices and produces monthly estimates.
type Estimator struct {
	prices map[string]PricingInfo
}

// NewEstimator creates an Estimator with the built-in price table.
func NewEstimator() *Estimator {
	table := []PricingInfo{
		{ResourceType: "ebs:gp2", Unit: "GiB-month", PricePerUnit: 0.10, Currency: "USD"},
		{ResourceType: "ebs:gp3", Unit: "GiB-month", PricePerUnit: 0.08, Currency: "USD"},
		{ResourceType: "ebs:io1", Unit: "GiB-month", PricePerUnit: 0.125, Currency: "USD"},
		{ResourceType: "ebs:io2", Unit: "GiB-month", PricePerUnit: 0.125, Currency: "USD"},
		{ResourceType: "ebs:st1", Unit: "GiB-month", PricePerUnit: 0.045, Currency: "USD"},
		{ResourceType: "ebs:sc1", Unit: "GiB-month", PricePerUnit: 0.015, Currency: "USD"},
		{ResourceType: "ebs:standard", Unit: "GiB-month", PricePerUnit: 0.05, Currency: "USD"},
		{ResourceType: "ebs:snapshot", Unit: "GiB-month", PricePerUnit: 0.05, Currency: "USD"},
		{ResourceType: "eip:idle", Unit: "hour", PricePerUnit: 0.005, Currency: "USD"},
	}

	prices := make(map[string]PricingInfo, len(table))
	for _, p := range table {
		prices[p.ResourceType] = p
	}
	return &Estimator{prices: prices}
}

// Pricing returns the price entry for a resource type key.
func (e *Estimator) Pricing(resourceType string) (PricingInfo, bool) {
	p, ok := e.prices[resourceType]
	return p, ok
}

// VolumeMonthly estimates the monthly cost of an EBS volume. Unknown volume
// types fall back to the gp2 rate.
func (e *Estimator) VolumeMonthly(volumeType string, sizeGiB int32) float64 {
	p, ok := e.prices["ebs:"+volumeType]
	if !ok {
		p = e.prices["ebs:gp2"]
	}
	return p.PricePerUnit * float64(sizeGiB)
}

// SnapshotMonthly estimates the monthly cost of an EBS snapshot.
func (e *Estimator) SnapshotMonthly(sizeGiB int32) float64 {
	return e.prices["ebs:snapshot"].PricePerUnit * float64(sizeGiB)
}

// ElasticIPMonthly estimates the monthly cost of an idle Elastic IP.
func (e *Estimator) ElasticIPMonthly() float64 {
	return e.prices["eip:idle"].PricePerUnit * hoursPerMonth
}
