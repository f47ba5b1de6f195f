package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeMonthly(t *testing.T) {
	e := NewEstimator()

	assert.InDelta(t, 10.0, e.VolumeMonthly("gp2", 100), 0.001)
	assert.InDelta(t, 8.0, e.VolumeMonthly("gp3", 100), 0.001)
	assert.InDelta(t, 12.5, e.VolumeMonthly("io1", 100), 0.001)
}

func TestVolumeMonthlyUnknownTypeFallsBackToGP2(t *testing.T) {
	e := NewEstimator()
	assert.InDelta(t, e.VolumeMonthly("gp2", 50), e.VolumeMonthly("exotic-new-type", 50), 0.001)
}

func TestSnapshotMonthly(t *testing.T) {
	e := NewEstimator()
	assert.InDelta(t, 5.0, e.SnapshotMonthly(100), 0.001)
	assert.InDelta(t, 0.0, e.SnapshotMonthly(0), 0.001)
}

func TestElasticIPMonthly(t *testing.T) {
	e := NewEstimator()
	assert.InDelta(t, 0.005*730, e.ElasticIPMonthly(), 0.001)
}

func TestPricing(t *testing.T) {
	e := NewEstimator()

	p, ok := e.Pricing("ebs:gp3")
	assert.True(t, ok)
	assert.Equal(t, "GiB-month", p.Unit)
	assert.Equal(t, "USD", p.Currency)

	_, ok = e.Pricing("lambda:invocations")
	assert.False(t, ok)
}
