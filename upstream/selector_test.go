package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistance(t *testing.T) {
	london := GeoPoint{Lat: 51.5074, Lon: -0.1278}
	paris := GeoPoint{Lat: 48.8566, Lon: 2.3522}
	d := haversineKm(london, paris)
	assert.InDelta(t, 343, d, 10)
}

func TestGeoScoreNeutralWithoutLocation(t *testing.T) {
	u := New("u1", "10.0.0.1:53", 1, 100)
	qc := QueryContext{}
	assert.Equal(t, 0.5, geoScore(qc, u))
}

func TestIntelligentPicksHighestScore(t *testing.T) {
	fast := New("fast", "10.0.0.1:53", 1, 100)
	fast.RecordSuccess(10)
	fast.RecordSuccess(10)

	slow := New("slow", "10.0.0.2:53", 1, 100)
	slow.RecordSuccess(900)
	slow.RecordSuccess(900)

	qc := QueryContext{QType: 1}
	picked := Pick(StrategyIntelligent, qc, []*Upstream{slow, fast})
	assert.Equal(t, "fast", picked.ID)
}

func TestLeastLatencyPicksLowestAverage(t *testing.T) {
	a := New("a", "10.0.0.1:53", 1, 100)
	a.RecordSuccess(200)
	b := New("b", "10.0.0.2:53", 1, 100)
	b.RecordSuccess(50)

	picked := Pick(StrategyLeastLatency, QueryContext{}, []*Upstream{a, b})
	assert.Equal(t, "b", picked.ID)
}

func TestGeographicPicksNearest(t *testing.T) {
	near := New("near", "10.0.0.1:53", 1, 100)
	near.Location = GeoPoint{Lat: 51.5, Lon: -0.1}
	near.HasLocation = true

	far := New("far", "10.0.0.2:53", 1, 100)
	far.Location = GeoPoint{Lat: -33.9, Lon: 151.2}
	far.HasLocation = true

	qc := QueryContext{ClientLoc: GeoPoint{Lat: 51.5074, Lon: -0.1278}, HasClientLoc: true}
	picked := Pick(StrategyGeographic, qc, []*Upstream{far, near})
	assert.Equal(t, "near", picked.ID)
}

func TestWeightedRoundRobinFavoursHealthyUpstream(t *testing.T) {
	good := New("good", "10.0.0.1:53", 10, 100)
	good.RecordSuccess(10)

	bad := New("bad", "10.0.0.2:53", 10, 100)
	for i := 0; i < 10; i++ {
		bad.RecordFailure(10)
	}

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		picked := Pick(StrategyWeightedRoundRobin, QueryContext{}, []*Upstream{good, bad})
		counts[picked.ID]++
	}
	assert.Greater(t, counts["good"], counts["bad"])
}
