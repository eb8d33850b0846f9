package upstream

import (
	"math"
	"math/rand"
)

// Strategy names the selection algorithms the load balancer supports.
type Strategy string

const (
	StrategyIntelligent       Strategy = "intelligent"
	StrategyWeightedRoundRobin Strategy = "weighted_round_robin"
	StrategyLeastLatency      Strategy = "least_latency"
	StrategyGeographic        Strategy = "geographic"
	StrategyAdaptive          Strategy = "adaptive"
)

// QueryContext carries the per-query information a selection strategy
// may use: the record type being resolved and, when known, the client's
// location for geographic scoring.
type QueryContext struct {
	QType       uint16
	ClientLoc   GeoPoint
	HasClientLoc bool
}

const earthRadiusKm = 6371.0
const maxGeoDistanceKm = 20000.0

// haversineKm returns the great-circle distance between two points in
// kilometers.
func haversineKm(a, b GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// geoScore returns a 0..1 score where closer upstreams score higher. An
// upstream or client with no known location scores the neutral 0.5.
func geoScore(qc QueryContext, u *Upstream) float64 {
	if !qc.HasClientLoc || !u.HasLocation {
		return 0.5
	}
	d := haversineKm(qc.ClientLoc, u.Location)
	if d > maxGeoDistanceKm {
		d = maxGeoDistanceKm
	}
	return 1 - d/maxGeoDistanceKm
}

func latencyScore(stats Stats) float64 {
	l := float64(stats.AvgLatencyMs) / 1000
	if l > 1 {
		l = 1
	}
	if l < 0 {
		l = 0
	}
	return 1 - l
}

func loadScore(u *Upstream, stats Stats) float64 {
	if u.Capacity <= 0 {
		return 1
	}
	frac := float64(stats.Outstanding) / float64(u.Capacity)
	if frac > 1 {
		frac = 1
	}
	return 1 - frac
}

func specialisationScore(u *Upstream, qtype uint16) float64 {
	if len(u.Specialisation) == 0 {
		return 0.5
	}
	if _, ok := u.Specialisation[qtype]; ok {
		return 1.0
	}
	return 0.5
}

// intelligentScore implements the weighted composite formula: latency
// 0.25, success rate 0.25, load 0.20, geography 0.15, specialisation
// 0.10, recency 0.05. The recency term has no signal in this core (no
// time-of-day routing), so it is held at its neutral maximum.
func intelligentScore(qc QueryContext, u *Upstream) float64 {
	stats := u.Snapshot()
	return 0.25*latencyScore(stats) +
		0.25*stats.SuccessRate() +
		0.20*loadScore(u, stats) +
		0.15*geoScore(qc, u) +
		0.10*specialisationScore(u, qc.QType) +
		0.05*1.0
}

// Pick selects one upstream from candidates according to strategy.
// candidates must be non-empty; callers filter by health and breaker
// state before calling.
func Pick(strategy Strategy, qc QueryContext, candidates []*Upstream) *Upstream {
	switch strategy {
	case StrategyWeightedRoundRobin:
		return pickWeightedRoundRobin(candidates)
	case StrategyLeastLatency:
		return pickLeastLatency(candidates)
	case StrategyGeographic:
		return pickGeographic(qc, candidates)
	case StrategyIntelligent, StrategyAdaptive, "":
		return pickIntelligent(qc, candidates)
	default:
		return pickIntelligent(qc, candidates)
	}
}

func pickIntelligent(qc QueryContext, candidates []*Upstream) *Upstream {
	var best *Upstream
	bestScore := -1.0
	for _, u := range candidates {
		s := intelligentScore(qc, u)
		if s > bestScore {
			bestScore = s
			best = u
		}
	}
	return best
}

func pickLeastLatency(candidates []*Upstream) *Upstream {
	var best *Upstream
	var bestLatency int64 = math.MaxInt64
	for _, u := range candidates {
		l := u.Snapshot().AvgLatencyMs
		if l < bestLatency {
			bestLatency = l
			best = u
		}
	}
	return best
}

func pickGeographic(qc QueryContext, candidates []*Upstream) *Upstream {
	var best *Upstream
	bestScore := -1.0
	for _, u := range candidates {
		s := geoScore(qc, u)
		if s > bestScore {
			bestScore = s
			best = u
		}
	}
	return best
}

// pickWeightedRoundRobin runs a cumulative-weight roulette over a
// dynamic weight that discounts an upstream's static weight by its
// recent success rate and latency.
func pickWeightedRoundRobin(candidates []*Upstream) *Upstream {
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, u := range candidates {
		stats := u.Snapshot()
		w := float64(u.Weight)
		if w <= 0 {
			w = 1
		}
		dyn := w * stats.SuccessRate() / (1 + float64(stats.AvgLatencyMs))
		weights[i] = dyn
		total += dyn
	}
	if total <= 0 {
		return candidates[rand.Intn(len(candidates))]
	}

	r := rand.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}
