package analytics

import "time"

// Status is the four-tier health classification.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusFair      Status = "fair"
	StatusPoor      Status = "poor"
)

// HealthReport classifies cache health on three axes (hit rate, mean
// latency, error rate) and carries tuning recommendations for any
// axis that is underperforming.
type HealthReport struct {
	Status          Status
	HitRate         float64
	AverageLatency  time.Duration
	ErrorRate       float64
	Recommendations []string
}

// healthTier is one row of monotone thresholds: a status is awarded
// when all three axes clear its bounds.
type healthTier struct {
	status     Status
	minHitRate float64
	maxLatency time.Duration
	maxErrRate float64
}

var healthTiers = []healthTier{
	{StatusExcellent, 0.8, 200 * time.Millisecond, 0.01},
	{StatusGood, 0.6, 500 * time.Millisecond, 0.05},
	{StatusFair, 0.3, time.Second, 0.10},
}

// HealthReport derives the current health from the full event buffer.
// The error rate is errors over request-shaped events (hits, misses
// and errors), so bookkeeping events like set do not dilute it.
func (c *Collector) HealthReport() HealthReport {
	s := c.Stats(0)

	var errRate float64
	if requests := s.Hits + s.Misses + s.ErrorCount; requests > 0 {
		errRate = float64(s.ErrorCount) / float64(requests)
	}

	report := HealthReport{
		Status:         StatusPoor,
		HitRate:        s.HitRate,
		AverageLatency: s.AverageResponseTime,
		ErrorRate:      errRate,
	}
	for _, tier := range healthTiers {
		if s.HitRate > tier.minHitRate &&
			s.AverageResponseTime < tier.maxLatency &&
			errRate < tier.maxErrRate {
			report.Status = tier.status
			break
		}
	}

	if s.HitRate <= 0.6 {
		report.Recommendations = append(report.Recommendations,
			"hit rate is low; consider longer TTLs for stable resources")
	}
	if s.AverageResponseTime >= 500*time.Millisecond {
		report.Recommendations = append(report.Recommendations,
			"responses are slow; consider prefetching high-value resources")
	}
	if errRate >= 0.05 {
		report.Recommendations = append(report.Recommendations,
			"error rate is high; check connectivity to the data API")
	}
	return report
}
