package analytics

import "time"

// Stats is a derived, never-persisted view over the event log.
type Stats struct {
	Hits                int
	Misses              int
	HitRate             float64
	AverageResponseTime time.Duration
	CountsByKind        map[Kind]int
	CountsBySource      map[Source]int
	ErrorCount          int
}

// Stats computes statistics over the whole buffer, or over the events
// newer than the given window when window > 0. A hit rate with no
// hits and no misses is reported as zero, not NaN.
func (c *Collector) Stats(window time.Duration) Stats {
	events := c.Events()
	cutoff := time.Time{}
	if window > 0 {
		cutoff = c.now().Add(-window)
	}

	out := Stats{
		CountsByKind:   make(map[Kind]int),
		CountsBySource: make(map[Source]int),
	}
	var (
		totalDur time.Duration
		durCount int
	)
	for _, ev := range events {
		if !cutoff.IsZero() && !ev.Time.After(cutoff) {
			continue
		}
		out.CountsByKind[ev.Kind]++
		out.CountsBySource[ev.Source]++
		switch ev.Kind {
		case KindHit:
			out.Hits++
		case KindMiss:
			out.Misses++
		case KindError:
			out.ErrorCount++
		}
		if ev.Duration > 0 {
			totalDur += ev.Duration
			durCount++
		}
	}
	if total := out.Hits + out.Misses; total > 0 {
		out.HitRate = float64(out.Hits) / float64(total)
	}
	if durCount > 0 {
		out.AverageResponseTime = totalDur / time.Duration(durCount)
	}
	return out
}
