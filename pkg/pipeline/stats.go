package pipeline

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// latencyWindow is the number of recent frames kept for latency statistics.
const latencyWindow = 120

// Stats summarises the detector's work so far.
type Stats struct {
	Frames             int64   `json:"frames"`
	FramesWithObstacle int64   `json:"frames_with_obstacle"`
	Reports            int64   `json:"reports"`
	LatencyMeanMs      float64 `json:"latency_mean_ms"`
	LatencyStdDevMs    float64 `json:"latency_stddev_ms"`
}

// latencies is a fixed-size ring of per-frame processing times in ms.
type latencies struct {
	buf  []float64
	next int
	full bool
}

func newLatencies(n int) *latencies {
	return &latencies{buf: make([]float64, n)}
}

func (l *latencies) add(d time.Duration) {
	l.buf[l.next] = float64(d) / float64(time.Millisecond)
	l.next++
	if l.next == len(l.buf) {
		l.next = 0
		l.full = true
	}
}

func (l *latencies) values() []float64 {
	if l.full {
		return l.buf
	}
	return l.buf[:l.next]
}

// meanStdDev returns zeros until at least one sample exists; stddev needs two.
func (l *latencies) meanStdDev() (mean, std float64) {
	v := l.values()
	switch len(v) {
	case 0:
		return 0, 0
	case 1:
		return v[0], 0
	}
	return stat.MeanStdDev(v, nil)
}
