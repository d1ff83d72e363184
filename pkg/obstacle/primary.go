package obstacle

import "fmt"

// Selection chooses which report drives the textual annotation when several
// regions qualify in one frame.
type Selection string

// Selection policies.
const (
	// SelectLast picks the last report in contour order.
	SelectLast Selection = "last"
	// SelectLargest picks the report with the largest contour area.
	SelectLargest Selection = "largest"
	// SelectNearest picks the report with the smallest relative distance.
	SelectNearest Selection = "nearest"
)

// ParseSelection validates a policy name. The empty string means SelectLast.
func ParseSelection(s string) (Selection, error) {
	switch Selection(s) {
	case "", SelectLast:
		return SelectLast, nil
	case SelectLargest, SelectNearest:
		return Selection(s), nil
	default:
		return "", fmt.Errorf("obstacle: unknown selection %q (want last, largest or nearest)", s)
	}
}

// Primary returns the report chosen by sel, or nil when there are none.
// Ties keep the earlier report.
func Primary(reports []Report, sel Selection) *Report {
	if len(reports) == 0 {
		return nil
	}

	switch sel {
	case SelectLargest:
		best := 0
		for i := range reports {
			if reports[i].Region.Area > reports[best].Region.Area {
				best = i
			}
		}
		return &reports[best]
	case SelectNearest:
		best := 0
		for i := range reports {
			if reports[i].RelativeDistance < reports[best].RelativeDistance {
				best = i
			}
		}
		return &reports[best]
	default:
		return &reports[len(reports)-1]
	}
}

// Annotation returns the two text lines shown for a primary report.
func Annotation(r Report) (sizeLine, distanceLine string) {
	return "OBSTACLE: " + string(r.Size), "Distance: " + r.DistanceLabel
}
