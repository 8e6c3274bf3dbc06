package records

import (
	"fmt"
	"math"
)

// NoData is the display value when no average can be computed.
const NoData = "—"

// Average returns the rounded mean of the present scores in the most recent
// performance record. Earlier records never contribute. ok is false when the
// history is empty or the latest record has no scores.
func Average(history []PerformanceRecord) (avg int, ok bool) {
	if len(history) == 0 {
		return 0, false
	}
	scores := history[len(history)-1].Subjects.Scores()
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return roundHalfUp(float64(sum) / float64(len(scores))), true
}

// FormatAverage renders the average as "80%" or [NoData].
func FormatAverage(history []PerformanceRecord) string {
	avg, ok := Average(history)
	if !ok {
		return NoData
	}
	return fmt.Sprintf("%d%%", avg)
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
