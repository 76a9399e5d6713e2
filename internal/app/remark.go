package app

import "math"

// PerformanceRemark labels an attempt's percentage for the submitted result.
func PerformanceRemark(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent"
	case percentage >= 80:
		return "Very Good"
	case percentage >= 70:
		return "Good"
	case percentage >= 60:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// HistoryBand is the coarser four-bucket label used when listing past results.
// It is a separate convention from PerformanceRemark and must not replace it.
func HistoryBand(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent"
	case percentage >= 60:
		return "Good"
	case percentage >= 40:
		return "Average"
	default:
		return "Poor"
	}
}

// Percentage returns round(100*score/maxScore), or 0 when maxScore is not positive.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(maxScore)))
}
