package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PlannedRisk is the currency lost if the stop is hit on qty shares.
func PlannedRisk(qty int64, entry, stop float64) float64 {
	return float64(qty) * abs(entry-stop)
}

// RR is reward over risk for a trade from entry with the given stop and target.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// TargetFromR places the target targetR risk-multiples beyond entry, on the
// opposite side of the stop.
func TargetFromR(entry, stop, targetR float64) float64 {
	if stop < entry {
		return entry + targetR*(entry-stop)
	}
	return entry - targetR*(stop-entry)
}

// MaxDrawdown returns the most negative peak-to-trough move of the running
// sum of xs, as a value <= 0.
func MaxDrawdown(xs []float64) float64 {
	var equity, peak, dd float64
	for _, x := range xs {
		equity += x
		peak = math.Max(peak, equity)
		dd = math.Min(dd, equity-peak)
	}
	return dd
}
