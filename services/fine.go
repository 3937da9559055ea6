package services

import (
	"math"
	"time"
)

// ComputeFine calculates the fine for a loan returned on returnedDate:
// whole days between the dates times the per-day rate, rounded to two
// decimal places. A return on or before the borrowed date yields zero,
// never a negative fine.
func ComputeFine(borrowedDate, returnedDate time.Time, ratePerDay float64) float64 {
	days := int(returnedDate.Sub(borrowedDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return math.Round(float64(days)*ratePerDay*100) / 100
}
