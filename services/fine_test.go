package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeFine(t *testing.T) {
	borrowed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		rate     float64
		want     float64
	}{
		{"three days at flat rate", borrowed.AddDate(0, 0, 3), 10.0, 30.00},
		{"same day", borrowed, 10.0, 0},
		{"returned before borrowed clamps to zero", borrowed.AddDate(0, 0, -2), 10.0, 0},
		{"partial day does not count", borrowed.Add(23 * time.Hour), 10.0, 0},
		{"fractional rate rounds to cents", borrowed.AddDate(0, 0, 3), 0.333, 1.00},
		{"zero rate", borrowed.AddDate(0, 0, 30), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFine(borrowed, tt.returned, tt.rate)
			assert.Equal(t, tt.want, got)
		})
	}
}
