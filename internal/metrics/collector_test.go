package metrics

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{12.345, 12.35},
		{12.344, 12.34},
		{55.5, 55.5},
		{99.999, 100},
		{100, 100},
		{123.4, 100},
		{-5, 0},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCollectBounds(t *testing.T) {
	c := &Collector{diskPath: "/", cpuWindow: 50 * time.Millisecond}

	s, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	for name, v := range map[string]float64{
		"cpu":    s.CPUPercent,
		"memory": s.MemoryPercent,
		"disk":   s.DiskPercent,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %v, out of [0,100]", name, v)
		}
		// two-decimal precision
		if diff := math.Abs(v*100 - math.Round(v*100)); diff > 1e-9 {
			t.Errorf("%s = %v, not rounded to 2 decimals", name, v)
		}
	}
}
