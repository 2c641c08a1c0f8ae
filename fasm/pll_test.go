package fasm

import "testing"

func TestComputeClockParams(t *testing.T) {
	cases := []struct {
		divide      float64
		phase       float64
		fracCapable bool
		want        clockParams
	}{
		{divide: 5.25, phase: 0, fracCapable: true,
			want: clockParams{high: 2, low: 3, edge: true, frac: 2}},
		{divide: 5.25, phase: 0, fracCapable: false,
			want: clockParams{high: 2, low: 3, edge: true}},
		{divide: 1, phase: 0, fracCapable: true,
			want: clockParams{high: 1, low: 1, noCount: true}},
		{divide: 0.5, phase: 0, fracCapable: false,
			want: clockParams{high: 1, low: 1, noCount: true}},
		{divide: 4, phase: 0, fracCapable: true,
			want: clockParams{high: 2, low: 2}},
		{divide: 6, phase: 90, fracCapable: false,
			want: clockParams{high: 3, low: 3, phasemux: 4, delaytime: 1}},
	}
	for _, c := range cases {
		got := computeClockParams(c.divide, c.phase, c.fracCapable)
		if got != c.want {
			t.Fatalf("computeClockParams(%v, %v, %v) = %+v, want %+v",
				c.divide, c.phase, c.fracCapable, got, c.want)
		}
	}
}

func TestMmcmTableSizes(t *testing.T) {
	// CLKFBOUT_MULT ranges over [1, 63]; every index must resolve.
	for mult := 1; mult <= 63; mult++ {
		if mmcmLockTable[mult-1] == 0 {
			t.Fatalf("empty lock table entry for mult %d", mult)
		}
		if mmcmFilterLow[mult-1] == 0 || mmcmFilterLowSS[mult-1] == 0 || mmcmFilterHigh[mult-1] == 0 {
			t.Fatalf("empty filter table entry for mult %d", mult)
		}
	}
}
