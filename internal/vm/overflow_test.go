package vm

import (
	"math"
	"testing"
)

func TestStepChecked(t *testing.T) {
	cases := []struct {
		v, delta int64
		want     int64
		ok       bool
	}{
		{0, 1, 1, true},
		{0, -1, -1, true},
		{math.MaxInt64 - 1, 1, math.MaxInt64, true},
		{math.MaxInt64, 1, 0, false},
		{math.MinInt64 + 1, -1, math.MinInt64, true},
		{math.MinInt64, -1, 0, false},
	}
	for _, tc := range cases {
		got, ok := stepChecked(tc.v, tc.delta)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("stepChecked(%d, %d) = %d, %v; want %d, %v", tc.v, tc.delta, got, ok, tc.want, tc.ok)
		}
	}
}
