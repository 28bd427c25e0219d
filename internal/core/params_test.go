package core

import "testing"

func TestControlClamp(t *testing.T) {
	ctrl := ParameterControl{Key: "delay_ms", Type: ParamTypeInt, Step: 10, Min: 0, Max: 50, HasMin: true, HasMax: true}
	cases := []struct{ value, dir, want int }{
		{20, 1, 30},
		{20, -1, 10},
		{5, -1, 0},
		{45, 1, 50},
		{50, 1, 50},
	}
	for _, tc := range cases {
		if got := ctrl.Clamp(tc.value, tc.dir); got != tc.want {
			t.Fatalf("Clamp(%d, %d) = %d, expected %d", tc.value, tc.dir, got, tc.want)
		}
	}
	if got := (ParameterControl{}).Clamp(3, 1); got != 4 {
		t.Fatalf("zero step should default to 1, got %d", got)
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{{Key: "x", Value: "1"}}},
		{Name: "b", Params: []Parameter{{Key: "y", Value: "2"}}},
	}}
	if p, ok := snap.Lookup("y"); !ok || p.Value != "2" {
		t.Fatalf("Lookup(y) = %+v, %v", p, ok)
	}
	if _, ok := snap.Lookup("z"); ok {
		t.Fatal("Lookup(z) should miss")
	}
}
