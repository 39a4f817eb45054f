package health

import (
	"errors"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		design     float64
		fullCharge float64
		want       float64
		wantStatus Status
	}{
		{
			name:       "typical worn battery",
			design:     50000,
			fullCharge: 46500,
			want:       93.0,
			wantStatus: Excellent,
		},
		{
			name:       "rounds to two decimals",
			design:     57000,
			fullCharge: 43210,
			want:       75.81, // 75.8070... rounds up
			wantStatus: Good,
		},
		{
			name:       "over-reported full charge is not clamped",
			design:     40000,
			fullCharge: 60000,
			want:       150.0,
			wantStatus: Excellent,
		},
		{
			name:       "zero full charge",
			design:     40000,
			fullCharge: 0,
			want:       0,
			wantStatus: Critical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.design, tt.fullCharge)
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			if got.Percent != tt.want {
				t.Errorf("Percent = %v, want %v", got.Percent, tt.want)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.DesignCapacity != tt.design || got.FullChargeCapacity != tt.fullCharge {
				t.Errorf("capacities not carried through: %+v", got)
			}
		})
	}
}

func TestComputeUndefined(t *testing.T) {
	for _, design := range []float64{0, -1} {
		if _, err := Compute(design, 1000); !errors.Is(err, ErrUndefined) {
			t.Errorf("Compute(%v, 1000) error = %v, want ErrUndefined", design, err)
		}
	}
}

func TestStatusOfPartition(t *testing.T) {
	tests := []struct {
		pct  float64
		want Status
	}{
		{150, Excellent},
		{95, Excellent},
		{90, Excellent},
		{89.99, Good},
		{75, Good},
		{70, Good},
		{69.99, Fair},
		{55, Fair},
		{50, Fair},
		{49.99, Poor},
		{35, Poor},
		{30, Poor},
		{29.99, Critical},
		{10, Critical},
		{0, Critical},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.pct); got != tt.want {
			t.Errorf("StatusOf(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}
