package usecase

import "testing"

func TestComparePrices(t *testing.T) {
	tests := []struct {
		name string
		p1   float64
		p2   float64
		want float64
	}{
		{"identical prices", 100, 100, 1},
		{"within 10 percent boundary", 100, 90, 1},
		{"within 20 percent", 100, 85, 0.8},
		{"20 percent boundary", 100, 80, 0.8},
		{"within 30 percent", 100, 75, 0.6},
		{"within 50 percent", 100, 55, 0.4},
		{"50 percent boundary", 100, 50, 0.4},
		{"beyond 50 percent", 100, 40, 0.2},
		{"order does not matter", 40, 100, 0.2},
		{"missing first price", 0, 100, 0.5},
		{"missing second price", 100, 0, 0.5},
		{"both prices missing", 0, 0, 0.5},
		{"negative price treated as absent", -5, 100, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePrices(tt.p1, tt.p2); got != tt.want {
				t.Errorf("ComparePrices(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}
