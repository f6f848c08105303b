package usecase

import (
	"math"
	"testing"
)

func TestCompareTexts(t *testing.T) {
	t.Run("returns 0 when either input is empty", func(t *testing.T) {
		if got := CompareTexts("", "nike shoes"); got != 0 {
			t.Errorf("CompareTexts(empty, x) = %v, want 0", got)
		}
		if got := CompareTexts("nike shoes", ""); got != 0 {
			t.Errorf("CompareTexts(x, empty) = %v, want 0", got)
		}
	})

	t.Run("identical titles score 1", func(t *testing.T) {
		titles := []string{
			"Nike Air Zoom Running Shoes",
			"Samsung Galaxy S24 Ultra 256GB",
			"hand-crafted wooden chess set",
		}
		for _, title := range titles {
			got := CompareTexts(title, title)
			if math.Abs(got-1) > 1e-9 {
				t.Errorf("CompareTexts(%q, itself) = %v, want 1", title, got)
			}
		}
	})

	t.Run("is symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"Nike Air Zoom Running Shoes", "Nike Air Zoom Shoes"},
			{"Sony WH-1000XM5 Headphones", "Bose QuietComfort Headphones"},
			{"red cotton shirt", "blue denim jeans"},
		}
		for _, pair := range pairs {
			ab := CompareTexts(pair[0], pair[1])
			ba := CompareTexts(pair[1], pair[0])
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("CompareTexts(%q, %q) = %v but reversed = %v", pair[0], pair[1], ab, ba)
			}
		}
	})

	t.Run("disjoint titles score 0", func(t *testing.T) {
		if got := CompareTexts("Nike Running Shoes", "Samsung Galaxy Phone"); got != 0 {
			t.Errorf("CompareTexts(disjoint) = %v, want 0", got)
		}
	})

	t.Run("overlapping titles score between 0 and 1", func(t *testing.T) {
		got := CompareTexts("Nike Air Zoom Running Shoes", "Nike Air Zoom Shoes")
		if got <= 0 || got >= 1 {
			t.Errorf("CompareTexts(overlapping) = %v, want in (0,1)", got)
		}
		if got < 0.8 {
			t.Errorf("CompareTexts(near-identical) = %v, want >= 0.8", got)
		}
	})

	t.Run("stemming unifies suffix variants", func(t *testing.T) {
		// "running" and "runs" both stem toward "runn"/"run"; only suffix
		// pairs that land on the same stem should match
		got := CompareTexts("nike running shoes", "nike runn shoe")
		if got != 1 {
			t.Errorf("CompareTexts(stemmed variants) = %v, want 1", got)
		}
	})
}

func TestVectorize(t *testing.T) {
	t.Run("empty title produces empty vector", func(t *testing.T) {
		if v := Vectorize(""); len(v) != 0 {
			t.Errorf("Vectorize(\"\") has %d terms, want 0", len(v))
		}
	})

	t.Run("counts term frequencies", func(t *testing.T) {
		v := Vectorize("zoom zoom shoes")
		if v["zoom"] != 2 {
			t.Errorf("zoom count = %d, want 2", v["zoom"])
		}
		if v["shoe"] != 1 {
			t.Errorf("shoe count = %d, want 1", v["shoe"])
		}
	})

	t.Run("drops short tokens", func(t *testing.T) {
		v := Vectorize("4k tv hd")
		if len(v) != 0 {
			t.Errorf("Vectorize(short tokens) = %v, want empty", v)
		}
	})
}

func TestStemToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"running", "runn"},    // ing stripped
		{"painted", "paint"},   // ed stripped
		{"shoes", "shoe"},      // s stripped
		{"quickly", "quick"},   // ly stripped
		{"zoom", "zoom"},       // no suffix
		{"casing", "cas"},      // ing wins over s, applied once
		{"dressed", "dress"},   // ed wins over s
	}

	for _, tt := range tests {
		if got := stemToken(tt.in); got != tt.want {
			t.Errorf("stemToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
