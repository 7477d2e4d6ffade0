package hclust

import "testing"

func TestRatioSelector(t *testing.T) {
	tests := []struct {
		name string
		crit KCriteria
		want int
	}{
		{"single sub-cluster", KCriteria{}, 1},
		{"two sub-clusters", KCriteria{Distances: []float64{5}}, 2},
		{"clear jump", KCriteria{Distances: []float64{1, 1, 1, 10}}, 2},
		{"close runner-up prefers more clusters", KCriteria{Distances: []float64{1, 2, 4.2, 9}}, 3},
		{"max k of one", KCriteria{Distances: []float64{1, 1, 1, 10}, MaxK: 1}, 1},
		{"max k caps candidates", KCriteria{Distances: []float64{1, 1, 10, 11, 12}, MaxK: 3}, 3},
		{"largest ratio without bic", KCriteria{Distances: []float64{1, 1, 10, 11, 12}}, 4},
		{
			"bic bounds k",
			KCriteria{
				Distances: []float64{1, 1, 10, 11, 12},
				BIC:       []float64{100, 50, 49, 48, 47, 46},
			},
			2,
		},
		{
			"bic rising means one cluster",
			KCriteria{
				Distances: []float64{1, 1, 1, 10},
				BIC:       []float64{10, 12, 14, 16, 18},
			},
			1,
		},
		{"zero denominator wins", KCriteria{Distances: []float64{0, 0, 5}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (RatioSelector{}).SelectK(tt.crit); got != tt.want {
				t.Errorf("SelectK = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRatioSelector_Separation(t *testing.T) {
	crit := KCriteria{Distances: []float64{1, 2, 4.2, 9}}
	// With no separation margin the largest ratio wins outright.
	if got := (RatioSelector{Separation: 1}).SelectK(crit); got != 2 {
		t.Errorf("SelectK = %d, want 2", got)
	}
}

func TestRatioSelector_BICRatio(t *testing.T) {
	crit := KCriteria{
		Distances: []float64{1, 1, 10, 11, 12},
		BIC:       []float64{100, 50, 49, 48, 47, 46},
	}
	// A looser ratio stops the BIC bound from cutting at 2.
	if got := (RatioSelector{BICRatio: 0.01}).SelectK(crit); got != 4 {
		t.Errorf("SelectK = %d, want 4", got)
	}
}
