package weather

import "testing"

func TestTipsFor(t *testing.T) {
	tests := []struct {
		condition string
		temp      float64
		title     string
		icon      string
	}{
		{"hujan", 35, "Hujan Diprediksi", "rainy"},
		{"Rainy", 20, "Hujan Diprediksi", "rainy"},
		{"cerah", 31, "Cuaca Panas", "sunny"},
		{"panas", 30, "Cuaca Ideal", "partly-sunny"},
		{"berawan", 25, "Cuaca Ideal", "partly-sunny"},
	}

	for _, tt := range tests {
		got := TipsFor(tt.condition, tt.temp)
		if got.Title != tt.title || got.Icon != tt.icon {
			t.Errorf("TipsFor(%q, %v) = %q/%q, want %q/%q", tt.condition, tt.temp, got.Title, got.Icon, tt.title, tt.icon)
		}
		if len(got.Tips) != 3 {
			t.Errorf("TipsFor(%q, %v) returned %d tips", tt.condition, tt.temp, len(got.Tips))
		}
	}
}
