package weather

import (
	"strings"

	"github.com/i474232898/panenku/internal/common"
)

// Tips is a short list of care advice for the current weather.
type Tips struct {
	Title string   `json:"title"`
	Tips  []string `json:"tips"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// TipsFor picks care advice for a condition (a Condition value, label or icon name)
// and temperature. Rain wins over heat.
func TipsFor(condition string, temperature float64) Tips {
	c := strings.ToLower(condition)
	switch {
	case common.HasAny(c, string(ConditionHujan), "rainy"):
		return Tips{
			Title: "Hujan Diprediksi",
			Tips: []string{
				"Kurangi penyiraman tanaman karena tanah sudah cukup lembab",
				"Pastikan drainase baik untuk hindari genangan air",
				"Pindahkan tanaman dalam pot ke tempat teduh",
			},
			Icon:  "rainy",
			Color: "#2196F3",
		}
	case temperature > HotThreshold:
		return Tips{
			Title: "Cuaca Panas",
			Tips: []string{
				"Siram tanaman lebih sering di pagi dan sore hari",
				"Berikan naungan untuk tanaman yang sensitif",
				"Hindari pemupukan di siang hari",
			},
			Icon:  "sunny",
			Color: "#FF9800",
		}
	default:
		return Tips{
			Title: "Cuaca Ideal",
			Tips: []string{
				"Kondisi sempurna untuk penyiraman dan pemupukan",
				"Waktu terbaik untuk menanam bibit baru",
				"Lakukan perawatan rutin tanaman",
			},
			Icon:  "partly-sunny",
			Color: "#4CAF50",
		}
	}
}
