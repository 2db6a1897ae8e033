package weather

// HotThreshold is the temperature (°C) above which clear weather counts as hot.
const HotThreshold = 30.0

// ConditionFromCode maps a WMO weather code (as reported by Open-Meteo) to a Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return ConditionCerah
	case code >= 1 && code <= 3:
		return ConditionBerawan
	case code == 45 || code == 48:
		return ConditionDingin
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionHujan
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionDingin
	case code >= 95 && code <= 99:
		return ConditionHujan
	default:
		return ConditionBerawan
	}
}

// Classify maps code to a Condition and reclassifies clear weather above HotThreshold as hot.
func Classify(code int, temperature float64) Condition {
	c := ConditionFromCode(code)
	if c == ConditionCerah && temperature > HotThreshold {
		return ConditionPanas
	}
	return c
}

// Duration is the harvest-duration estimate attached to a condition.
type Duration struct {
	Days int
	Text string
}

var durations = map[Condition]Duration{
	ConditionCerah:   {Days: 60, Text: "2 Bulan"},
	ConditionPanas:   {Days: 75, Text: "2.5 Bulan"},
	ConditionBerawan: {Days: 90, Text: "3 Bulan"},
	ConditionHujan:   {Days: 135, Text: "4.5 Bulan"},
	ConditionDingin:  {Days: 150, Text: "5 Bulan"},
}

// HarvestDuration returns the estimate for c. Unknown conditions get the cloudy estimate.
func HarvestDuration(c Condition) Duration {
	if d, ok := durations[c]; ok {
		return d
	}
	return durations[ConditionBerawan]
}

var labels = map[Condition]string{
	ConditionCerah:   "Cerah",
	ConditionBerawan: "Berawan",
	ConditionHujan:   "Hujan",
	ConditionPanas:   "Panas",
	ConditionDingin:  "Dingin",
}

var icons = map[Condition]string{
	ConditionCerah:   "sunny",
	ConditionBerawan: "partly-sunny",
	ConditionHujan:   "rainy",
	ConditionPanas:   "thermometer",
	ConditionDingin:  "snow",
}

// Label is the display name of c.
func Label(c Condition) string {
	if l, ok := labels[c]; ok {
		return l
	}
	return labels[ConditionBerawan]
}

// Icon is the icon name of c.
func Icon(c Condition) string {
	if i, ok := icons[c]; ok {
		return i
	}
	return icons[ConditionBerawan]
}
