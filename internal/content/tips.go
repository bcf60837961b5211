// Package content holds the fixed copy, datasets and media links shown on the site.
package content

// TipLevel is the self-reported anxiety level used by the tip survey.
type TipLevel string

const (
	TipLevelLow         TipLevel = "Low"
	TipLevelModerate    TipLevel = "Moderate"
	TipLevelHigh        TipLevel = "High"
	TipLevelOverwhelmed TipLevel = "Overwhelmed"
)

var tips = map[TipLevel]string{
	TipLevelLow:         "Keep up the great work! Stay consistent with mindfulness techniques.",
	TipLevelModerate:    "Take a moment to practice deep breathing.",
	TipLevelHigh:        "Pause and try a guided meditation.",
	TipLevelOverwhelmed: "It's important to step away and take a break.",
}

// TipLevels returns the levels in survey order.
func TipLevels() []TipLevel {
	return []TipLevel{TipLevelLow, TipLevelModerate, TipLevelHigh, TipLevelOverwhelmed}
}

// Tip returns the predefined tip for level. Matching is exact.
func Tip(level TipLevel) (string, bool) {
	tip, ok := tips[level]
	return tip, ok
}

// GuidanceMoods are the choices offered for the guidance form's mood field.
func GuidanceMoods() []string {
	return []string{"Anxious", "Stressed", "Sad", "Overwhelmed", "Restless", "Okay"}
}

// StressLevels are the choices offered for the guidance form's stress field.
func StressLevels() []string {
	return []string{"Low", "Moderate", "High", "Very High"}
}
