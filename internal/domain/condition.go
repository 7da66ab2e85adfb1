package domain

import (
	"strings"
)

// Category is the weather classification derived from condition text.
type Category string

const (
	CategoryRain    Category = "rain"
	CategoryCloud   Category = "cloud"
	CategorySnow    Category = "snow"
	CategorySun     Category = "sun"
	CategoryDefault Category = "default"
)

// ConditionRule maps any of its keywords to a category.
type ConditionRule struct {
	Keywords []string
	Category Category
}

// ConditionRules is an ordered rule list; the first matching rule wins.
type ConditionRules []ConditionRule

// IconRules decide the condition icon.
var IconRules = ConditionRules{
	{Keywords: []string{"rain"}, Category: CategoryRain},
	{Keywords: []string{"snow"}, Category: CategorySnow},
	{Keywords: []string{"cloud"}, Category: CategoryCloud},
	{Keywords: []string{"sun", "clear"}, Category: CategorySun},
}

// BackgroundRules decide the page background. Cloud outranks snow here,
// unlike IconRules.
var BackgroundRules = ConditionRules{
	{Keywords: []string{"rain"}, Category: CategoryRain},
	{Keywords: []string{"cloud"}, Category: CategoryCloud},
	{Keywords: []string{"snow"}, Category: CategorySnow},
	{Keywords: []string{"sun", "clear"}, Category: CategorySun},
}

// Classify matches the condition case-insensitively against the rules in order.
func (rules ConditionRules) Classify(condition string) Category {
	c := strings.ToLower(condition)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(c, kw) {
				return r.Category
			}
		}
	}
	return CategoryDefault
}

// Icon names, one per category.
const (
	IconCloudRain   = "cloud-rain"
	IconSnowflake   = "snowflake"
	IconCloud       = "cloud"
	IconSun         = "sun"
	IconThermometer = "thermometer"
)

var categoryIcons = map[Category]string{
	CategoryRain:  IconCloudRain,
	CategorySnow:  IconSnowflake,
	CategoryCloud: IconCloud,
	CategorySun:   IconSun,
}

// ConditionIcon returns the icon for a condition text.
func ConditionIcon(condition string) string {
	if icon, ok := categoryIcons[IconRules.Classify(condition)]; ok {
		return icon
	}
	return IconThermometer
}

// BackgroundClass returns the page background class, e.g. "bg-rain-dark".
func BackgroundClass(condition string, theme Theme) string {
	if theme != Dark {
		theme = Light
	}
	return "bg-" + string(BackgroundRules.Classify(condition)) + "-" + string(theme)
}
