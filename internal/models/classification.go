package models

// Category is one of the four ordered point bands.
type Category string

const (
	CategoryMild       Category = "Mild"
	CategoryModerate   Category = "Moderate"
	CategorySevere     Category = "Severe"
	CategoryVerySevere Category = "Very Severe"
)

// Glyph returns the display marker shown next to the category name.
func (c Category) Glyph() string {
	switch c {
	case CategoryModerate:
		return "🟡"
	case CategorySevere:
		return "🟠"
	case CategoryVerySevere:
		return "🔴"
	default:
		return "🟢"
	}
}

// Indonesian returns the display name used in chat messages and reports.
func (c Category) Indonesian() string {
	switch c {
	case CategoryModerate:
		return "Sedang"
	case CategorySevere:
		return "Berat"
	case CategoryVerySevere:
		return "Sangat Berat"
	default:
		return "Ringan"
	}
}

// PointBands holds the configured lower bounds of the upper three bands.
// The top band is open-ended.
type PointBands struct {
	ModerateMin   int
	SevereMin     int
	VerySevereMin int
}

// DefaultPointBands mirrors the configuration defaults (21/51/101).
func DefaultPointBands() PointBands {
	return PointBands{ModerateMin: 21, SevereMin: 51, VerySevereMin: 101}
}

// Classify maps a point total onto its band.
func (b PointBands) Classify(total int) Category {
	switch {
	case total >= b.VerySevereMin:
		return CategoryVerySevere
	case total >= b.SevereMin:
		return CategorySevere
	case total >= b.ModerateMin:
		return CategoryModerate
	default:
		return CategoryMild
	}
}
