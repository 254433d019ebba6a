package badge

import "vibeshield/internal/aggregate"

// Grade maps severity counts to a letter grade and a shields color name.
// Matched text never reaches the badge.
func Grade(counts aggregate.SeverityCounts) (grade string, color string) {
	switch {
	case counts.Total() == 0:
		return "A+", "brightgreen"
	case counts.Critical == 0 && counts.High == 0 && counts.Medium == 0:
		return "A", "green"
	case counts.Critical == 0 && counts.High == 0:
		return "B", "yellowgreen"
	case counts.Critical == 0 && counts.High <= 3:
		return "C", "yellow"
	case counts.Critical == 0:
		return "D", "orange"
	default:
		return "F", "red"
	}
}

type Badge struct {
	Label string
	Grade string
	Color string
}

func New(label string, counts aggregate.SeverityCounts) Badge {
	if label == "" {
		label = "vibeshield"
	}
	grade, color := Grade(counts)
	return Badge{Label: label, Grade: grade, Color: color}
}
