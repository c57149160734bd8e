package types

// Category groups rules for reporting.
type Category string

const (
	CategoryDeprecated    Category = "deprecated"
	CategoryPerformance   Category = "performance"
	CategoryBestPractices Category = "best-practices"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryDeprecated,
	CategoryPerformance,
	CategoryBestPractices,
}

func (c Category) Label() string {
	switch c {
	case CategoryDeprecated:
		return "Deprecated Code"
	case CategoryPerformance:
		return "Performance"
	case CategoryBestPractices:
		return "Best Practices"
	default:
		return string(c)
	}
}

func (c Category) Description() string {
	switch c {
	case CategoryDeprecated:
		return "Methods and patterns that are deprecated in Filament v4/v5"
	case CategoryPerformance:
		return "Rules that help identify potential performance issues"
	case CategoryBestPractices:
		return "Recommendations for cleaner and more maintainable code"
	default:
		return ""
	}
}
