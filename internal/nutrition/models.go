package nutrition

// Report contains grand totals across all items of a plan and a
// human-readable per-meal-type listing.
type Report struct {
	TotalCalories int    `json:"total_calories"`
	TotalProteins int    `json:"total_proteins"`
	TotalFats     int    `json:"total_fats"`
	TotalCarbs    int    `json:"total_carbs"`
	MealTypes     string `json:"meal_types"`

	// Sections keeps the structured breakdown for the PDF report.
	Sections []Section `json:"-"`
}

// Section is one meal type with its formatted dish entries.
type Section struct {
	Label   string
	Entries []Entry
}

// Entry is one dish line with per-item rounded nutrient amounts.
type Entry struct {
	Text     string
	Calories int
	Proteins int
	Fats     int
	Carbs    int
}

// mealTypeLabels is the fixed translation table for known meal types.
// Unknown types pass through unchanged.
var mealTypeLabels = map[string]string{
	"breakfast": "Завтрак",
	"lunch":     "Обед",
	"dinner":    "Ужин",
	"snack":     "Перекус",
}

func labelFor(mealType string) string {
	if label, ok := mealTypeLabels[mealType]; ok {
		return label
	}
	return mealType
}
