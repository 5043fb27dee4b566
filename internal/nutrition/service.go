package nutrition

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// EmptyListing is returned in meal_types when the plan has no dish entries.
const EmptyListing = "Нет блюд"

// Service computes nutrition reports. Read-only, never mutates state.
type Service struct {
	meals storage.MealStorage
}

// NewService creates a new nutrition service.
func NewService(meals storage.MealStorage) *Service {
	return &Service{meals: meals}
}

// Aggregate walks every block and item of a plan and builds the report.
//
// Per-item displayed amounts are rounded individually; the grand totals sum
// the unrounded amounts and round once at the end. Rounding each item first
// and summing the results can give a different number, so the totals never
// go through the per-item rounding path.
func (s *Service) Aggregate(ctx context.Context, planID uuid.UUID) (*Report, error) {
	blks, err := s.meals.ListBlocks(ctx, planID)
	if err != nil {
		return nil, err
	}

	var totalCal, totalProt, totalFat, totalCarb float64

	sections := []Section{}
	sectionIdx := map[string]int{} // meal type -> index, first appearance order

	for _, block := range blks {
		items, err := s.meals.ListItems(ctx, block.ID)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			// Items without a dish (plain water etc.) contribute zero
			// and are excluded from the listing.
			if item.Dish == nil {
				continue
			}

			factor := item.Amount / 100
			cal := item.Dish.CaloriesPer100 * factor
			prot := item.Dish.ProteinsPer100 * factor
			fat := item.Dish.FatsPer100 * factor
			carb := item.Dish.CarbsPer100 * factor

			totalCal += cal
			totalProt += prot
			totalFat += fat
			totalCarb += carb

			entry := Entry{
				Calories: int(math.Round(cal)),
				Proteins: int(math.Round(prot)),
				Fats:     int(math.Round(fat)),
				Carbs:    int(math.Round(carb)),
			}
			entry.Text = formatEntry(item.Dish.Name, item.Amount, item.Dish.Unit, entry)

			idx, ok := sectionIdx[block.Type]
			if !ok {
				idx = len(sections)
				sectionIdx[block.Type] = idx
				sections = append(sections, Section{Label: labelFor(block.Type)})
			}
			sections[idx].Entries = append(sections[idx].Entries, entry)
		}
	}

	return &Report{
		TotalCalories: int(math.Round(totalCal)),
		TotalProteins: int(math.Round(totalProt)),
		TotalFats:     int(math.Round(totalFat)),
		TotalCarbs:    int(math.Round(totalCarb)),
		MealTypes:     formatMealTypes(sections),
		Sections:      sections,
	}, nil
}

func formatEntry(name string, amount float64, unit string, e Entry) string {
	if unit == "" {
		unit = "г"
	}
	return fmt.Sprintf("%s (%s %s) [%d, %d, %d, %d]",
		name, strconv.FormatFloat(amount, 'f', -1, 64), unit,
		e.Calories, e.Proteins, e.Fats, e.Carbs)
}

func formatMealTypes(sections []Section) string {
	if len(sections) == 0 {
		return EmptyListing
	}

	parts := make([]string, len(sections))
	for i, sec := range sections {
		entries := make([]string, len(sec.Entries))
		for j, e := range sec.Entries {
			entries[j] = e.Text
		}
		parts[i] = sec.Label + ": " + strings.Join(entries, " | ")
	}
	return strings.Join(parts, " | ")
}
