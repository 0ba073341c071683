package estimate

import (
	"fmt"
	"strconv"
	"strings"
)

const csvHeader = "id,createdAt,totalKcal,mealConfidence,itemsCount,itemsList"

// MealCSV renders one meal record as a two-line CSV export.
func MealCSV(rec MealRecord) (string, error) {
	if rec.ID == "" {
		return "", fmt.Errorf("meal record requires an id")
	}
	row := strings.Join([]string{
		strconv.Quote(rec.ID),
		strconv.FormatInt(rec.CreatedAt, 10),
		strconv.Itoa(rec.ItemTotal),
		strconv.Quote(string(rec.MealConfidence)),
		strconv.Itoa(len(rec.Items)),
		strconv.Quote(formatItems(rec.Items)),
	}, ",")
	return csvHeader + "\n" + row, nil
}

func formatItems(items []DisplayItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (%d kcal)", item.Name, item.KcalValue()))
	}
	return strings.Join(parts, "; ")
}
