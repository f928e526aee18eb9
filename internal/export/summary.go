package export

import (
	"fmt"
	"sort"

	"github.com/ecosdelseo/prospector/internal/model"
)

// Stats aggregates a result set for the executive summary sheet.
type Stats struct {
	City           string
	Total          int
	WithoutWebsite int
	Premium        int
	Alto           int
	Medio          int
	Bajo           int
	AverageRating  float64
	TopCategories  []string
}

// Summarize computes workbook summary statistics.
func Summarize(businesses []model.EnrichedBusiness, city string) Stats {
	stats := Stats{City: city, Total: len(businesses)}
	if stats.Total == 0 {
		return stats
	}

	var ratingSum float64
	categories := make(map[string]int)
	for _, b := range businesses {
		ratingSum += b.Rating
		if !b.HasWebsite() {
			stats.WithoutWebsite++
		}
		switch b.Priority {
		case model.PriorityPremium:
			stats.Premium++
		case model.PriorityAlto:
			stats.Alto++
		case model.PriorityMedio:
			stats.Medio++
		case model.PriorityBajo:
			stats.Bajo++
		}
		cat := b.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		categories[cat]++
	}
	stats.AverageRating = ratingSum / float64(stats.Total)

	type catCount struct {
		name  string
		count int
	}
	counts := make([]catCount, 0, len(categories))
	for name, count := range categories {
		counts = append(counts, catCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})
	for i, c := range counts {
		if i >= 5 {
			break
		}
		stats.TopCategories = append(stats.TopCategories, fmt.Sprintf("%s: %d", c.name, c.count))
	}
	return stats
}
