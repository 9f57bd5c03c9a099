package services

import (
	"math"
	"sort"
	"strings"

	"github.com/nanobio/backend/internal/models"
)

const (
	// PassThreshold is the minimum quiz percentage that marks a module completed
	PassThreshold = 70
	// DeckCompletionXP is awarded once per finished flashcard deck
	DeckCompletionXP = 50
	// LevelStepXP is the amount of experience per level
	LevelStepXP = 500
	// UncategorizedDomain is the sentinel group for modules without a domain label
	UncategorizedDomain = "Uncategorized"
)

// Percent returns round-half-up of 100*part/total, or 0 when total is 0.
// The result is always within [0, 100] for 0 <= part <= total.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// LevelForXP computes the level for an experience total.
// The function is monotonically non-decreasing, so awards can never lower a level.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/LevelStepXP + 1
}

// DeriveDomain resolves the grouping label for a module. An explicit domain label
// wins; otherwise the leading token of the title is used as a heuristic label.
// A module with neither falls into the uncategorized group.
func DeriveDomain(explicit, title string) string {
	if d := strings.TrimSpace(explicit); d != "" {
		return d
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return UncategorizedDomain
	}
	return fields[0]
}

// ComputeDomainStats groups the catalog by domain label and computes per-domain
// completion counts and percentages against the set of completed module IDs.
// Groups with zero modules are never emitted. The output is sorted by percentage
// descending; ties keep the order in which the domains first appear in the catalog.
func ComputeDomainStats(catalog []models.Module, completedIDs map[string]bool) []models.DomainStat {
	byDomain := make(map[string]*models.DomainStat)
	order := make([]string, 0)

	for _, mod := range catalog {
		name := DeriveDomain(mod.Domain, mod.Title)
		stat, ok := byDomain[name]
		if !ok {
			stat = &models.DomainStat{DomainName: name}
			byDomain[name] = stat
			order = append(order, name)
		}
		stat.Total++
		if completedIDs[mod.ID] {
			stat.Completed++
		}
	}

	stats := make([]models.DomainStat, 0, len(order))
	for _, name := range order {
		stat := byDomain[name]
		stat.Percentage = Percent(stat.Completed, stat.Total)
		stats = append(stats, *stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Percentage > stats[j].Percentage
	})

	return stats
}
