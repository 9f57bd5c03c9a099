package services

import (
	"testing"

	"github.com/nanobio/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		part     int
		total    int
		expected int
	}{
		{name: "zero total guards division", part: 0, total: 0, expected: 0},
		{name: "exact", part: 1, total: 2, expected: 50},
		{name: "rounds half up", part: 1, total: 8, expected: 13},
		{name: "two of three", part: 2, total: 3, expected: 67},
		{name: "full", part: 3, total: 3, expected: 100},
		{name: "none", part: 0, total: 5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(tt.part, tt.total))
		})
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name     string
		xp       int
		expected int
	}{
		{name: "fresh profile", xp: 0, expected: 1},
		{name: "below first step", xp: 499, expected: 1},
		{name: "first step", xp: 500, expected: 2},
		{name: "mid range", xp: 1250, expected: 3},
		{name: "negative clamps to one", xp: -10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForXP(tt.xp))
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp += 50 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level must never decrease as xp grows")
		prev = level
	}
}

func TestDeriveDomain(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		title    string
		expected string
	}{
		{name: "explicit label wins", explicit: "Nanoscience", title: "Quantum Dots", expected: "Nanoscience"},
		{name: "falls back to leading title token", explicit: "", title: "Biotechnology Basics", expected: "Biotechnology"},
		{name: "whitespace explicit ignored", explicit: "   ", title: "Lab Safety", expected: "Lab"},
		{name: "empty everything is uncategorized", explicit: "", title: "", expected: UncategorizedDomain},
		{name: "blank title is uncategorized", explicit: "", title: "   ", expected: UncategorizedDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveDomain(tt.explicit, tt.title))
		})
	}
}

func TestComputeDomainStats(t *testing.T) {
	catalog := []models.Module{
		{ID: "m1", Title: "Atomic Layer Deposition", Domain: "Nanoscience"},
		{ID: "m2", Title: "Quantum Dots", Domain: "Nanoscience"},
		{ID: "m3", Title: "CRISPR Screening", Domain: "Biotechnology"},
		{ID: "m4", Title: "Gene Therapy Vectors", Domain: "Biotechnology"},
		{ID: "m5", Title: "Cleanroom Conduct"},
	}
	completed := map[string]bool{"m1": true, "m2": true, "m3": true}

	stats := ComputeDomainStats(catalog, completed)

	assert.Len(t, stats, 3)
	// Sorted by percentage descending
	assert.Equal(t, "Nanoscience", stats[0].DomainName)
	assert.Equal(t, 100, stats[0].Percentage)
	assert.Equal(t, "Biotechnology", stats[1].DomainName)
	assert.Equal(t, 50, stats[1].Percentage)
	assert.Equal(t, "Cleanroom", stats[2].DomainName)
	assert.Equal(t, 0, stats[2].Percentage)
}

func TestComputeDomainStats_CompletedSumMatchesIntersection(t *testing.T) {
	catalog := []models.Module{
		{ID: "m1", Domain: "A"},
		{ID: "m2", Domain: "A"},
		{ID: "m3", Domain: "B"},
	}
	// "m9" is completed but not in the catalog, so it must not be counted
	completed := map[string]bool{"m1": true, "m3": true, "m9": true}

	stats := ComputeDomainStats(catalog, completed)

	sum := 0
	for _, stat := range stats {
		sum += stat.Completed
		assert.GreaterOrEqual(t, stat.Percentage, 0)
		assert.LessOrEqual(t, stat.Percentage, 100)
		assert.Greater(t, stat.Total, 0, "empty groups must not be emitted")
	}
	assert.Equal(t, 2, sum)
}

func TestComputeDomainStats_EmptyCatalog(t *testing.T) {
	stats := ComputeDomainStats(nil, map[string]bool{"m1": true})
	assert.Empty(t, stats)
}

func TestComputeDomainStats_StableOrderOnTies(t *testing.T) {
	catalog := []models.Module{
		{ID: "m1", Domain: "First"},
		{ID: "m2", Domain: "Second"},
		{ID: "m3", Domain: "Third"},
	}

	stats := ComputeDomainStats(catalog, map[string]bool{})

	assert.Equal(t, []string{"First", "Second", "Third"},
		[]string{stats[0].DomainName, stats[1].DomainName, stats[2].DomainName})
}
