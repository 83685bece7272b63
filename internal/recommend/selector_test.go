package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_LowMoodShortBudget(t *testing.T) {
	suggestions := Select(1, 10, nil)

	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), MaxSuggestions)

	// With 10 minutes at mood 1 only the breathing exercise fits, and the
	// pool falls back to the first two immediate entries.
	keywords := []string{"respirer", "musique", "douche", "proche", "méditation"}
	for _, s := range suggestions {
		lower := strings.ToLower(s.Activity)
		matched := false
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "unexpected suggestion for low mood: %q", s.Activity)
	}
}

func TestSelect_ShortBudgetExcludesLongerBucket(t *testing.T) {
	bucket := BucketFor(2)
	longer := make(map[string]bool)
	for _, a := range bucket.Longer {
		longer[a.Activity] = true
	}

	suggestions := Select(2, 15, nil)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.False(t, longer[s.Activity], "longer-horizon activity %q leaked into a 15 minute budget", s.Activity)
	}
}

func TestSelect_TimeFilterFallback(t *testing.T) {
	// One minute fits nothing, so the first two immediate entries are kept.
	suggestions := Select(3, 1, nil)

	require.Len(t, suggestions, 2)
	bucket := BucketFor(3)
	assert.Equal(t, bucket.Immediate[0].Activity, suggestions[0].Activity)
	assert.Equal(t, bucket.Immediate[1].Activity, suggestions[1].Activity)
}

func TestSelect_RecencyFilterSkipsRecentActivities(t *testing.T) {
	bucket := BucketFor(4)
	recent := map[string]struct{}{
		bucket.Immediate[0].Activity: {},
	}

	suggestions := Select(4, 60, recent)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.NotEqual(t, bucket.Immediate[0].Activity, s.Activity)
	}
}

func TestSelect_RecencyFallbackWhenEverythingIsRecent(t *testing.T) {
	recent := make(map[string]struct{})
	bucket := BucketFor(5)
	for _, a := range bucket.Immediate {
		recent[a.Activity] = struct{}{}
	}
	for _, a := range bucket.Longer {
		recent[a.Activity] = struct{}{}
	}

	// Repeats beat an empty response.
	suggestions := Select(5, 180, recent)
	assert.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 2)
}

func TestSelect_Deterministic(t *testing.T) {
	first := Select(3, 60, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Select(3, 60, nil))
	}
}

func TestSelectDiverse_PrefersDistinctCategories(t *testing.T) {
	pool := []ActivitySuggestion{
		{Activity: "a1", Category: CategoryMental},
		{Activity: "a2", Category: CategoryMental},
		{Activity: "a3", Category: CategoryPhysical},
		{Activity: "a4", Category: CategorySocial},
	}

	picked := selectDiverse(pool, 3)

	require.Len(t, picked, 3)
	assert.Equal(t, "a1", picked[0].Activity)
	assert.Equal(t, "a3", picked[1].Activity)
	assert.Equal(t, "a4", picked[2].Activity)
}

func TestSelectDiverse_FillsFromPoolOrderWhenCategoriesRepeat(t *testing.T) {
	pool := []ActivitySuggestion{
		{Activity: "a1", Category: CategoryMental},
		{Activity: "a2", Category: CategoryMental},
		{Activity: "a3", Category: CategoryMental},
		{Activity: "a4", Category: CategoryMental},
	}

	picked := selectDiverse(pool, 3)

	require.Len(t, picked, 3)
	assert.Equal(t, "a1", picked[0].Activity)
	assert.Equal(t, "a2", picked[1].Activity)
	assert.Equal(t, "a3", picked[2].Activity)
}

func TestSelectDiverse_SmallPoolReturnedAsIs(t *testing.T) {
	pool := []ActivitySuggestion{
		{Activity: "a1", Category: CategoryMental},
		{Activity: "a2", Category: CategoryMental},
	}

	assert.Equal(t, pool, selectDiverse(pool, 3))
}
