package recommend

const (
	// MaxSuggestions caps how many activities a single selection returns.
	MaxSuggestions = 3

	// immediateOnlyThreshold is the time budget (minutes) at or below which
	// only the immediate bucket is considered.
	immediateOnlyThreshold = 20
)

// Select picks up to MaxSuggestions activities for the given mood level and
// time budget, skipping names present in recent. The result is deterministic
// for identical inputs: candidates are always walked in catalog order.
//
// The recency filter is advisory: when it would empty the pool, it is
// dropped and the first two candidates are used instead, since repeating a
// suggestion beats returning nothing.
func Select(moodLevel, timeAvailable int, recent map[string]struct{}) []ActivitySuggestion {
	candidates := candidatesFor(moodLevel, timeAvailable)
	if len(candidates) == 0 {
		return nil
	}

	available := make([]ActivitySuggestion, 0, len(candidates))
	for _, a := range candidates {
		if _, seen := recent[a.Activity]; !seen {
			available = append(available, a)
		}
	}
	if len(available) == 0 {
		available = candidates[:min(2, len(candidates))]
	}

	count := min(MaxSuggestions, len(available))
	return selectDiverse(available, count)
}

// candidatesFor builds the ordered candidate pool for a mood level and time
// budget: the immediate bucket alone for short budgets, immediate plus longer
// otherwise, filtered down to activities that fit the budget. When nothing
// fits, the first two unfiltered entries are kept so the pool never empties.
func candidatesFor(moodLevel, timeAvailable int) []ActivitySuggestion {
	bucket := BucketFor(moodLevel)

	var activities []ActivitySuggestion
	if timeAvailable <= immediateOnlyThreshold {
		activities = append(activities, bucket.Immediate...)
	} else {
		activities = append(activities, bucket.Immediate...)
		activities = append(activities, bucket.Longer...)
	}

	suitable := make([]ActivitySuggestion, 0, len(activities))
	for _, a := range activities {
		if a.EstimatedTime <= timeAvailable {
			suitable = append(suitable, a)
		}
	}
	if len(suitable) == 0 {
		return activities[:min(2, len(activities))]
	}
	return suitable
}

// selectDiverse picks count activities maximizing category diversity: first
// at most one per distinct category in pool order, then remaining slots are
// filled with the next unchosen activities in pool order.
func selectDiverse(pool []ActivitySuggestion, count int) []ActivitySuggestion {
	if len(pool) <= count {
		return pool
	}

	selected := make([]ActivitySuggestion, 0, count)
	chosen := make(map[int]struct{}, count)
	categoriesUsed := make(map[Category]struct{})

	for i, a := range pool {
		if len(selected) >= count {
			break
		}
		if _, used := categoriesUsed[a.Category]; used {
			continue
		}
		selected = append(selected, a)
		chosen[i] = struct{}{}
		categoriesUsed[a.Category] = struct{}{}
	}

	for i, a := range pool {
		if len(selected) >= count {
			break
		}
		if _, taken := chosen[i]; taken {
			continue
		}
		selected = append(selected, a)
		chosen[i] = struct{}{}
	}

	return selected
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
