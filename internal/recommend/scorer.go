package recommend

// Confidence score weights. The clamp below keeps the result in [0, 1]
// even if these are retuned to sum past 1.0.
const (
	baseScore       = 0.7
	impactMatchBump = 0.2
	easyBump        = 0.1
)

// Score computes a heuristic confidence value in [0, 1] for recommending
// the activity at the given mood level. Pure and deterministic.
func Score(moodLevel int, activity ActivitySuggestion) float64 {
	score := baseScore

	switch moodLevel {
	case 1, 2:
		if activity.MoodImpact == ImpactCalming {
			score += impactMatchBump
		}
	case 4, 5:
		if activity.MoodImpact == ImpactPositive || activity.MoodImpact == ImpactEnergizing {
			score += impactMatchBump
		}
	}

	if activity.Difficulty == DifficultyEasy {
		score += easyBump
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}
