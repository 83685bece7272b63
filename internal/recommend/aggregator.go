package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/moodlift/moodlift-backend/pkg/model"
)

// Minimum feedback samples before an activity qualifies for ranking. The
// two call sites use different noise floors: feedback summaries rank with
// two samples, the effectiveness report requires three.
const (
	SummaryMinSamples       = 2
	EffectivenessMinSamples = 3
)

// rankedListSize caps the most/least helpful lists in a summary.
const rankedListSize = 3

// ActivityRate is one activity's helpfulness within a feedback summary.
type ActivityRate struct {
	Activity      string  `json:"activity"`
	Rate          float64 `json:"rate"`
	TotalFeedback int     `json:"total_feedback"`
}

// WeeklyTrend is the helpfulness rate for one Monday-anchored week.
type WeeklyTrend struct {
	Week          string  `json:"week"` // YYYY-MM-DD of the week's Monday
	HelpfulRate   float64 `json:"helpful_rate"`
	TotalFeedback int     `json:"total_feedback"`
}

// FeedbackSummary aggregates recommendation feedback over a time window.
type FeedbackSummary struct {
	TotalFeedback          int            `json:"total_feedback"`
	HelpfulRate            float64        `json:"helpful_rate"`
	MostHelpfulActivities  []ActivityRate `json:"most_helpful_activities"`
	LeastHelpfulActivities []ActivityRate `json:"least_helpful_activities"`
	FeedbackTrends         []WeeklyTrend  `json:"feedback_trends"`
}

// ActivityEffectiveness reports how often a recommended activity was
// judged helpful.
type ActivityEffectiveness struct {
	Activity          string  `json:"activity"`
	TimesRecommended  int     `json:"times_recommended"`
	TimesHelpful      int     `json:"times_helpful"`
	EffectivenessRate float64 `json:"effectiveness_rate"`
}

type activityCounts struct {
	helpful int
	total   int
}

// Summarize computes a feedback summary over the trailing windowDays,
// considering only recommendations with recorded feedback. An empty input
// yields a zero-valued summary, never an error.
func Summarize(recs []model.Recommendation, windowDays int, now time.Time) FeedbackSummary {
	recent := withFeedbackInWindow(recs, windowDays, now)
	if len(recent) == 0 {
		return FeedbackSummary{
			MostHelpfulActivities:  []ActivityRate{},
			LeastHelpfulActivities: []ActivityRate{},
			FeedbackTrends:         []WeeklyTrend{},
		}
	}

	helpfulCount := 0
	for _, r := range recent {
		if *r.WasHelpful {
			helpfulCount++
		}
	}

	counts, order := countByActivity(recent)

	rates := make([]ActivityRate, 0, len(order))
	for _, activity := range order {
		c := counts[activity]
		if c.total < SummaryMinSamples {
			continue
		}
		rates = append(rates, ActivityRate{
			Activity:      activity,
			Rate:          percentage(c.helpful, c.total),
			TotalFeedback: c.total,
		})
	}
	sort.SliceStable(rates, func(i, j int) bool { return rates[i].Rate > rates[j].Rate })

	most := rates
	if len(most) > rankedListSize {
		most = most[:rankedListSize]
	}

	// Least-helpful is only reported when it cannot overlap the top list.
	least := []ActivityRate{}
	if len(rates) > rankedListSize {
		bottom := rates[len(rates)-rankedListSize:]
		least = make([]ActivityRate, 0, len(bottom))
		for i := len(bottom) - 1; i >= 0; i-- {
			least = append(least, bottom[i])
		}
	}

	return FeedbackSummary{
		TotalFeedback:          len(recent),
		HelpfulRate:            percentage(helpfulCount, len(recent)),
		MostHelpfulActivities:  most,
		LeastHelpfulActivities: least,
		FeedbackTrends:         weeklyTrends(recent),
	}
}

// EffectivenessReport ranks activities by helpfulness rate over the trailing
// windowDays, keeping only activities with at least EffectivenessMinSamples
// feedback samples.
func EffectivenessReport(recs []model.Recommendation, windowDays int, now time.Time) []ActivityEffectiveness {
	recent := withFeedbackInWindow(recs, windowDays, now)

	counts, order := countByActivity(recent)

	report := make([]ActivityEffectiveness, 0, len(order))
	for _, activity := range order {
		c := counts[activity]
		if c.total < EffectivenessMinSamples {
			continue
		}
		report = append(report, ActivityEffectiveness{
			Activity:          activity,
			TimesRecommended:  c.total,
			TimesHelpful:      c.helpful,
			EffectivenessRate: percentage(c.helpful, c.total),
		})
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].EffectivenessRate > report[j].EffectivenessRate
	})

	return report
}

// withFeedbackInWindow filters to recommendations inside the trailing window
// that carry a feedback verdict.
func withFeedbackInWindow(recs []model.Recommendation, windowDays int, now time.Time) []model.Recommendation {
	since := now.AddDate(0, 0, -windowDays)

	out := make([]model.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.WasHelpful == nil {
			continue
		}
		if r.Timestamp.Before(since) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// countByActivity tallies helpful/total per activity, preserving first-seen
// order so downstream sorting stays deterministic across runs.
func countByActivity(recs []model.Recommendation) (map[string]*activityCounts, []string) {
	counts := make(map[string]*activityCounts)
	var order []string

	for _, r := range recs {
		c, ok := counts[r.SuggestedActivity]
		if !ok {
			c = &activityCounts{}
			counts[r.SuggestedActivity] = c
			order = append(order, r.SuggestedActivity)
		}
		c.total++
		if *r.WasHelpful {
			c.helpful++
		}
	}
	return counts, order
}

// weeklyTrends groups feedback by Monday-anchored week and emits per-week
// helpfulness rates in ascending chronological order.
func weeklyTrends(recs []model.Recommendation) []WeeklyTrend {
	byWeek := make(map[string]*activityCounts)

	for _, r := range recs {
		week := weekStart(r.Timestamp).Format("2006-01-02")
		c, ok := byWeek[week]
		if !ok {
			c = &activityCounts{}
			byWeek[week] = c
		}
		c.total++
		if *r.WasHelpful {
			c.helpful++
		}
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	trends := make([]WeeklyTrend, 0, len(weeks))
	for _, week := range weeks {
		c := byWeek[week]
		trends = append(trends, WeeklyTrend{
			Week:          week,
			HelpfulRate:   percentage(c.helpful, c.total),
			TotalFeedback: c.total,
		})
	}
	return trends
}

// weekStart truncates t to the Monday of its week.
func weekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	weekday := (int(date.Weekday()) + 6) % 7 // Monday = 0
	return date.AddDate(0, 0, -weekday)
}

// percentage returns 100*part/total rounded to one decimal.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
