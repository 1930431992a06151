package engine

import (
	"math"
	"time"

	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/google/uuid"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// PredictionResult projects when a goal finishes under the current routine
// allocation. CompletionDate and WeeksRemaining are nil when the routine
// allocates no time to the goal's activity type and the goal is not yet done.
type PredictionResult struct {
	GoalID           uuid.UUID       `json:"goal_id"`
	RemainingMinutes int             `json:"remaining_minutes"`
	WeeklyMinutes    int             `json:"weekly_minutes"`
	WeeksRemaining   *float64        `json:"weeks_remaining"`
	CompletionDate   *time.Time      `json:"completion_date"`
	Confidence       ConfidenceLevel `json:"confidence"`
}

// WeeklyMinutesForActivityType sums the wrap-adjusted durations of every
// block in the routine assigned to the given activity type. This is the
// linear rate the projection runs on.
func WeeklyMinutesForActivityType(routine entity.Routine, activityTypeID uuid.UUID) int {
	total := 0
	for _, b := range routine.Blocks {
		if b.ActivityTypeID == activityTypeID {
			total += b.DurationMinutes()
		}
	}
	return total
}

// PredictGoalCompletion projects a completion date for one goal. The clock
// is passed in as now so callers and tests control "today".
//
// Confidence is a raw sample-size heuristic over the tracking history: 14+
// entries on the goal's activity type read as high, 7+ as medium, anything
// less as low. It deliberately ignores recency and variance.
func PredictGoalCompletion(goal entity.Goal, routine entity.Routine, history []entity.TrackingEntry, now time.Time) PredictionResult {
	res := PredictionResult{
		GoalID:           goal.ID,
		RemainingMinutes: goal.EstimatedMinutes - goal.LoggedMinutes,
		WeeklyMinutes:    WeeklyMinutesForActivityType(routine, goal.ActivityTypeID),
		Confidence:       ConfidenceLow,
	}
	today := now.Truncate(24 * time.Hour)
	if res.RemainingMinutes <= 0 {
		zero := 0.0
		res.WeeksRemaining = &zero
		res.CompletionDate = &today
		return res
	}
	if res.WeeklyMinutes == 0 {
		return res
	}
	weeks := float64(res.RemainingMinutes) / float64(res.WeeklyMinutes)
	days := int(math.Ceil(weeks * 7))
	date := today.AddDate(0, 0, days)
	res.WeeksRemaining = &weeks
	res.CompletionDate = &date
	res.Confidence = confidenceFromHistory(history, goal.ActivityTypeID)
	return res
}

// PredictAllGoals projects every active goal; goals in any other status are
// skipped entirely.
func PredictAllGoals(goals []entity.Goal, routine entity.Routine, history []entity.TrackingEntry, now time.Time) []PredictionResult {
	results := make([]PredictionResult, 0, len(goals))
	for _, g := range goals {
		if g.Status != entity.GoalStatusActive {
			continue
		}
		results = append(results, PredictGoalCompletion(g, routine, history, now))
	}
	return results
}

func confidenceFromHistory(history []entity.TrackingEntry, activityTypeID uuid.UUID) ConfidenceLevel {
	count := 0
	for _, e := range history {
		if e.ActivityTypeID == activityTypeID {
			count++
		}
	}
	switch {
	case count >= 14:
		return ConfidenceHigh
	case count >= 7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
