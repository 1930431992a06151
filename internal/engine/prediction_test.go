package engine_test

import (
	"testing"
	"time"

	"github.com/RogueKostas/ZenRoutine/internal/engine"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var predictionNow = time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC)

func routineAllocating(activityTypeID uuid.UUID, weeklyMinutes int) entity.Routine {
	return entity.Routine{Blocks: []entity.RoutineBlock{
		{ID: uuid.New(), DayOfWeek: 1, StartMinutes: 540, EndMinutes: 540 + weeklyMinutes, ActivityTypeID: activityTypeID},
	}}
}

func historyEntries(activityTypeID uuid.UUID, n int) []entity.TrackingEntry {
	entries := make([]entity.TrackingEntry, n)
	for i := range entries {
		entries[i] = entity.TrackingEntry{ID: uuid.New(), ActivityTypeID: activityTypeID}
	}
	return entries
}

func TestWeeklyMinutesForActivityType(t *testing.T) {
	atID := uuid.New()
	other := uuid.New()
	routine := entity.Routine{Blocks: []entity.RoutineBlock{
		{DayOfWeek: 1, StartMinutes: 540, EndMinutes: 600, ActivityTypeID: atID},
		{DayOfWeek: 3, StartMinutes: 1380, EndMinutes: 60, ActivityTypeID: atID}, // wraps, 120m
		{DayOfWeek: 4, StartMinutes: 540, EndMinutes: 600, ActivityTypeID: other},
	}}
	assert.Equal(t, 180, engine.WeeklyMinutesForActivityType(routine, atID))
	assert.Equal(t, 0, engine.WeeklyMinutesForActivityType(routine, uuid.New()))
}

func TestPredictGoalCompletion(t *testing.T) {
	atID := uuid.New()
	today := predictionNow.Truncate(24 * time.Hour)

	t.Run("already done goal completes today", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 600, LoggedMinutes: 600, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		res := engine.PredictGoalCompletion(goal, routineAllocating(atID, 300), nil, predictionNow)
		if assert.NotNil(t, res.CompletionDate) {
			assert.Equal(t, today, *res.CompletionDate)
		}
		if assert.NotNil(t, res.WeeksRemaining) {
			assert.Equal(t, 0.0, *res.WeeksRemaining)
		}
		assert.Equal(t, engine.ConfidenceLow, res.Confidence)
	})
	t.Run("zero allocation yields no projection", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 600, LoggedMinutes: 0, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		res := engine.PredictGoalCompletion(goal, entity.Routine{}, historyEntries(atID, 20), predictionNow)
		assert.Nil(t, res.CompletionDate)
		assert.Nil(t, res.WeeksRemaining)
		assert.Equal(t, engine.ConfidenceLow, res.Confidence)
	})
	t.Run("linear projection", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 600, LoggedMinutes: 0, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		res := engine.PredictGoalCompletion(goal, routineAllocating(atID, 300), nil, predictionNow)
		if assert.NotNil(t, res.WeeksRemaining) {
			assert.Equal(t, 2.0, *res.WeeksRemaining)
		}
		if assert.NotNil(t, res.CompletionDate) {
			assert.Equal(t, today.AddDate(0, 0, 14), *res.CompletionDate)
		}
	})
	t.Run("fractional weeks round days up", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 450, LoggedMinutes: 0, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		res := engine.PredictGoalCompletion(goal, routineAllocating(atID, 300), nil, predictionNow)
		// 1.5 weeks -> ceil(10.5) = 11 days
		if assert.NotNil(t, res.CompletionDate) {
			assert.Equal(t, today.AddDate(0, 0, 11), *res.CompletionDate)
		}
	})
	t.Run("confidence thresholds", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 600, LoggedMinutes: 0, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		routine := routineAllocating(atID, 300)
		cases := []struct {
			entries int
			want    engine.ConfidenceLevel
		}{
			{0, engine.ConfidenceLow},
			{6, engine.ConfidenceLow},
			{7, engine.ConfidenceMedium},
			{13, engine.ConfidenceMedium},
			{14, engine.ConfidenceHigh},
			{30, engine.ConfidenceHigh},
		}
		for _, c := range cases {
			res := engine.PredictGoalCompletion(goal, routine, historyEntries(atID, c.entries), predictionNow)
			assert.Equal(t, c.want, res.Confidence, "with %d entries", c.entries)
		}
	})
	t.Run("history on other activity types does not count", func(t *testing.T) {
		goal := entity.Goal{ID: uuid.New(), EstimatedMinutes: 600, LoggedMinutes: 0, ActivityTypeID: atID, Status: entity.GoalStatusActive}
		res := engine.PredictGoalCompletion(goal, routineAllocating(atID, 300), historyEntries(uuid.New(), 20), predictionNow)
		assert.Equal(t, engine.ConfidenceLow, res.Confidence)
	})
}

func TestPredictAllGoals(t *testing.T) {
	atID := uuid.New()
	routine := routineAllocating(atID, 300)
	goals := []entity.Goal{
		{ID: uuid.New(), EstimatedMinutes: 600, ActivityTypeID: atID, Status: entity.GoalStatusActive},
		{ID: uuid.New(), EstimatedMinutes: 600, ActivityTypeID: atID, Status: entity.GoalStatusPaused},
		{ID: uuid.New(), EstimatedMinutes: 600, ActivityTypeID: atID, Status: entity.GoalStatusCompleted},
		{ID: uuid.New(), EstimatedMinutes: 600, ActivityTypeID: atID, Status: entity.GoalStatusArchived},
		{ID: uuid.New(), EstimatedMinutes: 300, ActivityTypeID: atID, Status: entity.GoalStatusActive},
	}
	results := engine.PredictAllGoals(goals, routine, nil, predictionNow)
	assert.Len(t, results, 2)
	assert.Equal(t, goals[0].ID, results[0].GoalID)
	assert.Equal(t, goals[4].ID, results[1].GoalID)
}
