package engine

import (
	"sort"
	"time"

	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/google/uuid"
)

// MinutesInWeek is the denominator for percentage-of-week figures.
const MinutesInWeek = 10080

// WeeklyBreakdown is one activity type's share of a week, either planned
// (from a routine) or actual (from tracking entries).
type WeeklyBreakdown struct {
	ActivityTypeID   uuid.UUID `json:"activity_type_id"`
	ActivityName     string    `json:"activity_name"`
	Color            string    `json:"color"`
	PlannedMinutes   int       `json:"planned_minutes,omitempty"`
	ActualMinutes    int       `json:"actual_minutes,omitempty"`
	PercentageOfWeek float64   `json:"percentage_of_week"`
}

// RoutineBreakdown aggregates a routine's blocks into per-activity planned
// minutes. Activity types with no planned time are omitted; rows come back
// sorted by planned minutes, largest first.
func RoutineBreakdown(routine entity.Routine, activityTypes []entity.ActivityType) []WeeklyBreakdown {
	planned := make(map[uuid.UUID]int)
	for _, b := range routine.Blocks {
		planned[b.ActivityTypeID] += b.DurationMinutes()
	}
	rows := make([]WeeklyBreakdown, 0, len(planned))
	for _, at := range activityTypes {
		minutes := planned[at.ID]
		if minutes == 0 {
			continue
		}
		rows = append(rows, WeeklyBreakdown{
			ActivityTypeID:   at.ID,
			ActivityName:     at.Name,
			Color:            at.Color,
			PlannedMinutes:   minutes,
			PercentageOfWeek: float64(minutes) / MinutesInWeek * 100,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PlannedMinutes > rows[j].PlannedMinutes
	})
	return rows
}

// TrackedBreakdown aggregates finished tracking entries whose date falls in
// [weekStart, weekStart+7d) into per-activity actual minutes. Entries still
// running are ignored. Row shape and ordering mirror RoutineBreakdown.
func TrackedBreakdown(entries []entity.TrackingEntry, weekStart time.Time, activityTypes []entity.ActivityType) []WeeklyBreakdown {
	weekEnd := weekStart.AddDate(0, 0, 7)
	actual := make(map[uuid.UUID]int)
	for _, e := range entries {
		if e.EndedAt == nil {
			continue
		}
		if e.EntryDate.Before(weekStart) || !e.EntryDate.Before(weekEnd) {
			continue
		}
		actual[e.ActivityTypeID] += e.DurationMinutes()
	}
	rows := make([]WeeklyBreakdown, 0, len(actual))
	for _, at := range activityTypes {
		minutes := actual[at.ID]
		if minutes == 0 {
			continue
		}
		rows = append(rows, WeeklyBreakdown{
			ActivityTypeID:   at.ID,
			ActivityName:     at.Name,
			Color:            at.Color,
			ActualMinutes:    minutes,
			PercentageOfWeek: float64(minutes) / MinutesInWeek * 100,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ActualMinutes > rows[j].ActualMinutes
	})
	return rows
}
