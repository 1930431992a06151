// Package engine holds the pure scheduling logic: structural validation of
// routine blocks and goals, overlap detection, planned/tracked weekly
// analytics and goal-completion prediction. Nothing in here touches the
// database or the clock beyond what callers pass in, so every function can
// be unit-tested with plain values.
package engine

import (
	"strings"

	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/google/uuid"
)

// FieldError names a single failed check on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects every failed check. Validators never stop at
// the first failure; callers get the full list at once.
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// BlockInput is the partial form of a routine block under validation.
// Pointer fields distinguish "absent" from zero values.
type BlockInput struct {
	DayOfWeek      *int
	StartMinutes   *int
	EndMinutes     *int
	ActivityTypeID string
}

// GoalInput is the partial form of a goal under validation.
type GoalInput struct {
	Name             string
	EstimatedMinutes *int
	ActivityTypeID   string
}

// ValidateRoutineBlock runs every structural check on a block and reports
// all failures together.
func ValidateRoutineBlock(b BlockInput) ValidationResult {
	var res ValidationResult
	if b.StartMinutes == nil {
		res.add("startMinutes", "start time is required")
	} else if *b.StartMinutes < 0 || *b.StartMinutes > 1439 {
		res.add("startMinutes", "start time must be between 00:00 and 23:59")
	}
	if b.EndMinutes == nil {
		res.add("endMinutes", "end time is required")
	} else if *b.EndMinutes < 0 || *b.EndMinutes > 1439 {
		res.add("endMinutes", "end time must be between 00:00 and 23:59")
	}
	if b.StartMinutes != nil && b.EndMinutes != nil && *b.StartMinutes == *b.EndMinutes {
		res.add("endMinutes", "a block cannot have zero duration")
	}
	if b.DayOfWeek == nil {
		res.add("dayOfWeek", "day of week is required")
	} else if *b.DayOfWeek < 0 || *b.DayOfWeek > 6 {
		res.add("dayOfWeek", "day of week must be between 0 and 6")
	}
	if b.ActivityTypeID == "" {
		res.add("activityTypeId", "activity type is required")
	}
	return res
}

// ValidateGoal checks the structural requirements of a goal.
func ValidateGoal(g GoalInput) ValidationResult {
	var res ValidationResult
	if strings.TrimSpace(g.Name) == "" {
		res.add("name", "name is required")
	}
	if g.EstimatedMinutes == nil {
		res.add("estimatedMinutes", "estimated minutes is required")
	} else if *g.EstimatedMinutes <= 0 {
		res.add("estimatedMinutes", "estimated minutes must be positive")
	}
	if g.ActivityTypeID == "" {
		res.add("activityTypeId", "activity type is required")
	}
	return res
}

// FindOverlappingBlocks returns every existing block on the candidate's day
// whose half-open [start,end) interval intersects the candidate's. A block
// sharing the candidate's ID is skipped so updates do not conflict with
// themselves. Intervals that merely touch do not overlap.
//
// Blocks that wrap past midnight (end <= start) are compared on their raw
// minute values, so the wrapped tail is not checked against the next day's
// blocks. That mirrors the behavior the mobile clients rely on; changing it
// would start rejecting schedules that save fine today.
func FindOverlappingBlocks(existing []entity.RoutineBlock, candidate entity.RoutineBlock) []entity.RoutineBlock {
	var overlapping []entity.RoutineBlock
	for _, b := range existing {
		if candidate.ID != uuid.Nil && b.ID == candidate.ID {
			continue
		}
		if b.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if candidate.EndMinutes <= b.StartMinutes || candidate.StartMinutes >= b.EndMinutes {
			continue
		}
		overlapping = append(overlapping, b)
	}
	return overlapping
}
