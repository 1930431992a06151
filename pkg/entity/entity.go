package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusArchived  GoalStatus = "archived"
)

type TrackingSource string

const (
	SourceScheduled    TrackingSource = "scheduled"
	SourceManual       TrackingSource = "manual"
	SourceNotification TrackingSource = "notification"
)

// ActivityType is a user-defined category (e.g. "Work", "Fitness") used to
// classify routine blocks, goals and tracked time.
type ActivityType struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon,omitempty"`
	IsDefault bool      `json:"is_default"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Goal is a target amount of time to accumulate against an activity type.
// LoggedMinutes only grows; once it reaches EstimatedMinutes the status
// flips to completed.
type Goal struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"uid"`
	Name             string     `json:"name"`
	Description      string     `json:"desc"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	LoggedMinutes    int        `json:"logged_minutes"`
	ActivityTypeID   uuid.UUID  `json:"activity_type_id"`
	Status           GoalStatus `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Routine is a named weekly schedule of blocks. At most one routine per
// user is active at any time.
type Routine struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"uid"`
	Name      string         `json:"name"`
	IsActive  bool           `json:"is_active"`
	Blocks    []RoutineBlock `json:"blocks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RoutineBlock is a fixed weekly time slot. DayOfWeek is 0-indexed from
// Sunday. StartMinutes/EndMinutes are minutes of day in [0,1439]; a block
// whose end is at or before its start wraps past midnight.
type RoutineBlock struct {
	ID             uuid.UUID  `json:"id"`
	RoutineID      uuid.UUID  `json:"routine_id"`
	DayOfWeek      int        `json:"day_of_week"`
	StartMinutes   int        `json:"start_minutes"`
	EndMinutes     int        `json:"end_minutes"`
	ActivityTypeID uuid.UUID  `json:"activity_type_id"`
	GoalID         *uuid.UUID `json:"goal_id,omitempty"`
	SortOrder      int        `json:"sort_order"`
}

// DurationMinutes returns the block length, adjusted for midnight wrap.
func (b RoutineBlock) DurationMinutes() int {
	d := b.EndMinutes - b.StartMinutes
	if d <= 0 {
		d += 1440
	}
	return d
}

// TrackingEntry records actual time spent. EndedAt is nil while tracking
// is in progress; at most one entry per user may be running.
type TrackingEntry struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"uid"`
	EntryDate      time.Time      `json:"entry_date"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	ActivityTypeID uuid.UUID      `json:"activity_type_id"`
	GoalID         *uuid.UUID     `json:"goal_id,omitempty"`
	RoutineBlockID *uuid.UUID     `json:"routine_block_id,omitempty"`
	Source         TrackingSource `json:"source"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DurationMinutes returns the elapsed minutes of a finished entry, rounded
// to the nearest minute. Running entries report 0.
func (e TrackingEntry) DurationMinutes() int {
	if e.EndedAt == nil {
		return 0
	}
	return int(e.EndedAt.Sub(e.StartedAt).Round(time.Minute) / time.Minute)
}
