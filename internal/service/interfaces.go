package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RogueKostas/ZenRoutine/internal/engine"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateActivityTypeRequest struct {
	Name      string `validate:"required,min=1,max=100"`
	Color     string `validate:"required,hexcolor"`
	Icon      string
	IsDefault bool
	SortOrder int
}

type UpdateActivityTypeRequest struct {
	Name      string `validate:"required,min=1,max=100"`
	Color     string `validate:"required,hexcolor"`
	Icon      string
	SortOrder int
}

// GoalRequest carries the partial goal shape; pointer fields distinguish
// absent values so the engine validator can report them as missing.
type GoalRequest struct {
	Name             string
	Description      string
	EstimatedMinutes *int
	ActivityTypeID   string
	Status           *entity.GoalStatus
}

// BlockRequest carries the partial routine block shape.
type BlockRequest struct {
	DayOfWeek      *int
	StartMinutes   *int
	EndMinutes     *int
	ActivityTypeID string
	GoalID         *uuid.UUID
	SortOrder      int
}

type StartTrackingRequest struct {
	ActivityTypeID uuid.UUID
	GoalID         *uuid.UUID
	RoutineBlockID *uuid.UUID
	Source         entity.TrackingSource
	Notes          string
}

type ManualEntryRequest struct {
	EntryDate      time.Time
	StartedAt      time.Time
	EndedAt        time.Time
	ActivityTypeID uuid.UUID
	GoalID         *uuid.UUID
	RoutineBlockID *uuid.UUID
	Notes          string
}

// StopResult is what stopping the running entry produced: the finished
// entry and, when it was linked to a goal, the goal after logging.
type StopResult struct {
	Entry         entity.TrackingEntry `json:"entry"`
	DurationMins  int                  `json:"duration_minutes"`
	Goal          *entity.Goal         `json:"goal,omitempty"`
	GoalCompleted bool                 `json:"goal_completed"`
}

// ValidationFailedError carries the engine's collected field errors across
// the service boundary so handlers can render them verbatim.
type ValidationFailedError struct {
	Result engine.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed with %d field error(s)", len(e.Result.Errors))
}

// BlockOverlapError reports which existing blocks conflict with a candidate.
type BlockOverlapError struct {
	Conflicts []entity.RoutineBlock
}

func (e *BlockOverlapError) Error() string {
	return fmt.Sprintf("block overlaps %d existing block(s)", len(e.Conflicts))
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type ActivityTypesServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, req CreateActivityTypeRequest) (*entity.ActivityType, error)
	List(ctx context.Context, uid uuid.UUID) ([]entity.ActivityType, error)
	Update(ctx context.Context, uid, id uuid.UUID, req UpdateActivityTypeRequest) (*entity.ActivityType, error)
	// Refuses to delete activity types still referenced by goals, blocks or entries
	Delete(ctx context.Context, uid, id uuid.UUID) error
}

type GoalsServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, req GoalRequest) (*entity.Goal, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error)
	List(ctx context.Context, uid uuid.UUID, status *entity.GoalStatus) ([]entity.Goal, error)
	Update(ctx context.Context, uid, id uuid.UUID, req GoalRequest) (*entity.Goal, error)
	// Deleting a goal clears goal references on blocks and entries instead of cascading
	Delete(ctx context.Context, uid, id uuid.UUID) error
	// Projects one goal against the user's active routine and tracking history
	Predict(ctx context.Context, uid, id uuid.UUID) (*engine.PredictionResult, error)
	// Projects every active goal
	PredictAll(ctx context.Context, uid uuid.UUID) ([]engine.PredictionResult, error)
}

type RoutinesServiceI interface {
	Create(ctx context.Context, uid uuid.UUID, name string) (*entity.Routine, error)
	Get(ctx context.Context, uid, id uuid.UUID) (*entity.Routine, error)
	List(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error)
	Rename(ctx context.Context, uid, id uuid.UUID, name string) error
	Delete(ctx context.Context, uid, id uuid.UUID) error
	// Makes the routine the user's single active one
	Activate(ctx context.Context, uid, id uuid.UUID) error
	// Validates the block and rejects schedule conflicts before persisting
	AddBlock(ctx context.Context, uid, routineID uuid.UUID, req BlockRequest) (*entity.RoutineBlock, error)
	UpdateBlock(ctx context.Context, uid, routineID, blockID uuid.UUID, req BlockRequest) (*entity.RoutineBlock, error)
	RemoveBlock(ctx context.Context, uid, routineID, blockID uuid.UUID) error
	// Per-activity planned minutes for the week
	Breakdown(ctx context.Context, uid, routineID uuid.UUID) ([]engine.WeeklyBreakdown, error)
}

type TrackingServiceI interface {
	// Starts a running entry; only one may run per user
	Start(ctx context.Context, uid uuid.UUID, req StartTrackingRequest) (*entity.TrackingEntry, error)
	// Finishes the running entry and logs its minutes against a linked goal
	Stop(ctx context.Context, uid uuid.UUID) (*StopResult, error)
	// Records an already-finished entry, same goal-logging path as Stop
	AddManual(ctx context.Context, uid uuid.UUID, req ManualEntryRequest) (*entity.TrackingEntry, error)
	// Returns the running entry if any
	Current(ctx context.Context, uid uuid.UUID) (*entity.TrackingEntry, error)
	// Removes an entry; goal minutes it logged are kept
	Delete(ctx context.Context, uid, id uuid.UUID) error
	List(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.TrackingEntry, error)
	// Per-activity actual minutes for the week starting at weekStart
	WeeklyBreakdown(ctx context.Context, uid uuid.UUID, weekStart time.Time) ([]engine.WeeklyBreakdown, error)
}
