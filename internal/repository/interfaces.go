package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type ActivityTypesRepositoryI interface {
	// Creates new activity type, returns assigned id
	Create(ctx context.Context, at *entity.ActivityType) (uuid.UUID, error)
	// Searches activity type with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ActivityType, error)
	// Lists user's activity types ordered by sort_order
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.ActivityType, error)
	// Updates display fields by ID
	Update(ctx context.Context, at *entity.ActivityType) error
	// Deletes activity type. Fails while goals, blocks or entries reference it
	Delete(ctx context.Context, id uuid.UUID) error
	// Reports whether any goal, block or entry references the activity type
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

type GoalsRepositoryI interface {
	// Creates new goal, returns assigned id
	Create(ctx context.Context, goal *entity.Goal) (uuid.UUID, error)
	// Searches goal with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error)
	// Lists user's goals, optionally filtered by status (nil = all)
	GetByUserID(ctx context.Context, uid uuid.UUID, status *entity.GoalStatus) ([]entity.Goal, error)
	// Updates goal fields by ID (logged minutes excluded, see AddLoggedMinutes)
	Update(ctx context.Context, goal *entity.Goal) error
	// Atomically adds tracked minutes and flips an active goal to completed
	// once logged_minutes reaches estimated_minutes
	AddLoggedMinutes(ctx context.Context, id uuid.UUID, minutes int) (*entity.Goal, error)
	// Deletes goal; blocks and entries referencing it get their goal_id cleared
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoutinesRepositoryI interface {
	// Creates new routine, returns assigned id
	Create(ctx context.Context, routine *entity.Routine) (uuid.UUID, error)
	// Loads a routine together with its blocks
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Routine, error)
	// Lists user's routines without blocks
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error)
	// Loads the user's active routine with blocks
	GetActiveByUserID(ctx context.Context, uid uuid.UUID) (*entity.Routine, error)
	// Renames routine
	Update(ctx context.Context, routine *entity.Routine) error
	// Deletes routine and its blocks
	Delete(ctx context.Context, id uuid.UUID) error
	// Transactionally deactivates the user's routines and activates one
	SetActive(ctx context.Context, uid, routineID uuid.UUID) error
	// Lists blocks of a routine
	GetBlocks(ctx context.Context, routineID uuid.UUID) ([]entity.RoutineBlock, error)
	// Adds block to routine, returns assigned id
	AddBlock(ctx context.Context, block *entity.RoutineBlock) (uuid.UUID, error)
	// Updates block by ID
	UpdateBlock(ctx context.Context, block *entity.RoutineBlock) error
	// Deletes block by ID
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}

type TrackingRepositoryI interface {
	// Creates tracking entry (running when EndedAt is nil), returns assigned id
	Create(ctx context.Context, e *entity.TrackingEntry) (uuid.UUID, error)
	// Searches entry with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TrackingEntry, error)
	// Returns the user's running entry
	GetRunning(ctx context.Context, uid uuid.UUID) (*entity.TrackingEntry, error)
	// Finishes a running entry, returns the updated row
	Stop(ctx context.Context, id uuid.UUID, endedAt time.Time) (*entity.TrackingEntry, error)
	// Lists entries with entry_date in [from, to)
	GetByUserAndDateRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.TrackingEntry, error)
	// Lists the user's full tracking history
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.TrackingEntry, error)
	// Deletes entry by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
