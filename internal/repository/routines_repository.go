package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/pkg/cleanup"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type RoutinesRepository struct {
	conn PgConnection
}

func NewRoutinesRepo(cfg DBConfig) *RoutinesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for routinesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for routinesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &RoutinesRepository{
		conn: pool,
	}
}

func NewRoutinesRepoWithConn(conn PgConnection) *RoutinesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for routinesRepo: " + err.Error())
	}
	return &RoutinesRepository{
		conn: conn,
	}
}

func (rr *RoutinesRepository) Create(ctx context.Context, routine *entity.Routine) (uuid.UUID, error) {
	var id uuid.UUID
	row := rr.conn.QueryRow(ctx,
		`INSERT INTO routines (user_id, name, is_active) VALUES ($1, $2, $3) RETURNING id;`,
		routine.UserID, routine.Name, routine.IsActive,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating routine db error: " + err.Error())
	}
	return id, nil
}

func (rr *RoutinesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Routine, error) {
	var routine entity.Routine
	routine.ID = id
	row := rr.conn.QueryRow(ctx,
		`SELECT user_id, name, is_active, created_at, updated_at FROM routines WHERE id = $1;`, id)
	if err := row.Scan(&routine.UserID, &routine.Name, &routine.IsActive, &routine.CreatedAt, &routine.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrRoutineNotFound
		}
		return nil, errors.New("getting routine by id error: " + err.Error())
	}
	blocks, err := rr.GetBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	routine.Blocks = blocks
	return &routine, nil
}

func (rr *RoutinesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	rows, err := rr.conn.Query(ctx,
		`SELECT id, user_id, name, is_active, created_at, updated_at FROM routines WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("getting routines by uid error: " + err.Error())
	}
	defer rows.Close()
	routines := make([]entity.Routine, 0)
	for rows.Next() {
		var r entity.Routine
		err = rows.Scan(&r.ID, &r.UserID, &r.Name, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling routine error: " + err.Error())
		}
		routines = append(routines, r)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return routines, nil
}

func (rr *RoutinesRepository) GetActiveByUserID(ctx context.Context, uid uuid.UUID) (*entity.Routine, error) {
	var routine entity.Routine
	row := rr.conn.QueryRow(ctx,
		`SELECT id, user_id, name, is_active, created_at, updated_at FROM routines WHERE user_id = $1 AND is_active;`, uid)
	if err := row.Scan(&routine.ID, &routine.UserID, &routine.Name, &routine.IsActive, &routine.CreatedAt, &routine.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrNoActiveRoutine
		}
		return nil, errors.New("getting active routine error: " + err.Error())
	}
	blocks, err := rr.GetBlocks(ctx, routine.ID)
	if err != nil {
		return nil, err
	}
	routine.Blocks = blocks
	return &routine, nil
}

func (rr *RoutinesRepository) Update(ctx context.Context, routine *entity.Routine) error {
	ct, err := rr.conn.Exec(ctx, `UPDATE routines SET name = $1, updated_at = NOW() WHERE id = $2;`,
		routine.Name, routine.ID,
	)
	if err != nil {
		return errors.New("error updating routine: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRoutineNotFound
	}
	return nil
}

func (rr *RoutinesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := rr.conn.Exec(ctx, `DELETE FROM routines WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting routine: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRoutineNotFound
	}
	return nil
}

// SetActive swaps the user's active routine in one transaction so the
// single-active invariant holds at every commit point.
func (rr *RoutinesRepository) SetActive(ctx context.Context, uid, routineID uuid.UUID) error {
	tx, err := rr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting activation tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `UPDATE routines SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_active;`, uid)
	if err != nil {
		return errors.New("deactivating routines error: " + err.Error())
	}
	ct, err := tx.Exec(ctx, `UPDATE routines SET is_active = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2;`, routineID, uid)
	if err != nil {
		return errors.New("activating routine error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrRoutineNotFound
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing activation tx error: " + err.Error())
	}
	return nil
}

func (rr *RoutinesRepository) GetBlocks(ctx context.Context, routineID uuid.UUID) ([]entity.RoutineBlock, error) {
	rows, err := rr.conn.Query(ctx,
		`SELECT id, routine_id, day_of_week, start_minutes, end_minutes, activity_type_id, goal_id, sort_order
		FROM routine_blocks WHERE routine_id = $1 ORDER BY day_of_week, start_minutes;`, routineID)
	if err != nil {
		return nil, errors.New("getting routine blocks error: " + err.Error())
	}
	defer rows.Close()
	blocks := make([]entity.RoutineBlock, 0)
	for rows.Next() {
		var b entity.RoutineBlock
		err = rows.Scan(&b.ID, &b.RoutineID, &b.DayOfWeek, &b.StartMinutes, &b.EndMinutes, &b.ActivityTypeID, &b.GoalID, &b.SortOrder)
		if err != nil {
			return nil, errors.New("unmarshalling routine block error: " + err.Error())
		}
		blocks = append(blocks, b)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return blocks, nil
}

func (rr *RoutinesRepository) AddBlock(ctx context.Context, block *entity.RoutineBlock) (uuid.UUID, error) {
	var id uuid.UUID
	row := rr.conn.QueryRow(ctx,
		`INSERT INTO routine_blocks (routine_id, day_of_week, start_minutes, end_minutes, activity_type_id, goal_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		block.RoutineID, block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrRoutineNotFound
			}
		}
		return uuid.UUID{}, errors.New("adding routine block db error: " + err.Error())
	}
	return id, nil
}

func (rr *RoutinesRepository) UpdateBlock(ctx context.Context, block *entity.RoutineBlock) error {
	ct, err := rr.conn.Exec(ctx,
		`UPDATE routine_blocks SET day_of_week = $1, start_minutes = $2, end_minutes = $3, activity_type_id = $4, goal_id = $5, sort_order = $6 WHERE id = $7;`,
		block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder, block.ID,
	)
	if err != nil {
		return errors.New("error updating routine block: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrBlockNotFound
	}
	return nil
}

func (rr *RoutinesRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	ct, err := rr.conn.Exec(ctx, `DELETE FROM routine_blocks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting routine block: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrBlockNotFound
	}
	return nil
}
