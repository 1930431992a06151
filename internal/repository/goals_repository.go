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

type GoalsRepository struct {
	conn PgConnection
}

func NewGoalsRepo(cfg DBConfig) *GoalsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for goalsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for goalsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &GoalsRepository{
		conn: pool,
	}
}

func NewGoalsRepoWithConn(conn PgConnection) *GoalsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for goalsRepo: " + err.Error())
	}
	return &GoalsRepository{
		conn: conn,
	}
}

func (gr *GoalsRepository) Create(ctx context.Context, goal *entity.Goal) (uuid.UUID, error) {
	var id uuid.UUID
	row := gr.conn.QueryRow(ctx,
		`INSERT INTO goals (user_id, name, description, estimated_minutes, activity_type_id, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		goal.UserID, goal.Name, goal.Description, goal.EstimatedMinutes, goal.ActivityTypeID, entity.GoalStatusActive,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrActivityTypeNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating goal db error: " + err.Error())
	}
	return id, nil
}

func (gr *GoalsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	var goal entity.Goal
	goal.ID = id
	row := gr.conn.QueryRow(ctx,
		`SELECT user_id, name, description, estimated_minutes, logged_minutes, activity_type_id, status, completed_at, created_at, updated_at FROM goals WHERE id = $1;`, id)
	if err := row.Scan(&goal.UserID, &goal.Name, &goal.Description, &goal.EstimatedMinutes, &goal.LoggedMinutes,
		&goal.ActivityTypeID, &goal.Status, &goal.CompletedAt, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrGoalNotFound
		}
		return nil, errors.New("getting goal by id error: " + err.Error())
	}
	return &goal, nil
}

func (gr *GoalsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, status *entity.GoalStatus) ([]entity.Goal, error) {
	query := `SELECT id, user_id, name, description, estimated_minutes, logged_minutes, activity_type_id, status, completed_at, created_at, updated_at
		FROM goals WHERE user_id = $1 AND ($2::text IS NULL OR status = $2) ORDER BY created_at;`
	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}
	rows, err := gr.conn.Query(ctx, query, uid, statusArg)
	if err != nil {
		return nil, errors.New("getting goals by uid error: " + err.Error())
	}
	defer rows.Close()
	goals := make([]entity.Goal, 0)
	for rows.Next() {
		var g entity.Goal
		err = rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.EstimatedMinutes, &g.LoggedMinutes,
			&g.ActivityTypeID, &g.Status, &g.CompletedAt, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling goal error: " + err.Error())
		}
		goals = append(goals, g)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return goals, nil
}

func (gr *GoalsRepository) Update(ctx context.Context, goal *entity.Goal) error {
	ct, err := gr.conn.Exec(ctx,
		`UPDATE goals SET name = $1, description = $2, estimated_minutes = $3, activity_type_id = $4, status = $5, updated_at = NOW() WHERE id = $6;`,
		goal.Name, goal.Description, goal.EstimatedMinutes, goal.ActivityTypeID, goal.Status, goal.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrActivityTypeNotFound
			}
		}
		return errors.New("error updating goal: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}

// AddLoggedMinutes accumulates tracked time on a goal in one statement. An
// active goal whose logged minutes reach the estimate flips to completed and
// gets its completed_at stamped in the same update.
func (gr *GoalsRepository) AddLoggedMinutes(ctx context.Context, id uuid.UUID, minutes int) (*entity.Goal, error) {
	var goal entity.Goal
	goal.ID = id
	row := gr.conn.QueryRow(ctx,
		`UPDATE goals SET
			logged_minutes = logged_minutes + $2,
			status = CASE WHEN status = 'active' AND logged_minutes + $2 >= estimated_minutes THEN 'completed' ELSE status END,
			completed_at = CASE WHEN status = 'active' AND logged_minutes + $2 >= estimated_minutes THEN NOW() ELSE completed_at END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING user_id, name, description, estimated_minutes, logged_minutes, activity_type_id, status, completed_at, created_at, updated_at;`,
		id, minutes,
	)
	if err := row.Scan(&goal.UserID, &goal.Name, &goal.Description, &goal.EstimatedMinutes, &goal.LoggedMinutes,
		&goal.ActivityTypeID, &goal.Status, &goal.CompletedAt, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrGoalNotFound
		}
		return nil, errors.New("adding logged minutes error: " + err.Error())
	}
	return &goal, nil
}

func (gr *GoalsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := gr.conn.Exec(ctx, `DELETE FROM goals WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting goal: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}
