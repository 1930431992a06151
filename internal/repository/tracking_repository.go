package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/pkg/cleanup"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type TrackingRepository struct {
	conn PgConnection
}

func NewTrackingRepo(cfg DBConfig) *TrackingRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for trackingRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for trackingRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &TrackingRepository{
		conn: pool,
	}
}

func NewTrackingRepoWithConn(conn PgConnection) *TrackingRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for trackingRepo: " + err.Error())
	}
	return &TrackingRepository{
		conn: conn,
	}
}

func (tr *TrackingRepository) Create(ctx context.Context, e *entity.TrackingEntry) (uuid.UUID, error) {
	var id uuid.UUID
	row := tr.conn.QueryRow(ctx,
		`INSERT INTO tracking_entries (user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id;`,
		e.UserID, e.EntryDate, e.StartedAt, e.EndedAt, e.ActivityTypeID, e.GoalID, e.RoutineBlockID, e.Source, e.Notes,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation: the partial index on running entries
			case "23505":
				return uuid.UUID{}, errorvalues.ErrTrackingInProgress
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrActivityTypeNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating tracking entry db error: " + err.Error())
	}
	return id, nil
}

func (tr *TrackingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TrackingEntry, error) {
	var e entity.TrackingEntry
	e.ID = id
	row := tr.conn.QueryRow(ctx,
		`SELECT user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes, created_at
		FROM tracking_entries WHERE id = $1;`, id)
	if err := row.Scan(&e.UserID, &e.EntryDate, &e.StartedAt, &e.EndedAt, &e.ActivityTypeID, &e.GoalID, &e.RoutineBlockID, &e.Source, &e.Notes, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting tracking entry by id error: " + err.Error())
	}
	return &e, nil
}

func (tr *TrackingRepository) GetRunning(ctx context.Context, uid uuid.UUID) (*entity.TrackingEntry, error) {
	var e entity.TrackingEntry
	row := tr.conn.QueryRow(ctx,
		`SELECT id, user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes, created_at
		FROM tracking_entries WHERE user_id = $1 AND ended_at IS NULL;`, uid)
	if err := row.Scan(&e.ID, &e.UserID, &e.EntryDate, &e.StartedAt, &e.EndedAt, &e.ActivityTypeID, &e.GoalID, &e.RoutineBlockID, &e.Source, &e.Notes, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrNoActiveTracking
		}
		return nil, errors.New("getting running entry error: " + err.Error())
	}
	return &e, nil
}

func (tr *TrackingRepository) Stop(ctx context.Context, id uuid.UUID, endedAt time.Time) (*entity.TrackingEntry, error) {
	var e entity.TrackingEntry
	e.ID = id
	row := tr.conn.QueryRow(ctx,
		`UPDATE tracking_entries SET ended_at = $2 WHERE id = $1 AND ended_at IS NULL
		RETURNING user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes, created_at;`,
		id, endedAt,
	)
	if err := row.Scan(&e.UserID, &e.EntryDate, &e.StartedAt, &e.EndedAt, &e.ActivityTypeID, &e.GoalID, &e.RoutineBlockID, &e.Source, &e.Notes, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrNoActiveTracking
		}
		return nil, errors.New("stopping tracking entry error: " + err.Error())
	}
	return &e, nil
}

func (tr *TrackingRepository) GetByUserAndDateRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.TrackingEntry, error) {
	rows, err := tr.conn.Query(ctx,
		`SELECT id, user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes, created_at
		FROM tracking_entries WHERE user_id = $1 AND entry_date >= $2 AND entry_date < $3 ORDER BY started_at;`,
		uid, from, to)
	if err != nil {
		return nil, errors.New("getting entries for period error: " + err.Error())
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (tr *TrackingRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.TrackingEntry, error) {
	rows, err := tr.conn.Query(ctx,
		`SELECT id, user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes, created_at
		FROM tracking_entries WHERE user_id = $1 ORDER BY started_at;`, uid)
	if err != nil {
		return nil, errors.New("getting entries by uid error: " + err.Error())
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (tr *TrackingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tracking_entries WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting tracking entry: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]entity.TrackingEntry, error) {
	entries := make([]entity.TrackingEntry, 0)
	for rows.Next() {
		var e entity.TrackingEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.EntryDate, &e.StartedAt, &e.EndedAt, &e.ActivityTypeID, &e.GoalID, &e.RoutineBlockID, &e.Source, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling tracking entry error: " + err.Error())
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return entries, nil
}
