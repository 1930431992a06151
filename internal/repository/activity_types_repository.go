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

type ActivityTypesRepository struct {
	conn PgConnection
}

func NewActivityTypesRepo(cfg DBConfig) *ActivityTypesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for activityTypesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activityTypesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ActivityTypesRepository{
		conn: pool,
	}
}

func NewActivityTypesRepoWithConn(conn PgConnection) *ActivityTypesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activityTypesRepo: " + err.Error())
	}
	return &ActivityTypesRepository{
		conn: conn,
	}
}

func (ar *ActivityTypesRepository) Create(ctx context.Context, at *entity.ActivityType) (uuid.UUID, error) {
	var id uuid.UUID
	row := ar.conn.QueryRow(ctx,
		`INSERT INTO activity_types (user_id, name, color, icon, is_default, sort_order) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		at.UserID, at.Name, at.Color, at.Icon, at.IsDefault, at.SortOrder,
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
		return uuid.UUID{}, errors.New("creating activity type db error: " + err.Error())
	}
	return id, nil
}

func (ar *ActivityTypesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ActivityType, error) {
	var at entity.ActivityType
	at.ID = id
	row := ar.conn.QueryRow(ctx,
		`SELECT user_id, name, color, icon, is_default, sort_order, created_at, updated_at FROM activity_types WHERE id = $1;`, id)
	if err := row.Scan(&at.UserID, &at.Name, &at.Color, &at.Icon, &at.IsDefault, &at.SortOrder, &at.CreatedAt, &at.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrActivityTypeNotFound
		}
		return nil, errors.New("getting activity type by id error: " + err.Error())
	}
	return &at, nil
}

func (ar *ActivityTypesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.ActivityType, error) {
	rows, err := ar.conn.Query(ctx,
		`SELECT id, user_id, name, color, icon, is_default, sort_order, created_at, updated_at FROM activity_types WHERE user_id = $1 ORDER BY sort_order;`, uid)
	if err != nil {
		return nil, errors.New("getting activity types by uid error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.ActivityType, 0)
	for rows.Next() {
		var at entity.ActivityType
		err = rows.Scan(&at.ID, &at.UserID, &at.Name, &at.Color, &at.Icon, &at.IsDefault, &at.SortOrder, &at.CreatedAt, &at.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling activity type error: " + err.Error())
		}
		result = append(result, at)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return result, nil
}

func (ar *ActivityTypesRepository) Update(ctx context.Context, at *entity.ActivityType) error {
	ct, err := ar.conn.Exec(ctx,
		`UPDATE activity_types SET name = $1, color = $2, icon = $3, sort_order = $4, updated_at = NOW() WHERE id = $5;`,
		at.Name, at.Color, at.Icon, at.SortOrder, at.ID,
	)
	if err != nil {
		return errors.New("error updating activity type: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityTypeNotFound
	}
	return nil
}

func (ar *ActivityTypesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := ar.conn.Exec(ctx, `DELETE FROM activity_types WHERE id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation: still referenced by a goal, block or entry
			case "23503":
				return errorvalues.ErrActivityTypeInUse
			}
		}
		return errors.New("error deleting activity type: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrActivityTypeNotFound
	}
	return nil
}

func (ar *ActivityTypesRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var referenced bool
	row := ar.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM goals WHERE activity_type_id = $1)
			OR EXISTS(SELECT 1 FROM routine_blocks WHERE activity_type_id = $1)
			OR EXISTS(SELECT 1 FROM tracking_entries WHERE activity_type_id = $1);`, id)
	if err := row.Scan(&referenced); err != nil {
		return false, errors.New("inspecting activity type references error: " + err.Error())
	}
	return referenced, nil
}
