package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/repository"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

func TestCreateRoutine(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	routine := entity.Routine{
		UserID: userID,
		Name:   "Work Week",
	}
	rid := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO routines (user_id, name, is_active) VALUES ($1, $2, $3) RETURNING id;`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(routine.UserID, routine.Name, routine.IsActive).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(rid))
		id, err := repo.Create(ctx, &routine)
		assert.NoError(t, err)
		assert.Equal(t, rid, id)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(routine.UserID, routine.Name, routine.IsActive).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &routine)
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(routine.UserID, routine.Name, routine.IsActive).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &routine)
		assert.Error(t, err)
	})
}

func TestGetRoutineByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	routine := entity.Routine{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Work Week",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	block := entity.RoutineBlock{
		ID:             uuid.New(),
		RoutineID:      routine.ID,
		DayOfWeek:      1,
		StartMinutes:   540,
		EndMinutes:     720,
		ActivityTypeID: activityTypeID,
	}
	routineQuery := regexp.QuoteMeta(`SELECT user_id, name, is_active, created_at, updated_at FROM routines WHERE id = $1;`)
	blocksQuery := regexp.QuoteMeta(`SELECT id, routine_id, day_of_week, start_minutes, end_minutes, activity_type_id, goal_id, sort_order`)
	blockColumns := []string{"id", "routine_id", "day_of_week", "start_minutes", "end_minutes", "activity_type_id", "goal_id", "sort_order"}
	ctx := context.Background()
	t.Run("success with blocks", func(t *testing.T) {
		mock.ExpectQuery(routineQuery).
			WithArgs(routine.ID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "is_active", "created_at", "updated_at"}).
				AddRow(routine.UserID, routine.Name, routine.IsActive, routine.CreatedAt, routine.UpdatedAt))
		mock.ExpectQuery(blocksQuery).
			WithArgs(routine.ID).
			WillReturnRows(pgxmock.NewRows(blockColumns).
				AddRow(block.ID, block.RoutineID, block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder))
		result, err := repo.GetByID(ctx, routine.ID)
		assert.NoError(t, err)
		assert.Equal(t, routine.Name, result.Name)
		assert.Equal(t, 1, len(result.Blocks))
		assert.Equal(t, block, result.Blocks[0])
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(routineQuery).
			WithArgs(routine.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, routine.ID)
		assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(routineQuery).
			WithArgs(routine.ID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByID(ctx, routine.ID)
		assert.Error(t, err)
	})
}

func TestGetActiveRoutine(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	routine := entity.Routine{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Work Week",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT id, user_id, name, is_active, created_at, updated_at FROM routines WHERE user_id = $1 AND is_active;`)
	blocksQuery := regexp.QuoteMeta(`FROM routine_blocks WHERE routine_id = $1 ORDER BY day_of_week, start_minutes;`)
	ctx := context.Background()
	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "is_active", "created_at", "updated_at"}).
				AddRow(routine.ID, routine.UserID, routine.Name, routine.IsActive, routine.CreatedAt, routine.UpdatedAt))
		mock.ExpectQuery(blocksQuery).
			WithArgs(routine.ID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "routine_id", "day_of_week", "start_minutes", "end_minutes", "activity_type_id", "goal_id", "sort_order"}))
		result, err := repo.GetActiveByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, routine.ID, result.ID)
		assert.Equal(t, 0, len(result.Blocks))
	})
	t.Run("no active routine", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetActiveByUserID(ctx, userID)
		assert.ErrorIs(t, err, errorvalues.ErrNoActiveRoutine)
	})
}

func TestSetActiveRoutine(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	rid := uuid.New()
	deactivateQuery := regexp.QuoteMeta(`UPDATE routines SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_active;`)
	activateQuery := regexp.QuoteMeta(`UPDATE routines SET is_active = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deactivateQuery).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(activateQuery).
			WithArgs(rid, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()
		err := repo.SetActive(ctx, userID, rid)
		assert.NoError(t, err)
	})
	t.Run("routine not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deactivateQuery).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(activateQuery).
			WithArgs(rid, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()
		err := repo.SetActive(ctx, userID, rid)
		assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deactivateQuery).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		err := repo.SetActive(ctx, userID, rid)
		assert.Error(t, err)
	})
}

func TestAddRoutineBlock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	block := entity.RoutineBlock{
		RoutineID:      uuid.New(),
		DayOfWeek:      1,
		StartMinutes:   540,
		EndMinutes:     720,
		ActivityTypeID: activityTypeID,
	}
	bid := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO routine_blocks (routine_id, day_of_week, start_minutes, end_minutes, activity_type_id, goal_id, sort_order)`)
	t.Run("successfully added", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(block.RoutineID, block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(bid))
		id, err := repo.AddBlock(ctx, &block)
		assert.NoError(t, err)
		assert.Equal(t, bid, id)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(block.RoutineID, block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.AddBlock(ctx, &block)
		assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(block.RoutineID, block.DayOfWeek, block.StartMinutes, block.EndMinutes, block.ActivityTypeID, block.GoalID, block.SortOrder).
			WillReturnError(errors.New("db error"))
		_, err := repo.AddBlock(ctx, &block)
		assert.Error(t, err)
	})
}

func TestDeleteRoutineBlock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewRoutinesRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM routine_blocks WHERE id = $1;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.DeleteBlock(ctx, id)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.DeleteBlock(ctx, id)
		assert.ErrorIs(t, err, errorvalues.ErrBlockNotFound)
	})
}

func TestRoutinesIntegrational(t *testing.T) {
	cfg := setupRoutinesTestDB(t)
	repo := repository.NewRoutinesRepo(cfg)
	ctx := context.Background()
	routines := []*entity.Routine{
		{UserID: userID, Name: "Work Week"},
		{UserID: userID, Name: "Vacation"},
	}
	t.Run("create", func(t *testing.T) {
		for _, r := range routines {
			id, err := repo.Create(ctx, r)
			assert.NoError(t, err)
			r.ID = id
		}
		_, err := repo.Create(ctx, &entity.Routine{UserID: uuid.New(), Name: "orphan"})
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
	t.Run("activation", func(t *testing.T) {
		t.Run("no active routine at first", func(t *testing.T) {
			_, err := repo.GetActiveByUserID(ctx, userID)
			assert.ErrorIs(t, err, errorvalues.ErrNoActiveRoutine)
		})
		t.Run("activate first", func(t *testing.T) {
			err := repo.SetActive(ctx, userID, routines[0].ID)
			assert.NoError(t, err)
			active, err := repo.GetActiveByUserID(ctx, userID)
			assert.NoError(t, err)
			assert.Equal(t, routines[0].ID, active.ID)
		})
		t.Run("switching keeps single active", func(t *testing.T) {
			err := repo.SetActive(ctx, userID, routines[1].ID)
			assert.NoError(t, err)
			active, err := repo.GetActiveByUserID(ctx, userID)
			assert.NoError(t, err)
			assert.Equal(t, routines[1].ID, active.ID)
			first, err := repo.GetByID(ctx, routines[0].ID)
			assert.NoError(t, err)
			assert.False(t, first.IsActive)
		})
		t.Run("unknown routine", func(t *testing.T) {
			err := repo.SetActive(ctx, userID, uuid.New())
			assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
		})
	})
	t.Run("blocks", func(t *testing.T) {
		block := &entity.RoutineBlock{
			RoutineID:      routines[0].ID,
			DayOfWeek:      1,
			StartMinutes:   540,
			EndMinutes:     720,
			ActivityTypeID: activityTypeID,
		}
		t.Run("add", func(t *testing.T) {
			id, err := repo.AddBlock(ctx, block)
			assert.NoError(t, err)
			block.ID = id
		})
		t.Run("loaded with routine", func(t *testing.T) {
			routine, err := repo.GetByID(ctx, routines[0].ID)
			assert.NoError(t, err)
			assert.Equal(t, 1, len(routine.Blocks))
			assert.Equal(t, *block, routine.Blocks[0])
		})
		t.Run("update", func(t *testing.T) {
			block.EndMinutes = 780
			err := repo.UpdateBlock(ctx, block)
			assert.NoError(t, err)
			blocks, err := repo.GetBlocks(ctx, routines[0].ID)
			assert.NoError(t, err)
			assert.Equal(t, 780, blocks[0].EndMinutes)
		})
		t.Run("delete", func(t *testing.T) {
			err := repo.DeleteBlock(ctx, block.ID)
			assert.NoError(t, err)
			err = repo.DeleteBlock(ctx, block.ID)
			assert.ErrorIs(t, err, errorvalues.ErrBlockNotFound)
		})
	})
	t.Run("delete routine", func(t *testing.T) {
		err := repo.Delete(ctx, routines[1].ID)
		assert.NoError(t, err)
		_, err = repo.GetByID(ctx, routines[1].ID)
		assert.ErrorIs(t, err, errorvalues.ErrRoutineNotFound)
	})
}

func setupRoutinesTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("zen"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO users (id, name, password_hash) VALUES ($1, $2, $3);`, userID, "test_name", "pass_hash")
	if err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO activity_types (id, user_id, name, color) VALUES ($1, $2, $3, $4);`, activityTypeID, userID, "Work", "#3366FF")
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}
