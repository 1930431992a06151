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

func TestCreateTrackingEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewTrackingRepoWithConn(mock)
	entry := entity.TrackingEntry{
		UserID:         userID,
		EntryDate:      time.Now().Truncate(24 * time.Hour),
		StartedAt:      time.Now(),
		ActivityTypeID: activityTypeID,
		Source:         entity.SourceManual,
	}
	eid := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO tracking_entries (user_id, entry_date, started_at, ended_at, activity_type_id, goal_id, routine_block_id, source, notes)`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(entry.UserID, entry.EntryDate, entry.StartedAt, entry.EndedAt, entry.ActivityTypeID, entry.GoalID, entry.RoutineBlockID, entry.Source, entry.Notes).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(eid))
		id, err := repo.Create(ctx, &entry)
		assert.NoError(t, err)
		assert.Equal(t, eid, id)
	})
	t.Run("already running", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(entry.UserID, entry.EntryDate, entry.StartedAt, entry.EndedAt, entry.ActivityTypeID, entry.GoalID, entry.RoutineBlockID, entry.Source, entry.Notes).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, &entry)
		assert.ErrorIs(t, err, errorvalues.ErrTrackingInProgress)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(entry.UserID, entry.EntryDate, entry.StartedAt, entry.EndedAt, entry.ActivityTypeID, entry.GoalID, entry.RoutineBlockID, entry.Source, entry.Notes).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &entry)
		assert.ErrorIs(t, err, errorvalues.ErrActivityTypeNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(entry.UserID, entry.EntryDate, entry.StartedAt, entry.EndedAt, entry.ActivityTypeID, entry.GoalID, entry.RoutineBlockID, entry.Source, entry.Notes).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &entry)
		assert.Error(t, err)
	})
}

func TestGetRunningEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewTrackingRepoWithConn(mock)
	entry := entity.TrackingEntry{
		ID:             uuid.New(),
		UserID:         userID,
		EntryDate:      time.Now().Truncate(24 * time.Hour),
		StartedAt:      time.Now(),
		ActivityTypeID: activityTypeID,
		Source:         entity.SourceScheduled,
		CreatedAt:      time.Now(),
	}
	columns := []string{"id", "user_id", "entry_date", "started_at", "ended_at", "activity_type_id", "goal_id", "routine_block_id", "source", "notes", "created_at"}
	query := regexp.QuoteMeta(`FROM tracking_entries WHERE user_id = $1 AND ended_at IS NULL;`)
	ctx := context.Background()
	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(entry.ID, entry.UserID, entry.EntryDate, entry.StartedAt, entry.EndedAt, entry.ActivityTypeID, entry.GoalID, entry.RoutineBlockID, entry.Source, entry.Notes, entry.CreatedAt))
		result, err := repo.GetRunning(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, entry, *result)
	})
	t.Run("nothing running", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetRunning(ctx, userID)
		assert.ErrorIs(t, err, errorvalues.ErrNoActiveTracking)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetRunning(ctx, userID)
		assert.Error(t, err)
	})
}

func TestStopEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewTrackingRepoWithConn(mock)
	id := uuid.New()
	startedAt := time.Now().Add(-time.Hour)
	endedAt := time.Now()
	columns := []string{"user_id", "entry_date", "started_at", "ended_at", "activity_type_id", "goal_id", "routine_block_id", "source", "notes", "created_at"}
	query := regexp.QuoteMeta(`UPDATE tracking_entries SET ended_at = $2 WHERE id = $1 AND ended_at IS NULL`)
	ctx := context.Background()
	t.Run("stopped", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(id, endedAt).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(userID, startedAt.Truncate(24*time.Hour), startedAt, &endedAt, activityTypeID, nil, nil, entity.SourceManual, "", startedAt))
		result, err := repo.Stop(ctx, id, endedAt)
		assert.NoError(t, err)
		assert.NotNil(t, result.EndedAt)
		assert.Equal(t, 60, result.DurationMinutes())
	})
	t.Run("already stopped", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(id, endedAt).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.Stop(ctx, id, endedAt)
		assert.ErrorIs(t, err, errorvalues.ErrNoActiveTracking)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(id, endedAt).
			WillReturnError(errors.New("db error"))
		_, err := repo.Stop(ctx, id, endedAt)
		assert.Error(t, err)
	})
}

func TestDeleteTrackingEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewTrackingRepoWithConn(mock)
	query := regexp.QuoteMeta(`DELETE FROM tracking_entries WHERE id = $1;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, errorvalues.ErrEntryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnError(errors.New("db error"))
		err := repo.Delete(ctx, id)
		assert.Error(t, err)
	})
}

func TestTrackingIntegrational(t *testing.T) {
	cfg := setupTrackingTestDB(t)
	repo := repository.NewTrackingRepo(cfg)
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	running := &entity.TrackingEntry{
		UserID:         userID,
		EntryDate:      today,
		StartedAt:      time.Now().Add(-30 * time.Minute),
		ActivityTypeID: activityTypeID,
		Source:         entity.SourceScheduled,
	}
	t.Run("start", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			id, err := repo.Create(ctx, running)
			assert.NoError(t, err)
			running.ID = id
		})
		t.Run("second running entry rejected", func(t *testing.T) {
			_, err := repo.Create(ctx, &entity.TrackingEntry{
				UserID:         userID,
				EntryDate:      today,
				StartedAt:      time.Now(),
				ActivityTypeID: activityTypeID,
				Source:         entity.SourceManual,
			})
			assert.ErrorIs(t, err, errorvalues.ErrTrackingInProgress)
		})
		t.Run("unknown activity type", func(t *testing.T) {
			ended := time.Now()
			_, err := repo.Create(ctx, &entity.TrackingEntry{
				UserID:         userID,
				EntryDate:      today,
				StartedAt:      time.Now(),
				EndedAt:        &ended,
				ActivityTypeID: uuid.New(),
				Source:         entity.SourceManual,
			})
			assert.ErrorIs(t, err, errorvalues.ErrActivityTypeNotFound)
		})
		t.Run("unknown source rejected by schema", func(t *testing.T) {
			ended := time.Now()
			_, err := repo.Create(ctx, &entity.TrackingEntry{
				UserID:         userID,
				EntryDate:      today,
				StartedAt:      time.Now(),
				EndedAt:        &ended,
				ActivityTypeID: activityTypeID,
				Source:         entity.TrackingSource("bogus"),
			})
			assert.Error(t, err)
		})
	})
	t.Run("current", func(t *testing.T) {
		result, err := repo.GetRunning(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, running.ID, result.ID)
	})
	t.Run("stop", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			stopped, err := repo.Stop(ctx, running.ID, time.Now())
			assert.NoError(t, err)
			assert.NotNil(t, stopped.EndedAt)
			assert.Equal(t, 30, stopped.DurationMinutes())
		})
		t.Run("nothing running afterwards", func(t *testing.T) {
			_, err := repo.GetRunning(ctx, userID)
			assert.ErrorIs(t, err, errorvalues.ErrNoActiveTracking)
		})
		t.Run("stopping again fails", func(t *testing.T) {
			_, err := repo.Stop(ctx, running.ID, time.Now())
			assert.ErrorIs(t, err, errorvalues.ErrNoActiveTracking)
		})
	})
	t.Run("list by date range", func(t *testing.T) {
		ended := time.Now()
		manual := &entity.TrackingEntry{
			UserID:         userID,
			EntryDate:      today.AddDate(0, 0, -10),
			StartedAt:      time.Now().AddDate(0, 0, -10),
			EndedAt:        &ended,
			ActivityTypeID: activityTypeID,
			Source:         entity.SourceManual,
		}
		_, err := repo.Create(ctx, manual)
		assert.NoError(t, err)
		result, err := repo.GetByUserAndDateRange(ctx, userID, today, today.AddDate(0, 0, 1))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
		assert.Equal(t, running.ID, result[0].ID)
		result, err = repo.GetByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result))
	})
}

func setupTrackingTestDB(t *testing.T) *testPGConfig {
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
	_, err = conn.Exec(`INSERT INTO activity_types (id, user_id, name, color) VALUES ($1, $2, $3, $4);`, activityTypeID, userID, "Art", "#AA66CC")
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
