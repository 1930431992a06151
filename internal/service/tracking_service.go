package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/RogueKostas/ZenRoutine/internal/engine"
	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/repository"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type TrackingService struct {
	trackingRepo      repository.TrackingRepositoryI
	goalsRepo         repository.GoalsRepositoryI
	activityTypesRepo repository.ActivityTypesRepositoryI
	now               func() time.Time
}

func NewTrackingService(trackingRepo repository.TrackingRepositoryI, goalsRepo repository.GoalsRepositoryI, activityTypesRepo repository.ActivityTypesRepositoryI) *TrackingService {
	if trackingRepo == nil || goalsRepo == nil || activityTypesRepo == nil {
		log.Fatal("on tracking service provided nil repos")
	}
	return &TrackingService{
		trackingRepo:      trackingRepo,
		goalsRepo:         goalsRepo,
		activityTypesRepo: activityTypesRepo,
		now:               time.Now,
	}
}

func (ts *TrackingService) Start(ctx context.Context, uid uuid.UUID, req StartTrackingRequest) (*entity.TrackingEntry, error) {
	if _, err := ts.trackingRepo.GetRunning(ctx, uid); err == nil {
		return nil, errorvalues.ErrTrackingInProgress
	} else if !errors.Is(err, errorvalues.ErrNoActiveTracking) {
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	source := req.Source
	if source == "" {
		source = entity.SourceManual
	}
	switch source {
	case entity.SourceScheduled, entity.SourceManual, entity.SourceNotification:
	default:
		return nil, &ValidationFailedError{Result: engine.ValidationResult{
			Errors: []engine.FieldError{{Field: "source", Message: "unknown tracking source"}},
		}}
	}
	now := ts.now()
	entry := entity.TrackingEntry{
		UserID:         uid,
		EntryDate:      now.Truncate(24 * time.Hour),
		StartedAt:      now,
		ActivityTypeID: req.ActivityTypeID,
		GoalID:         req.GoalID,
		RoutineBlockID: req.RoutineBlockID,
		Source:         source,
		Notes:          req.Notes,
	}
	id, err := ts.trackingRepo.Create(ctx, &entry)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTrackingInProgress) || errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	return ts.trackingRepo.GetByID(ctx, id)
}

// Stop finishes the running entry. A linked goal gets the rounded duration
// added to its logged minutes and may auto-complete in the same update.
func (ts *TrackingService) Stop(ctx context.Context, uid uuid.UUID) (*StopResult, error) {
	running, err := ts.trackingRepo.GetRunning(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoActiveTracking) {
			return nil, err
		}
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	stopped, err := ts.trackingRepo.Stop(ctx, running.ID, ts.now())
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoActiveTracking) {
			return nil, err
		}
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	result := StopResult{
		Entry:        *stopped,
		DurationMins: stopped.DurationMinutes(),
	}
	if stopped.GoalID != nil && result.DurationMins > 0 {
		goal, err := ts.goalsRepo.AddLoggedMinutes(ctx, *stopped.GoalID, result.DurationMins)
		if err != nil {
			if !errors.Is(err, errorvalues.ErrGoalNotFound) {
				return nil, errors.New("goals repository error: " + err.Error())
			}
			// Goal deleted while tracking ran; the entry still counts.
		} else {
			result.Goal = goal
			result.GoalCompleted = goal.Status == entity.GoalStatusCompleted
		}
	}
	return &result, nil
}

func (ts *TrackingService) AddManual(ctx context.Context, uid uuid.UUID, req ManualEntryRequest) (*entity.TrackingEntry, error) {
	if !req.EndedAt.After(req.StartedAt) {
		return nil, &ValidationFailedError{Result: engine.ValidationResult{
			Errors: []engine.FieldError{{Field: "endedAt", Message: "end must be after start"}},
		}}
	}
	endedAt := req.EndedAt
	entry := entity.TrackingEntry{
		UserID:         uid,
		EntryDate:      req.EntryDate.Truncate(24 * time.Hour),
		StartedAt:      req.StartedAt,
		EndedAt:        &endedAt,
		ActivityTypeID: req.ActivityTypeID,
		GoalID:         req.GoalID,
		RoutineBlockID: req.RoutineBlockID,
		Source:         entity.SourceManual,
		Notes:          req.Notes,
	}
	id, err := ts.trackingRepo.Create(ctx, &entry)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	created, err := ts.trackingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	if created.GoalID != nil {
		if minutes := created.DurationMinutes(); minutes > 0 {
			if _, err := ts.goalsRepo.AddLoggedMinutes(ctx, *created.GoalID, minutes); err != nil && !errors.Is(err, errorvalues.ErrGoalNotFound) {
				return nil, errors.New("goals repository error: " + err.Error())
			}
		}
	}
	return created, nil
}

// Delete removes an entry without touching goal minutes: time already
// logged stays logged.
func (ts *TrackingService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	entry, err := ts.trackingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("tracking repository error: " + err.Error())
	}
	if entry.UserID != uid {
		return errorvalues.ErrWrongOwner
	}
	if err := ts.trackingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("tracking repository error: " + err.Error())
	}
	return nil
}

func (ts *TrackingService) Current(ctx context.Context, uid uuid.UUID) (*entity.TrackingEntry, error) {
	entry, err := ts.trackingRepo.GetRunning(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoActiveTracking) {
			return nil, err
		}
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	return entry, nil
}

func (ts *TrackingService) List(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.TrackingEntry, error) {
	entries, err := ts.trackingRepo.GetByUserAndDateRange(ctx, uid, from, to)
	if err != nil {
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	return entries, nil
}

func (ts *TrackingService) WeeklyBreakdown(ctx context.Context, uid uuid.UUID, weekStart time.Time) ([]engine.WeeklyBreakdown, error) {
	entries, err := ts.trackingRepo.GetByUserAndDateRange(ctx, uid, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, errors.New("tracking repository error: " + err.Error())
	}
	types, err := ts.activityTypesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	return engine.TrackedBreakdown(entries, weekStart, types), nil
}
