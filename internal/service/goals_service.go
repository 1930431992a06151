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

type GoalsService struct {
	goalsRepo    repository.GoalsRepositoryI
	routinesRepo repository.RoutinesRepositoryI
	trackingRepo repository.TrackingRepositoryI
	now          func() time.Time
}

func NewGoalsService(goalsRepo repository.GoalsRepositoryI, routinesRepo repository.RoutinesRepositoryI, trackingRepo repository.TrackingRepositoryI) *GoalsService {
	if goalsRepo == nil || routinesRepo == nil || trackingRepo == nil {
		log.Fatal("on goals service provided nil repos")
	}
	return &GoalsService{
		goalsRepo:    goalsRepo,
		routinesRepo: routinesRepo,
		trackingRepo: trackingRepo,
		now:          time.Now,
	}
}

func (gs *GoalsService) Create(ctx context.Context, uid uuid.UUID, req GoalRequest) (*entity.Goal, error) {
	res := engine.ValidateGoal(engine.GoalInput{
		Name:             req.Name,
		EstimatedMinutes: req.EstimatedMinutes,
		ActivityTypeID:   req.ActivityTypeID,
	})
	if !res.IsValid() {
		return nil, &ValidationFailedError{Result: res}
	}
	activityTypeID, err := uuid.Parse(req.ActivityTypeID)
	if err != nil {
		return nil, errorvalues.ErrActivityTypeNotFound
	}
	goal := entity.Goal{
		UserID:           uid,
		Name:             req.Name,
		Description:      req.Description,
		EstimatedMinutes: *req.EstimatedMinutes,
		ActivityTypeID:   activityTypeID,
	}
	id, err := gs.goalsRepo.Create(ctx, &goal)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("goals repository error: " + err.Error())
	}
	return gs.goalsRepo.GetByID(ctx, id)
}

func (gs *GoalsService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error) {
	return gs.getOwned(ctx, uid, id)
}

func (gs *GoalsService) List(ctx context.Context, uid uuid.UUID, status *entity.GoalStatus) ([]entity.Goal, error) {
	goals, err := gs.goalsRepo.GetByUserID(ctx, uid, status)
	if err != nil {
		return nil, errors.New("goals repository error: " + err.Error())
	}
	return goals, nil
}

func (gs *GoalsService) Update(ctx context.Context, uid, id uuid.UUID, req GoalRequest) (*entity.Goal, error) {
	goal, err := gs.getOwned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	res := engine.ValidateGoal(engine.GoalInput{
		Name:             req.Name,
		EstimatedMinutes: req.EstimatedMinutes,
		ActivityTypeID:   req.ActivityTypeID,
	})
	if !res.IsValid() {
		return nil, &ValidationFailedError{Result: res}
	}
	activityTypeID, err := uuid.Parse(req.ActivityTypeID)
	if err != nil {
		return nil, errorvalues.ErrActivityTypeNotFound
	}
	goal.Name = req.Name
	goal.Description = req.Description
	goal.EstimatedMinutes = *req.EstimatedMinutes
	goal.ActivityTypeID = activityTypeID
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if err := gs.goalsRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) || errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("goals repository error: " + err.Error())
	}
	return gs.goalsRepo.GetByID(ctx, id)
}

func (gs *GoalsService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := gs.getOwned(ctx, uid, id); err != nil {
		return err
	}
	// Blocks and entries keep living; their goal_id is cleared by the
	// ON DELETE SET NULL constraint.
	err := gs.goalsRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return err
		}
		return errors.New("goals repository error: " + err.Error())
	}
	return nil
}

func (gs *GoalsService) Predict(ctx context.Context, uid, id uuid.UUID) (*engine.PredictionResult, error) {
	goal, err := gs.getOwned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	routine, history, err := gs.predictionInputs(ctx, uid)
	if err != nil {
		return nil, err
	}
	res := engine.PredictGoalCompletion(*goal, routine, history, gs.now())
	return &res, nil
}

func (gs *GoalsService) PredictAll(ctx context.Context, uid uuid.UUID) ([]engine.PredictionResult, error) {
	goals, err := gs.goalsRepo.GetByUserID(ctx, uid, nil)
	if err != nil {
		return nil, errors.New("goals repository error: " + err.Error())
	}
	routine, history, err := gs.predictionInputs(ctx, uid)
	if err != nil {
		return nil, err
	}
	return engine.PredictAllGoals(goals, routine, history, gs.now()), nil
}

// predictionInputs loads the engine's snapshot: the active routine (an
// empty routine when none is active, which projects as a zero rate) and the
// user's full tracking history for the confidence heuristic.
func (gs *GoalsService) predictionInputs(ctx context.Context, uid uuid.UUID) (entity.Routine, []entity.TrackingEntry, error) {
	var routine entity.Routine
	active, err := gs.routinesRepo.GetActiveByUserID(ctx, uid)
	if err != nil && !errors.Is(err, errorvalues.ErrNoActiveRoutine) {
		return routine, nil, errors.New("routines repository error: " + err.Error())
	}
	if active != nil {
		routine = *active
	}
	history, err := gs.trackingRepo.GetByUserID(ctx, uid)
	if err != nil {
		return routine, nil, errors.New("tracking repository error: " + err.Error())
	}
	return routine, history, nil
}

func (gs *GoalsService) getOwned(ctx context.Context, uid, id uuid.UUID) (*entity.Goal, error) {
	goal, err := gs.goalsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return nil, err
		}
		return nil, errors.New("goals repository error: " + err.Error())
	}
	if goal.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return goal, nil
}
