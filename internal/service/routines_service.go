package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/RogueKostas/ZenRoutine/internal/engine"
	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/repository"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type RoutinesService struct {
	routinesRepo      repository.RoutinesRepositoryI
	activityTypesRepo repository.ActivityTypesRepositoryI
}

func NewRoutinesService(routinesRepo repository.RoutinesRepositoryI, activityTypesRepo repository.ActivityTypesRepositoryI) *RoutinesService {
	if routinesRepo == nil || activityTypesRepo == nil {
		log.Fatal("on routines service provided nil repos")
	}
	return &RoutinesService{
		routinesRepo:      routinesRepo,
		activityTypesRepo: activityTypesRepo,
	}
}

func (rs *RoutinesService) Create(ctx context.Context, uid uuid.UUID, name string) (*entity.Routine, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationFailedError{Result: engine.ValidationResult{
			Errors: []engine.FieldError{{Field: "name", Message: "name is required"}},
		}}
	}
	id, err := rs.routinesRepo.Create(ctx, &entity.Routine{
		UserID: uid,
		Name:   name,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	return rs.routinesRepo.GetByID(ctx, id)
}

func (rs *RoutinesService) Get(ctx context.Context, uid, id uuid.UUID) (*entity.Routine, error) {
	return rs.getOwned(ctx, uid, id)
}

func (rs *RoutinesService) List(ctx context.Context, uid uuid.UUID) ([]entity.Routine, error) {
	routines, err := rs.routinesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("routines repository error: " + err.Error())
	}
	return routines, nil
}

func (rs *RoutinesService) Rename(ctx context.Context, uid, id uuid.UUID, name string) error {
	routine, err := rs.getOwned(ctx, uid, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationFailedError{Result: engine.ValidationResult{
			Errors: []engine.FieldError{{Field: "name", Message: "name is required"}},
		}}
	}
	routine.Name = name
	if err := rs.routinesRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return err
		}
		return errors.New("routines repository error: " + err.Error())
	}
	return nil
}

func (rs *RoutinesService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := rs.getOwned(ctx, uid, id); err != nil {
		return err
	}
	err := rs.routinesRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return err
		}
		return errors.New("routines repository error: " + err.Error())
	}
	return nil
}

func (rs *RoutinesService) Activate(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := rs.getOwned(ctx, uid, id); err != nil {
		return err
	}
	err := rs.routinesRepo.SetActive(ctx, uid, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return err
		}
		return errors.New("routines repository error: " + err.Error())
	}
	return nil
}

func (rs *RoutinesService) AddBlock(ctx context.Context, uid, routineID uuid.UUID, req BlockRequest) (*entity.RoutineBlock, error) {
	routine, err := rs.getOwned(ctx, uid, routineID)
	if err != nil {
		return nil, err
	}
	block, err := rs.buildBlock(routine, uuid.Nil, req)
	if err != nil {
		return nil, err
	}
	id, err := rs.routinesRepo.AddBlock(ctx, block)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	block.ID = id
	return block, nil
}

func (rs *RoutinesService) UpdateBlock(ctx context.Context, uid, routineID, blockID uuid.UUID, req BlockRequest) (*entity.RoutineBlock, error) {
	routine, err := rs.getOwned(ctx, uid, routineID)
	if err != nil {
		return nil, err
	}
	if !containsBlock(routine.Blocks, blockID) {
		return nil, errorvalues.ErrBlockNotFound
	}
	block, err := rs.buildBlock(routine, blockID, req)
	if err != nil {
		return nil, err
	}
	if err := rs.routinesRepo.UpdateBlock(ctx, block); err != nil {
		if errors.Is(err, errorvalues.ErrBlockNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	return block, nil
}

func (rs *RoutinesService) RemoveBlock(ctx context.Context, uid, routineID, blockID uuid.UUID) error {
	routine, err := rs.getOwned(ctx, uid, routineID)
	if err != nil {
		return err
	}
	if !containsBlock(routine.Blocks, blockID) {
		return errorvalues.ErrBlockNotFound
	}
	err = rs.routinesRepo.DeleteBlock(ctx, blockID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrBlockNotFound) {
			return err
		}
		return errors.New("routines repository error: " + err.Error())
	}
	return nil
}

func (rs *RoutinesService) Breakdown(ctx context.Context, uid, routineID uuid.UUID) ([]engine.WeeklyBreakdown, error) {
	routine, err := rs.getOwned(ctx, uid, routineID)
	if err != nil {
		return nil, err
	}
	types, err := rs.activityTypesRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	return engine.RoutineBreakdown(*routine, types), nil
}

// buildBlock runs the engine's structural validation and overlap detection
// over the routine's current blocks before anything is persisted. excludeID
// is the block's own ID on update so it does not conflict with itself.
func (rs *RoutinesService) buildBlock(routine *entity.Routine, excludeID uuid.UUID, req BlockRequest) (*entity.RoutineBlock, error) {
	res := engine.ValidateRoutineBlock(engine.BlockInput{
		DayOfWeek:      req.DayOfWeek,
		StartMinutes:   req.StartMinutes,
		EndMinutes:     req.EndMinutes,
		ActivityTypeID: req.ActivityTypeID,
	})
	if !res.IsValid() {
		return nil, &ValidationFailedError{Result: res}
	}
	activityTypeID, err := uuid.Parse(req.ActivityTypeID)
	if err != nil {
		return nil, errorvalues.ErrActivityTypeNotFound
	}
	block := entity.RoutineBlock{
		ID:             excludeID,
		RoutineID:      routine.ID,
		DayOfWeek:      *req.DayOfWeek,
		StartMinutes:   *req.StartMinutes,
		EndMinutes:     *req.EndMinutes,
		ActivityTypeID: activityTypeID,
		GoalID:         req.GoalID,
		SortOrder:      req.SortOrder,
	}
	if conflicts := engine.FindOverlappingBlocks(routine.Blocks, block); len(conflicts) > 0 {
		return nil, &BlockOverlapError{Conflicts: conflicts}
	}
	return &block, nil
}

func (rs *RoutinesService) getOwned(ctx context.Context, uid, id uuid.UUID) (*entity.Routine, error) {
	routine, err := rs.routinesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	if routine.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return routine, nil
}

func containsBlock(blocks []entity.RoutineBlock, id uuid.UUID) bool {
	for _, b := range blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}
