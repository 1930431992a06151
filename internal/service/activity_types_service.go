package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/repository"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
)

type ActivityTypesService struct {
	repo repository.ActivityTypesRepositoryI
}

func NewActivityTypesService(activityTypesRepo repository.ActivityTypesRepositoryI) *ActivityTypesService {
	if activityTypesRepo == nil {
		log.Fatal("provided nil activityTypesRepo")
	}
	return &ActivityTypesService{
		repo: activityTypesRepo,
	}
}

func (as *ActivityTypesService) Create(ctx context.Context, uid uuid.UUID, req CreateActivityTypeRequest) (*entity.ActivityType, error) {
	if err := validate.Struct(req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errors.New("validation error: ")
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	at := entity.ActivityType{
		UserID:    uid,
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		IsDefault: req.IsDefault,
		SortOrder: req.SortOrder,
	}
	id, err := as.repo.Create(ctx, &at)
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	return as.repo.GetByID(ctx, id)
}

func (as *ActivityTypesService) List(ctx context.Context, uid uuid.UUID) ([]entity.ActivityType, error) {
	types, err := as.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	return types, nil
}

func (as *ActivityTypesService) Update(ctx context.Context, uid, id uuid.UUID, req UpdateActivityTypeRequest) (*entity.ActivityType, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.New("validation error: " + err.Error())
	}
	at, err := as.getOwned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	at.Name = req.Name
	at.Color = req.Color
	at.Icon = req.Icon
	at.SortOrder = req.SortOrder
	if err := as.repo.Update(ctx, at); err != nil {
		if errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	return as.repo.GetByID(ctx, id)
}

func (as *ActivityTypesService) Delete(ctx context.Context, uid, id uuid.UUID) error {
	if _, err := as.getOwned(ctx, uid, id); err != nil {
		return err
	}
	referenced, err := as.repo.IsReferenced(ctx, id)
	if err != nil {
		return errors.New("activity types repository error: " + err.Error())
	}
	if referenced {
		return errorvalues.ErrActivityTypeInUse
	}
	err = as.repo.Delete(ctx, id)
	if err != nil {
		// References may appear between the check and the delete; the FK
		// constraint stays authoritative.
		if errors.Is(err, errorvalues.ErrActivityTypeInUse) || errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return err
		}
		return errors.New("activity types repository error: " + err.Error())
	}
	return nil
}

func (as *ActivityTypesService) getOwned(ctx context.Context, uid, id uuid.UUID) (*entity.ActivityType, error) {
	at, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityTypeNotFound) {
			return nil, err
		}
		return nil, errors.New("activity types repository error: " + err.Error())
	}
	if at.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return at, nil
}
