package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/httputil"
)

type ActivityTypeRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
	SortOrder int    `json:"sort_order"`
}

func (s *Server) CreateActivityType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create activity type error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req ActivityTypeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create activity type error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	at, err := s.activityTypesService.Create(ctx, uid, service.CreateActivityTypeRequest{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		IsDefault: req.IsDefault,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if writeDomainError(w, logger, "create activity type", err) {
			return
		}
		logger.Error("create activity type error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't create activity type", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, at)
	logger.Info("activity type created")
}

func (s *Server) ListActivityTypes(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list activity types error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	types, err := s.activityTypesService.List(ctx, uid)
	if err != nil {
		logger.Error("list activity types error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting activity types", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"activity_types": types})
	logger.Info("activity types provided")
}

func (s *Server) UpdateActivityType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update activity type error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("update activity type error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity type id in path value", nil)
		return
	}
	var req ActivityTypeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update activity type error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	at, err := s.activityTypesService.Update(ctx, uid, id, service.UpdateActivityTypeRequest{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if writeDomainError(w, logger, "update activity type", err) {
			return
		}
		logger.Error("update activity type error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating activity type", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, at)
	logger.Info("activity type updated")
}

func (s *Server) DeleteActivityType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete activity type error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("delete activity type error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid activity type id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.activityTypesService.Delete(ctx, uid, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrActivityTypeInUse) {
			logger.Error("delete activity type error: still referenced")
			httputil.WriteErrorResponse(w, http.StatusConflict, "activity type is still used by goals, blocks or entries", nil)
			return
		}
		if writeDomainError(w, logger, "delete activity type", err) {
			return
		}
		logger.Error("delete activity type error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting activity type", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("activity type deleted")
}
