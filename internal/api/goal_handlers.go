package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/httputil"
)

type GoalRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"desc"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	ActivityTypeID   string  `json:"activity_type_id"`
	Status           *string `json:"status"`
}

func (req GoalRequest) toService(logger *slog.Logger, w http.ResponseWriter) (service.GoalRequest, bool) {
	out := service.GoalRequest{
		Name:             req.Name,
		Description:      req.Description,
		EstimatedMinutes: req.EstimatedMinutes,
		ActivityTypeID:   req.ActivityTypeID,
	}
	if req.Status != nil {
		status, ok := parseGoalStatus(*req.Status)
		if !ok {
			logger.Error("goal request error: unknown status")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown goal status", nil)
			return out, false
		}
		out.Status = status
	}
	return out, true
}

func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req GoalRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create goal error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	svcReq, ok := req.toService(logger, w)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	goal, err := s.goalsService.Create(ctx, uid, svcReq)
	if err != nil {
		if writeDomainError(w, logger, "create goal", err) {
			return
		}
		logger.Error("create goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating goal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, goal)
	logger.Info("goal created")
}

func (s *Server) GetGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("get goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	goal, err := s.goalsService.Get(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "get goal", err) {
			return
		}
		logger.Error("get goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting goal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
}

func (s *Server) ListGoals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list goals error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	status, ok := parseGoalStatus(r.URL.Query().Get("status"))
	if !ok {
		logger.Error("list goals error: unknown status filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown goal status", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	goals, err := s.goalsService.List(ctx, uid, status)
	if err != nil {
		logger.Error("list goals error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting goals", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"goals": goals})
	logger.Info("goals provided")
}

func (s *Server) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("update goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal id in path value", nil)
		return
	}
	var req GoalRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update goal error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	svcReq, ok := req.toService(logger, w)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	goal, err := s.goalsService.Update(ctx, uid, id, svcReq)
	if err != nil {
		if writeDomainError(w, logger, "update goal", err) {
			return
		}
		logger.Error("update goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating goal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, goal)
	logger.Info("goal updated")
}

func (s *Server) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("delete goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.goalsService.Delete(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "delete goal", err) {
			return
		}
		logger.Error("delete goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting goal", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("goal deleted")
}

func (s *Server) PredictGoal(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("predict goal error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("predict goal error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid goal id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	prediction, err := s.goalsService.Predict(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "predict goal", err) {
			return
		}
		logger.Error("predict goal error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while predicting goal", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, prediction)
	logger.Info("goal prediction provided")
}

func (s *Server) PredictAllGoals(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("predict goals error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	predictions, err := s.goalsService.PredictAll(ctx, uid)
	if err != nil {
		logger.Error("predict goals error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while predicting goals", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"predictions": predictions})
	logger.Info("goal predictions provided")
}
