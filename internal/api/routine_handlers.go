package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/httputil"
)

type RoutineRequest struct {
	Name string `json:"name"`
}

type BlockRequest struct {
	DayOfWeek      *int       `json:"day_of_week"`
	StartMinutes   *int       `json:"start_minutes"`
	EndMinutes     *int       `json:"end_minutes"`
	ActivityTypeID string     `json:"activity_type_id"`
	GoalID         *uuid.UUID `json:"goal_id"`
	SortOrder      int        `json:"sort_order"`
}

func (req BlockRequest) toService() service.BlockRequest {
	return service.BlockRequest{
		DayOfWeek:      req.DayOfWeek,
		StartMinutes:   req.StartMinutes,
		EndMinutes:     req.EndMinutes,
		ActivityTypeID: req.ActivityTypeID,
		GoalID:         req.GoalID,
		SortOrder:      req.SortOrder,
	}
}

func (s *Server) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req RoutineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create routine error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	routine, err := s.routinesService.Create(ctx, uid, req.Name)
	if err != nil {
		if writeDomainError(w, logger, "create routine", err) {
			return
		}
		logger.Error("create routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating routine", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, routine)
	logger.Info("routine created")
}

func (s *Server) GetRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("get routine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	routine, err := s.routinesService.Get(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "get routine", err) {
			return
		}
		logger.Error("get routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting routine", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, routine)
}

func (s *Server) ListRoutines(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list routines error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	routines, err := s.routinesService.List(ctx, uid)
	if err != nil {
		logger.Error("list routines error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting routines", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"routines": routines})
	logger.Info("routines provided")
}

func (s *Server) RenameRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("rename routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("rename routine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	var req RoutineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("rename routine error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.routinesService.Rename(ctx, uid, id, req.Name)
	if err != nil {
		if writeDomainError(w, logger, "rename routine", err) {
			return
		}
		logger.Error("rename routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while renaming routine", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("routine renamed")
}

func (s *Server) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("delete routine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.routinesService.Delete(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "delete routine", err) {
			return
		}
		logger.Error("delete routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting routine", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("routine deleted")
}

func (s *Server) ActivateRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("activate routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("activate routine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.routinesService.Activate(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "activate routine", err) {
			return
		}
		logger.Error("activate routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while activating routine", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("routine activated")
}

func (s *Server) RoutineBreakdown(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("routine breakdown error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("routine breakdown error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	breakdown, err := s.routinesService.Breakdown(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "routine breakdown", err) {
			return
		}
		logger.Error("routine breakdown error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while computing breakdown", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"breakdown": breakdown})
	logger.Info("routine breakdown provided")
}

func (s *Server) AddRoutineBlock(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add block error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	routineID, err := pathID(r, "id")
	if err != nil {
		logger.Error("add block error: invalid routine id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	var req BlockRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add block error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	block, err := s.routinesService.AddBlock(ctx, uid, routineID, req.toService())
	if err != nil {
		if writeDomainError(w, logger, "add block", err) {
			return
		}
		logger.Error("add block error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while adding block", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, block)
	logger.Info("routine block added")
}

func (s *Server) UpdateRoutineBlock(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update block error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	routineID, err := pathID(r, "id")
	if err != nil {
		logger.Error("update block error: invalid routine id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	blockID, err := pathID(r, "blockID")
	if err != nil {
		logger.Error("update block error: invalid block id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid block id in path value", nil)
		return
	}
	var req BlockRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update block error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	block, err := s.routinesService.UpdateBlock(ctx, uid, routineID, blockID, req.toService())
	if err != nil {
		if writeDomainError(w, logger, "update block", err) {
			return
		}
		logger.Error("update block error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating block", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, block)
	logger.Info("routine block updated")
}

func (s *Server) DeleteRoutineBlock(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete block error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	routineID, err := pathID(r, "id")
	if err != nil {
		logger.Error("delete block error: invalid routine id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid routine id in path value", nil)
		return
	}
	blockID, err := pathID(r, "blockID")
	if err != nil {
		logger.Error("delete block error: invalid block id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid block id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.routinesService.RemoveBlock(ctx, uid, routineID, blockID)
	if err != nil {
		if writeDomainError(w, logger, "delete block", err) {
			return
		}
		logger.Error("delete block error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting block", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("routine block deleted")
}
