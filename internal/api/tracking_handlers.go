package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/RogueKostas/ZenRoutine/pkg/httputil"
)

type StartTrackingRequest struct {
	ActivityTypeID uuid.UUID  `json:"activity_type_id"`
	GoalID         *uuid.UUID `json:"goal_id"`
	RoutineBlockID *uuid.UUID `json:"routine_block_id"`
	Source         string     `json:"source"`
	Notes          string     `json:"notes"`
}

type ManualEntryRequest struct {
	EntryDate      time.Time  `json:"entry_date"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        time.Time  `json:"ended_at"`
	ActivityTypeID uuid.UUID  `json:"activity_type_id"`
	GoalID         *uuid.UUID `json:"goal_id"`
	RoutineBlockID *uuid.UUID `json:"routine_block_id"`
	Notes          string     `json:"notes"`
}

func (s *Server) StartTracking(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("start tracking error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req StartTrackingRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("start tracking error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.trackingService.Start(ctx, uid, service.StartTrackingRequest{
		ActivityTypeID: req.ActivityTypeID,
		GoalID:         req.GoalID,
		RoutineBlockID: req.RoutineBlockID,
		Source:         entity.TrackingSource(req.Source),
		Notes:          req.Notes,
	})
	if err != nil {
		if writeDomainError(w, logger, "start tracking", err) {
			return
		}
		if errors.Is(err, errorvalues.ErrTrackingInProgress) {
			logger.Error("start tracking error: entry already running")
			httputil.WriteErrorResponse(w, http.StatusConflict, "an entry is already being tracked", nil)
			return
		}
		logger.Error("start tracking error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while starting tracking", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("tracking started")
}

func (s *Server) StopTracking(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("stop tracking error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.trackingService.Stop(ctx, uid)
	if err != nil {
		if writeDomainError(w, logger, "stop tracking", err) {
			return
		}
		if errors.Is(err, errorvalues.ErrNoActiveTracking) {
			logger.Error("stop tracking error: nothing running")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no entry is being tracked", nil)
			return
		}
		logger.Error("stop tracking error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while stopping tracking", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("tracking stopped")
}

func (s *Server) CurrentTracking(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("current tracking error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.trackingService.Current(ctx, uid)
	if err != nil {
		if writeDomainError(w, logger, "current tracking", err) {
			return
		}
		if errors.Is(err, errorvalues.ErrNoActiveTracking) {
			logger.Error("current tracking error: nothing running")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no entry is being tracked", nil)
			return
		}
		logger.Error("current tracking error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting running entry", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entry)
}

func (s *Server) AddManualEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add manual entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req ManualEntryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add manual entry error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entry, err := s.trackingService.AddManual(ctx, uid, service.ManualEntryRequest{
		EntryDate:      req.EntryDate,
		StartedAt:      req.StartedAt,
		EndedAt:        req.EndedAt,
		ActivityTypeID: req.ActivityTypeID,
		GoalID:         req.GoalID,
		RoutineBlockID: req.RoutineBlockID,
		Notes:          req.Notes,
	})
	if err != nil {
		if writeDomainError(w, logger, "add manual entry", err) {
			return
		}
		logger.Error("add manual entry error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while adding entry", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, entry)
	logger.Info("manual entry added")
}

func (s *Server) DeleteTrackingEntry(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete entry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		logger.Error("delete entry error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid entry id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.trackingService.Delete(ctx, uid, id)
	if err != nil {
		if writeDomainError(w, logger, "delete entry", err) {
			return
		}
		logger.Error("delete entry error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting entry", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("tracking entry deleted")
}

func (s *Server) ListTrackingEntries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list entries error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	from, err := queryDate(r, "from", time.Time{})
	if err != nil {
		logger.Error("list entries error: invalid from date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'from' date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := queryDate(r, "to", time.Now().AddDate(0, 0, 1))
	if err != nil {
		logger.Error("list entries error: invalid to date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'to' date, expected YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entries, err := s.trackingService.List(ctx, uid, from, to)
	if err != nil {
		logger.Error("list entries error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting entries", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"entries": entries})
	logger.Info("tracking entries provided")
}

func (s *Server) TrackedBreakdown(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("tracked breakdown error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	weekStart, err := queryDate(r, "week_start", time.Time{})
	if err != nil || weekStart.IsZero() {
		logger.Error("tracked breakdown error: invalid week_start date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'week_start' date, expected YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	breakdown, err := s.trackingService.WeeklyBreakdown(ctx, uid, weekStart)
	if err != nil {
		logger.Error("tracked breakdown error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while computing breakdown", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"breakdown": breakdown})
	logger.Info("tracked breakdown provided")
}

// queryDate parses an optional YYYY-MM-DD query parameter, falling back when absent.
func queryDate(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
