package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	errorvalues "github.com/RogueKostas/ZenRoutine/internal/error_values"
	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/entity"
	"github.com/RogueKostas/ZenRoutine/pkg/httputil"
	"github.com/RogueKostas/ZenRoutine/pkg/timeutil"
)

// writeDomainError maps the cross-cutting service errors every resource
// shares: collected validation failures, schedule conflicts, ownership and
// not-found sentinels. Returns false when the error was not recognized so
// the handler can fall through to its own switch.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, action string, err error) bool {
	var validationErr *service.ValidationFailedError
	if errors.As(err, &validationErr) {
		logger.Error(action + " error: validation failed")
		httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "validation failed", validationErr.Result.Errors)
		return true
	}
	var overlapErr *service.BlockOverlapError
	if errors.As(err, &overlapErr) {
		logger.Error(action + " error: time conflict")
		ids := make([]string, 0, len(overlapErr.Conflicts))
		slots := make([]string, 0, len(overlapErr.Conflicts))
		for _, b := range overlapErr.Conflicts {
			ids = append(ids, b.ID.String())
			slots = append(slots, blockSlot(b))
		}
		httputil.WriteErrorResponse(w, http.StatusConflict, "block overlaps existing blocks", map[string]any{
			"conflicting_block_ids": ids,
			"conflicting_slots":     slots,
		})
		return true
	}
	switch {
	case errors.Is(err, errorvalues.ErrWrongOwner):
		// Another user's resource looks like a missing one.
		logger.Error(action + " error: wrong owner")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "resource doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrActivityTypeNotFound):
		logger.Error(action + " error: unexist activity type")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "activity type doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrGoalNotFound):
		logger.Error(action + " error: unexist goal")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "goal doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrRoutineNotFound):
		logger.Error(action + " error: unexist routine")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "routine doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrBlockNotFound):
		logger.Error(action + " error: unexist block")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "routine block doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrEntryNotFound):
		logger.Error(action + " error: unexist entry")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "tracking entry doesn't exist", nil)
	default:
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}

// blockSlot renders a block as "Mon 09:00-12:00" for error payloads.
func blockSlot(b entity.RoutineBlock) string {
	return timeutil.DayName(b.DayOfWeek, true) + " " +
		timeutil.MinutesToTimeString(b.StartMinutes) + "-" +
		timeutil.MinutesToTimeString(b.EndMinutes)
}

// parseGoalStatus keeps status filters honest before they hit SQL.
func parseGoalStatus(raw string) (*entity.GoalStatus, bool) {
	if raw == "" {
		return nil, true
	}
	status := entity.GoalStatus(raw)
	switch status {
	case entity.GoalStatusActive, entity.GoalStatusCompleted, entity.GoalStatusPaused, entity.GoalStatusArchived:
		return &status, true
	}
	return nil, false
}
