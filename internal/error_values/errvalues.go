package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid auth token")
	ErrWrongOwner       = errors.New("resource belongs to another user")
	ErrOwnerNotFound    = errors.New("referenced owner doesn't exist")

	ErrActivityTypeNotFound = errors.New("activity type doesn't exist")
	ErrActivityTypeInUse    = errors.New("activity type is referenced by goals, blocks or entries")

	ErrGoalNotFound = errors.New("goal doesn't exist")
	ErrInvalidGoal  = errors.New("goal failed validation")

	ErrRoutineNotFound = errors.New("routine doesn't exist")
	ErrBlockNotFound   = errors.New("routine block doesn't exist")
	ErrInvalidBlock    = errors.New("routine block failed validation")
	ErrBlockOverlap    = errors.New("routine block overlaps existing blocks")
	ErrNoActiveRoutine = errors.New("user has no active routine")

	ErrEntryNotFound      = errors.New("tracking entry doesn't exist")
	ErrTrackingInProgress = errors.New("another tracking entry is already running")
	ErrNoActiveTracking   = errors.New("no tracking entry is running")
)
