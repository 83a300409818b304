package task

import "errors"

// Sentinel errors for task operations. Callers check these with
// errors.Is() to map storage failures onto HTTP status codes.
var (
	// ErrNotFound is returned when a task does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when a title is empty or whitespace-only.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrInvalidPriority is returned for an unknown priority level.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrEmptyReorder is returned when a reorder request contains no IDs.
	ErrEmptyReorder = errors.New("reorder requires at least one task ID")

	// ErrDuplicateID is returned when a reorder sequence repeats a task ID.
	ErrDuplicateID = errors.New("duplicate task ID in reorder sequence")

	// ErrInvalidLimit is returned for an out-of-range pagination limit.
	ErrInvalidLimit = errors.New("invalid pagination limit")
)
