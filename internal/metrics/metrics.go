// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entity kinds used as metric labels.
const (
	EntityCategory   = "category"
	EntityIngredient = "ingredient"
	EntityUser       = "user"
	EntityRecipe     = "recipe"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Entity management metrics
	IncEntityCreated(entity string)
	IncEntityUpdated(entity string)
	IncEntityDeleted(entity string)
	IncDuplicateRejected(entity, key string)
	ObserveOperationDuration(operation string, duration time.Duration)

	// File storage metrics
	IncFileStored()
	IncFileDeleted(removed bool)
	IncStorageFailure(op string) // op: "store", "load", "delete"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
