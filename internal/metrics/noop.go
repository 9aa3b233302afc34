package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEntityCreated is a no-op.
func (n *NoopRecorder) IncEntityCreated(entity string) {}

// IncEntityUpdated is a no-op.
func (n *NoopRecorder) IncEntityUpdated(entity string) {}

// IncEntityDeleted is a no-op.
func (n *NoopRecorder) IncEntityDeleted(entity string) {}

// IncDuplicateRejected is a no-op.
func (n *NoopRecorder) IncDuplicateRejected(entity, key string) {}

// ObserveOperationDuration is a no-op.
func (n *NoopRecorder) ObserveOperationDuration(operation string, duration time.Duration) {}

// IncFileStored is a no-op.
func (n *NoopRecorder) IncFileStored() {}

// IncFileDeleted is a no-op.
func (n *NoopRecorder) IncFileDeleted(removed bool) {}

// IncStorageFailure is a no-op.
func (n *NoopRecorder) IncStorageFailure(op string) {}
