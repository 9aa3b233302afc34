package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntitiesCreated    map[string]uint64
	EntitiesUpdated    map[string]uint64
	EntitiesDeleted    map[string]uint64
	DuplicatesRejected map[DuplicateLabel]uint64
	OperationDurations map[string]DurationSummary

	FilesStored       uint64
	FilesDeleted      uint64
	FileDeletesMissed uint64
	StorageFailures   map[string]uint64
}

// DuplicateLabel identifies a duplicate rejection counter.
type DuplicateLabel struct {
	Entity string
	Key    string
}

// DurationSummary is a count/sum pair for a timed operation.
type DurationSummary struct {
	Count   uint64
	TotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                 sync.Mutex
	entitiesCreated    map[string]uint64
	entitiesUpdated    map[string]uint64
	entitiesDeleted    map[string]uint64
	duplicatesRejected map[DuplicateLabel]uint64
	operationDurations map[string]DurationSummary
	storageFailures    map[string]uint64

	filesStored       uint64
	filesDeleted      uint64
	fileDeletesMissed uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		entitiesCreated:    make(map[string]uint64),
		entitiesUpdated:    make(map[string]uint64),
		entitiesDeleted:    make(map[string]uint64),
		duplicatesRejected: make(map[DuplicateLabel]uint64),
		operationDurations: make(map[string]DurationSummary),
		storageFailures:    make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		EntitiesCreated:    maps.Clone(m.entitiesCreated),
		EntitiesUpdated:    maps.Clone(m.entitiesUpdated),
		EntitiesDeleted:    maps.Clone(m.entitiesDeleted),
		DuplicatesRejected: maps.Clone(m.duplicatesRejected),
		OperationDurations: maps.Clone(m.operationDurations),
		StorageFailures:    maps.Clone(m.storageFailures),
		FilesStored:        atomic.LoadUint64(&m.filesStored),
		FilesDeleted:       atomic.LoadUint64(&m.filesDeleted),
		FileDeletesMissed:  atomic.LoadUint64(&m.fileDeletesMissed),
	}
}

// IncEntityCreated increments the created counter for entity.
func (m *InMemoryRecorder) IncEntityCreated(entity string) {
	m.mu.Lock()
	m.entitiesCreated[entity]++
	m.mu.Unlock()
}

// IncEntityUpdated increments the updated counter for entity.
func (m *InMemoryRecorder) IncEntityUpdated(entity string) {
	m.mu.Lock()
	m.entitiesUpdated[entity]++
	m.mu.Unlock()
}

// IncEntityDeleted increments the deleted counter for entity.
func (m *InMemoryRecorder) IncEntityDeleted(entity string) {
	m.mu.Lock()
	m.entitiesDeleted[entity]++
	m.mu.Unlock()
}

// IncDuplicateRejected increments the duplicate counter for an entity key.
func (m *InMemoryRecorder) IncDuplicateRejected(entity, key string) {
	m.mu.Lock()
	m.duplicatesRejected[DuplicateLabel{Entity: entity, Key: key}]++
	m.mu.Unlock()
}

// ObserveOperationDuration records how long an operation took.
func (m *InMemoryRecorder) ObserveOperationDuration(operation string, duration time.Duration) {
	m.mu.Lock()
	s := m.operationDurations[operation]
	s.Count++
	s.TotalNs += duration.Nanoseconds()
	m.operationDurations[operation] = s
	m.mu.Unlock()
}

// IncFileStored increments the stored file counter.
func (m *InMemoryRecorder) IncFileStored() {
	atomic.AddUint64(&m.filesStored, 1)
}

// IncFileDeleted counts a delete attempt by outcome.
func (m *InMemoryRecorder) IncFileDeleted(removed bool) {
	if removed {
		atomic.AddUint64(&m.filesDeleted, 1)
		return
	}
	atomic.AddUint64(&m.fileDeletesMissed, 1)
}

// IncStorageFailure increments the storage failure counter for op.
func (m *InMemoryRecorder) IncStorageFailure(op string) {
	m.mu.Lock()
	m.storageFailures[op]++
	m.mu.Unlock()
}
