package aggregate

import "fmt"

// PartitionFetchError wraps the failure of a single store's partition in a
// multi-source resolution. It is logged and counted, never surfaced as a
// page failure on its own: partial results beat total failure.
type PartitionFetchError struct {
	StoreID string
	Err     error
}

func (e *PartitionFetchError) Error() string {
	return fmt.Sprintf("partition fetch failed for store %s: %v", e.StoreID, e.Err)
}

func (e *PartitionFetchError) Unwrap() error { return e.Err }

// AllPartitionsFailedError is raised when every partition of a multi-source
// resolution failed. This one does reach the caller, which should render a
// retryable failure state.
type AllPartitionsFailedError struct {
	Partitions int
	LastErr    error
}

func (e *AllPartitionsFailedError) Error() string {
	return fmt.Sprintf("all %d partitions failed: %v", e.Partitions, e.LastErr)
}

func (e *AllPartitionsFailedError) Unwrap() error { return e.LastErr }
