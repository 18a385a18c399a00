package aggregate

import (
	"context"
	"sync"

	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/pagination"
)

// ResultSlot holds the newest resolved page for a stream of changing
// criteria. It exists to close a stale-response race: a slow resolution
// for criteria A must not overwrite the already-rendered result of a newer
// resolution for criteria B. Each resolution is tagged with a generation;
// starting a new one cancels the context of the superseded one, and a
// commit from a superseded generation is refused.
type ResultSlot struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	key     string
	env     pagination.PageEnvelope[backend.Listing]
	hasEnv  bool
	metrics *MetricsRecorder
}

// NewResultSlot creates an empty slot.
func NewResultSlot() *ResultSlot {
	return &ResultSlot{metrics: NewMetricsRecorder()}
}

// CommitFunc stores a resolved envelope into the slot. It reports false,
// without storing, when the resolution was superseded before completing.
type CommitFunc func(pagination.PageEnvelope[backend.Listing]) bool

// Begin registers a new resolution for the given criteria and returns the
// context to resolve under plus the commit function for its result. Any
// resolution still in flight is cancelled.
func (s *ResultSlot) Begin(ctx context.Context, criteria FetchCriteria) (context.Context, CommitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	gen := s.gen
	s.key = criteria.Key()

	resolveCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	commit := func(env pagination.PageEnvelope[backend.Listing]) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			s.metrics.RecordStaleDiscard()
			return false
		}
		s.env = env
		s.hasEnv = true
		return true
	}
	return resolveCtx, commit
}

// Latest returns the newest committed envelope and the criteria key of the
// newest registered resolution. The second return is false until the first
// commit lands.
func (s *ResultSlot) Latest() (pagination.PageEnvelope[backend.Listing], string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env, s.key, s.hasEnv
}
