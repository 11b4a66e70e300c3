package sumai

import (
	"context"
	"sync"
	"time"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/feed"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/logging"
	"github.com/sumai-tools/sumai/pkg/reconcile"
	"github.com/sumai-tools/sumai/pkg/store"
)

// FeedOutcome is one feed's result within a refresh.
type FeedOutcome struct {
	Feed        listings.Feed
	NotModified bool
	Inserted    int
	Updated     int
	Deleted     int
	Err         error
}

// Changed reports whether this feed's reconcile applied any diff.
func (o FeedOutcome) Changed() bool {
	return o.Inserted > 0 || o.Updated > 0 || o.Deleted > 0
}

// RefreshResult aggregates both feeds' outcomes for one refresh.
type RefreshResult struct {
	Outcomes   []FeedOutcome
	HadChanges bool
	Err        error // most recent per-feed failure, nil if both succeeded
}

// SyncState is a read-only snapshot of the coordinator's sync state.
type SyncState struct {
	Refreshing            bool
	LastFetchedAt         time.Time
	LastError             string
	LastRefreshHadChanges bool
	Feeds                 map[listings.Feed]listings.FeedSyncState
}

// Refresh fetches and reconciles both feeds concurrently and joins on both
// completing. Per-feed failures are recorded, never propagated as fatal;
// the previous committed data stays queryable throughout.
func (s *sumai) Refresh(ctx context.Context) *RefreshResult {
	if ctx == nil {
		ctx = context.Background()
	}

	feeds := listings.Feeds()

	s.mu.Lock()
	s.refreshing++
	urls := make(map[listings.Feed]string, len(feeds))
	tokens := make(map[listings.Feed]string, len(feeds))
	for _, f := range feeds {
		urls[f] = s.endpoints[f]
		tokens[f] = s.states[f].Token
	}
	s.mu.Unlock()

	outcomes := make([]FeedOutcome, len(feeds))
	results := make([]*feed.Result, len(feeds))

	var wg sync.WaitGroup
	for i, f := range feeds {
		wg.Add(1)
		go func(i int, f listings.Feed) {
			defer wg.Done()
			feedCtx := logging.WithFeed(ctx, f.String())
			outcomes[i], results[i] = s.refreshFeed(feedCtx, f, urls[f], tokens[f])
		}(i, f)
	}
	wg.Wait()

	now := time.Now().UTC()

	s.mu.Lock()
	s.refreshing--
	result := &RefreshResult{Outcomes: outcomes}
	anyCompleted := false
	for i, f := range feeds {
		o := outcomes[i]
		state := s.states[f]
		state.Feed = f
		state.Changed = o.Changed()
		if o.Err != nil {
			state.LastError = o.Err.Error()
			result.Err = o.Err
		} else {
			state.LastError = ""
			state.LastFetchedAt = now
			if results[i] != nil {
				state.Token = results[i].Token
			}
			anyCompleted = true
		}
		if o.Changed() {
			result.HadChanges = true
		}
		s.states[f] = state
	}
	states := s.snapshotStatesLocked()
	s.mu.Unlock()

	if anyCompleted {
		s.persistStates(ctx, states)
	}

	logging.Ctx(ctx).Info().
		Bool("had_changes", result.HadChanges).
		Bool("failed", result.Err != nil).
		Msg("Refresh finished")

	return result
}

// ForceRefresh clears cached tokens and refreshes unconditionally.
func (s *sumai) ForceRefresh(ctx context.Context) *RefreshResult {
	s.ClearCache()
	return s.Refresh(ctx)
}

// refreshFeed runs one feed's fetch and reconcile. Errors are returned in
// the outcome; nothing escapes to abort the sibling feed.
func (s *sumai) refreshFeed(ctx context.Context, f listings.Feed, url, token string) (FeedOutcome, *feed.Result) {
	outcome := FeedOutcome{Feed: f}

	if url == "" {
		outcome.Err = errors.NewSyncError(f.String(), errors.NewConfigError("endpoints", "no URL configured", nil))
		return outcome, nil
	}

	result, err := s.client.Fetch(ctx, f, url, token)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Feed fetch failed")
		outcome.Err = errors.NewSyncError(f.String(), err)
		return outcome, nil
	}

	if result.NotModified {
		outcome.NotModified = true
		return outcome, result
	}

	recResult, err := reconcile.Reconcile(ctx, s.store, f, result.Records)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Reconcile failed, keeping previous data")
		outcome.Err = errors.NewSyncError(f.String(), err)
		return outcome, nil
	}

	outcome.Inserted = len(recResult.Inserted)
	outcome.Updated = len(recResult.Updated)
	outcome.Deleted = len(recResult.Deleted)
	return outcome, result
}

// LoadTransactions replaces the transaction table from the feed.
func (s *sumai) LoadTransactions(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.RLock()
	url := s.txURL
	s.mu.RUnlock()

	records, err := s.client.FetchTransactions(ctx, url)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceTransactions(records); err != nil {
		return errors.WrapStore("write", "transactions", err)
	}

	logging.Ctx(ctx).Info().Int("records", len(records)).Msg("Transactions loaded")
	return nil
}

// ClearCache discards both feeds' validation tokens. Persisted records are
// untouched; the next refresh performs a full fetch and diff.
func (s *sumai) ClearCache() {
	s.mu.Lock()
	for f, state := range s.states {
		state.Token = ""
		s.states[f] = state
	}
	states := s.snapshotStatesLocked()
	s.mu.Unlock()

	s.persistStates(context.Background(), states)
}

// SetEndpoints overrides the feed URLs; empty reverts to the compiled-in
// default. Tokens are always cleared, even when reverting.
func (s *sumai) SetEndpoints(existingURL, newBuildURL string) {
	if existingURL == "" {
		existingURL = DefaultExistingFeedURL
	}
	if newBuildURL == "" {
		newBuildURL = DefaultNewBuildFeedURL
	}

	s.mu.Lock()
	s.endpoints[listings.FeedExisting] = existingURL
	s.endpoints[listings.FeedNewBuild] = newBuildURL
	for f, state := range s.states {
		state.Token = ""
		s.states[f] = state
	}
	states := s.snapshotStatesLocked()
	s.mu.Unlock()

	s.persistStates(context.Background(), states)
}

// SyncState returns a snapshot of aggregate and per-feed sync state. The
// aggregate error is the most recent failure in feed order; the aggregate
// fetch time is the latest per-feed success.
func (s *sumai) SyncState() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := SyncState{
		Refreshing: s.refreshing > 0,
		Feeds:      make(map[listings.Feed]listings.FeedSyncState, len(s.states)),
	}
	for _, f := range listings.Feeds() {
		state := s.states[f]
		out.Feeds[f] = state
		if state.LastError != "" {
			out.LastError = state.LastError
		}
		if state.Changed {
			out.LastRefreshHadChanges = true
		}
		if state.LastFetchedAt.After(out.LastFetchedAt) {
			out.LastFetchedAt = state.LastFetchedAt
		}
	}
	return out
}

// snapshotStatesLocked copies the per-feed states; callers hold mu.
func (s *sumai) snapshotStatesLocked() map[listings.Feed]listings.FeedSyncState {
	out := make(map[listings.Feed]listings.FeedSyncState, len(s.states))
	for f, state := range s.states {
		out[f] = state
	}
	return out
}

// persistStates saves sync state on durable stores. Failure to persist a
// token only costs the next run a full fetch, so it is logged and dropped.
func (s *sumai) persistStates(ctx context.Context, states map[listings.Feed]listings.FeedSyncState) {
	keeper, ok := s.store.(store.StateKeeper)
	if !ok {
		return
	}
	if err := keeper.SaveSyncStates(states); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Could not persist sync state")
	}
}
