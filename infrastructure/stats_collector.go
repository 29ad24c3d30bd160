package infrastructure

import "sync"

// Stats of one validation run
type Stats struct {
	URLsSubmitted      int64
	InvalidURLs        int64
	FetchAttempts      int64
	Retries            int64
	CacheHits          int64
	DomainsBlacklisted int64
	ChecksFound        int64
	ChecksNotFound     int64
	ChecksErrored      int64
}

type statsState struct {
	sync.RWMutex
	s Stats
}

var globalStatsState = newStatsState()

// GlobalStats returns the global handler to the stats collector
func GlobalStats() *statsState {
	return globalStatsState
}

// ResetGlobalStats resets the global stats
func ResetGlobalStats() {
	globalStatsState = newStatsState()
}

// OnURLSubmitted called once per work item entering a batch
func (stats *statsState) OnURLSubmitted() {
	stats.Lock()
	stats.s.URLsSubmitted++
	stats.Unlock()
}

// OnInvalidURL called for rows rejected before any I/O
func (stats *statsState) OnInvalidURL() {
	stats.Lock()
	stats.s.InvalidURLs++
	stats.Unlock()
}

// OnFetchAttempt called once per outgoing GET request
func (stats *statsState) OnFetchAttempt() {
	stats.Lock()
	stats.s.FetchAttempts++
	stats.Unlock()
}

// OnRetry called when a transport failure triggers another attempt
func (stats *statsState) OnRetry() {
	stats.Lock()
	stats.s.Retries++
	stats.Unlock()
}

// OnCacheHit called when a cached result is reused
func (stats *statsState) OnCacheHit() {
	stats.Lock()
	stats.s.CacheHits++
	stats.Unlock()
}

// OnDomainBlacklisted called when a row is rejected by the domain blacklist
func (stats *statsState) OnDomainBlacklisted() {
	stats.Lock()
	stats.s.DomainsBlacklisted++
	stats.Unlock()
}

// OnCheckFound called when a page contained a success marker
func (stats *statsState) OnCheckFound() {
	stats.Lock()
	stats.s.ChecksFound++
	stats.Unlock()
}

// OnCheckNotFound called when a fetched page contained no success marker
func (stats *statsState) OnCheckNotFound() {
	stats.Lock()
	stats.s.ChecksNotFound++
	stats.Unlock()
}

// OnCheckErrored called when a row could not be checked
func (stats *statsState) OnCheckErrored() {
	stats.Lock()
	stats.s.ChecksErrored++
	stats.Unlock()
}

// Fetch returns a copy of the current stats
func (stats *statsState) Fetch() Stats {
	stats.RLock()
	defer stats.RUnlock()
	return stats.s // a copy
}

func newStatsState() *statsState {
	return &statsState{}
}
