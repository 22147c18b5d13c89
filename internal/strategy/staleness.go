package strategy

import "time"

// Staleness is one observation of feed age.
type Staleness struct {
	// Age is the saturating elapsed time since the last accepted book update.
	Age time.Duration
	// Stale is true when Age exceeds the threshold.
	Stale bool
	// Entered is true only on the Fresh -> Stale transition.
	Entered bool
}

// StalenessMonitor tracks whether market data is recent enough to trust. It
// flips to Stale when the age of the last book update exceeds the threshold
// and back to Fresh the moment an update is accepted. It only reports;
// reacting to staleness belongs to the caller.
type StalenessMonitor struct {
	threshold time.Duration
	stale     bool
}

// NewStalenessMonitor creates a monitor with the given threshold. A zero
// threshold means any nonzero age is stale.
func NewStalenessMonitor(threshold time.Duration) *StalenessMonitor {
	return &StalenessMonitor{threshold: threshold}
}

// Check evaluates feed age at now given the last update time. A clock that
// runs behind lastUpdate yields age zero rather than underflowing.
func (m *StalenessMonitor) Check(now, lastUpdate time.Time) Staleness {
	age := now.Sub(lastUpdate)
	if age < 0 {
		age = 0
	}
	stale := age > m.threshold
	entered := stale && !m.stale
	m.stale = stale
	return Staleness{Age: age, Stale: stale, Entered: entered}
}

// Reset returns the monitor to Fresh. Called on every accepted book update.
func (m *StalenessMonitor) Reset() {
	m.stale = false
}

// IsStale reports the state as of the last Check.
func (m *StalenessMonitor) IsStale() bool { return m.stale }
