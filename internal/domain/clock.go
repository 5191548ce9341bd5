package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps Dataset.LoadedAt. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the load-time clock. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now reports the current time on the package clock.
func Now() time.Time { return clock.Now() }
