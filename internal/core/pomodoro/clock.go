// Package pomodoro implements the pomodoro cycle state machine, its
// countdown clock, and the registry of running sessions.
package pomodoro

import (
	"errors"
	"fmt"
	"time"
)

const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond

	// MaxDuration is the longest span a Clock can represent. There is no
	// hour field, so anything longer wraps.
	MaxDuration = 59*time.Minute + 59*time.Second
)

// ErrClockExpired is returned by Clock.Tick when no time remains.
var ErrClockExpired = errors.New("clock has no time remaining")

// Clock holds the time remaining in the current phase with one second
// resolution. Both fields are always within [0, 59].
type Clock struct {
	minutes uint8
	seconds uint8
}

// SetMillis sets the clock from a millisecond count. Sub-second remainders
// are truncated and values beyond MaxDuration wrap modulo one hour.
func (c *Clock) SetMillis(ms uint64) {
	c.minutes = uint8((ms / millisPerMinute) % 60)
	c.seconds = uint8((ms / millisPerSecond) % 60)
}

// SetMinutes sets the clock to n whole minutes.
func (c *Clock) SetMinutes(n uint64) {
	c.SetMillis(n * millisPerMinute)
}

// SetDuration sets the clock from d. Negative durations clear the clock.
func (c *Clock) SetDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.SetMillis(uint64(d.Milliseconds()))
}

// Millis returns the remaining time in milliseconds.
func (c Clock) Millis() uint64 {
	return uint64(c.minutes)*millisPerMinute + uint64(c.seconds)*millisPerSecond
}

// Remaining returns the remaining time as a time.Duration.
func (c Clock) Remaining() time.Duration {
	return time.Duration(c.Millis()) * time.Millisecond
}

// IsZero reports whether the clock has run out.
func (c Clock) IsZero() bool {
	return c.minutes == 0 && c.seconds == 0
}

// Tick removes one second from the clock. It returns ErrClockExpired and
// leaves the clock untouched when it already reads 00:00.
func (c *Clock) Tick() error {
	ms := c.Millis()
	if ms < millisPerSecond {
		return ErrClockExpired
	}
	c.SetMillis(ms - millisPerSecond)
	return nil
}

// String renders the clock as zero-padded MM:SS.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes, c.seconds)
}
