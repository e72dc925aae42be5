package utils

import "time"

// Clock abstracts the wall clock so the lobby store and the reconciler can
// be driven by a fixed time source in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// NowMillis returns the clock reading as milliseconds since the epoch,
// the unit playback timestamps are exchanged in.
func NowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
