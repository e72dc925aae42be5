package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtrapolate(t *testing.T) {
	base := PlaybackState{
		Status:    StatusPlaying,
		Offset:    30,
		Timestamp: 1_000_000,
		Speed:     1,
	}

	t.Run("advances while playing", func(t *testing.T) {
		assert.InDelta(t, 32.0, base.Extrapolate(1_002_000), 0.001)
	})

	t.Run("speed multiplies elapsed time", func(t *testing.T) {
		s := base
		s.Speed = 2
		assert.InDelta(t, 34.0, s.Extrapolate(1_002_000), 0.001)
	})

	t.Run("frozen while paused", func(t *testing.T) {
		s := base
		s.Status = StatusPaused
		assert.InDelta(t, 30.0, s.Extrapolate(1_999_000), 0.001)
	})

	t.Run("same instant", func(t *testing.T) {
		assert.InDelta(t, 30.0, base.Extrapolate(1_000_000), 0.001)
	})
}
