package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync/models"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// fakePlayer records every control call.
type fakePlayer struct {
	loaded   string
	position float64
	playing  bool
	speed    float64

	loads  []string
	seeks  []float64
	plays  int
	pauses int
}

func (p *fakePlayer) Load(videoID string) { p.loaded = videoID; p.loads = append(p.loads, videoID) }
func (p *fakePlayer) Position() float64   { return p.position }
func (p *fakePlayer) Seek(s float64)      { p.position = s; p.seeks = append(p.seeks, s) }
func (p *fakePlayer) Playing() bool       { return p.playing }
func (p *fakePlayer) Play()               { p.playing = true; p.plays++ }
func (p *fakePlayer) Pause()              { p.playing = false; p.pauses++ }
func (p *fakePlayer) SetSpeed(s float64)  { p.speed = s }

const t0 = int64(1_700_000_000_000)

func setup() (*Reconciler, *fakePlayer, *fixedClock, *[]string) {
	player := &fakePlayer{}
	clock := &fixedClock{t: time.UnixMilli(t0)}
	notices := []string{}
	r := New(player, clock, func(text string) { notices = append(notices, text) })
	return r, player, clock, &notices
}

func TestSeekWhenDriftExceedsTolerance(t *testing.T) {
	r, player, clock, _ := setup()

	// Owner reported offset 30 at t0, playing at 1x. Two seconds later
	// the expected position is 32.
	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 30, Timestamp: t0, Speed: 1,
	})
	clock.advance(2 * time.Second)

	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 35

	r.Tick()

	require.Len(t, player.seeks, 1)
	assert.InDelta(t, 32.0, player.seeks[0], 0.001)
}

func TestNoSeekWithinTolerance(t *testing.T) {
	r, player, clock, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 30, Timestamp: t0, Speed: 1,
	})
	clock.advance(2 * time.Second)

	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 31.5 // |31.5 - 32| <= 1.0

	r.Tick()
	assert.Empty(t, player.seeks)
}

func TestPausedStateDoesNotExtrapolate(t *testing.T) {
	r, player, clock, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPaused,
		Offset: 30, Timestamp: t0, Speed: 1,
	})
	clock.advance(10 * time.Second)

	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 30.2

	r.Tick()
	assert.Empty(t, player.seeks, "paused offset must not advance with the clock")
	assert.Equal(t, 1, player.pauses)
}

func TestSpeedAffectsExtrapolation(t *testing.T) {
	r, player, clock, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 10, Timestamp: t0, Speed: 2,
	})
	clock.advance(4 * time.Second)

	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 10

	r.Tick()
	require.Len(t, player.seeks, 1)
	assert.InDelta(t, 18.0, player.seeks[0], 0.001) // 10 + 4*2
}

func TestPlayPauseForcedToMatch(t *testing.T) {
	r, player, _, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 0, Timestamp: t0, Speed: 1,
	})
	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = false

	r.Tick()
	assert.Equal(t, 1, player.plays)

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPaused,
		Offset: 0, Timestamp: t0, Speed: 1,
	})
	r.Tick()
	assert.Equal(t, 1, player.pauses)
}

func TestSpeedAlwaysApplied(t *testing.T) {
	r, player, _, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPaused,
		Offset: 0, Timestamp: t0, Speed: 1.5,
	})
	r.Tick()
	assert.Equal(t, 1.5, player.speed)
}

func TestVideoLoadedOnMismatch(t *testing.T) {
	r, player, _, _ := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-2", Status: models.StatusPaused,
		Offset: 0, Timestamp: t0, Speed: 1,
	})
	r.Tick()
	assert.Equal(t, []string{"vid-2"}, player.loads)

	// Already loaded: no reload on the next tick.
	r.Tick()
	assert.Equal(t, []string{"vid-2"}, player.loads)

	// SetVideo switches without touching the rest of the state.
	r.SetVideo("")
	r.Tick()
	assert.Equal(t, []string{"vid-2", ""}, player.loads)
}

func TestNoticeOnCorrectionWhenNotAuthority(t *testing.T) {
	r, player, clock, notices := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 30, Timestamp: t0, Speed: 1,
	})
	clock.advance(2 * time.Second)
	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 50 // user scrubbed ahead

	r.Tick()
	require.Len(t, *notices, 1)
	assert.Equal(t, "not the lobby owner", (*notices)[0])
}

func TestNoNoticeForAuthority(t *testing.T) {
	r, player, clock, notices := setup()
	r.SetAuthority(true)

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPlaying,
		Offset: 30, Timestamp: t0, Speed: 1,
	})
	clock.advance(2 * time.Second)
	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.playing = true
	player.position = 50

	r.Tick()
	assert.Empty(t, *notices)
}

func TestNoNoticeWithoutCorrection(t *testing.T) {
	r, player, _, notices := setup()

	r.Apply(models.PlaybackState{
		VideoID: "vid-1", Status: models.StatusPaused,
		Offset: 10, Timestamp: t0, Speed: 1,
	})
	player.loaded = "vid-1"
	r.loaded = "vid-1"
	player.position = 10

	r.Tick()
	assert.Empty(t, *notices, "in-tolerance tick must not warn")
}

func TestTickWithoutStateIsInert(t *testing.T) {
	r, player, _, _ := setup()
	r.Tick()
	assert.Empty(t, player.loads)
	assert.Empty(t, player.seeks)
	assert.Zero(t, player.plays)
}
