// Package syncer implements the follower side of the synchronization
// protocol: a periodic reconciliation of a local media player against the
// owner's last broadcast state, extrapolated along the wall clock.
package syncer

import (
	"context"
	"math"
	"sync"
	"time"

	"watchsync/models"
	"watchsync/utils"
)

const (
	// TickInterval is how often a follower reconciles.
	TickInterval = 500 * time.Millisecond
	// DriftTolerance is the window, in seconds, within which local and
	// authoritative positions are considered equivalent. It absorbs
	// normal buffering and latency jitter without a visible stutter.
	DriftTolerance = 1.0
)

// Player is the local media player under the reconciler's control.
type Player interface {
	Load(videoID string)
	Position() float64
	Seek(seconds float64)
	Playing() bool
	Play()
	Pause()
	SetSpeed(speed float64)
}

// Reconciler drives one Player toward the lobby owner's playback state.
// Apply and SetVideo feed it server messages; Tick runs one correction
// pass; Run ticks until the context is cancelled.
type Reconciler struct {
	mu        sync.Mutex
	player    Player
	clock     utils.Clock
	notice    func(text string)
	state     models.PlaybackState
	hasState  bool
	authority bool
	loaded    string
}

// New creates a reconciler. notice receives non-fatal user-facing notices
// (a correction while not the owner means the user tried to scrub or
// pause without being the owner); it may be nil.
func New(player Player, clock utils.Clock, notice func(text string)) *Reconciler {
	return &Reconciler{player: player, clock: clock, notice: notice}
}

// SetAuthority flips whether this session is the lobby owner. The owner's
// own corrections never produce a notice.
func (r *Reconciler) SetAuthority(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authority = v
}

// Apply stores a playback state received from the server. It takes effect
// on the next tick.
func (r *Reconciler) Apply(state models.PlaybackState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.hasState = true
}

// SetVideo records a video change announced by the server without
// touching the rest of the state.
func (r *Reconciler) SetVideo(videoID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.VideoID = videoID
	r.hasState = true
}

// Tick runs one reconciliation pass: load the right video, seek when
// drift exceeds the tolerance, match play/pause, and apply the speed.
func (r *Reconciler) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasState {
		return
	}
	s := r.state

	if r.loaded != s.VideoID {
		r.player.Load(s.VideoID)
		r.loaded = s.VideoID
	}

	corrected := false

	expected := s.Extrapolate(utils.NowMillis(r.clock))
	if math.Abs(r.player.Position()-expected) > DriftTolerance {
		r.player.Seek(expected)
		corrected = true
	}

	shouldPlay := s.Status == models.StatusPlaying
	if r.player.Playing() != shouldPlay {
		if shouldPlay {
			r.player.Play()
		} else {
			r.player.Pause()
		}
		corrected = true
	}

	r.player.SetSpeed(s.Speed)

	if corrected && !r.authority && r.notice != nil {
		r.notice("not the lobby owner")
	}
}

// Run ticks the reconciler every TickInterval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}
