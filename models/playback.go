package models

// PlayStatus is the play/pause half of a playback snapshot.
type PlayStatus string

const (
	StatusPlaying PlayStatus = "playing"
	StatusPaused  PlayStatus = "paused"
)

// PlaybackState is the snapshot the lobby owner broadcasts: which video is
// loaded (empty VideoID means none), whether it is playing, how many
// seconds in it was, the wall clock in milliseconds at which that offset
// was read, and the playback speed multiplier.
type PlaybackState struct {
	VideoID   string     `json:"videoId,omitempty"`
	Status    PlayStatus `json:"status"`
	Offset    float64    `json:"offset"`
	Timestamp int64      `json:"timestamp"`
	Speed     float64    `json:"speed"`
}

// Extrapolate returns the position the video should be at when the wall
// clock reads nowMillis. A paused snapshot does not advance.
func (s PlaybackState) Extrapolate(nowMillis int64) float64 {
	if s.Status != StatusPlaying {
		return s.Offset
	}
	return s.Offset + float64(nowMillis-s.Timestamp)/1000.0*s.Speed
}
