// Package options holds the configuration values handed to a video player
// when it is created. None of the types validate their input: out of range
// values are passed through to the consuming player untouched.
package options

import "fmt"

// BufferOptions represents the buffering preferences of a player.
// It is set once by NewBufferOptions and is read-only afterwards.
type BufferOptions struct {
	preferredForwardBufferDuration                    int
	canUseNetworkResourcesForLiveStreamingWhilePaused bool
	automaticallyWaitsToMinimizeStalling              bool
}

// NewBufferOptions creates buffer options from the three buffering settings.
// Any duration, including zero and negative values, is accepted.
func NewBufferOptions(preferredForwardBufferDuration int, canUseNetworkResourcesForLiveStreamingWhilePaused bool, automaticallyWaitsToMinimizeStalling bool) BufferOptions {
	return BufferOptions{
		preferredForwardBufferDuration:                    preferredForwardBufferDuration,
		canUseNetworkResourcesForLiveStreamingWhilePaused: canUseNetworkResourcesForLiveStreamingWhilePaused,
		automaticallyWaitsToMinimizeStalling:              automaticallyWaitsToMinimizeStalling,
	}
}

// PreferredForwardBufferDuration returns how far ahead of the playhead, in
// seconds, the player should buffer. Zero leaves the choice to the platform.
func (b BufferOptions) PreferredForwardBufferDuration() int {
	return b.preferredForwardBufferDuration
}

// CanUseNetworkResourcesForLiveStreamingWhilePaused reports whether a paused
// live stream keeps fetching to stay near the live edge.
func (b BufferOptions) CanUseNetworkResourcesForLiveStreamingWhilePaused() bool {
	return b.canUseNetworkResourcesForLiveStreamingWhilePaused
}

// AutomaticallyWaitsToMinimizeStalling reports whether stall avoidance is
// delegated to the platform player.
func (b BufferOptions) AutomaticallyWaitsToMinimizeStalling() bool {
	return b.automaticallyWaitsToMinimizeStalling
}

func (b BufferOptions) String() string {
	return fmt.Sprintf("preferredForwardBufferDuration=%d,canUseNetworkResourcesForLiveStreamingWhilePaused=%t,automaticallyWaitsToMinimizeStalling=%t",
		b.preferredForwardBufferDuration,
		b.canUseNetworkResourcesForLiveStreamingWhilePaused,
		b.automaticallyWaitsToMinimizeStalling)
}
