package options

import "time"

// LoadControlOptions represents the buffering thresholds used by the
// Android player, in milliseconds.
type LoadControlOptions struct {
	MinBufferMs                      int64 `json:"minBufferMs"`
	MaxBufferMs                      int64 `json:"maxBufferMs"`
	BufferForPlaybackMs              int64 `json:"bufferForPlaybackMs"`
	BufferForPlaybackAfterRebufferMs int64 `json:"bufferForPlaybackAfterRebufferMs"`
}

// DefaultLoadControlOptions returns the thresholds used when the host sends none
func DefaultLoadControlOptions() LoadControlOptions {
	return LoadControlOptions{
		MinBufferMs:                      15000,
		MaxBufferMs:                      30000,
		BufferForPlaybackMs:              2000,
		BufferForPlaybackAfterRebufferMs: 2000,
	}
}

// Durations returns min, max, playback and after-rebuffer thresholds as durations
func (l LoadControlOptions) Durations() (time.Duration, time.Duration, time.Duration, time.Duration) {
	ms := func(v int64) time.Duration { return time.Duration(v) * time.Millisecond }
	return ms(l.MinBufferMs), ms(l.MaxBufferMs), ms(l.BufferForPlaybackMs), ms(l.BufferForPlaybackAfterRebufferMs)
}

// TrackSelectionOptions tunes adaptive bitrate switching.
type TrackSelectionOptions struct {
	MinDurationForQualityIncreaseMs              int64   `json:"minDurationForQualityIncreaseMs"`
	MaxDurationForQualityDecreaseMs              int64   `json:"maxDurationForQualityDecreaseMs"`
	MinDurationToRetainAfterDiscardMs            int64   `json:"minDurationToRetainAfterDiscardMs"`
	MaxWidthToDiscard                            int     `json:"maxWidthToDiscard"`
	MaxHeightToDiscard                           int     `json:"maxHeightToDiscard"`
	BandwidthFraction                            float64 `json:"bandwidthFraction"`
	BufferedFractionToLiveEdgeForQualityIncrease float64 `json:"bufferedFractionToLiveEdgeForQualityIncrease"`
}

// DefaultTrackSelectionOptions returns the adaptive selection defaults
func DefaultTrackSelectionOptions() TrackSelectionOptions {
	return TrackSelectionOptions{
		MinDurationForQualityIncreaseMs:              3000,
		MaxDurationForQualityDecreaseMs:              3000,
		MinDurationToRetainAfterDiscardMs:            3000,
		MaxWidthToDiscard:                            1279,
		MaxHeightToDiscard:                           719,
		BandwidthFraction:                            0.85,
		BufferedFractionToLiveEdgeForQualityIncrease: 0.75,
	}
}

// LoggerOptions switches the per-component diagnostic logs on or off.
type LoggerOptions struct {
	EnableTransferListenerLogs       bool `json:"enableTransferListenerLogs"`
	EnableBandwidthListenerLogs      bool `json:"enableBandwidthListenerLogs"`
	EnableAdaptiveTrackSelectionLogs bool `json:"enableAdaptiveTrackSelectionLogs"`
	EnableCacheDataSourceLogs        bool `json:"enableCacheDataSourceLogs"`
}

// DefaultLoggerOptions enables every component log
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		EnableTransferListenerLogs:       true,
		EnableBandwidthListenerLogs:      true,
		EnableAdaptiveTrackSelectionLogs: true,
		EnableCacheDataSourceLogs:        true,
	}
}
