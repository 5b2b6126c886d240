// Package messages defines the messages the host application sends to the
// player plugin and resolves them into option values.
package messages

import (
	"github.com/jungletek/playeropts/pkg/options"
)

// BufferOptionsMessage carries the buffering settings of both platforms.
// A nil message means the host did not send any and defaults apply.
type BufferOptionsMessage struct {
	// Darwin
	PreferredForwardBufferDuration                    int64
	CanUseNetworkResourcesForLiveStreamingWhilePaused bool
	AutomaticallyWaitsToMinimizeStalling              bool

	// Android load control
	MinBufferMs                      int64
	MaxBufferMs                      int64
	BufferForPlaybackMs              int64
	BufferForPlaybackAfterRebufferMs int64

	// Android adaptive track selection
	MinDurationForQualityIncreaseMs              int64
	MaxDurationForQualityDecreaseMs              int64
	MinDurationToRetainAfterDiscardMs            int64
	MaxWidthToDiscard                            int64
	MaxHeightToDiscard                           int64
	BandwidthFraction                            float64
	BufferedFractionToLiveEdgeForQualityIncrease float64
}

// LoggerOptionsMessage carries the component log switches.
type LoggerOptionsMessage struct {
	EnableTransferListenerLogs       bool
	EnableBandwidthListenerLogs      bool
	EnableAdaptiveTrackSelectionLogs bool
	EnableCacheDataSourceLogs        bool
}

// CacheOptionsMessage carries the cache settings shared by all players.
type CacheOptionsMessage struct {
	CacheDirectory string
	MaxCacheBytes  int64
	MaxFileBytes   int64
	EnableCache    bool
}

// CreateMessage asks the plugin for a new player.
// Exactly one of Asset and URI is expected to be set.
type CreateMessage struct {
	Asset       string
	URI         string
	PackageName string
	FormatHint  string
	HTTPHeaders map[string]string

	BufferOptions *BufferOptionsMessage
	LoggerOptions *LoggerOptionsMessage
}

// BufferOptions resolves the Darwin buffer options. Without a message the
// platform picks the forward buffer and handles stall avoidance itself.
func (m *BufferOptionsMessage) BufferOptions() options.BufferOptions {
	if m == nil {
		return options.NewBufferOptions(0, false, true)
	}
	return options.NewBufferOptions(
		int(m.PreferredForwardBufferDuration),
		m.CanUseNetworkResourcesForLiveStreamingWhilePaused,
		m.AutomaticallyWaitsToMinimizeStalling,
	)
}

// LoadControlOptions resolves the Android buffering thresholds
func (m *BufferOptionsMessage) LoadControlOptions() options.LoadControlOptions {
	if m == nil {
		return options.DefaultLoadControlOptions()
	}
	return options.LoadControlOptions{
		MinBufferMs:                      m.MinBufferMs,
		MaxBufferMs:                      m.MaxBufferMs,
		BufferForPlaybackMs:              m.BufferForPlaybackMs,
		BufferForPlaybackAfterRebufferMs: m.BufferForPlaybackAfterRebufferMs,
	}
}

// TrackSelectionOptions resolves the adaptive track selection tuning
func (m *BufferOptionsMessage) TrackSelectionOptions() options.TrackSelectionOptions {
	if m == nil {
		return options.DefaultTrackSelectionOptions()
	}
	return options.TrackSelectionOptions{
		MinDurationForQualityIncreaseMs:              m.MinDurationForQualityIncreaseMs,
		MaxDurationForQualityDecreaseMs:              m.MaxDurationForQualityDecreaseMs,
		MinDurationToRetainAfterDiscardMs:            m.MinDurationToRetainAfterDiscardMs,
		MaxWidthToDiscard:                            int(m.MaxWidthToDiscard),
		MaxHeightToDiscard:                           int(m.MaxHeightToDiscard),
		BandwidthFraction:                            m.BandwidthFraction,
		BufferedFractionToLiveEdgeForQualityIncrease: m.BufferedFractionToLiveEdgeForQualityIncrease,
	}
}

// LoggerOptions resolves the component log switches, all on without a message
func (m *LoggerOptionsMessage) LoggerOptions() options.LoggerOptions {
	if m == nil {
		return options.DefaultLoggerOptions()
	}
	return options.LoggerOptions{
		EnableTransferListenerLogs:       m.EnableTransferListenerLogs,
		EnableBandwidthListenerLogs:      m.EnableBandwidthListenerLogs,
		EnableAdaptiveTrackSelectionLogs: m.EnableAdaptiveTrackSelectionLogs,
		EnableCacheDataSourceLogs:        m.EnableCacheDataSourceLogs,
	}
}

// ApplyCacheOptions copies the cache settings into the player options as sent.
// The other fields of opts are left alone.
func ApplyCacheOptions(opts *options.PlayerOptions, msg CacheOptionsMessage) {
	opts.CacheDirectory = msg.CacheDirectory
	opts.MaxCacheBytes = msg.MaxCacheBytes
	opts.MaxFileBytes = msg.MaxFileBytes
	opts.EnableCache = msg.EnableCache
}
