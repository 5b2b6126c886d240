// Package session resolves everything one player needs from a create message
// and the shared player options.
package session

import (
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/grafov/m3u8"
	"github.com/sirupsen/logrus"

	"github.com/jungletek/playeropts/pkg/logger"
	"github.com/jungletek/playeropts/pkg/media"
	"github.com/jungletek/playeropts/pkg/messages"
	"github.com/jungletek/playeropts/pkg/options"
)

// ErrNoSource is returned when a create message names neither an asset nor a URI
var ErrNoSource = errors.New("create message has neither asset nor uri")

const assetRoot = "flutter_assets"

// SourceKind tells how the player reaches its media
type SourceKind int

const (
	SourceRemote SourceKind = iota
	SourceAsset
	SourceRTSP
)

func (k SourceKind) String() string {
	switch k {
	case SourceAsset:
		return "asset"
	case SourceRTSP:
		return "rtsp"
	default:
		return "remote"
	}
}

// Session is the resolved configuration of one player
type Session struct {
	ID          string
	URI         string
	Kind        SourceKind
	Format      media.StreamingFormat
	HTTPHeaders map[string]string
	UseCache    bool

	Player         options.PlayerOptions
	Buffer         options.BufferOptions
	LoadControl    options.LoadControlOptions
	TrackSelection options.TrackSelectionOptions
	Logs           options.LoggerOptions
}

// New resolves msg against the shared player options. player is copied, so
// later changes by the caller do not reach the session.
func New(msg messages.CreateMessage, player options.PlayerOptions) (*Session, error) {
	s := &Session{
		ID:             uuid.NewString(),
		Player:         player,
		Buffer:         msg.BufferOptions.BufferOptions(),
		LoadControl:    msg.BufferOptions.LoadControlOptions(),
		TrackSelection: msg.BufferOptions.TrackSelectionOptions(),
		Logs:           msg.LoggerOptions.LoggerOptions(),
	}

	switch {
	case msg.Asset != "":
		s.Kind = SourceAsset
		s.URI = "asset:///" + AssetKey(msg.Asset, msg.PackageName)
	case msg.URI == "":
		return nil, ErrNoSource
	case strings.HasPrefix(msg.URI, "rtsp://"):
		s.Kind = SourceRTSP
		s.URI = msg.URI
	default:
		s.Kind = SourceRemote
		s.URI = msg.URI
		s.Format = media.ParseFormatHint(msg.FormatHint)
		if s.Format == media.FormatUnknown {
			s.Format = media.InferFormat(msg.URI)
		}
		s.HTTPHeaders = copyHeaders(msg.HTTPHeaders)
		s.UseCache = media.CacheEligible(player, msg.URI)
	}

	return s, nil
}

// AssetKey returns the lookup key of a bundled asset, scoped to its package
// when one is named
func AssetKey(asset, packageName string) string {
	if packageName != "" {
		return path.Join(assetRoot, "packages", packageName, asset)
	}
	return path.Join(assetRoot, asset)
}

// UserAgent is the user agent remote requests are made with
func (s *Session) UserAgent() string {
	return media.UserAgent(s.HTTPHeaders)
}

// RequestHeaders returns the headers to send when fetching uri
func (s *Session) RequestHeaders(uri string) map[string]string {
	return media.StripRange(s.HTTPHeaders, uri)
}

// VideoID is the cache key of an HLS source, taken from its playlist URL
func (s *Session) VideoID() (string, bool) {
	if s.Kind != SourceRemote || s.Format != media.FormatHLS {
		return "", false
	}
	return media.VideoIDFromPlaylistURL(s.URI)
}

// CachedVariants returns the variants of master whose segment is already in
// idx for this session's video. Sessions that do not use the cache have none.
func (s *Session) CachedVariants(idx *media.SegmentIndex, master *m3u8.MasterPlaylist, segment int) []*m3u8.Variant {
	if !s.UseCache || idx == nil {
		return nil
	}
	id, ok := s.VideoID()
	if !ok {
		return nil
	}
	return idx.CachedVariants(id, master, segment)
}

// LogFields describes the effective configuration
func (s *Session) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"playerId":                       s.ID,
		"uri":                            s.URI,
		"source":                         s.Kind.String(),
		"enableCache":                    s.Player.EnableCache,
		"useCache":                       s.UseCache,
		"mixWithOthers":                  s.Player.MixWithOthers,
		"preferredForwardBufferDuration": s.Buffer.PreferredForwardBufferDuration(),
		"canUseNetworkResourcesForLiveStreamingWhilePaused": s.Buffer.CanUseNetworkResourcesForLiveStreamingWhilePaused(),
		"automaticallyWaitsToMinimizeStalling":              s.Buffer.AutomaticallyWaitsToMinimizeStalling(),
		"minBufferMs":                      s.LoadControl.MinBufferMs,
		"maxBufferMs":                      s.LoadControl.MaxBufferMs,
		"bufferForPlaybackMs":              s.LoadControl.BufferForPlaybackMs,
		"bufferForPlaybackAfterRebufferMs": s.LoadControl.BufferForPlaybackAfterRebufferMs,
		"bandwidthFraction":                s.TrackSelection.BandwidthFraction,
	}
	if s.Kind == SourceRemote {
		fields["format"] = s.Format.String()
		fields["userAgent"] = s.UserAgent()
	}
	if s.Player.EnableCache {
		fields["cacheDirectory"] = s.Player.CacheDirectory
		fields["maxCacheBytes"] = options.FormatBytes(s.Player.MaxCacheBytes)
		fields["maxFileBytes"] = options.FormatBytes(s.Player.MaxFileBytes)
	}
	return fields
}

// Log writes the effective configuration at info level
func (s *Session) Log(l *logrus.Logger) {
	l.WithFields(s.LogFields()).Info("Player created")
}

// Logger returns the logger of one player component, switched by the
// session's logger options
func (s *Session) Logger(component string) *logger.Component {
	return logger.ForComponent(component, s.Logs).WithField("uri", s.URI)
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
