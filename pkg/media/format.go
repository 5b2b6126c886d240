// Package media classifies player sources and keeps track of which HLS
// segments the caching layer reports as stored.
package media

import (
	"net/url"
	"path"
	"strings"

	"github.com/jungletek/playeropts/pkg/options"
)

// DefaultUserAgent is sent when the host supplies no User-Agent header
const DefaultUserAgent = "ExoPlayer"

// StreamingFormat represents the adaptive streaming protocol of a source
type StreamingFormat int

const (
	FormatUnknown StreamingFormat = iota
	FormatSmooth
	FormatDash
	FormatHLS
)

func (f StreamingFormat) String() string {
	switch f {
	case FormatSmooth:
		return "ss"
	case FormatDash:
		return "dash"
	case FormatHLS:
		return "hls"
	default:
		return "unknown"
	}
}

// ParseFormatHint maps the host's format hint to a streaming format
func ParseFormatHint(hint string) StreamingFormat {
	switch hint {
	case "ss":
		return FormatSmooth
	case "dash":
		return FormatDash
	case "hls":
		return FormatHLS
	default:
		return FormatUnknown
	}
}

// InferFormat guesses the streaming format from the URI path
func InferFormat(uri string) StreamingFormat {
	u, err := url.Parse(uri)
	if err != nil {
		return FormatUnknown
	}
	p := strings.ToLower(u.Path)

	switch {
	case strings.HasSuffix(p, ".m3u8"):
		return FormatHLS
	case strings.HasSuffix(p, ".mpd"):
		return FormatDash
	case strings.HasSuffix(p, ".ism"), strings.HasSuffix(p, ".isml"),
		strings.HasSuffix(p, ".ism/manifest"), strings.HasSuffix(p, ".isml/manifest"):
		return FormatSmooth
	default:
		return FormatUnknown
	}
}

// IsHTTP reports whether the URI uses http or https
func IsHTTP(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// CacheEligible reports whether a player for uri should go through the cache
func CacheEligible(opts options.PlayerOptions, uri string) bool {
	return opts.EnableCache && IsHTTP(uri)
}

// UserAgent returns the User-Agent header value, or DefaultUserAgent
func UserAgent(headers map[string]string) string {
	if ua, ok := headers["User-Agent"]; ok {
		return ua
	}
	return DefaultUserAgent
}

// StripRange drops the Range header for playlist requests. Playlists are
// always fetched whole, so a copy without Range is returned for .m3u8 URIs
// and the headers are returned unchanged otherwise.
func StripRange(headers map[string]string, uri string) map[string]string {
	if headers == nil || !isPlaylist(uri) {
		return headers
	}

	stripped := make(map[string]string, len(headers))
	for k, v := range headers {
		if k == "Range" {
			continue
		}
		stripped[k] = v
	}
	return stripped
}

// isPlaylist checks if the last path segment is an HLS playlist
func isPlaylist(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return strings.HasSuffix(path.Base(u.Path), ".m3u8")
}
