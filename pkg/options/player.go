package options

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Cache defaults used when options are built from configuration
const (
	DefaultCacheDirectory = "streaming"
	DefaultMaxCacheBytes  = 1024 * 1024 * 1024 // 1 GiB
	DefaultMaxFileBytes   = 100 * 1024 * 1024  // 100 MiB
)

// PlayerOptions represents the caching preferences of a player.
//
// The zero value is a valid, unconfigured instance: empty directory, zero
// byte limits, caching disabled. Fields may be set in any order and are not
// checked against each other, so MaxFileBytes larger than MaxCacheBytes or
// negative limits reach the consumer as given.
type PlayerOptions struct {
	CacheDirectory string `json:"cacheDirectory"`
	MaxCacheBytes  int64  `json:"maxCacheBytes"`
	MaxFileBytes   int64  `json:"maxFileBytes"`
	EnableCache    bool   `json:"enableCache"`

	// MixWithOthers lets the player's audio mix with other apps instead of
	// taking audio focus.
	MixWithOthers bool `json:"mixWithOthers"`
}

// DefaultPlayerOptions returns the plugin defaults with caching disabled
func DefaultPlayerOptions() PlayerOptions {
	return PlayerOptions{
		CacheDirectory: DefaultCacheDirectory,
		MaxCacheBytes:  DefaultMaxCacheBytes,
		MaxFileBytes:   DefaultMaxFileBytes,
	}
}

func (p PlayerOptions) String() string {
	return fmt.Sprintf("enableCache=%t,cacheDirectory=%s,maxCacheBytes=%s,maxFileBytes=%s,mixWithOthers=%t",
		p.EnableCache, p.CacheDirectory, FormatBytes(p.MaxCacheBytes), FormatBytes(p.MaxFileBytes), p.MixWithOthers)
}

// FormatBytes renders a byte limit for humans, keeping negative values as is
func FormatBytes(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(uint64(n))
}
