package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/grafov/m3u8"

	"github.com/jungletek/playeropts/pkg/fsutil"
	"github.com/jungletek/playeropts/pkg/logger"
	"github.com/jungletek/playeropts/pkg/media"
	"github.com/jungletek/playeropts/pkg/messages"
	"github.com/jungletek/playeropts/pkg/options"
)

const (
	DefaultConfigPath = "config.json"
	DefaultLogLevel   = "info"
)

// Config represents the application configuration
type Config struct {
	LogLevel       string
	Player         options.PlayerOptions
	Buffer         options.BufferOptions
	LoadControl    options.LoadControlOptions
	TrackSelection options.TrackSelectionOptions
	Logger         options.LoggerOptions

	CacheRoot   string
	PackageName string
	FormatHint  string
	HTTPHeaders map[string]string
	URIs        []string

	// Messages are create messages read from files, used as sent
	Messages       []*messages.CreateMessage
	CachedSegments []string
	MasterPlaylist string
}

// Args represents command line arguments
type Args struct {
	URIs             []string `arg:"positional" help:"media URIs, asset keys or .txt files listing them"`
	ConfigPath       string   `arg:"-c,--config" help:"config file (default config.json)"`
	MessagePaths     []string `arg:"-m,--message,separate" help:"create message JSON file, repeatable"`
	CacheOptionsPath string   `arg:"--cache-options" help:"cache options message JSON file"`
	CacheDir         string   `arg:"--cache-dir" help:"cache directory"`
	CacheRoot        string   `arg:"--cache-root" help:"root for a relative cache directory"`
	MaxCacheBytes    string   `arg:"--max-cache-bytes" help:"total cache size, e.g. 1GiB"`
	MaxFileBytes     string   `arg:"--max-file-bytes" help:"per file cache size, e.g. 100MiB"`
	EnableCache      bool     `arg:"--enable-cache" help:"enable the media cache"`
	DisableCache     bool     `arg:"--disable-cache" help:"disable the media cache"`
	MixWithOthers    bool     `arg:"--mix-with-others" help:"mix audio with other apps"`
	ForwardBuffer    *int     `arg:"--forward-buffer" help:"preferred forward buffer duration in seconds"`
	NetworkPaused    *bool    `arg:"--network-while-paused" help:"keep loading live streams while paused"`
	WaitForStalls    *bool    `arg:"--wait-to-minimize-stalling" help:"delay playback to minimize stalling"`
	CachedSegments   string   `arg:"--cached-segments" help:"text file listing cached segment URIs"`
	MasterPlaylist   string   `arg:"--master" help:"local HLS master playlist to match cached segments against"`
	FormatHint       string   `arg:"-f,--format-hint" help:"streaming format: ss, dash or hls"`
	PackageName      string   `arg:"-p,--package" help:"package owning bundled assets"`
	LogLevel         string   `arg:"-l,--log-level" help:"log level"`
}

// Description is shown by --help
func (Args) Description() string {
	return "Resolves player options for media sources and logs the effective configuration."
}

// fileConfig mirrors config.json. Byte sizes are kept raw so they can be
// given as numbers or as strings like "512 MiB".
type fileConfig struct {
	LogLevel       string                        `json:"logLevel"`
	Cache          cacheFile                     `json:"cache"`
	Buffer         bufferFile                    `json:"buffer"`
	LoadControl    options.LoadControlOptions    `json:"loadControl"`
	TrackSelection options.TrackSelectionOptions `json:"trackSelection"`
	Logs           options.LoggerOptions         `json:"logs"`
	CacheRoot      string                        `json:"cacheRoot"`
	PackageName    string                        `json:"packageName"`
	FormatHint     string                        `json:"formatHint"`
	HTTPHeaders    map[string]string             `json:"httpHeaders"`
}

type cacheFile struct {
	Directory     string          `json:"directory"`
	MaxCacheBytes json.RawMessage `json:"maxCacheBytes"`
	MaxFileBytes  json.RawMessage `json:"maxFileBytes"`
	Enable        bool            `json:"enable"`
	MixWithOthers bool            `json:"mixWithOthers"`
}

type bufferFile struct {
	PreferredForwardBufferDuration                    int  `json:"preferredForwardBufferDuration"`
	CanUseNetworkResourcesForLiveStreamingWhilePaused bool `json:"canUseNetworkResourcesForLiveStreamingWhilePaused"`
	AutomaticallyWaitsToMinimizeStalling              bool `json:"automaticallyWaitsToMinimizeStalling"`
}

// defaultFileConfig is filled in before decoding so absent keys keep defaults
func defaultFileConfig() fileConfig {
	player := options.DefaultPlayerOptions()
	return fileConfig{
		LogLevel: DefaultLogLevel,
		Cache: cacheFile{
			Directory: player.CacheDirectory,
		},
		Buffer: bufferFile{
			AutomaticallyWaitsToMinimizeStalling: true,
		},
		LoadControl:    options.DefaultLoadControlOptions(),
		TrackSelection: options.DefaultTrackSelectionOptions(),
		Logs:           options.DefaultLoggerOptions(),
	}
}

// ParseArgs parses command line arguments
func ParseArgs(argv []string) (*Args, error) {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: "playeropts"}, &args)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(argv); err != nil {
		return nil, err
	}
	return &args, nil
}

// MustParseArgs parses os.Args, printing usage and exiting on error
func MustParseArgs() *Args {
	var args Args
	arg.MustParse(&args)
	return &args
}

// Load reads the config file at path (config.json when empty) and overlays
// args on top. A missing file yields the defaults.
func Load(path string, args *Args) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	fc, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := fc.resolve()
	if err != nil {
		return nil, err
	}

	if args != nil {
		if err := cfg.applyArgs(args); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// readConfig decodes the config file over the defaults
func readConfig(path string) (fileConfig, error) {
	fc := defaultFileConfig()

	f, err := fsutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.GetLogger().WithField("path", path).Debug("No config file, using defaults")
			return fc, nil
		}
		return fc, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return fc, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

func (fc fileConfig) resolve() (*Config, error) {
	maxCache, err := parseRawBytes("cache.maxCacheBytes", fc.Cache.MaxCacheBytes, options.DefaultMaxCacheBytes)
	if err != nil {
		return nil, err
	}
	maxFile, err := parseRawBytes("cache.maxFileBytes", fc.Cache.MaxFileBytes, options.DefaultMaxFileBytes)
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: fc.LogLevel,
		Player: options.PlayerOptions{
			CacheDirectory: fc.Cache.Directory,
			MaxCacheBytes:  maxCache,
			MaxFileBytes:   maxFile,
			EnableCache:    fc.Cache.Enable,
			MixWithOthers:  fc.Cache.MixWithOthers,
		},
		Buffer: options.NewBufferOptions(
			fc.Buffer.PreferredForwardBufferDuration,
			fc.Buffer.CanUseNetworkResourcesForLiveStreamingWhilePaused,
			fc.Buffer.AutomaticallyWaitsToMinimizeStalling,
		),
		LoadControl:    fc.LoadControl,
		TrackSelection: fc.TrackSelection,
		Logger:         fc.Logs,
		CacheRoot:      fc.CacheRoot,
		PackageName:    fc.PackageName,
		FormatHint:     fc.FormatHint,
		HTTPHeaders:    fc.HTTPHeaders,
	}, nil
}

func (c *Config) applyArgs(args *Args) error {
	if args.CacheOptionsPath != "" {
		msg, err := readMessageFile(args.CacheOptionsPath, messages.DecodeCacheOptions)
		if err != nil {
			return err
		}
		messages.ApplyCacheOptions(&c.Player, *msg)
	}
	for _, p := range args.MessagePaths {
		msg, err := readMessageFile(p, messages.DecodeCreateMessage)
		if err != nil {
			return err
		}
		c.Messages = append(c.Messages, msg)
	}

	if args.CacheDir != "" {
		c.Player.CacheDirectory = args.CacheDir
	}
	if args.CacheRoot != "" {
		c.CacheRoot = args.CacheRoot
	}
	if args.MaxCacheBytes != "" {
		n, err := parseBytes("max-cache-bytes", args.MaxCacheBytes)
		if err != nil {
			return err
		}
		c.Player.MaxCacheBytes = n
	}
	if args.MaxFileBytes != "" {
		n, err := parseBytes("max-file-bytes", args.MaxFileBytes)
		if err != nil {
			return err
		}
		c.Player.MaxFileBytes = n
	}
	if args.EnableCache && args.DisableCache {
		return ConfigError{Field: "enable-cache", Value: true, Message: "--enable-cache and --disable-cache are exclusive"}
	}
	if args.EnableCache {
		c.Player.EnableCache = true
	}
	if args.DisableCache {
		c.Player.EnableCache = false
	}
	if args.MixWithOthers {
		c.Player.MixWithOthers = true
	}

	// BufferOptions is immutable, so overrides build a new value
	forward := c.Buffer.PreferredForwardBufferDuration()
	if args.ForwardBuffer != nil {
		forward = *args.ForwardBuffer
	}
	paused := c.Buffer.CanUseNetworkResourcesForLiveStreamingWhilePaused()
	if args.NetworkPaused != nil {
		paused = *args.NetworkPaused
	}
	wait := c.Buffer.AutomaticallyWaitsToMinimizeStalling()
	if args.WaitForStalls != nil {
		wait = *args.WaitForStalls
	}
	c.Buffer = options.NewBufferOptions(forward, paused, wait)

	if args.FormatHint != "" {
		c.FormatHint = args.FormatHint
	}
	if args.PackageName != "" {
		c.PackageName = args.PackageName
	}
	if args.LogLevel != "" {
		c.LogLevel = args.LogLevel
	}

	if args.CachedSegments != "" {
		lines, err := fsutil.ReadTxtFile(args.CachedSegments)
		if err != nil {
			return err
		}
		c.CachedSegments = lines
	}
	if args.MasterPlaylist != "" {
		c.MasterPlaylist = args.MasterPlaylist
	}

	uris, err := processURIs(args.URIs)
	if err != nil {
		return err
	}
	c.URIs = uris
	return nil
}

// readMessageFile decodes a host message stored in a file
func readMessageFile[T any](path string, decode func([]byte) (*T, error)) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	msg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

// parseRawBytes accepts a JSON number or a human readable size string
func parseRawBytes(field string, raw json.RawMessage, def int64) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return def, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ConfigError{Field: field, Value: string(raw), Message: err.Error()}
		}
		return parseBytes(field, s)
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, ConfigError{Field: field, Value: string(raw), Message: "expected an integer or a size string"}
	}
	return n, nil
}

// parseBytes reads plain integers as is, negative ones included, and
// anything else as a human readable size
func parseBytes(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, ConfigError{Field: field, Value: s, Message: err.Error()}
	}
	if n > math.MaxInt64 {
		return 0, ConfigError{Field: field, Value: s, Message: "size too large"}
	}
	return int64(n), nil
}

// processURIs expands .txt list files and drops duplicates
func processURIs(uris []string) ([]string, error) {
	var processed []string

	for _, uri := range uris {
		if strings.HasSuffix(uri, ".txt") {
			lines, err := fsutil.ReadTxtFile(uri)
			if err != nil {
				return nil, err
			}
			for _, line := range lines {
				if !contains(processed, line) {
					processed = append(processed, line)
				}
			}
		} else if !contains(processed, uri) {
			processed = append(processed, uri)
		}
	}

	return processed, nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// CachePath is the cache directory placed under CacheRoot when relative.
// Player.CacheDirectory itself is left as configured.
func (c *Config) CachePath() string {
	return fsutil.ResolveUnder(c.CacheRoot, c.Player.CacheDirectory)
}

// BufferMessage builds the buffer options message a host would send for this
// configuration
func (c *Config) BufferMessage() *messages.BufferOptionsMessage {
	return &messages.BufferOptionsMessage{
		PreferredForwardBufferDuration:                    int64(c.Buffer.PreferredForwardBufferDuration()),
		CanUseNetworkResourcesForLiveStreamingWhilePaused: c.Buffer.CanUseNetworkResourcesForLiveStreamingWhilePaused(),
		AutomaticallyWaitsToMinimizeStalling:              c.Buffer.AutomaticallyWaitsToMinimizeStalling(),

		MinBufferMs:                      c.LoadControl.MinBufferMs,
		MaxBufferMs:                      c.LoadControl.MaxBufferMs,
		BufferForPlaybackMs:              c.LoadControl.BufferForPlaybackMs,
		BufferForPlaybackAfterRebufferMs: c.LoadControl.BufferForPlaybackAfterRebufferMs,

		MinDurationForQualityIncreaseMs:              c.TrackSelection.MinDurationForQualityIncreaseMs,
		MaxDurationForQualityDecreaseMs:              c.TrackSelection.MaxDurationForQualityDecreaseMs,
		MinDurationToRetainAfterDiscardMs:            c.TrackSelection.MinDurationToRetainAfterDiscardMs,
		MaxWidthToDiscard:                            int64(c.TrackSelection.MaxWidthToDiscard),
		MaxHeightToDiscard:                           int64(c.TrackSelection.MaxHeightToDiscard),
		BandwidthFraction:                            c.TrackSelection.BandwidthFraction,
		BufferedFractionToLiveEdgeForQualityIncrease: c.TrackSelection.BufferedFractionToLiveEdgeForQualityIncrease,
	}
}

// CreateMessage builds the create message for one source. Sources with a
// scheme are URIs, anything else is a bundled asset key.
func (c *Config) CreateMessage(source string) messages.CreateMessage {
	msg := messages.CreateMessage{
		PackageName:   c.PackageName,
		FormatHint:    c.FormatHint,
		HTTPHeaders:   c.HTTPHeaders,
		BufferOptions: c.BufferMessage(),
		LoggerOptions: &messages.LoggerOptionsMessage{
			EnableTransferListenerLogs:       c.Logger.EnableTransferListenerLogs,
			EnableBandwidthListenerLogs:      c.Logger.EnableBandwidthListenerLogs,
			EnableAdaptiveTrackSelectionLogs: c.Logger.EnableAdaptiveTrackSelectionLogs,
			EnableCacheDataSourceLogs:        c.Logger.EnableCacheDataSourceLogs,
		},
	}
	if strings.Contains(source, "://") {
		msg.URI = source
	} else {
		msg.Asset = source
	}
	return msg
}

// SegmentIndex indexes the cached segment URIs. Names that do not follow the
// segment naming scheme are a ConfigError.
func (c *Config) SegmentIndex() (*media.SegmentIndex, error) {
	idx := media.NewSegmentIndex()
	for _, uri := range c.CachedSegments {
		seg, err := media.ParseSegmentURI(uri)
		if err != nil {
			return nil, ConfigError{Field: "cached-segments", Value: uri, Message: err.Error()}
		}
		idx.Record(seg)
	}
	return idx, nil
}

// Master decodes the configured master playlist, nil when none is set
func (c *Config) Master() (*m3u8.MasterPlaylist, error) {
	if c.MasterPlaylist == "" {
		return nil, nil
	}
	f, err := fsutil.ReadFile(c.MasterPlaylist)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	master, err := media.DecodeMasterPlaylist(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read master playlist %s: %w", c.MasterPlaylist, err)
	}
	return master, nil
}
