package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jungletek/playeropts/pkg/logger"
	"github.com/jungletek/playeropts/pkg/media"
	"github.com/jungletek/playeropts/pkg/messages"
	"github.com/jungletek/playeropts/pkg/options"
)

// TestSuite for session package
type SessionTestSuite struct {
	suite.Suite
	player options.PlayerOptions
}

func (suite *SessionTestSuite) SetupTest() {
	logger.ResetLogger()
	suite.player = options.PlayerOptions{
		CacheDirectory: "streaming",
		MaxCacheBytes:  512 * 1024 * 1024,
		MaxFileBytes:   10 * 1024 * 1024,
		EnableCache:    true,
	}
}

func (suite *SessionTestSuite) TearDownTest() {
	logger.ResetLogger()
}

// TestNew_NoSource tests the empty message
func (suite *SessionTestSuite) TestNew_NoSource() {
	s, err := New(messages.CreateMessage{FormatHint: "hls"}, suite.player)
	assert.Nil(suite.T(), s)
	assert.True(suite.T(), errors.Is(err, ErrNoSource))
}

// TestNew_ID tests that every player gets its own identifier
func (suite *SessionTestSuite) TestNew_ID() {
	msg := messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8"}

	a, err := New(msg, suite.player)
	require.NoError(suite.T(), err)
	b, err := New(msg, suite.player)
	require.NoError(suite.T(), err)

	_, err = uuid.Parse(a.ID)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), a.ID, b.ID)
	assert.Equal(suite.T(), a.ID, a.LogFields()["playerId"])
}

// TestNew_Asset tests bundled asset resolution
func (suite *SessionTestSuite) TestNew_Asset() {
	s, err := New(messages.CreateMessage{Asset: "videos/intro.mp4"}, suite.player)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), SourceAsset, s.Kind)
	assert.Equal(suite.T(), "asset:///flutter_assets/videos/intro.mp4", s.URI)
	assert.False(suite.T(), s.UseCache)

	s, err = New(messages.CreateMessage{Asset: "videos/intro.mp4", PackageName: "demo"}, suite.player)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "asset:///flutter_assets/packages/demo/videos/intro.mp4", s.URI)

	// an asset wins over a uri
	s, err = New(messages.CreateMessage{Asset: "a.mp4", URI: "https://cdn.example.com/a.m3u8"}, suite.player)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), SourceAsset, s.Kind)
}

// TestNew_RTSP tests live camera streams
func (suite *SessionTestSuite) TestNew_RTSP() {
	s, err := New(messages.CreateMessage{URI: "rtsp://cam.local/live", FormatHint: "hls"}, suite.player)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), SourceRTSP, s.Kind)
	assert.Equal(suite.T(), media.FormatUnknown, s.Format)
	assert.False(suite.T(), s.UseCache)
}

// TestNew_RemoteFormat tests hint first, then inference
func (suite *SessionTestSuite) TestNew_RemoteFormat() {
	testCases := []struct {
		uri      string
		hint     string
		expected media.StreamingFormat
	}{
		{"https://cdn.example.com/a.m3u8", "", media.FormatHLS},
		{"https://cdn.example.com/a.m3u8", "dash", media.FormatDash},
		{"https://cdn.example.com/a.ism/manifest", "", media.FormatSmooth},
		{"https://cdn.example.com/a.mp4", "bogus", media.FormatUnknown},
	}

	for _, tc := range testCases {
		s, err := New(messages.CreateMessage{URI: tc.uri, FormatHint: tc.hint}, suite.player)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), SourceRemote, s.Kind)
		assert.Equal(suite.T(), tc.expected, s.Format, "uri %q hint %q", tc.uri, tc.hint)
	}
}

// TestNew_CacheDecision tests that only enabled caches on http sources are used
func (suite *SessionTestSuite) TestNew_CacheDecision() {
	s, err := New(messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8"}, suite.player)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), s.UseCache)

	s, err = New(messages.CreateMessage{URI: "file:///sdcard/a.mp4"}, suite.player)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), s.UseCache)

	s, err = New(messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8"}, options.PlayerOptions{})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), s.UseCache)
}

// TestNew_DefaultsWithoutMessages tests resolution when no option messages are sent
func (suite *SessionTestSuite) TestNew_DefaultsWithoutMessages() {
	s, err := New(messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8"}, suite.player)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), options.NewBufferOptions(0, false, true), s.Buffer)
	assert.Equal(suite.T(), options.DefaultLoadControlOptions(), s.LoadControl)
	assert.Equal(suite.T(), options.DefaultTrackSelectionOptions(), s.TrackSelection)
	assert.Equal(suite.T(), options.DefaultLoggerOptions(), s.Logs)
}

// TestNew_PassesOptionsThrough tests that sent values arrive unchanged
func (suite *SessionTestSuite) TestNew_PassesOptionsThrough() {
	msg := messages.CreateMessage{
		URI: "https://cdn.example.com/a.m3u8",
		BufferOptions: &messages.BufferOptionsMessage{
			PreferredForwardBufferDuration:       -3,
			AutomaticallyWaitsToMinimizeStalling: false,
			MinBufferMs:                          50000,
			MaxBufferMs:                          1000,
			BandwidthFraction:                    2,
		},
		LoggerOptions: &messages.LoggerOptionsMessage{EnableCacheDataSourceLogs: true},
	}

	s, err := New(msg, suite.player)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), options.NewBufferOptions(-3, false, false), s.Buffer)
	assert.Equal(suite.T(), int64(50000), s.LoadControl.MinBufferMs)
	assert.Equal(suite.T(), int64(1000), s.LoadControl.MaxBufferMs)
	assert.Equal(suite.T(), float64(2), s.TrackSelection.BandwidthFraction)
	assert.Equal(suite.T(), options.LoggerOptions{EnableCacheDataSourceLogs: true}, s.Logs)
}

// TestNew_CopiesInputs tests that later caller changes do not leak in
func (suite *SessionTestSuite) TestNew_CopiesInputs() {
	headers := map[string]string{"User-Agent": "demo/1.0"}
	player := suite.player

	s, err := New(messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8", HTTPHeaders: headers}, player)
	require.NoError(suite.T(), err)

	player.EnableCache = false
	player.CacheDirectory = "other"
	headers["User-Agent"] = "changed"

	assert.True(suite.T(), s.Player.EnableCache)
	assert.Equal(suite.T(), "streaming", s.Player.CacheDirectory)
	assert.Equal(suite.T(), "demo/1.0", s.UserAgent())
}

// TestRequestHeaders tests user agent and range handling
func (suite *SessionTestSuite) TestRequestHeaders() {
	s, err := New(messages.CreateMessage{
		URI:         "https://cdn.example.com/a.m3u8",
		HTTPHeaders: map[string]string{"Range": "bytes=0-"},
	}, suite.player)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "ExoPlayer", s.UserAgent())
	assert.NotContains(suite.T(), s.RequestHeaders("https://cdn.example.com/a.m3u8"), "Range")
	assert.Contains(suite.T(), s.RequestHeaders("https://cdn.example.com/a_1280_1.ts"), "Range")
}

// TestAssetKey tests lookup keys
func (suite *SessionTestSuite) TestAssetKey() {
	assert.Equal(suite.T(), "flutter_assets/a.mp4", AssetKey("a.mp4", ""))
	assert.Equal(suite.T(), "flutter_assets/packages/p/v/a.mp4", AssetKey("v/a.mp4", "p"))
	assert.Equal(suite.T(), "remote", SourceRemote.String())
	assert.Equal(suite.T(), "asset", SourceAsset.String())
	assert.Equal(suite.T(), "rtsp", SourceRTSP.String())
}

// TestCachedVariants tests variant lookup for the session's video
func (suite *SessionTestSuite) TestCachedVariants() {
	master, err := media.DecodeMasterPlaylist(strings.NewReader("#EXTM3U\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360\n3f2a-9c_640.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720\n3f2a-9c_1280.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080\n3f2a-9c_1920.m3u8\n"))
	require.NoError(suite.T(), err)

	idx := media.NewSegmentIndex()
	seg, err := media.ParseSegmentName("3f2a-9c_1280_0.ts")
	require.NoError(suite.T(), err)
	idx.Record(seg)

	uri := "https://cdn.example.com/v/3f2a-9c_master.m3u8"
	s, err := New(messages.CreateMessage{URI: uri}, suite.player)
	require.NoError(suite.T(), err)

	id, ok := s.VideoID()
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "3f2a-9c", id)

	cached := s.CachedVariants(idx, master, 0)
	require.Len(suite.T(), cached, 1)
	assert.Equal(suite.T(), "1280x720", cached[0].Resolution)
	assert.Empty(suite.T(), s.CachedVariants(idx, master, 1))
	assert.Nil(suite.T(), s.CachedVariants(nil, master, 0))

	// cache disabled
	s, err = New(messages.CreateMessage{URI: uri}, options.PlayerOptions{})
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), s.CachedVariants(idx, master, 0))

	// not HLS
	s, err = New(messages.CreateMessage{URI: uri, FormatHint: "dash"}, suite.player)
	require.NoError(suite.T(), err)
	_, ok = s.VideoID()
	assert.False(suite.T(), ok)
	assert.Nil(suite.T(), s.CachedVariants(idx, master, 0))

	s, err = New(messages.CreateMessage{Asset: "3f2a-9c_master.m3u8"}, suite.player)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), s.CachedVariants(idx, master, 0))
}

// TestLogFields tests the described configuration
func (suite *SessionTestSuite) TestLogFields() {
	s, err := New(messages.CreateMessage{URI: "https://cdn.example.com/a.m3u8"}, suite.player)
	require.NoError(suite.T(), err)

	fields := s.LogFields()
	assert.Equal(suite.T(), "https://cdn.example.com/a.m3u8", fields["uri"])
	assert.Equal(suite.T(), "remote", fields["source"])
	assert.Equal(suite.T(), "hls", fields["format"])
	assert.Equal(suite.T(), true, fields["useCache"])
	assert.Equal(suite.T(), "512 MiB", fields["maxCacheBytes"])
	assert.Equal(suite.T(), "10 MiB", fields["maxFileBytes"])
	assert.Equal(suite.T(), int64(15000), fields["minBufferMs"])

	s.Player.MaxFileBytes = -5000
	assert.Equal(suite.T(), "-5000 B", s.LogFields()["maxFileBytes"])
	assert.Contains(suite.T(), s.Player.String(), "maxFileBytes=-5000 B")

	s.Player.EnableCache = false
	assert.NotContains(suite.T(), s.LogFields(), "cacheDirectory")
}

// TestLog tests the info line
func (suite *SessionTestSuite) TestLog() {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	s, err := New(messages.CreateMessage{Asset: "a.mp4"}, options.PlayerOptions{})
	require.NoError(suite.T(), err)
	s.Log(l)

	var entry map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(suite.T(), "Player created", entry["msg"])
	assert.Equal(suite.T(), "info", entry["level"])
	assert.Equal(suite.T(), "asset", entry["source"])
	assert.NotContains(suite.T(), entry, "format")
}

// TestLogger tests component gating by the session's logger options
func (suite *SessionTestSuite) TestLogger() {
	s, err := New(messages.CreateMessage{
		URI:           "https://cdn.example.com/a.m3u8",
		LoggerOptions: &messages.LoggerOptionsMessage{EnableTransferListenerLogs: true},
	}, suite.player)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), s.Logger(logger.TransferListener).Enabled())
	assert.False(suite.T(), s.Logger(logger.CacheDataSource).Enabled())

	buf := &bytes.Buffer{}
	logger.GetLogger().SetOutput(buf)
	logger.GetLogger().SetLevel(logrus.DebugLevel)

	s.Logger(logger.CacheDataSource).Debugf("dropped")
	assert.Empty(suite.T(), buf.String())

	s.Logger(logger.TransferListener).Debugf("transferred %d", 1)
	assert.Contains(suite.T(), buf.String(), `"tag":"TransferListener"`)
	assert.Contains(suite.T(), buf.String(), `"uri":"https://cdn.example.com/a.m3u8"`)
}

// Run the test suite
func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
