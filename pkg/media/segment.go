package media

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
)

var (
	// ErrSegmentName is returned when a file name is not <video>_<variant>_<index>.ts
	ErrSegmentName = errors.New("segment name does not match <video>_<variant>_<index>.ts")
	// ErrVariantResolution is returned when a variant has no usable RESOLUTION attribute
	ErrVariantResolution = errors.New("variant has no WIDTHxHEIGHT resolution")
	// ErrNotMasterPlaylist is returned when a playlist is a media playlist
	ErrNotMasterPlaylist = errors.New("not a master playlist")
)

var segmentNameRegex = regexp.MustCompile(`^([a-f0-9\-]+)_([0-9]+)_([0-9]+)\.ts$`)

// Segment identifies one stored HLS segment
type Segment struct {
	VideoID string
	Variant string
	Index   int
}

// ParseSegmentName splits a segment file name into its parts
func ParseSegmentName(name string) (Segment, error) {
	match := segmentNameRegex.FindStringSubmatch(name)
	if match == nil {
		return Segment{}, fmt.Errorf("%w: %q", ErrSegmentName, name)
	}

	index, err := strconv.Atoi(match[3])
	if err != nil {
		return Segment{}, fmt.Errorf("%w: %q: %v", ErrSegmentName, name, err)
	}

	return Segment{VideoID: match[1], Variant: match[2], Index: index}, nil
}

// ParseSegmentURI parses the last path segment of a segment URI
func ParseSegmentURI(uri string) (Segment, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Segment{}, err
	}
	return ParseSegmentName(path.Base(u.Path))
}

// VideoIDFromPlaylistURL extracts the video ID from a playlist URL such as
// https://cdn/abc-123_master.m3u8. The text after the last underscore is
// dropped unless the underscore is the first character.
func VideoIDFromPlaylistURL(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}

	for _, part := range strings.Split(u.Path, "/") {
		if !strings.HasSuffix(part, ".m3u8") {
			continue
		}
		filename := strings.SplitN(part, ".", 2)[0]
		if i := strings.LastIndex(filename, "_"); i > 0 {
			return filename[:i], true
		}
		return filename, true
	}
	return "", false
}

// VariantKey returns the width of a variant, which is how stored segments
// are grouped per variant
func VariantKey(v *m3u8.Variant) (string, error) {
	if v == nil {
		return "", ErrVariantResolution
	}
	width, height, ok := strings.Cut(v.Resolution, "x")
	if !ok || width == "" || height == "" {
		return "", fmt.Errorf("%w: %q", ErrVariantResolution, v.Resolution)
	}
	if _, err := strconv.Atoi(width); err != nil {
		return "", fmt.Errorf("%w: %q", ErrVariantResolution, v.Resolution)
	}
	return width, nil
}

// DecodeMasterPlaylist parses a master playlist
func DecodeMasterPlaylist(r io.Reader) (*m3u8.MasterPlaylist, error) {
	playlist, _, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, err
	}

	master, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, ErrNotMasterPlaylist
	}
	return master, nil
}
