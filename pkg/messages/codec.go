package messages

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/francoispqt/gojay"
)

// JSON keys follow the camelCase names used by the host side.
const (
	keyAsset         = "asset"
	keyURI           = "uri"
	keyPackageName   = "packageName"
	keyFormatHint    = "formatHint"
	keyHTTPHeaders   = "httpHeaders"
	keyBufferOptions = "bufferOptions"
	keyLoggerOptions = "loggerOptions"

	keyPreferredForwardBufferDuration                    = "preferredForwardBufferDuration"
	keyCanUseNetworkResourcesForLiveStreamingWhilePaused = "canUseNetworkResourcesForLiveStreamingWhilePaused"
	keyAutomaticallyWaitsToMinimizeStalling              = "automaticallyWaitsToMinimizeStalling"
	keyMinBufferMs                                       = "minBufferMs"
	keyMaxBufferMs                                       = "maxBufferMs"
	keyBufferForPlaybackMs                               = "bufferForPlaybackMs"
	keyBufferForPlaybackAfterRebufferMs                  = "bufferForPlaybackAfterRebufferMs"
	keyMinDurationForQualityIncreaseMs                   = "minDurationForQualityIncreaseMs"
	keyMaxDurationForQualityDecreaseMs                   = "maxDurationForQualityDecreaseMs"
	keyMinDurationToRetainAfterDiscardMs                 = "minDurationToRetainAfterDiscardMs"
	keyMaxWidthToDiscard                                 = "maxWidthToDiscard"
	keyMaxHeightToDiscard                                = "maxHeightToDiscard"
	keyBandwidthFraction                                 = "bandwidthFraction"
	keyBufferedFractionToLiveEdgeForQualityIncrease      = "bufferedFractionToLiveEdgeForQualityIncrease"

	keyEnableTransferListenerLogs       = "enableTransferListenerLogs"
	keyEnableBandwidthListenerLogs      = "enableBandwidthListenerLogs"
	keyEnableAdaptiveTrackSelectionLogs = "enableAdaptiveTrackSelectionLogs"
	keyEnableCacheDataSourceLogs        = "enableCacheDataSourceLogs"

	keyCacheDirectory = "cacheDirectory"
	keyMaxCacheBytes  = "maxCacheBytes"
	keyMaxFileBytes   = "maxFileBytes"
	keyEnableCache    = "enableCache"
)

// ErrMalformed is returned for input that is not one complete JSON value.
// gojay stops at the end of the object it reads, so truncated objects and
// trailing bytes are caught before decoding.
var ErrMalformed = errors.New("malformed JSON")

var (
	_ gojay.MarshalerJSONObject   = (*CreateMessage)(nil)
	_ gojay.UnmarshalerJSONObject = (*CreateMessage)(nil)
	_ gojay.MarshalerJSONObject   = (*CacheOptionsMessage)(nil)
	_ gojay.UnmarshalerJSONObject = (*CacheOptionsMessage)(nil)
)

// EncodeCreateMessage serializes a create request
func EncodeCreateMessage(m *CreateMessage) ([]byte, error) {
	data, err := gojay.MarshalJSONObject(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode create message: %w", err)
	}
	return data, nil
}

// DecodeCreateMessage parses a create request. Unknown keys are ignored.
func DecodeCreateMessage(data []byte) (*CreateMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode create message: %w", ErrMalformed)
	}
	var m CreateMessage
	if err := gojay.UnmarshalJSONObject(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode create message: %w", err)
	}
	return &m, nil
}

// EncodeCacheOptions serializes a cache options message
func EncodeCacheOptions(m *CacheOptionsMessage) ([]byte, error) {
	data, err := gojay.MarshalJSONObject(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache options: %w", err)
	}
	return data, nil
}

// DecodeCacheOptions parses a cache options message
func DecodeCacheOptions(data []byte) (*CacheOptionsMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode cache options: %w", ErrMalformed)
	}
	var m CacheOptionsMessage
	if err := gojay.UnmarshalJSONObject(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode cache options: %w", err)
	}
	return &m, nil
}

// CreateMessage

func (m *CreateMessage) IsNil() bool { return m == nil }

func (m *CreateMessage) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKeyOmitEmpty(keyAsset, m.Asset)
	enc.StringKeyOmitEmpty(keyURI, m.URI)
	enc.StringKeyOmitEmpty(keyPackageName, m.PackageName)
	enc.StringKeyOmitEmpty(keyFormatHint, m.FormatHint)
	enc.ObjectKeyOmitEmpty(keyHTTPHeaders, headerMap(m.HTTPHeaders))
	enc.ObjectKeyOmitEmpty(keyBufferOptions, m.BufferOptions)
	enc.ObjectKeyOmitEmpty(keyLoggerOptions, m.LoggerOptions)
}

func (m *CreateMessage) NKeys() int { return 0 }

func (m *CreateMessage) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case keyAsset:
		return dec.String(&m.Asset)
	case keyURI:
		return dec.String(&m.URI)
	case keyPackageName:
		return dec.String(&m.PackageName)
	case keyFormatHint:
		return dec.String(&m.FormatHint)
	case keyHTTPHeaders:
		headers := headerMap{}
		if err := dec.Object(headers); err != nil {
			return err
		}
		m.HTTPHeaders = headers
	case keyBufferOptions:
		return dec.ObjectNull(&m.BufferOptions)
	case keyLoggerOptions:
		return dec.ObjectNull(&m.LoggerOptions)
	}
	return nil
}

// BufferOptionsMessage

func (m *BufferOptionsMessage) IsNil() bool { return m == nil }

func (m *BufferOptionsMessage) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key(keyPreferredForwardBufferDuration, m.PreferredForwardBufferDuration)
	enc.BoolKey(keyCanUseNetworkResourcesForLiveStreamingWhilePaused, m.CanUseNetworkResourcesForLiveStreamingWhilePaused)
	enc.BoolKey(keyAutomaticallyWaitsToMinimizeStalling, m.AutomaticallyWaitsToMinimizeStalling)
	enc.Int64Key(keyMinBufferMs, m.MinBufferMs)
	enc.Int64Key(keyMaxBufferMs, m.MaxBufferMs)
	enc.Int64Key(keyBufferForPlaybackMs, m.BufferForPlaybackMs)
	enc.Int64Key(keyBufferForPlaybackAfterRebufferMs, m.BufferForPlaybackAfterRebufferMs)
	enc.Int64Key(keyMinDurationForQualityIncreaseMs, m.MinDurationForQualityIncreaseMs)
	enc.Int64Key(keyMaxDurationForQualityDecreaseMs, m.MaxDurationForQualityDecreaseMs)
	enc.Int64Key(keyMinDurationToRetainAfterDiscardMs, m.MinDurationToRetainAfterDiscardMs)
	enc.Int64Key(keyMaxWidthToDiscard, m.MaxWidthToDiscard)
	enc.Int64Key(keyMaxHeightToDiscard, m.MaxHeightToDiscard)
	enc.Float64Key(keyBandwidthFraction, m.BandwidthFraction)
	enc.Float64Key(keyBufferedFractionToLiveEdgeForQualityIncrease, m.BufferedFractionToLiveEdgeForQualityIncrease)
}

func (m *BufferOptionsMessage) NKeys() int { return 0 }

func (m *BufferOptionsMessage) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case keyPreferredForwardBufferDuration:
		return dec.Int64(&m.PreferredForwardBufferDuration)
	case keyCanUseNetworkResourcesForLiveStreamingWhilePaused:
		return dec.Bool(&m.CanUseNetworkResourcesForLiveStreamingWhilePaused)
	case keyAutomaticallyWaitsToMinimizeStalling:
		return dec.Bool(&m.AutomaticallyWaitsToMinimizeStalling)
	case keyMinBufferMs:
		return dec.Int64(&m.MinBufferMs)
	case keyMaxBufferMs:
		return dec.Int64(&m.MaxBufferMs)
	case keyBufferForPlaybackMs:
		return dec.Int64(&m.BufferForPlaybackMs)
	case keyBufferForPlaybackAfterRebufferMs:
		return dec.Int64(&m.BufferForPlaybackAfterRebufferMs)
	case keyMinDurationForQualityIncreaseMs:
		return dec.Int64(&m.MinDurationForQualityIncreaseMs)
	case keyMaxDurationForQualityDecreaseMs:
		return dec.Int64(&m.MaxDurationForQualityDecreaseMs)
	case keyMinDurationToRetainAfterDiscardMs:
		return dec.Int64(&m.MinDurationToRetainAfterDiscardMs)
	case keyMaxWidthToDiscard:
		return dec.Int64(&m.MaxWidthToDiscard)
	case keyMaxHeightToDiscard:
		return dec.Int64(&m.MaxHeightToDiscard)
	case keyBandwidthFraction:
		return dec.Float64(&m.BandwidthFraction)
	case keyBufferedFractionToLiveEdgeForQualityIncrease:
		return dec.Float64(&m.BufferedFractionToLiveEdgeForQualityIncrease)
	}
	return nil
}

// LoggerOptionsMessage

func (m *LoggerOptionsMessage) IsNil() bool { return m == nil }

func (m *LoggerOptionsMessage) MarshalJSONObject(enc *gojay.Encoder) {
	enc.BoolKey(keyEnableTransferListenerLogs, m.EnableTransferListenerLogs)
	enc.BoolKey(keyEnableBandwidthListenerLogs, m.EnableBandwidthListenerLogs)
	enc.BoolKey(keyEnableAdaptiveTrackSelectionLogs, m.EnableAdaptiveTrackSelectionLogs)
	enc.BoolKey(keyEnableCacheDataSourceLogs, m.EnableCacheDataSourceLogs)
}

func (m *LoggerOptionsMessage) NKeys() int { return 0 }

func (m *LoggerOptionsMessage) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case keyEnableTransferListenerLogs:
		return dec.Bool(&m.EnableTransferListenerLogs)
	case keyEnableBandwidthListenerLogs:
		return dec.Bool(&m.EnableBandwidthListenerLogs)
	case keyEnableAdaptiveTrackSelectionLogs:
		return dec.Bool(&m.EnableAdaptiveTrackSelectionLogs)
	case keyEnableCacheDataSourceLogs:
		return dec.Bool(&m.EnableCacheDataSourceLogs)
	}
	return nil
}

// CacheOptionsMessage

func (m *CacheOptionsMessage) IsNil() bool { return m == nil }

func (m *CacheOptionsMessage) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey(keyCacheDirectory, m.CacheDirectory)
	enc.Int64Key(keyMaxCacheBytes, m.MaxCacheBytes)
	enc.Int64Key(keyMaxFileBytes, m.MaxFileBytes)
	enc.BoolKey(keyEnableCache, m.EnableCache)
}

func (m *CacheOptionsMessage) NKeys() int { return 0 }

func (m *CacheOptionsMessage) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case keyCacheDirectory:
		return dec.String(&m.CacheDirectory)
	case keyMaxCacheBytes:
		return dec.Int64(&m.MaxCacheBytes)
	case keyMaxFileBytes:
		return dec.Int64(&m.MaxFileBytes)
	case keyEnableCache:
		return dec.Bool(&m.EnableCache)
	}
	return nil
}

// headerMap is the JSON object form of the request headers.
type headerMap map[string]string

func (h headerMap) IsNil() bool { return len(h) == 0 }

func (h headerMap) MarshalJSONObject(enc *gojay.Encoder) {
	for k, v := range h {
		enc.StringKey(k, v)
	}
}

func (h headerMap) NKeys() int { return 0 }

func (h headerMap) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	var v string
	if err := dec.String(&v); err != nil {
		return err
	}
	h[key] = v
	return nil
}
