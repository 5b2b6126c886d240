package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/jungletek/playeropts/pkg/options"
)

// Component tags
const (
	TransferListener       = "TransferListener"
	BandwidthListener      = "BandwidthListener"
	AdaptiveTrackSelection = "AdaptiveTrackSelection"
	CacheDataSource        = "CacheDataSource"
)

// Component is a logger for one player component that can be switched off.
// A disabled component drops every message.
type Component struct {
	entry   *logrus.Entry
	enabled bool
}

// NewComponent creates a component logger writing through base
func NewComponent(base *logrus.Logger, tag string, enabled bool) *Component {
	return &Component{
		entry:   base.WithField("tag", tag),
		enabled: enabled,
	}
}

// ForComponent creates a component logger on the global logger, switched by
// the matching flag of opts. Tags without a flag are always enabled.
func ForComponent(tag string, opts options.LoggerOptions) *Component {
	enabled := true
	switch tag {
	case TransferListener:
		enabled = opts.EnableTransferListenerLogs
	case BandwidthListener:
		enabled = opts.EnableBandwidthListenerLogs
	case AdaptiveTrackSelection:
		enabled = opts.EnableAdaptiveTrackSelectionLogs
	case CacheDataSource:
		enabled = opts.EnableCacheDataSourceLogs
	}
	return NewComponent(GetLogger(), tag, enabled)
}

// Enabled reports whether the component writes anything
func (c *Component) Enabled() bool {
	return c.enabled
}

// WithField returns a copy of the component carrying an extra field
func (c *Component) WithField(key string, value interface{}) *Component {
	return &Component{entry: c.entry.WithField(key, value), enabled: c.enabled}
}

func (c *Component) Debugf(format string, args ...interface{}) {
	if !c.enabled {
		return
	}
	c.entry.Debugf(format, args...)
}

func (c *Component) Warnf(format string, args ...interface{}) {
	if !c.enabled {
		return
	}
	c.entry.Warnf(format, args...)
}

func (c *Component) Errorf(err error, format string, args ...interface{}) {
	if !c.enabled {
		return
	}
	c.entry.WithError(err).Errorf(format, args...)
}

func (c *Component) Tracef(format string, args ...interface{}) {
	if !c.enabled {
		return
	}
	c.entry.Tracef(format, args...)
}
