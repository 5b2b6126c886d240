package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jungletek/playeropts/pkg/config"
	"github.com/jungletek/playeropts/pkg/logger"
	"github.com/jungletek/playeropts/pkg/messages"
	"github.com/jungletek/playeropts/pkg/session"
)

func main() {
	args := config.MustParseArgs()

	// config.json is looked up next to the binary
	configPath := args.ConfigPath
	if configPath == "" {
		scriptDir, err := getScriptDir()
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to locate config")
			os.Exit(1)
		}
		configPath = filepath.Join(scriptDir, config.DefaultConfigPath)
	}

	cfg, err := config.Load(configPath, args)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to parse config/args")
		os.Exit(1)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to set log level")
		os.Exit(1)
	}

	log := logger.GetLogger()
	log.WithField("player", cfg.Player.String()).
		WithField("buffer", cfg.Buffer.String()).
		WithField("cachePath", cfg.CachePath()).
		Debug("Configuration loaded")

	idx, err := cfg.SegmentIndex()
	if err != nil {
		log.WithError(err).Error("Failed to index cached segments")
		os.Exit(1)
	}
	master, err := cfg.Master()
	if err != nil {
		log.WithError(err).Error("Failed to read master playlist")
		os.Exit(1)
	}

	msgs := make([]messages.CreateMessage, 0, len(cfg.Messages)+len(cfg.URIs))
	for _, m := range cfg.Messages {
		msgs = append(msgs, *m)
	}
	for _, source := range cfg.URIs {
		msgs = append(msgs, cfg.CreateMessage(source))
	}

	total := len(msgs)
	failed := 0
	for i, msg := range msgs {
		s, err := session.New(msg, cfg.Player)
		if err != nil {
			failed++
			logger.WrapError(err, map[string]interface{}{
				"uri":      msg.URI,
				"asset":    msg.Asset,
				"item_num": i + 1,
				"total":    total,
			})
			continue
		}
		s.Log(log)

		if master != nil {
			var cached []string
			for _, v := range s.CachedVariants(idx, master, 0) {
				cached = append(cached, v.Resolution)
			}
			s.Logger(logger.CacheDataSource).
				WithField("variants", cached).
				Debugf("%d of %d variants cached", len(cached), len(master.Variants))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// getScriptDir returns the directory of the binary, or of this file when run
// with go run
func getScriptDir() (string, error) {
	var (
		ok    bool
		err   error
		fname string
	)

	if wasRunFromSrc() {
		_, fname, _, ok = runtime.Caller(0)
		if !ok {
			return "", fmt.Errorf("failed to get script filename")
		}
	} else {
		fname, err = os.Executable()
		if err != nil {
			return "", err
		}
	}

	return filepath.Dir(fname), nil
}

// wasRunFromSrc checks if the program was run from source
func wasRunFromSrc() bool {
	buildPath := filepath.Join(os.TempDir(), "go-build")
	return strings.HasPrefix(os.Args[0], buildPath)
}
